package apiv1

import (
	"doc-flow-backend/controllers"
	spaceusershandler "doc-flow-backend/lib/space/users"
	"doc-flow-backend/middleware"
	apimodels "doc-flow-backend/models/api"
	spaceapimodels "doc-flow-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type spaceUserApiController struct {
	controllers.BaseAPIController
}

func InitSpaceUserRouters(app *fiber.App) {
	controller := spaceUserApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Use(middleware.SpaceAdminRequired()).Post("", controller.create)
		router.Get("/:id", controller.get)
	})
}

// @Summary Добавить сотрудника
// @Tags Сотрудники
// @Description Добавить сотрудника спейса
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body				body	spaceapimodels.SpaceUserData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users [post]
func (c *spaceUserApiController) create(ctx *fiber.Ctx) error {
	var payload spaceapimodels.SpaceUserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, hMsg, err := spaceusershandler.Instance.Create(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления сотрудника")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Карточка сотрудника
// @Tags Сотрудники
// @Description Карточка сотрудника
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.SpaceUserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/users/{id} [get]
func (c *spaceUserApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := spaceusershandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	if view == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("сотрудник не найден"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
