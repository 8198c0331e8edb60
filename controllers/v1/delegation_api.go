package apiv1

import (
	"doc-flow-backend/controllers"
	delegationhandler "doc-flow-backend/lib/delegation"
	"doc-flow-backend/middleware"
	apimodels "doc-flow-backend/models/api"
	approvalapimodels "doc-flow-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type delegationApiController struct {
	controllers.BaseAPIController
}

func InitDelegationApiRouters(app *fiber.App) {
	controller := delegationApiController{}
	app.Route("delegation", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Delete("/:id", controller.deactivate)
	})
}

// @Summary Создать замещение
// @Tags Замещения
// @Description Назначить замещающего согласующего на период
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body				body	approvalapimodels.DelegationData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/delegation [post]
func (c *delegationApiController) create(ctx *fiber.Ctx) error {
	var payload approvalapimodels.DelegationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, hMsg, err := delegationhandler.Instance.Create(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания замещения")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список замещений
// @Tags Замещения
// @Description Список замещений, опционально по замещаемому сотруднику
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   from_user_id		query	string	false	"замещаемый сотрудник"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.DelegationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/delegation [get]
func (c *delegationApiController) list(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	fromUserID := ctx.Query("from_user_id")
	list, err := delegationhandler.Instance.List(spaceID, fromUserID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка замещений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Отменить замещение
// @Tags Замещения
// @Description Досрочно прекратить действие замещения
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/delegation/{id} [delete]
func (c *delegationApiController) deactivate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	if err = delegationhandler.Instance.Deactivate(spaceID, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены замещения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
