package apiv1

import (
	"doc-flow-backend/controllers"
	workflowhandler "doc-flow-backend/lib/workflow"
	"doc-flow-backend/middleware"
	apimodels "doc-flow-backend/models/api"
	approvalapimodels "doc-flow-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type workflowApiController struct {
	controllers.BaseAPIController
}

func InitWorkflowApiRouters(app *fiber.App) {
	controller := workflowApiController{}
	app.Route("workflow", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get("/:id", controller.get)
		admin := router.Use(middleware.SpaceAdminRequired())
		admin.Post("", controller.save)
		admin.Put("/:id/activate", controller.activate)
		admin.Put("/:id/deactivate", controller.deactivate)
	})
}

// @Summary Сохранить процесс согласования
// @Tags Процессы согласования
// @Description Сохранить процесс согласования с этапами и участниками
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body				body	approvalapimodels.WorkflowData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow [post]
func (c *workflowApiController) save(ctx *fiber.Ctx) error {
	var payload approvalapimodels.WorkflowData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, hMsg, err := workflowhandler.Instance.Save(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения процесса согласования")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список процессов согласования
// @Tags Процессы согласования
// @Description Список процессов согласования спейса
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.WorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow [get]
func (c *workflowApiController) list(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	list, err := workflowhandler.Instance.List(spaceID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка процессов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Процесс согласования
// @Tags Процессы согласования
// @Description Процесс согласования с этапами
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.WorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow/{id} [get]
func (c *workflowApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	item, hMsg, err := workflowhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения процесса")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Активировать процесс
// @Tags Процессы согласования
// @Description Сделать процесс действующим для его типа документов
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow/{id}/activate [put]
func (c *workflowApiController) activate(ctx *fiber.Ctx) error {
	return c.setActive(ctx, true)
}

// @Summary Деактивировать процесс
// @Tags Процессы согласования
// @Description Остановить использование процесса для новых подач
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow/{id}/deactivate [put]
func (c *workflowApiController) deactivate(ctx *fiber.Ctx) error {
	return c.setActive(ctx, false)
}

func (c *workflowApiController) setActive(ctx *fiber.Ctx, isActive bool) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	if err = workflowhandler.Instance.SetActive(spaceID, id, isActive); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения статуса процесса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
