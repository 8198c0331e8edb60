package apiv1

import (
	"fmt"
	"time"

	"doc-flow-backend/controllers"
	approvalhandler "doc-flow-backend/lib/approval"
	"doc-flow-backend/lib/approval/approvalerrs"
	xlsexport "doc-flow-backend/lib/export/xls"
	submissionhandler "doc-flow-backend/lib/submission"
	"doc-flow-backend/middleware"
	apimodels "doc-flow-backend/models/api"
	approvalapimodels "doc-flow-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type submissionApiController struct {
	controllers.BaseAPIController
}

func InitSubmissionApiRouters(app *fiber.App) {
	controller := submissionApiController{}
	app.Route("submission", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Put("list/export", controller.exportList)
		router.Get("/:id", controller.get)
		router.Put("/:id", controller.update)
		router.Post("/:id/submit", controller.submit)
	})
}

// @Summary Создать документ
// @Tags Документы
// @Description Создать черновик документа
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body				body	approvalapimodels.SubmissionCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/submission [post]
func (c *submissionApiController) create(ctx *fiber.Ctx) error {
	var payload approvalapimodels.SubmissionCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, hMsg, err := submissionhandler.Instance.Create(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания документа")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список документов
// @Tags Документы
// @Description Список документов спейса с фильтром
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body				body	approvalapimodels.SubmissionFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.SubmissionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/submission/list [post]
func (c *submissionApiController) list(ctx *fiber.Ctx) error {
	var payload approvalapimodels.SubmissionFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := submissionhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Выгрузить реестр документов в Excel
// @Tags Документы
// @Description Выгрузить реестр документов в Excel
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body				body	approvalapimodels.SubmissionFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/submission/list/export [put]
func (c *submissionApiController) exportList(ctx *fiber.Ctx) error {
	var payload approvalapimodels.SubmissionFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	payload.Limit = 1000
	payload.Page = 1
	list, _, err := submissionhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документов для выгрузки в Excel")
	}
	data, err := xlsexport.Instance.ExportSubmissionList(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования выгрузки в Excel")
	}
	fileName := fmt.Sprintf("submissions-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Карточка документа
// @Tags Документы
// @Description Карточка документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.SubmissionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/submission/{id} [get]
func (c *submissionApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	view, err := submissionhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	if view == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("документ не найден"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Изменить документ
// @Tags Документы
// @Description Изменить название и данные документа до подачи
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body				body	approvalapimodels.SubmissionEditData	true	"request body"
// @Param   id          		path    string									true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/submission/{id} [put]
func (c *submissionApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.SubmissionEditData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	hMsg, err := submissionhandler.Instance.Update(spaceID, userID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения документа")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Подать документ
// @Tags Документы
// @Description Подать документ на согласование
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ActionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/submission/{id}/submit [post]
func (c *submissionApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	result, hMsg, err := approvalhandler.Instance.Submit(ctx.Context(), spaceID, userID, id)
	if err != nil {
		if errors.Is(err, approvalerrs.ErrLockBusy) {
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подачи документа")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
