package apiv1

import (
	"fmt"
	"time"

	"doc-flow-backend/controllers"
	approvalhandler "doc-flow-backend/lib/approval"
	"doc-flow-backend/lib/approval/approvalerrs"
	pdfexport "doc-flow-backend/lib/export/pdf"
	xlsexport "doc-flow-backend/lib/export/xls"
	signaturehandler "doc-flow-backend/lib/signature"
	submissionhandler "doc-flow-backend/lib/submission"
	"doc-flow-backend/middleware"
	"doc-flow-backend/models"
	apimodels "doc-flow-backend/models/api"
	approvalapimodels "doc-flow-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type submissionApprovalsApiController struct {
	controllers.BaseAPIController
}

func InitSubmissionApprovalsApiRouters(app *fiber.App) {
	controller := submissionApprovalsApiController{}
	app.Route("approval", func(router fiber.Router) {
		router.Get("inbox", controller.inbox)
		router.Post("/:id/approve", controller.approve)
		router.Post("/:id/reject", controller.reject)
		router.Post("/:id/to_revision", controller.toRevision)
		router.Get("/:id/tasks", controller.tasks)
		router.Get("/:id/history", controller.history)
		router.Put("/:id/history/export", controller.exportHistory)
		router.Get("/:id/approval_sheet", controller.approvalSheet)
		router.Post("/:id/request_signature", controller.requestSignature)
		router.Get("/:id/signatures", controller.signatures)
	})
}

// @Summary Входящие согласования
// @Tags Согласование документов
// @Description Документы, ожидающие решения текущего пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.InboxItemView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/inbox [get]
func (c *submissionApprovalsApiController) inbox(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	list, err := approvalhandler.Instance.Inbox(spaceID, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения входящих согласований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Согласовать документ
// @Tags Согласование документов
// @Description Согласовать документ на текущем этапе
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body				body	approvalapimodels.ActionData	false	"request body"
// @Param   id          		path    string							true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ActionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/approve [post]
func (c *submissionApprovalsApiController) approve(ctx *fiber.Ctx) error {
	return c.action(ctx, models.ActionApprove, "Ошибка согласования документа")
}

// @Summary Отклонить документ
// @Tags Согласование документов
// @Description Отклонить документ, согласование завершается
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body				body	approvalapimodels.ActionData	true	"request body"
// @Param   id          		path    string							true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ActionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/reject [post]
func (c *submissionApprovalsApiController) reject(ctx *fiber.Ctx) error {
	return c.action(ctx, models.ActionReject, "Ошибка отклонения документа")
}

// @Summary Вернуть на доработку
// @Tags Согласование документов
// @Description Вернуть документ автору на доработку
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body				body	approvalapimodels.ActionData	true	"request body"
// @Param   id          		path    string							true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ActionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/to_revision [post]
func (c *submissionApprovalsApiController) toRevision(ctx *fiber.Ctx) error {
	return c.action(ctx, models.ActionReturn, "Ошибка возврата документа на доработку")
}

func (c *submissionApprovalsApiController) action(ctx *fiber.Ctx, action models.ApprovalAction, errMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ActionData
	if len(ctx.Body()) > 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	payload.Action = action
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	result, hMsg, err := approvalhandler.Instance.ProcessAction(ctx.Context(), spaceID, userID, id, payload)
	if err != nil {
		if errors.Is(err, approvalerrs.ErrLockBusy) {
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, errMsg)
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Задачи текущего этапа
// @Tags Согласование документов
// @Description Список согласующих текущего этапа документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalTaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/tasks [get]
func (c *submissionApprovalsApiController) tasks(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := approvalhandler.Instance.StageTasks(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения задач согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Журнал решений
// @Tags Согласование документов
// @Description Журнал решений по документу за все круги согласования
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/history [get]
func (c *submissionApprovalsApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := approvalhandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала решений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Выгрузить журнал решений в Excel
// @Tags Согласование документов
// @Description Выгрузить журнал решений в Excel
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/history/export [put]
func (c *submissionApprovalsApiController) exportHistory(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := approvalhandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала решений для выгрузки")
	}
	data, err := xlsexport.Instance.ExportHistory(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования выгрузки в Excel")
	}
	fileName := fmt.Sprintf("history-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Лист согласования
// @Tags Согласование документов
// @Description Лист согласования документа в PDF
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/approval_sheet [get]
func (c *submissionApprovalsApiController) approvalSheet(ctx *fiber.Ctx) error {
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
	history, err := approvalhandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала решений")
	}
	pdfFile, err := pdfexport.GenerateApprovalSheet(*view, history)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования листа согласования")
	}
	fileName := fmt.Sprintf("approval-sheet-%v.pdf", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Send(pdfFile)
}

// @Summary Запрос подписания
// @Tags Согласование документов
// @Description Запрос подписания текущего этапа, после сбоя открывает новую сессию
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/request_signature [post]
func (c *submissionApprovalsApiController) requestSignature(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	requestID, hMsg, err := signaturehandler.Instance.RequestForStage(ctx.Context(), spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка запроса подписания")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(requestID))
}

// @Summary Сессии подписания
// @Tags Согласование документов
// @Description Сессии подписания документа
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/approval/{id}/signatures [get]
func (c *submissionApprovalsApiController) signatures(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := signaturehandler.Instance.ListBySubmission(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сессий подписания")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
