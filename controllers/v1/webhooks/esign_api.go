package webhooksapi

import (
	"encoding/base64"

	"doc-flow-backend/controllers"
	signaturehandler "doc-flow-backend/lib/signature"
	apimodels "doc-flow-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type esignWebhookController struct {
	controllers.BaseAPIController
}

func InitEsignWebhookApiRouters(app *fiber.App) {
	controller := esignWebhookController{}
	app.Route("esign", func(router fiber.Router) {
		router.Post("callback", controller.callback)
	})
}

// EsignCallback колбек провайдера подписания
type EsignCallback struct {
	RequestID  string `json:"request_id"`
	Status     string `json:"status"` // completed/failed
	Reason     string `json:"reason"`
	FileName   string `json:"file_name"`
	FileBase64 string `json:"file_base64"`
}

func (e EsignCallback) Validate() error {
	if e.RequestID == "" {
		return errors.New("не указан идентификатор сессии подписания")
	}
	if e.Status != "completed" && e.Status != "failed" {
		return errors.Errorf("неизвестный статус подписания: %v", e.Status)
	}
	return nil
}

// @Summary Колбек провайдера подписания
// @Tags Webhooks. Подписание
// @Description Итог сессии подписания от внешнего провайдера
// @Param	body	body	EsignCallback	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/webhooks/esign/callback [post]
func (c *esignWebhookController) callback(ctx *fiber.Ctx) error {
	var payload EsignCallback
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var hMsg string
	var err error
	if payload.Status == "completed" {
		var signedDoc []byte
		if payload.FileBase64 != "" {
			signedDoc, err = base64.StdEncoding.DecodeString(payload.FileBase64)
			if err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось декодировать подписанный файл"))
			}
		}
		hMsg, err = signaturehandler.Instance.OnComplete(ctx.Context(), payload.RequestID, payload.FileName, signedDoc)
	} else {
		hMsg, err = signaturehandler.Instance.OnFail(ctx.Context(), payload.RequestID, payload.Reason)
	}
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обработки колбека подписания")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
