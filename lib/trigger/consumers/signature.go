package triggerconsumers

import (
	"context"

	signaturehandler "doc-flow-backend/lib/signature"
	"doc-flow-backend/lib/trigger"

	log "github.com/sirupsen/logrus"
)

// SignRequestConsumer запрашивает подписание при активации этапа с подписью
type SignRequestConsumer struct{}

func (c SignRequestConsumer) GetName() string {
	return "sign-request"
}

func (c SignRequestConsumer) Handle(ctx context.Context, event trigger.Event) {
	_, err := signaturehandler.Instance.Request(ctx, event.SpaceID, event.SubmissionID, event.StageID)
	if err != nil {
		log.WithError(err).
			WithField("submission_id", event.SubmissionID).
			Error("не удалось запросить подписание документа")
	}
}
