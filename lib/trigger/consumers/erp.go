package triggerconsumers

import (
	"context"
	"time"

	"doc-flow-backend/db"
	erpclient "doc-flow-backend/lib/erp"
	submissionstore "doc-flow-backend/lib/submission/store"
	"doc-flow-backend/lib/trigger"
	"doc-flow-backend/models"

	log "github.com/sirupsen/logrus"
)

// ErpConsumer передает итогово согласованный документ в учетную систему
type ErpConsumer struct {
	submissionStore submissionstore.Provider
}

func NewErpConsumer() ErpConsumer {
	return ErpConsumer{
		submissionStore: submissionstore.NewInstance(db.DB),
	}
}

func (c ErpConsumer) GetName() string {
	return "erp-push"
}

func (c ErpConsumer) Handle(ctx context.Context, event trigger.Event) {
	logger := log.WithField("submission_id", event.SubmissionID)
	rec, err := c.submissionStore.GetByID(event.SpaceID, event.SubmissionID)
	if err != nil || rec == nil {
		logger.WithError(err).Error("не найден документ для передачи в учетную систему")
		return
	}
	if rec.Status != models.DocStatusApproved {
		return
	}
	err = erpclient.Instance.PushApproved(ctx, erpclient.ApprovedDocPayload{
		SubmissionID: rec.ID,
		SpaceID:      rec.SpaceID,
		DocType:      rec.DocType,
		DocNumber:    rec.DocNumber,
		Title:        rec.Title,
		Data:         rec.Data,
		ApprovedAt:   time.Now(),
	})
	if err != nil {
		logger.WithError(err).Error("передача документа в учетную систему не удалась")
	}
}
