package triggerconsumers

import (
	"context"

	docnumberhandler "doc-flow-backend/lib/doc-number"
	"doc-flow-backend/lib/trigger"

	log "github.com/sirupsen/logrus"
)

// DocNumberConsumer присваивает регистрационный номер при подаче документа
type DocNumberConsumer struct{}

func (c DocNumberConsumer) GetName() string {
	return "doc-number"
}

func (c DocNumberConsumer) Handle(ctx context.Context, event trigger.Event) {
	number, err := docnumberhandler.Instance.AssignNumber(event.SpaceID, event.SubmissionID)
	if err != nil {
		log.WithError(err).
			WithField("submission_id", event.SubmissionID).
			Error("не удалось присвоить номер документу")
		return
	}
	if number != "" {
		log.WithField("submission_id", event.SubmissionID).
			Infof("документу присвоен номер %v", number)
	}
}
