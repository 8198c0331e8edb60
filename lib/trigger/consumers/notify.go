package triggerconsumers

import (
	"context"
	"fmt"
	"time"

	"doc-flow-backend/db"
	taskstore "doc-flow-backend/lib/approval/task-store"
	"doc-flow-backend/lib/smtp"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	submissionstore "doc-flow-backend/lib/submission/store"
	"doc-flow-backend/lib/trigger"
	connectionhub "doc-flow-backend/lib/ws/hub"
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"
	wsmodels "doc-flow-backend/models/ws"

	log "github.com/sirupsen/logrus"
)

// NotifyConsumer уведомления участникам согласования:
// письма и пуши согласующим при активации этапа, автору - об итоге
type NotifyConsumer struct {
	submissionStore submissionstore.Provider
	taskStore       taskstore.Provider
	spaceUsersStore spaceusersstore.Provider
}

func NewNotifyConsumer() NotifyConsumer {
	return NotifyConsumer{
		submissionStore: submissionstore.NewInstance(db.DB),
		taskStore:       taskstore.NewInstance(db.DB),
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
	}
}

func (c NotifyConsumer) GetName() string {
	return "notify"
}

func (c NotifyConsumer) Handle(ctx context.Context, event trigger.Event) {
	logger := log.WithField("submission_id", event.SubmissionID).
		WithField("event", event.Event)
	rec, err := c.submissionStore.GetByID(event.SpaceID, event.SubmissionID)
	if err != nil || rec == nil {
		logger.WithError(err).Error("не найден документ для уведомления")
		return
	}
	switch event.Event {
	case models.TriggerStageActivated:
		c.notifyApprovers(event, rec)
	case models.TriggerApproved:
		c.notifyAuthor(rec, fmt.Sprintf("Документ \"%s\" согласован", rec.Title))
	case models.TriggerRejected:
		c.notifyAuthor(rec, fmt.Sprintf("Документ \"%s\" отклонен", rec.Title))
	case models.TriggerReturned:
		c.notifyAuthor(rec, fmt.Sprintf("Документ \"%s\" возвращен на доработку", rec.Title))
	}
}

func (c NotifyConsumer) notifyApprovers(event trigger.Event, rec *dbmodels.DocSubmission) {
	tasks, err := c.taskStore.ListByStage(event.SpaceID, rec.ID, event.StageID, rec.Cycle)
	if err != nil {
		log.WithError(err).Error("не удалось получить задачи этапа для уведомления")
		return
	}
	for _, task := range tasks {
		if task.State != models.TaskStatePending {
			continue
		}
		c.push(task.AssigneeUserID, wsmodels.CodeInboxUpdated,
			fmt.Sprintf("Документ \"%s\" ожидает вашего решения", rec.Title))
		user, err := c.spaceUsersStore.GetByID(task.AssigneeUserID)
		if err != nil || user == nil {
			continue
		}
		message := fmt.Sprintf("Документ \"%s\" поступил на согласование.", rec.Title)
		if task.Substituted() {
			message += "\r\nВы назначены как замещающий согласующий."
		}
		if err = smtp.Instance.SendEMail(user.Email, "документ на согласовании", message); err != nil {
			log.WithError(err).WithField("recipient", user.Email).
				Error("не удалось уведомить согласующего")
		}
	}
}

func (c NotifyConsumer) notifyAuthor(rec *dbmodels.DocSubmission, message string) {
	c.push(rec.AuthorID, wsmodels.CodeDocStatus, message)
	author, err := c.spaceUsersStore.GetByID(rec.AuthorID)
	if err != nil || author == nil {
		log.WithError(err).WithField("submission_id", rec.ID).
			Error("не найден автор документа для уведомления")
		return
	}
	if err = smtp.Instance.SendEMail(author.Email, "итог согласования", message); err != nil {
		log.WithError(err).WithField("recipient", author.Email).
			Error("не удалось уведомить автора")
	}
}

func (c NotifyConsumer) push(userID, code, msg string) {
	connectionhub.Instance.SendMessage(wsmodels.ServerMessage{
		ToUserID: userID,
		Time:     time.Now().Format("02.01.2006 15:04:05"),
		Code:     code,
		Msg:      msg,
	})
}
