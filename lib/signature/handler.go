package signaturehandler

import (
	"context"
	"fmt"

	"doc-flow-backend/config"
	"doc-flow-backend/db"
	approvalhandler "doc-flow-backend/lib/approval"
	filestorage "doc-flow-backend/lib/file-storage"
	signaturestore "doc-flow-backend/lib/signature/store"
	"doc-flow-backend/lib/smtp"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	submissionstore "doc-flow-backend/lib/submission/store"
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Request запрашивает подписание документа на этапе.
	// Для этапа с незавершенной сессией повторный запрос не создается
	Request(ctx context.Context, spaceID, submissionID, stageID string) (requestID string, err error)
	// RequestForStage запрос подписания текущего этапа по инициативе пользователя.
	// После сбойной сессии открывает новую, для действующей повторно шлет ссылку
	RequestForStage(ctx context.Context, spaceID, submissionID, requestedBy string) (requestID string, hMsg string, err error)
	// OnComplete колбек провайдера об успешном подписании,
	// подписанный файл сохраняется, согласование возобновляется
	OnComplete(ctx context.Context, requestID, fileName string, signedDoc []byte) (hMsg string, err error)
	// OnFail колбек провайдера о сбое подписания
	OnFail(ctx context.Context, requestID, reason string) (hMsg string, err error)
	ListBySubmission(spaceID, submissionID string) (list []dbmodels.SignatureRequest, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:           signaturestore.NewInstance(db.DB),
		submissionStore: submissionstore.NewInstance(db.DB),
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store           signaturestore.Provider
	submissionStore submissionstore.Provider
	spaceUsersStore spaceusersstore.Provider
}

func (i impl) Request(ctx context.Context, spaceID, submissionID, stageID string) (string, error) {
	existing, err := i.store.GetRequested(spaceID, submissionID, stageID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.RequestID, nil
	}
	submission, err := i.submissionStore.GetByID(spaceID, submissionID)
	if err != nil {
		return "", err
	}
	if submission == nil {
		return "", errors.Errorf("документ %v не найден", submissionID)
	}
	if submission.SignatureStatus == models.SignStatusSigned {
		return "", nil
	}
	return i.openSession(submission, stageID, submission.AuthorID)
}

func (i impl) RequestForStage(ctx context.Context, spaceID, submissionID, requestedBy string) (requestID string, hMsg string, err error) {
	submission, err := i.submissionStore.GetByID(spaceID, submissionID)
	if err != nil {
		return "", "", err
	}
	if submission == nil {
		return "", "документ не найден", nil
	}
	if !submission.Status.AllowAction() || submission.StageID == nil {
		return "", "документ не находится на согласовании", nil
	}
	switch submission.SignatureStatus {
	case models.SignStatusNotRequired:
		return "", "для текущего этапа подписание не требуется", nil
	case models.SignStatusSigned:
		return "", "документ уже подписан", nil
	}
	existing, err := i.store.GetRequested(spaceID, submissionID, *submission.StageID)
	if err != nil {
		return "", "", err
	}
	if existing != nil {
		// сессия действует, подписанту повторно отправляется ссылка
		i.sendSignLink(submission, existing.RequestID)
		return existing.RequestID, "", nil
	}
	requestID, err = i.openSession(submission, *submission.StageID, requestedBy)
	if err != nil {
		return "", "", err
	}
	if submission.SignatureStatus == models.SignStatusFailed {
		err = i.submissionStore.Update(spaceID, submission.ID, map[string]interface{}{
			"signature_status": models.SignStatusPending,
		})
		if err != nil {
			return "", "", err
		}
	}
	return requestID, "", nil
}

func (i impl) openSession(submission *dbmodels.DocSubmission, stageID, requestedBy string) (string, error) {
	rec := dbmodels.SignatureRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: submission.SpaceID},
		SubmissionID:   submission.ID,
		StageID:        stageID,
		RequestID:      uuid.NewString(),
		RequestedBy:    requestedBy,
		SignerUserID:   submission.AuthorID,
		Status:         dbmodels.SignSessionRequested,
	}
	if _, err := i.store.Create(rec); err != nil {
		return "", err
	}
	i.sendSignLink(submission, rec.RequestID)
	return rec.RequestID, nil
}

// sendSignLink письмо подписанту со ссылкой на страницу подписания.
// Сбой отправки не отменяет запрос, ссылку можно запросить повторно
func (i impl) sendSignLink(submission *dbmodels.DocSubmission, requestID string) {
	logger := log.WithField("submission_id", submission.ID)
	signer, err := i.spaceUsersStore.GetByID(submission.AuthorID)
	if err != nil || signer == nil {
		logger.WithError(err).Error("не найден подписант для отправки ссылки")
		return
	}
	link := fmt.Sprintf("%s/sign/%s", config.Conf.Smtp.DomainForSignLink, requestID)
	message := fmt.Sprintf("Документ \"%s\" ожидает вашего подписания.\r\nСсылка для подписания: %s", submission.Title, link)
	if err = smtp.Instance.SendEMail(signer.Email, "требуется подписание", message); err != nil {
		logger.WithError(err).Error("не удалось отправить ссылку на подписание")
	}
}

func (i impl) OnComplete(ctx context.Context, requestID, fileName string, signedDoc []byte) (hMsg string, err error) {
	rec, err := i.store.GetByRequestID(requestID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "сессия подписания не найдена", nil
	}
	if rec.Status != dbmodels.SignSessionRequested {
		// повторный колбек или колбек по сессии, уже закрытой как сбойная.
		// Сбойная сессия не подписывает документ задним числом
		return "", nil
	}

	updMap := map[string]interface{}{
		"status":       dbmodels.SignSessionCompleted,
		"completed_at": gorm.Expr("now()"),
	}
	if len(signedDoc) > 0 {
		if fileName == "" {
			fileName = "signed-" + requestID + ".pdf"
		}
		path, err := filestorage.Instance.UploadSignedDoc(ctx, rec.SpaceID, rec.SubmissionID, fileName, signedDoc)
		if err != nil {
			return "", errors.Wrap(err, "не удалось сохранить подписанный документ")
		}
		updMap["signed_doc_path"] = path
	}
	if err = i.store.Update(rec.ID, updMap); err != nil {
		return "", err
	}
	if err = approvalhandler.Instance.ResumeAfterSignature(ctx, rec.SpaceID, rec.SubmissionID); err != nil {
		return "", err
	}
	return "", nil
}

func (i impl) OnFail(ctx context.Context, requestID, reason string) (hMsg string, err error) {
	rec, err := i.store.GetByRequestID(requestID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "сессия подписания не найдена", nil
	}
	if rec.Status != dbmodels.SignSessionRequested {
		return "", nil
	}
	err = i.store.Update(rec.ID, map[string]interface{}{
		"status":      dbmodels.SignSessionFailed,
		"fail_reason": reason,
	})
	if err != nil {
		return "", err
	}
	return "", approvalhandler.Instance.FailSignature(ctx, rec.SpaceID, rec.SubmissionID, reason)
}

func (i impl) ListBySubmission(spaceID, submissionID string) ([]dbmodels.SignatureRequest, error) {
	return i.store.ListBySubmission(spaceID, submissionID)
}
