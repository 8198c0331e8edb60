package approvalapimodels

import (
	"time"

	"doc-flow-backend/models"
	apimodels "doc-flow-backend/models/api"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
)

type SubmissionCreateData struct {
	DocType string                  `json:"doc_type"`
	Title   string                  `json:"title"`
	Data    dbmodels.SubmissionData `json:"data"`
}

func (s SubmissionCreateData) Validate() error {
	if s.DocType == "" {
		return errors.New("не указан тип документа")
	}
	if s.Title == "" {
		return errors.New("не указано название документа")
	}
	return nil
}

type SubmissionEditData struct {
	Title string                  `json:"title"`
	Data  dbmodels.SubmissionData `json:"data"`
}

func (s SubmissionEditData) Validate() error {
	if s.Title == "" {
		return errors.New("не указано название документа")
	}
	return nil
}

type SubmissionFilter struct {
	apimodels.Pagination
	DocType string           `json:"doc_type"`
	Status  models.DocStatus `json:"status"`
}

type SubmissionView struct {
	ID              string                  `json:"id"`
	DocType         string                  `json:"doc_type"`
	Title           string                  `json:"title"`
	DocNumber       string                  `json:"doc_number,omitempty"`
	AuthorID        string                  `json:"author_id"`
	AuthorName      string                  `json:"author_name,omitempty"`
	Data            dbmodels.SubmissionData `json:"data"`
	WorkflowID      string                  `json:"workflow_id,omitempty"`
	StageID         string                  `json:"stage_id,omitempty"`
	Status          models.DocStatus        `json:"status"`
	StatusHuman     string                  `json:"status_human"`
	SignatureStatus models.SignStatus       `json:"signature_status"`
	Cycle           int                     `json:"cycle"`
	CreatedAt       time.Time               `json:"created_at"`
}

func SubmissionConvert(rec dbmodels.DocSubmission) SubmissionView {
	view := SubmissionView{
		ID:              rec.ID,
		DocType:         rec.DocType,
		Title:           rec.Title,
		DocNumber:       rec.DocNumber,
		AuthorID:        rec.AuthorID,
		Data:            rec.Data,
		Status:          rec.Status,
		StatusHuman:     string(rec.Status),
		SignatureStatus: rec.SignatureStatus,
		Cycle:           rec.Cycle,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Author != nil {
		view.AuthorName = rec.Author.GetFullName()
	}
	if rec.WorkflowID != nil {
		view.WorkflowID = *rec.WorkflowID
	}
	if rec.StageID != nil {
		view.StageID = *rec.StageID
	}
	return view
}

// ActionResult итог действия согласования, возвращается вызывающему
type ActionResult struct {
	SubmissionID    string            `json:"submission_id"`
	Status          models.DocStatus  `json:"status"`
	SignatureStatus models.SignStatus `json:"signature_status"`
	StageID         string            `json:"stage_id,omitempty"`
	// AwaitingSignature кворум набран, завершение этапа ждет подписания
	AwaitingSignature bool `json:"awaiting_signature,omitempty"`
	// Warning предупреждение о сбое побочного эффекта, переход уже зафиксирован
	Warning string `json:"warning,omitempty"`
}
