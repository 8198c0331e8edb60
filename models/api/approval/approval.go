package approvalapimodels

import (
	"time"

	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
)

type ActionData struct {
	Action  models.ApprovalAction `json:"action"`
	Comment string                `json:"comment"`
}

func (a ActionData) Validate() error {
	if !a.Action.IsValid() {
		return errors.Errorf("неизвестное действие: %v", a.Action)
	}
	if a.Action != models.ActionApprove && a.Comment == "" {
		return errors.New("для отклонения или возврата требуется комментарий")
	}
	return nil
}

type ApprovalTaskView struct {
	ID               string           `json:"id"`
	SubmissionID     string           `json:"submission_id"`
	StageID          string           `json:"stage_id"`
	AssigneeUserID   string           `json:"assignee_user_id"`
	AssigneeUserName string           `json:"assignee_user_name,omitempty"`
	OriginalUserID   string           `json:"original_user_id,omitempty"`
	DelegationID     string           `json:"delegation_id,omitempty"`
	State            models.TaskState `json:"state"`
	DecidedAt        *time.Time       `json:"decided_at,omitempty"`
}

func ApprovalTaskConvert(rec dbmodels.ApprovalTask) ApprovalTaskView {
	view := ApprovalTaskView{
		ID:             rec.ID,
		SubmissionID:   rec.SubmissionID,
		StageID:        rec.StageID,
		AssigneeUserID: rec.AssigneeUserID,
		State:          rec.State,
		DecidedAt:      rec.DecidedAt,
	}
	if rec.AssigneeUser != nil {
		view.AssigneeUserName = rec.AssigneeUser.GetFullName()
	}
	if rec.Substituted() {
		view.OriginalUserID = rec.OriginalUserID
	}
	if rec.DelegationID != nil {
		view.DelegationID = *rec.DelegationID
	}
	return view
}

type ApprovalHistoryView struct {
	ID             string                `json:"id"`
	SubmissionID   string                `json:"submission_id"`
	StageID        string                `json:"stage_id"`
	Cycle          int                   `json:"cycle"`
	Action         models.ApprovalAction `json:"action"`
	ActedByUserID  string                `json:"acted_by_user_id"`
	ActedByName    string                `json:"acted_by_name,omitempty"`
	OriginalUserID string                `json:"original_user_id,omitempty"`
	DelegationID   string                `json:"delegation_id,omitempty"`
	Comment        string                `json:"comment,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistory) ApprovalHistoryView {
	view := ApprovalHistoryView{
		ID:            rec.ID,
		SubmissionID:  rec.SubmissionID,
		StageID:       rec.StageID,
		Cycle:         rec.Cycle,
		Action:        rec.Action,
		ActedByUserID: rec.ActedByUserID,
		Comment:       rec.Comment,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.ActedByUser != nil {
		view.ActedByName = rec.ActedByUser.GetFullName()
	}
	if rec.OriginalUserID != "" && rec.OriginalUserID != rec.ActedByUserID {
		view.OriginalUserID = rec.OriginalUserID
	}
	if rec.DelegationID != nil {
		view.DelegationID = *rec.DelegationID
	}
	return view
}

// InboxItemView элемент входящих согласующего.
// Документы, ожидающие подписания, помечаются отдельно от ожидающих решения
type InboxItemView struct {
	TaskID           string            `json:"task_id"`
	SubmissionID     string            `json:"submission_id"`
	DocType          string            `json:"doc_type"`
	Title            string            `json:"title"`
	DocNumber        string            `json:"doc_number,omitempty"`
	StageID          string            `json:"stage_id"`
	Substituted      bool              `json:"substituted,omitempty"`
	OriginalUserID   string            `json:"original_user_id,omitempty"`
	SignaturePending bool              `json:"signature_pending"`
	Status           models.DocStatus  `json:"status"`
	SignatureStatus  models.SignStatus `json:"signature_status"`
	AssignedAt       time.Time         `json:"assigned_at"`
}

type SignatureRequestData struct {
	StageID string `json:"stage_id"`
}

func (s SignatureRequestData) Validate() error {
	if s.StageID == "" {
		return errors.New("не указан этап подписания")
	}
	return nil
}
