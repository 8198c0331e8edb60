package approvalapimodels

import (
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type WorkflowData struct {
	DocType     string      `json:"doc_type"`
	Name        string      `json:"name"`
	IsActive    bool        `json:"is_active"`
	AmountField string      `json:"amount_field"` // код поля с суммой, пусто - без маршрутизации по сумме
	Stages      []StageData `json:"stages"`
}

func (w WorkflowData) Validate() error {
	if w.DocType == "" {
		return errors.New("не указан тип документа")
	}
	if w.Name == "" {
		return errors.New("не указано название процесса")
	}
	if len(w.Stages) == 0 {
		return errors.New("не задано ни одного этапа")
	}
	for _, stage := range w.Stages {
		if err := stage.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type StageData struct {
	Name         string         `json:"name"`
	StageOrder   int            `json:"stage_order"`
	AmountFrom   *string        `json:"amount_from"` // десятичная строка
	AmountTo     *string        `json:"amount_to"`   // десятичная строка
	IsDefault    bool           `json:"is_default"`
	IsFinal      bool           `json:"is_final"`
	MinApprovals int            `json:"min_approvals"`
	SignRequired bool           `json:"sign_required"`
	Assignees    []AssigneeData `json:"assignees"`
}

func (s StageData) Validate() error {
	if len(s.Assignees) == 0 {
		return errors.Errorf("этап %v: не заданы участники", s.StageOrder)
	}
	for _, a := range s.Assignees {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	if _, err := s.RangeFrom(); err != nil {
		return err
	}
	if _, err := s.RangeTo(); err != nil {
		return err
	}
	return nil
}

func (s StageData) RangeFrom() (*decimal.Decimal, error) {
	return parseAmount(s.AmountFrom, s.StageOrder)
}

func (s StageData) RangeTo() (*decimal.Decimal, error) {
	return parseAmount(s.AmountTo, s.StageOrder)
}

func parseAmount(v *string, order int) (*decimal.Decimal, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil, errors.Wrapf(err, "этап %v: некорректная граница суммы %v", order, *v)
	}
	return &d, nil
}

type AssigneeData struct {
	Kind        models.AssigneeKind `json:"kind"`
	RoleName    string              `json:"role_name,omitempty"`
	SpaceUserID string              `json:"space_user_id,omitempty"`
}

func (a AssigneeData) Validate() error {
	rec := dbmodels.StageAssignee{
		Kind:        a.Kind,
		RoleName:    a.RoleName,
		SpaceUserID: a.SpaceUserID,
	}
	return rec.Validate()
}

type WorkflowView struct {
	ID          string      `json:"id"`
	DocType     string      `json:"doc_type"`
	Name        string      `json:"name"`
	IsActive    bool        `json:"is_active"`
	AmountField string      `json:"amount_field"`
	Stages      []StageView `json:"stages"`
}

type StageView struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StageOrder   int            `json:"stage_order"`
	AmountFrom   string         `json:"amount_from,omitempty"`
	AmountTo     string         `json:"amount_to,omitempty"`
	IsDefault    bool           `json:"is_default"`
	IsFinal      bool           `json:"is_final"`
	MinApprovals int            `json:"min_approvals"`
	SignRequired bool           `json:"sign_required"`
	Assignees    []AssigneeData `json:"assignees"`
}

func WorkflowConvert(rec dbmodels.ApprovalWorkflow) WorkflowView {
	stages := make([]StageView, 0, len(rec.Stages))
	for _, stage := range rec.Stages {
		stages = append(stages, StageConvert(stage))
	}
	return WorkflowView{
		ID:          rec.ID,
		DocType:     rec.DocType,
		Name:        rec.Name,
		IsActive:    rec.IsActive,
		AmountField: rec.AmountField,
		Stages:      stages,
	}
}

func StageConvert(rec dbmodels.WorkflowStage) StageView {
	view := StageView{
		ID:           rec.ID,
		Name:         rec.Name,
		StageOrder:   rec.StageOrder,
		IsDefault:    rec.IsDefault,
		IsFinal:      rec.IsFinal,
		MinApprovals: rec.MinApprovals,
		SignRequired: rec.SignRequired,
	}
	if rec.AmountFrom != nil {
		view.AmountFrom = rec.AmountFrom.String()
	}
	if rec.AmountTo != nil {
		view.AmountTo = rec.AmountTo.String()
	}
	for _, a := range rec.Assignees {
		view.Assignees = append(view.Assignees, AssigneeData{
			Kind:        a.Kind,
			RoleName:    a.RoleName,
			SpaceUserID: a.SpaceUserID,
		})
	}
	return view
}
