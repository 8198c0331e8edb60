package dbmodels

import (
	"doc-flow-backend/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ApprovalWorkflow процесс согласования для одного типа документа
type ApprovalWorkflow struct {
	BaseSpaceModel
	DocType  string `gorm:"type:varchar(100);index:idx_wf_doc_type"`
	Name     string `gorm:"type:varchar(255)"`
	IsActive bool
	// AmountField код поля документа с суммой, по которой выбирается этап.
	// Пустое значение - маршрутизация по сумме не используется
	AmountField string          `gorm:"type:varchar(100)"`
	Stages      []WorkflowStage `gorm:"foreignKey:WorkflowID"`
}

// AmountGated этапы выбираются по сумме документа
func (w ApprovalWorkflow) AmountGated() bool {
	return w.AmountField != ""
}

// FirstStage этап с минимальным порядковым номером
func (w ApprovalWorkflow) FirstStage() *WorkflowStage {
	var first *WorkflowStage
	for k := range w.Stages {
		if first == nil || w.Stages[k].StageOrder < first.StageOrder {
			first = &w.Stages[k]
		}
	}
	return first
}

// NextStage этап, следующий за указанным порядковым номером
func (w ApprovalWorkflow) NextStage(afterOrder int) *WorkflowStage {
	var next *WorkflowStage
	for k := range w.Stages {
		if w.Stages[k].StageOrder <= afterOrder {
			continue
		}
		if next == nil || w.Stages[k].StageOrder < next.StageOrder {
			next = &w.Stages[k]
		}
	}
	return next
}

// StageByID поиск этапа среди этапов процесса
func (w ApprovalWorkflow) StageByID(stageID string) *WorkflowStage {
	for k := range w.Stages {
		if w.Stages[k].ID == stageID {
			return &w.Stages[k]
		}
	}
	return nil
}

// Validate проверка инвариантов определения процесса:
// порядковые номера уникальны и непрерывны, этап-умолчание не более одного
func (w ApprovalWorkflow) Validate() error {
	if len(w.Stages) == 0 {
		return errors.New("в процессе не задано ни одного этапа")
	}
	orders := map[int]bool{}
	defaults := 0
	minOrder, maxOrder := w.Stages[0].StageOrder, w.Stages[0].StageOrder
	for _, stage := range w.Stages {
		if orders[stage.StageOrder] {
			return errors.Errorf("порядковый номер этапа %v не уникален", stage.StageOrder)
		}
		orders[stage.StageOrder] = true
		if stage.StageOrder < minOrder {
			minOrder = stage.StageOrder
		}
		if stage.StageOrder > maxOrder {
			maxOrder = stage.StageOrder
		}
		if stage.IsDefault {
			defaults++
		}
		if err := stage.ValidateRange(); err != nil {
			return err
		}
	}
	if maxOrder-minOrder+1 != len(w.Stages) {
		return errors.New("порядковые номера этапов должны быть непрерывными")
	}
	if defaults > 1 {
		return errors.New("в процессе допустим только один этап по умолчанию")
	}
	return nil
}

// WorkflowStage этап процесса согласования
type WorkflowStage struct {
	BaseSpaceModel
	WorkflowID string `gorm:"type:varchar(36);index"`
	Name       string `gorm:"type:varchar(255)"`
	StageOrder int
	// AmountFrom/AmountTo диапазон суммы [от, до), граница "до" может отсутствовать
	AmountFrom *decimal.Decimal `gorm:"type:numeric"`
	AmountTo   *decimal.Decimal `gorm:"type:numeric"`
	// IsDefault этап, выбираемый когда сумма не попала ни в один диапазон
	IsDefault bool
	IsFinal   bool
	// MinApprovals минимальное число согласований для завершения этапа, 0 = 1
	MinApprovals int
	SignRequired bool
	Assignees    []StageAssignee `gorm:"foreignKey:StageID"`
}

// Quorum минимальное число отдельных согласований
func (s WorkflowStage) Quorum() int {
	if s.MinApprovals < 1 {
		return 1
	}
	return s.MinApprovals
}

// HasRange для этапа задан диапазон суммы
func (s WorkflowStage) HasRange() bool {
	return s.AmountFrom != nil || s.AmountTo != nil
}

// InRange сумма попадает в диапазон этапа, полуинтервал [от, до)
func (s WorkflowStage) InRange(amount decimal.Decimal) bool {
	if s.AmountFrom != nil && amount.LessThan(*s.AmountFrom) {
		return false
	}
	if s.AmountTo != nil && !amount.LessThan(*s.AmountTo) {
		return false
	}
	return s.HasRange()
}

// ValidateRange диапазон с "до" не больше "от" - дефект конфигурации
func (s WorkflowStage) ValidateRange() error {
	if s.AmountFrom != nil && s.AmountTo != nil && !s.AmountFrom.LessThan(*s.AmountTo) {
		return errors.Errorf("этап %v: нижняя граница суммы должна быть меньше верхней", s.StageOrder)
	}
	return nil
}

// StageAssignee участник этапа: либо роль, либо конкретный сотрудник
type StageAssignee struct {
	BaseSpaceModel
	StageID     string              `gorm:"type:varchar(36);index"`
	Kind        models.AssigneeKind `gorm:"type:varchar(20)"`
	RoleName    string              `gorm:"type:varchar(100)"`
	SpaceUserID string              `gorm:"type:varchar(36)"`
	SpaceUser   *SpaceUser
}

func (a StageAssignee) Validate() error {
	switch a.Kind {
	case models.AssigneeKindRole:
		if a.RoleName == "" {
			return errors.New("для участника-роли не указана роль")
		}
	case models.AssigneeKindUser:
		if a.SpaceUserID == "" {
			return errors.New("для участника-сотрудника не указан идентификатор")
		}
	default:
		return errors.Errorf("неизвестный вид участника этапа: %v", a.Kind)
	}
	return nil
}
