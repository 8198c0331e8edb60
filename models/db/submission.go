package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"doc-flow-backend/models"

	"github.com/pkg/errors"
)

// SubmissionData значения полей поданного документа, код поля -> значение
type SubmissionData map[string]any

func (j SubmissionData) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *SubmissionData) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// DocSubmission поданный документ, проходящий согласование
type DocSubmission struct {
	BaseSpaceModel
	DocType   string         `gorm:"type:varchar(100);index:idx_sub_doc_type"`
	Title     string         `gorm:"type:varchar(255)"`
	AuthorID  string         `gorm:"type:varchar(36)"`
	Author    *SpaceUser     `gorm:"foreignKey:AuthorID"`
	DocNumber string         `gorm:"type:varchar(50)"`
	Data      SubmissionData `gorm:"type:jsonb"`
	// WorkflowID фиксируется при первой подаче по типу документа
	WorkflowID *string `gorm:"type:varchar(36)"`
	// StageID текущий этап, пуст до активации и после возврата на доработку
	StageID         *string           `gorm:"type:varchar(36)"`
	Status          models.DocStatus  `gorm:"type:varchar(50);index"`
	SignatureStatus models.SignStatus `gorm:"type:varchar(50)"`
	// Cycle номер круга согласования, растет при каждой подаче.
	// Решения прежних кругов не учитываются в кворуме текущего
	Cycle         int
	ApprovalTasks []ApprovalTask `gorm:"foreignKey:SubmissionID"`
}

// OnStage документ находится на указанном этапе
func (s DocSubmission) OnStage(stageID string) bool {
	return s.StageID != nil && *s.StageID == stageID
}

func (s DocSubmission) ValidateNew() error {
	if s.DocType == "" {
		return errors.New("не указан тип документа")
	}
	if s.Title == "" {
		return errors.New("не указано название документа")
	}
	return nil
}
