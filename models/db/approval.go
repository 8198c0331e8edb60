package dbmodels

import (
	"time"

	"doc-flow-backend/models"
)

// ApprovalTask задача согласования для конкретного сотрудника на этапе.
// Набор задач - результат разворачивания участников этапа с учетом замещений
type ApprovalTask struct {
	BaseSpaceModel
	SubmissionID   string `gorm:"type:varchar(36);index:idx_task_submission"`
	StageID        string `gorm:"type:varchar(36)"`
	Cycle          int
	AssigneeUserID string     `gorm:"type:varchar(36);index:idx_task_assignee"`
	AssigneeUser   *SpaceUser `gorm:"foreignKey:AssigneeUserID"`
	// OriginalUserID исходный согласующий, если задача назначена замещающему
	OriginalUserID string           `gorm:"type:varchar(36)"`
	DelegationID   *string          `gorm:"type:varchar(36)"`
	State          models.TaskState `gorm:"type:varchar(50)"`
	DecidedAt      *time.Time
}

// Substituted задача назначена замещающему вместо исходного согласующего
func (t ApprovalTask) Substituted() bool {
	return t.OriginalUserID != "" && t.OriginalUserID != t.AssigneeUserID
}

// ApprovalHistory журнал решений, только добавление записей.
// Источник подсчета кворума
type ApprovalHistory struct {
	BaseSpaceModel
	SubmissionID  string `gorm:"type:varchar(36);index:idx_history_submission"`
	StageID       string `gorm:"type:varchar(36)"`
	Cycle         int
	Action        models.ApprovalAction `gorm:"type:varchar(50)"`
	ActedByUserID string                `gorm:"type:varchar(36)"`
	ActedByUser   *SpaceUser            `gorm:"foreignKey:ActedByUserID"`
	// OriginalUserID исходный согласующий при действии замещающего
	OriginalUserID string  `gorm:"type:varchar(36)"`
	DelegationID   *string `gorm:"type:varchar(36)"`
	Comment        string
}
