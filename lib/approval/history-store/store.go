package historystore

import (
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ApprovalHistory) error
	// CountApprovals число различных сотрудников, согласовавших этап в текущем круге.
	// Повторное согласование одним сотрудником не увеличивает счетчик
	CountApprovals(spaceID, submissionID, stageID string, cycle int) (count int64, err error)
	// GetActionBy решение сотрудника по этапу в текущем круге, если оно уже принято
	GetActionBy(spaceID, submissionID, stageID, userID string, cycle int) (rec *dbmodels.ApprovalHistory, err error)
	ListBySubmission(spaceID, submissionID string) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalHistory) error {
	return i.db.Omit(clause.Associations).
		Create(&rec).
		Error
}

func (i impl) CountApprovals(spaceID, submissionID, stageID string, cycle int) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.ApprovalHistory{}).
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("stage_id = ?", stageID).
		Where("cycle = ?", cycle).
		Where("action = ?", models.ActionApprove).
		Distinct("acted_by_user_id").
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) GetActionBy(spaceID, submissionID, stageID, userID string, cycle int) (*dbmodels.ApprovalHistory, error) {
	rec := dbmodels.ApprovalHistory{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("stage_id = ?", stageID).
		Where("cycle = ?", cycle).
		Where("acted_by_user_id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListBySubmission(spaceID, submissionID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	err = i.db.
		Preload("ActedByUser").
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
