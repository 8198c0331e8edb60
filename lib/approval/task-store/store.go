package taskstore

import (
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	CreateBatch(recs []dbmodels.ApprovalTask) error
	ListByStage(spaceID, submissionID, stageID string, cycle int) (list []dbmodels.ApprovalTask, err error)
	GetOpenForUser(spaceID, submissionID, userID string, cycle int) (rec *dbmodels.ApprovalTask, err error)
	SetState(spaceID, id string, state models.TaskState) error
	// CloseOpenByStage снимает оставшиеся открытые задачи этапа (этап завершен или прерван)
	CloseOpenByStage(spaceID, submissionID, stageID string, cycle int, state models.TaskState) error
	// CloseOpenBySubmission снимает все открытые задачи документа (отклонение, возврат)
	CloseOpenBySubmission(spaceID, submissionID string, state models.TaskState) error
	ListOpenByUser(spaceID, userID string) (list []dbmodels.ApprovalTask, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(recs []dbmodels.ApprovalTask) error {
	if len(recs) == 0 {
		return nil
	}
	return i.db.Omit(clause.Associations).
		Create(&recs).
		Error
}

func (i impl) ListByStage(spaceID, submissionID, stageID string, cycle int) (list []dbmodels.ApprovalTask, err error) {
	list = []dbmodels.ApprovalTask{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("stage_id = ?", stageID).
		Where("cycle = ?", cycle).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetOpenForUser(spaceID, submissionID, userID string, cycle int) (*dbmodels.ApprovalTask, error) {
	rec := dbmodels.ApprovalTask{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("assignee_user_id = ?", userID).
		Where("cycle = ?", cycle).
		Where("state = ?", models.TaskStatePending).
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

func (i impl) SetState(spaceID, id string, state models.TaskState) error {
	updMap := map[string]interface{}{
		"state": state,
	}
	if state != models.TaskStatePending {
		updMap["decided_at"] = gorm.Expr("now()")
	}
	return i.db.
		Model(&dbmodels.ApprovalTask{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) CloseOpenByStage(spaceID, submissionID, stageID string, cycle int, state models.TaskState) error {
	return i.db.
		Model(&dbmodels.ApprovalTask{}).
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("stage_id = ?", stageID).
		Where("cycle = ?", cycle).
		Where("state = ?", models.TaskStatePending).
		Update("state", state).
		Error
}

func (i impl) CloseOpenBySubmission(spaceID, submissionID string, state models.TaskState) error {
	return i.db.
		Model(&dbmodels.ApprovalTask{}).
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("state = ?", models.TaskStatePending).
		Update("state", state).
		Error
}

func (i impl) ListOpenByUser(spaceID, userID string) (list []dbmodels.ApprovalTask, err error) {
	list = []dbmodels.ApprovalTask{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("assignee_user_id = ?", userID).
		Where("state = ?", models.TaskStatePending).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
