package workflowstore

import (
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalWorkflow) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.ApprovalWorkflow, err error)
	// GetActiveByDocType активный процесс для типа документа, этапы упорядочены
	GetActiveByDocType(spaceID, docType string) (rec *dbmodels.ApprovalWorkflow, err error)
	GetStage(spaceID, stageID string) (rec *dbmodels.WorkflowStage, err error)
	List(spaceID string) (list []dbmodels.ApprovalWorkflow, err error)
	SetActive(spaceID, id string, isActive bool) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalWorkflow) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.ApprovalWorkflow, error) {
	rec := dbmodels.ApprovalWorkflow{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Preload("Stages.Assignees").
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

func (i impl) GetActiveByDocType(spaceID, docType string) (*dbmodels.ApprovalWorkflow, error) {
	rec := dbmodels.ApprovalWorkflow{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("doc_type = ?", docType).
		Where("is_active = true").
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Preload("Stages.Assignees").
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

func (i impl) GetStage(spaceID, stageID string) (*dbmodels.WorkflowStage, error) {
	rec := dbmodels.WorkflowStage{}
	err := i.db.
		Where("id = ?", stageID).
		Where("space_id = ?", spaceID).
		Preload("Assignees").
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

func (i impl) List(spaceID string) (list []dbmodels.ApprovalWorkflow, err error) {
	list = []dbmodels.ApprovalWorkflow{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_order ASC")
		}).
		Preload("Stages.Assignees").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetActive(spaceID, id string, isActive bool) error {
	tx := i.db.
		Model(&dbmodels.ApprovalWorkflow{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Update("is_active", isActive)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("процесс не найден")
	}
	return nil
}
