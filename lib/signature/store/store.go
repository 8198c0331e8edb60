package signaturestore

import (
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.SignatureRequest) (id string, err error)
	GetByRequestID(requestID string) (rec *dbmodels.SignatureRequest, err error)
	// GetRequested незавершенная сессия подписания этапа, если есть
	GetRequested(spaceID, submissionID, stageID string) (rec *dbmodels.SignatureRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	ListBySubmission(spaceID, submissionID string) (list []dbmodels.SignatureRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.SignatureRequest) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByRequestID(requestID string) (*dbmodels.SignatureRequest, error) {
	rec := dbmodels.SignatureRequest{}
	err := i.db.
		Where("request_id = ?", requestID).
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

func (i impl) GetRequested(spaceID, submissionID, stageID string) (*dbmodels.SignatureRequest, error) {
	rec := dbmodels.SignatureRequest{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("submission_id = ?", submissionID).
		Where("stage_id = ?", stageID).
		Where("status = ?", dbmodels.SignSessionRequested).
		Order("created_at DESC").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.SignatureRequest{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) ListBySubmission(spaceID, submissionID string) (list []dbmodels.SignatureRequest, err error) {
	list = []dbmodels.SignatureRequest{}
	err = i.db.
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
