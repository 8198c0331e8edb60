package submissionstore

import (
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.DocSubmission) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.DocSubmission, err error)
	// GetByIDLocked чтение с блокировкой строки на время транзакции
	GetByIDLocked(spaceID, id string) (rec *dbmodels.DocSubmission, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	List(spaceID string, filter approvalapimodels.SubmissionFilter) (list []dbmodels.DocSubmission, err error)
	ListCount(spaceID string, filter approvalapimodels.SubmissionFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.DocSubmission) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.DocSubmission, error) {
	return i.get(i.db, spaceID, id)
}

func (i impl) GetByIDLocked(spaceID, id string) (*dbmodels.DocSubmission, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) get(tx *gorm.DB, spaceID, id string) (*dbmodels.DocSubmission, error) {
	rec := dbmodels.DocSubmission{}
	err := tx.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
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

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.DocSubmission{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("документ не найден")
	}
	return nil
}

func (i impl) listQuery(spaceID string, filter approvalapimodels.SubmissionFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.DocSubmission{}).
		Where("space_id = ?", spaceID)
	if filter.DocType != "" {
		tx = tx.Where("doc_type = ?", filter.DocType)
	}
	if filter.Status != models.DocStatus("") {
		tx = tx.Where("status = ?", filter.Status)
	}
	return tx
}

func (i impl) List(spaceID string, filter approvalapimodels.SubmissionFilter) (list []dbmodels.DocSubmission, err error) {
	list = []dbmodels.DocSubmission{}
	page, limit := filter.GetPage()
	err = i.listQuery(spaceID, filter).
		Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter approvalapimodels.SubmissionFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
