package delegationstore

import (
	"time"

	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Delegation) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Delegation, err error)
	// ListEffective действующие на момент времени замещения для исходного согласующего
	ListEffective(spaceID, fromUserID string, now time.Time) (list []dbmodels.Delegation, err error)
	List(spaceID string, fromUserID string) (list []dbmodels.Delegation, err error)
	Deactivate(spaceID, id string) error
	// DeactivateExpired отключает замещения с истекшим окном действия
	DeactivateExpired(now time.Time) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Delegation) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Delegation, error) {
	rec := dbmodels.Delegation{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload(clause.Associations).
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

func (i impl) ListEffective(spaceID, fromUserID string, now time.Time) (list []dbmodels.Delegation, err error) {
	list = []dbmodels.Delegation{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("from_user_id = ?", fromUserID).
		Where("is_active = true").
		Where("start_at <= ?", now).
		Where("end_at > ?", now).
		Order("start_at DESC, created_at DESC, id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) List(spaceID string, fromUserID string) (list []dbmodels.Delegation, err error) {
	list = []dbmodels.Delegation{}
	tx := i.db.
		Where("space_id = ?", spaceID).
		Preload(clause.Associations)
	if fromUserID != "" {
		tx = tx.Where("from_user_id = ?", fromUserID)
	}
	err = tx.Order("start_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Deactivate(spaceID, id string) error {
	tx := i.db.
		Model(&dbmodels.Delegation{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Update("is_active", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("замещение не найдено")
	}
	return nil
}

func (i impl) DeactivateExpired(now time.Time) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.Delegation{}).
		Where("is_active = true").
		Where("end_at <= ?", now).
		Update("is_active", false)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
