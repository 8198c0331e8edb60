package spaceusersstore

import (
	dbmodels "doc-flow-backend/models/db"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.SpaceUser) (id string, err error)
	GetByID(id string) (rec *dbmodels.SpaceUser, err error)
	FindByEmail(email string) (rec *dbmodels.SpaceUser, err error)
	ListByIDs(spaceID string, ids []string) (list []dbmodels.SpaceUser, err error)
	// ListByApprovalRoles активные сотрудники спейса, имеющие хотя бы одну из ролей
	ListByApprovalRoles(spaceID string, roles []string) (list []dbmodels.SpaceUser, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.SpaceUser) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.SpaceUser, error) {
	rec := dbmodels.SpaceUser{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) FindByEmail(email string) (*dbmodels.SpaceUser, error) {
	rec := dbmodels.SpaceUser{}
	err := i.db.
		Where("email = ?", email).
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

func (i impl) ListByIDs(spaceID string, ids []string) (list []dbmodels.SpaceUser, err error) {
	list = []dbmodels.SpaceUser{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("id IN ?", ids).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByApprovalRoles(spaceID string, roles []string) (list []dbmodels.SpaceUser, err error) {
	list = []dbmodels.SpaceUser{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("is_active = true").
		Where("approval_roles && ?", pq.StringArray(roles)).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
