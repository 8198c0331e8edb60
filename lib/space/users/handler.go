package spaceusershandler

import (
	"doc-flow-backend/db"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	authutils "doc-flow-backend/lib/utils/auth-utils"
	"doc-flow-backend/models"
	spaceapimodels "doc-flow-backend/models/api/space"
	dbmodels "doc-flow-backend/models/db"
)

type Provider interface {
	Create(spaceID string, data spaceapimodels.SpaceUserData) (id string, hMsg string, err error)
	GetByID(id string) (view *spaceapimodels.SpaceUserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store spaceusersstore.Provider
}

func (i impl) Create(spaceID string, data spaceapimodels.SpaceUserData) (id string, hMsg string, err error) {
	if err := data.Validate(); err != nil {
		return "", err.Error(), nil
	}
	existing, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return "", "", err
	}
	if existing != nil {
		return "", "сотрудник с такой почтой уже зарегистрирован", nil
	}
	role := data.Role
	if role == "" {
		role = models.SpaceUserRole
	}
	rec := dbmodels.SpaceUser{
		Email:         data.Email,
		Password:      authutils.GetMD5Hash(data.Password),
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		PhoneNumber:   data.PhoneNumber,
		IsActive:      true,
		SpaceID:       spaceID,
		Role:          role,
		ApprovalRoles: data.ApprovalRoles,
		WorkStatus:    models.SpaceWorkingStatus,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", err
	}
	return id, "", nil
}

func (i impl) GetByID(id string) (*spaceapimodels.SpaceUserView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	view := spaceapimodels.SpaceUserConvert(*rec)
	return &view, nil
}
