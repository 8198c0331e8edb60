package spaceapimodels

import (
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
)

type SpaceUserData struct {
	Email         string          `json:"email"`
	Password      string          `json:"password"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PhoneNumber   string          `json:"phone_number"`
	Role          models.UserRole `json:"role"`
	ApprovalRoles []string        `json:"approval_roles"`
}

func (s SpaceUserData) Validate() error {
	if s.Email == "" {
		return errors.New("не указана почта")
	}
	if s.Password == "" {
		return errors.New("не указан пароль")
	}
	if s.FirstName == "" || s.LastName == "" {
		return errors.New("не указаны имя и фамилия")
	}
	return nil
}

type SpaceUserView struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	PhoneNumber   string            `json:"phone_number"`
	IsActive      bool              `json:"is_active"`
	Role          models.UserRole   `json:"role"`
	ApprovalRoles []string          `json:"approval_roles"`
	WorkStatus    models.UserStatus `json:"work_status"`
}

func SpaceUserConvert(rec dbmodels.SpaceUser) SpaceUserView {
	return SpaceUserView{
		ID:            rec.ID,
		Email:         rec.Email,
		FirstName:     rec.FirstName,
		LastName:      rec.LastName,
		PhoneNumber:   rec.PhoneNumber,
		IsActive:      rec.IsActive,
		Role:          rec.Role,
		ApprovalRoles: rec.ApprovalRoles,
		WorkStatus:    rec.WorkStatus,
	}
}
