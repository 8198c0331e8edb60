package dbmodels

import (
	"fmt"
	"time"

	"doc-flow-backend/models"

	"github.com/lib/pq"
)

type SpaceUser struct {
	BaseModel
	Password    string `gorm:"type:varchar(128)"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255)"`
	IsActive    bool
	PhoneNumber string `gorm:"type:varchar(15)"`
	SpaceID     string
	Role        models.UserRole `gorm:"type:varchar(50)"`
	// ApprovalRoles роли согласования, по которым сотрудник попадает в этапы
	ApprovalRoles pq.StringArray    `gorm:"type:text[]"`
	WorkStatus    models.UserStatus `gorm:"type:varchar(20)"`
	LastLogin     time.Time
}

func (r SpaceUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
