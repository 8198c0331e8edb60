package dbmodels

import (
	"time"

	"doc-flow-backend/models"

	"github.com/pkg/errors"
)

// Delegation замещение согласующего на период отсутствия
type Delegation struct {
	BaseSpaceModel
	FromUserID string                 `gorm:"type:varchar(36);index:idx_delegation_from"`
	FromUser   *SpaceUser             `gorm:"foreignKey:FromUserID"`
	ToUserID   string                 `gorm:"type:varchar(36)"`
	ToUser     *SpaceUser             `gorm:"foreignKey:ToUserID"`
	Scope      models.DelegationScope `gorm:"type:varchar(20)"`
	// ScopeID идентификатор процесса или документа, для глобальной области пуст
	ScopeID  *string `gorm:"type:varchar(36)"`
	StartAt  time.Time
	EndAt    time.Time
	IsActive bool
	Comment  string
}

// EffectiveAt замещение действует: активно и момент попадает в [StartAt, EndAt)
func (d Delegation) EffectiveAt(now time.Time) bool {
	if !d.IsActive {
		return false
	}
	return !now.Before(d.StartAt) && now.Before(d.EndAt)
}

func (d Delegation) Validate() error {
	if d.FromUserID == "" || d.ToUserID == "" {
		return errors.New("не указаны замещаемый и замещающий сотрудники")
	}
	if d.FromUserID == d.ToUserID {
		return errors.New("сотрудник не может замещать сам себя")
	}
	if !d.Scope.IsValid() {
		return errors.Errorf("неизвестная область замещения: %v", d.Scope)
	}
	if d.Scope.NeedScopeID() && (d.ScopeID == nil || *d.ScopeID == "") {
		return errors.Errorf("для области %v требуется идентификатор", d.Scope)
	}
	if !d.EndAt.After(d.StartAt) {
		return errors.New("окончание замещения должно быть строго позже начала")
	}
	return nil
}
