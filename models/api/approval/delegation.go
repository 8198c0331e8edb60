package approvalapimodels

import (
	"time"

	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"
)

type DelegationData struct {
	FromUserID string                 `json:"from_user_id"`
	ToUserID   string                 `json:"to_user_id"`
	Scope      models.DelegationScope `json:"scope"`
	ScopeID    string                 `json:"scope_id,omitempty"`
	StartAt    time.Time              `json:"start_at"`
	EndAt      time.Time              `json:"end_at"`
	Comment    string                 `json:"comment,omitempty"`
}

func (d DelegationData) Validate() error {
	return d.ToRec("").Validate()
}

func (d DelegationData) ToRec(spaceID string) dbmodels.Delegation {
	rec := dbmodels.Delegation{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		FromUserID: d.FromUserID,
		ToUserID:   d.ToUserID,
		Scope:      d.Scope,
		StartAt:    d.StartAt,
		EndAt:      d.EndAt,
		IsActive:   true,
		Comment:    d.Comment,
	}
	if d.ScopeID != "" {
		scopeID := d.ScopeID
		rec.ScopeID = &scopeID
	}
	return rec
}

type DelegationView struct {
	DelegationData
	ID           string `json:"id"`
	FromUserName string `json:"from_user_name,omitempty"`
	ToUserName   string `json:"to_user_name,omitempty"`
	IsActive     bool   `json:"is_active"`
}

func DelegationConvert(rec dbmodels.Delegation) DelegationView {
	view := DelegationView{
		DelegationData: DelegationData{
			FromUserID: rec.FromUserID,
			ToUserID:   rec.ToUserID,
			Scope:      rec.Scope,
			StartAt:    rec.StartAt,
			EndAt:      rec.EndAt,
			Comment:    rec.Comment,
		},
		ID:       rec.ID,
		IsActive: rec.IsActive,
	}
	if rec.ScopeID != nil {
		view.ScopeID = *rec.ScopeID
	}
	if rec.FromUser != nil {
		view.FromUserName = rec.FromUser.GetFullName()
	}
	if rec.ToUser != nil {
		view.ToUserName = rec.ToUser.GetFullName()
	}
	return view
}
