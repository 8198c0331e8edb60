package dbmodels

import (
	"time"
)

// SignSessionStatus состояние сессии подписания у внешнего провайдера
type SignSessionStatus string

const (
	SignSessionRequested SignSessionStatus = "запрошена"
	SignSessionCompleted SignSessionStatus = "завершена"
	SignSessionFailed    SignSessionStatus = "не удалась"
)

// SignatureRequest запрос на подписание документа на этапе
type SignatureRequest struct {
	BaseSpaceModel
	SubmissionID string `gorm:"type:varchar(36);index:idx_sign_submission"`
	StageID      string `gorm:"type:varchar(36)"`
	// RequestID идентификатор, передаваемый провайдеру и возвращаемый в колбеке
	RequestID    string            `gorm:"type:varchar(36);uniqueIndex"`
	RequestedBy  string            `gorm:"type:varchar(36)"`
	SignerUserID string            `gorm:"type:varchar(36)"`
	Status       SignSessionStatus `gorm:"type:varchar(20)"`
	FailReason   string
	// SignedDocPath путь подписанного документа в файловом хранилище
	SignedDocPath string `gorm:"type:varchar(500)"`
	CompletedAt   *time.Time
}
