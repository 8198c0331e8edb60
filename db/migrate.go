package db

import (
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Space{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Space")
	}
	if err := DB.AutoMigrate(&dbmodels.SpaceUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SpaceUser")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalWorkflow{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalWorkflow")
	}
	if err := DB.AutoMigrate(&dbmodels.WorkflowStage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры WorkflowStage")
	}
	if err := DB.AutoMigrate(&dbmodels.StageAssignee{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StageAssignee")
	}
	if err := DB.AutoMigrate(&dbmodels.Delegation{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Delegation")
	}
	if err := DB.AutoMigrate(&dbmodels.DocSubmission{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры DocSubmission")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalTask{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalTask")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.SignatureRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SignatureRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.DocCounter{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры DocCounter")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
