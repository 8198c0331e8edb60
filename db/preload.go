package db

import (
	"doc-flow-backend/config"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	authutils "doc-flow-backend/lib/utils/auth-utils"
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	addSuperAdmin()
}

func addSuperAdmin() {
	if config.Conf.Admin.Email == "" {
		log.Warn("суперадмин не добавлен, отсутвует настройка ADMIN_EMAIL")
		return
	}
	store := spaceusersstore.NewInstance(DB)
	existedRec, err := store.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления суперадмина")
		return
	}
	if existedRec != nil {
		return
	}
	rec := dbmodels.SpaceUser{
		IsActive:   true,
		Role:       models.UserRoleSuperAdmin,
		Password:   authutils.GetMD5Hash(config.Conf.Admin.Password),
		FirstName:  config.Conf.Admin.FirstName,
		LastName:   config.Conf.Admin.LastName,
		Email:      config.Conf.Admin.Email,
		WorkStatus: models.SpaceWorkingStatus,
	}
	_, err = store.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления суперадмина")
	}
}
