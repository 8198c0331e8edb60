package spaceauthhandler

import (
	"doc-flow-backend/db"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	authutils "doc-flow-backend/lib/utils/auth-utils"
	"doc-flow-backend/middleware"
	authapimodels "doc-flow-backend/models/api/auth"
	spaceapimodels "doc-flow-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(email, password string) (response authapimodels.JWTResponse, err error)
	Me(ctx *fiber.Ctx) (view *spaceapimodels.SpaceUserView, err error)
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

func (i impl) Login(email, password string) (response authapimodels.JWTResponse, err error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска пользователя по почте")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil {
		logger.Debug("пользователь с такой почтой не найден")
		return authapimodels.JWTResponse{}, errors.New("пользователь с такой почтой не найден")
	}
	if !user.IsActive {
		logger.Debug("пользователь заблокирован")
		return authapimodels.JWTResponse{}, errors.New("пользователь заблокирован")
	}
	if authutils.GetMD5Hash(password) != user.Password {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, errors.New("пользователь не прошел проверку пароля")
	}
	tokenString, err := authutils.GetToken(user.ID, user.GetFullName(), user.SpaceID, user.Role)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token: tokenString,
	}, nil
}

func (i impl) Me(ctx *fiber.Ctx) (*spaceapimodels.SpaceUserView, error) {
	userID := middleware.GetUserID(ctx)
	user, err := i.store.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("пользователь не найден")
	}
	view := spaceapimodels.SpaceUserConvert(*user)
	return &view, nil
}
