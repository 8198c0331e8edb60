package delegationhandler

import (
	"time"

	"doc-flow-backend/db"
	delegationstore "doc-flow-backend/lib/delegation/store"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Resolve действующий замещающий для согласующего, либо nil.
	// Область от частного к общему: документ, процесс, глобально.
	// Внутри области побеждает замещение с более поздним началом.
	// Замещения самого замещающего не разворачиваются (без транзитивности)
	Resolve(spaceID, originalUserID, workflowID, submissionID string, now time.Time) (*dbmodels.Delegation, error)
	Create(spaceID string, data approvalapimodels.DelegationData) (id string, hMsg string, err error)
	Deactivate(spaceID, id string) error
	List(spaceID, fromUserID string) (list []approvalapimodels.DelegationView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:           delegationstore.NewInstance(db.DB),
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store:           delegationstore.NewInstance(tx),
		spaceUsersStore: spaceusersstore.NewInstance(tx),
	}
}

type impl struct {
	store           delegationstore.Provider
	spaceUsersStore spaceusersstore.Provider
}

func (i impl) Resolve(spaceID, originalUserID, workflowID, submissionID string, now time.Time) (*dbmodels.Delegation, error) {
	list, err := i.store.ListEffective(spaceID, originalUserID, now)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	// список упорядочен по началу действия, первый подходящий в области - победитель
	var best *dbmodels.Delegation
	for k := range list {
		rec := &list[k]
		if !rec.EffectiveAt(now) {
			continue
		}
		if !scopeMatches(rec, workflowID, submissionID) {
			continue
		}
		if best == nil || rec.Scope.Weight() > best.Scope.Weight() {
			best = rec
		}
	}
	return best, nil
}

func scopeMatches(rec *dbmodels.Delegation, workflowID, submissionID string) bool {
	switch rec.Scope {
	case models.DelegationScopeDocument:
		return rec.ScopeID != nil && *rec.ScopeID == submissionID
	case models.DelegationScopeWorkflow:
		return rec.ScopeID != nil && *rec.ScopeID == workflowID
	case models.DelegationScopeGlobal:
		return true
	}
	return false
}

func (i impl) Create(spaceID string, data approvalapimodels.DelegationData) (id string, hMsg string, err error) {
	logger := log.WithField("space_id", spaceID).
		WithField("from_user_id", data.FromUserID)
	rec := data.ToRec(spaceID)
	if err := rec.Validate(); err != nil {
		return "", err.Error(), nil
	}
	for _, userID := range []string{data.FromUserID, data.ToUserID} {
		user, err := i.spaceUsersStore.GetByID(userID)
		if err != nil {
			return "", "", err
		}
		if user == nil || user.SpaceID != spaceID {
			return "", "сотрудник не найден в справочнике сотрудников", nil
		}
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания замещения")
		return "", "", err
	}
	logger.WithField("rec_id", id).Info("создано замещение")
	return id, "", nil
}

func (i impl) Deactivate(spaceID, id string) error {
	logger := log.WithField("space_id", spaceID).
		WithField("rec_id", id)
	err := i.store.Deactivate(spaceID, id)
	if err != nil {
		logger.WithError(err).Error("ошибка отключения замещения")
		return err
	}
	logger.Info("замещение отключено")
	return nil
}

func (i impl) List(spaceID, fromUserID string) (list []approvalapimodels.DelegationView, err error) {
	recList, err := i.store.List(spaceID, fromUserID)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.DelegationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, approvalapimodels.DelegationConvert(rec))
	}
	return result, nil
}
