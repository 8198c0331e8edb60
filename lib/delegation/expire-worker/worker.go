package delegationexpireworker

import (
	"context"
	"time"

	"doc-flow-backend/db"
	delegationstore "doc-flow-backend/lib/delegation/store"
	baseworker "doc-flow-backend/lib/utils/base-worker"
)

// Задача отключения замещений с истекшим окном действия

func StartWorker(ctx context.Context) {
	w := impl{
		BaseImpl: *baseworker.NewInstance("delegation_expire", time.Minute, time.Hour),
		store:    delegationstore.NewInstance(db.DB),
	}
	go w.Run(ctx, w.do)
}

type impl struct {
	baseworker.BaseImpl
	store delegationstore.Provider
}

func (i impl) do(ctx context.Context) {
	count, err := i.store.DeactivateExpired(time.Now())
	if err != nil {
		i.GetLogger().WithError(err).Error("ошибка отключения истекших замещений")
		return
	}
	if count > 0 {
		i.GetLogger().WithField("count", count).Info("отключены истекшие замещения")
	}
}
