package submissionhandler

import (
	"doc-flow-backend/db"
	submissionstore "doc-flow-backend/lib/submission/store"
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"
)

type Provider interface {
	Create(spaceID, authorID string, data approvalapimodels.SubmissionCreateData) (id string, hMsg string, err error)
	Update(spaceID, userID, id string, data approvalapimodels.SubmissionEditData) (hMsg string, err error)
	GetByID(spaceID, id string) (view *approvalapimodels.SubmissionView, err error)
	List(spaceID string, filter approvalapimodels.SubmissionFilter) (list []approvalapimodels.SubmissionView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: submissionstore.NewInstance(db.DB),
	}
}

type impl struct {
	store submissionstore.Provider
}

func (i impl) Create(spaceID, authorID string, data approvalapimodels.SubmissionCreateData) (id string, hMsg string, err error) {
	if err := data.Validate(); err != nil {
		return "", err.Error(), nil
	}
	rec := dbmodels.DocSubmission{
		BaseSpaceModel:  dbmodels.BaseSpaceModel{SpaceID: spaceID},
		DocType:         data.DocType,
		Title:           data.Title,
		AuthorID:        authorID,
		Data:            data.Data,
		Status:          models.DocStatusDraft,
		SignatureStatus: models.SignStatusNotRequired,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", err
	}
	return id, "", nil
}

func (i impl) Update(spaceID, userID, id string, data approvalapimodels.SubmissionEditData) (hMsg string, err error) {
	if err := data.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "документ не найден", nil
	}
	if rec.AuthorID != userID {
		return "изменять документ может только его автор", nil
	}
	if !rec.Status.AllowEdit() {
		return "документ в статусе \"" + string(rec.Status) + "\" изменять нельзя", nil
	}
	updMap := map[string]interface{}{
		"title": data.Title,
	}
	if data.Data != nil {
		updMap["data"] = data.Data
	}
	if err = i.store.Update(spaceID, id, updMap); err != nil {
		return "", err
	}
	return "", nil
}

func (i impl) GetByID(spaceID, id string) (*approvalapimodels.SubmissionView, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	view := approvalapimodels.SubmissionConvert(*rec)
	return &view, nil
}

func (i impl) List(spaceID string, filter approvalapimodels.SubmissionFilter) (list []approvalapimodels.SubmissionView, rowCount int64, err error) {
	recs, err := i.store.List(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]approvalapimodels.SubmissionView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.SubmissionConvert(rec))
	}
	return list, rowCount, nil
}
