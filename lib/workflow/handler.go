package workflowhandler

import (
	"fmt"

	"doc-flow-backend/db"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	workflowstore "doc-flow-backend/lib/workflow/store"
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Save(spaceID string, data approvalapimodels.WorkflowData) (id string, hMsg string, err error)
	GetByID(spaceID, id string) (item approvalapimodels.WorkflowView, hMsg string, err error)
	List(spaceID string) (list []approvalapimodels.WorkflowView, err error)
	SetActive(spaceID, id string, isActive bool) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:           workflowstore.NewInstance(db.DB),
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store           workflowstore.Provider
	spaceUsersStore spaceusersstore.Provider
}

func (i impl) Save(spaceID string, data approvalapimodels.WorkflowData) (id string, hMsg string, err error) {
	logger := log.WithField("space_id", spaceID).
		WithField("doc_type", data.DocType)
	rec := dbmodels.ApprovalWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		DocType:     data.DocType,
		Name:        data.Name,
		IsActive:    data.IsActive,
		AmountField: data.AmountField,
	}
	for _, stageData := range data.Stages {
		from, err := stageData.RangeFrom()
		if err != nil {
			return "", err.Error(), nil
		}
		to, err := stageData.RangeTo()
		if err != nil {
			return "", err.Error(), nil
		}
		stage := dbmodels.WorkflowStage{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			Name:         stageData.Name,
			StageOrder:   stageData.StageOrder,
			AmountFrom:   from,
			AmountTo:     to,
			IsDefault:    stageData.IsDefault,
			IsFinal:      stageData.IsFinal,
			MinApprovals: stageData.MinApprovals,
			SignRequired: stageData.SignRequired,
		}
		for _, assigneeData := range stageData.Assignees {
			if assigneeData.Kind == models.AssigneeKindUser {
				user, err := i.spaceUsersStore.GetByID(assigneeData.SpaceUserID)
				if err != nil {
					return "", "", err
				}
				if user == nil || user.SpaceID != spaceID {
					return "", fmt.Sprintf("сотрудник с этапа %v не найден в справочнике сотрудников", stageData.StageOrder), nil
				}
			}
			stage.Assignees = append(stage.Assignees, dbmodels.StageAssignee{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					SpaceID: spaceID,
				},
				Kind:        assigneeData.Kind,
				RoleName:    assigneeData.RoleName,
				SpaceUserID: assigneeData.SpaceUserID,
			})
		}
		rec.Stages = append(rec.Stages, stage)
	}
	if err = rec.Validate(); err != nil {
		return "", err.Error(), nil
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения процесса согласования")
		return "", "", err
	}
	logger.WithField("rec_id", id).Info("создан процесс согласования")
	return id, "", nil
}

func (i impl) GetByID(spaceID, id string) (item approvalapimodels.WorkflowView, hMsg string, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return approvalapimodels.WorkflowView{}, "", err
	}
	if rec == nil {
		return approvalapimodels.WorkflowView{}, "процесс не найден", nil
	}
	return approvalapimodels.WorkflowConvert(*rec), "", nil
}

func (i impl) List(spaceID string) (list []approvalapimodels.WorkflowView, err error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка процессов")
		return nil, err
	}
	result := make([]approvalapimodels.WorkflowView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, approvalapimodels.WorkflowConvert(rec))
	}
	return result, nil
}

func (i impl) SetActive(spaceID, id string, isActive bool) error {
	return i.store.SetActive(spaceID, id, isActive)
}
