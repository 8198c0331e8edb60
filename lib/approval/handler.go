package approvalhandler

import (
	"context"
	"time"

	"doc-flow-backend/db"
	"doc-flow-backend/lib/approval/approvalerrs"
	historystore "doc-flow-backend/lib/approval/history-store"
	taskstore "doc-flow-backend/lib/approval/task-store"
	approverresolver "doc-flow-backend/lib/approver"
	stageselect "doc-flow-backend/lib/stage-select"
	submissionstore "doc-flow-backend/lib/submission/store"
	"doc-flow-backend/lib/trigger"
	"doc-flow-backend/lib/utils/lock"
	workflowstore "doc-flow-backend/lib/workflow/store"
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// lockWait предел ожидания, пока конкурирующее действие
// по тому же документу завершит переход
const lockWait = 5 * time.Second

type Provider interface {
	// Submit подача документа на согласование: подбор процесса и этапа,
	// новый круг согласования, назначение задач согласующим
	Submit(ctx context.Context, spaceID, actorUserID, submissionID string) (result *approvalapimodels.ActionResult, hMsg string, err error)
	// ProcessAction решение согласующего: согласовать, отклонить, на доработку
	ProcessAction(ctx context.Context, spaceID, actorUserID, submissionID string, data approvalapimodels.ActionData) (result *approvalapimodels.ActionResult, hMsg string, err error)
	// ResumeAfterSignature возобновление после успешного подписания:
	// если кворум уже набран, этап завершается
	ResumeAfterSignature(ctx context.Context, spaceID, submissionID string) error
	// FailSignature фиксация сбоя подписания, этап остается заблокированным
	FailSignature(ctx context.Context, spaceID, submissionID, reason string) error
	Inbox(spaceID, userID string) (list []approvalapimodels.InboxItemView, err error)
	History(spaceID, submissionID string) (list []approvalapimodels.ApprovalHistoryView, err error)
	StageTasks(spaceID, submissionID string) (list []approvalapimodels.ApprovalTaskView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		inTx:            gormTxRunner(db.DB),
		submissionStore: submissionstore.NewInstance(db.DB),
		taskStore:       taskstore.NewInstance(db.DB),
		historyStore:    historystore.NewInstance(db.DB),
	}
}

type impl struct {
	inTx            txRunner
	submissionStore submissionstore.Provider
	taskStore       taskstore.Provider
	historyStore    historystore.Provider
}

// txRunner выполняет переход в рамках одной транзакции со сторами,
// привязанными к ней
type txRunner func(fn func(s txStores) error) error

func gormTxRunner(DB *gorm.DB) txRunner {
	return func(fn func(s txStores) error) error {
		return DB.Transaction(func(tx *gorm.DB) error {
			return fn(newTxStores(tx))
		})
	}
}

// txStores сторы, привязанные к транзакции перехода
type txStores struct {
	submissions submissionstore.Provider
	tasks       taskstore.Provider
	history     historystore.Provider
	workflows   workflowstore.Provider
	approvers   approverresolver.Provider
}

func newTxStores(tx *gorm.DB) txStores {
	return txStores{
		submissions: submissionstore.NewInstance(tx),
		tasks:       taskstore.NewInstance(tx),
		history:     historystore.NewInstance(tx),
		workflows:   workflowstore.NewInstance(tx),
		approvers:   approverresolver.NewHandlerWithTx(tx),
	}
}

func (i impl) Submit(ctx context.Context, spaceID, actorUserID, submissionID string) (result *approvalapimodels.ActionResult, hMsg string, err error) {
	events := []trigger.Event{}
	locked, err := lock.WithDelay(ctx, lockKey(submissionID), lockWait, func() error {
		return i.inTx(func(s txStores) error {
			rec, err := s.submissions.GetByIDLocked(spaceID, submissionID)
			if err != nil {
				return err
			}
			if rec == nil {
				hMsg = "документ не найден"
				return nil
			}
			if rec.AuthorID != actorUserID {
				hMsg = "подать документ может только его автор"
				return nil
			}
			if !rec.Status.AllowSubmit() {
				hMsg = "документ в статусе \"" + string(rec.Status) + "\" подать нельзя"
				return nil
			}

			workflow, err := i.findWorkflow(s, spaceID, rec)
			if err != nil {
				return err
			}
			if workflow == nil {
				hMsg = "для типа документа \"" + rec.DocType + "\" нет активного процесса согласования"
				return nil
			}
			stage, err := stageselect.Instance.SelectStage(workflow, rec)
			if err != nil {
				if errors.Is(err, approvalerrs.ErrNoEligibleStage) {
					hMsg = err.Error()
					return nil
				}
				return err
			}

			cycle := rec.Cycle + 1
			events = append(events, trigger.Event{
				Event:        models.TriggerSubmitted,
				SpaceID:      spaceID,
				SubmissionID: rec.ID,
				ActorUserID:  actorUserID,
			})
			res, actEvents, err := i.activateStage(s, spaceID, rec, workflow, stage, cycle)
			if err != nil {
				return err
			}
			events = append(events, actEvents...)
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, "", err
	}
	if !locked {
		return nil, "", approvalerrs.ErrLockBusy
	}
	if hMsg != "" {
		return nil, hMsg, nil
	}
	trigger.Instance.Dispatch(events...)
	return result, "", nil
}

func (i impl) ProcessAction(ctx context.Context, spaceID, actorUserID, submissionID string, data approvalapimodels.ActionData) (result *approvalapimodels.ActionResult, hMsg string, err error) {
	if err := data.Validate(); err != nil {
		return nil, err.Error(), nil
	}
	events := []trigger.Event{}
	locked, err := lock.WithDelay(ctx, lockKey(submissionID), lockWait, func() error {
		return i.inTx(func(s txStores) error {
			rec, err := s.submissions.GetByIDLocked(spaceID, submissionID)
			if err != nil {
				return err
			}
			if rec == nil {
				hMsg = "документ не найден"
				return nil
			}
			if !rec.Status.AllowAction() || rec.StageID == nil {
				hMsg = "документ не находится на согласовании"
				return nil
			}
			workflow, stage, err := i.currentStage(s, spaceID, rec)
			if err != nil {
				return err
			}

			prior, err := s.history.GetActionBy(spaceID, rec.ID, stage.ID, actorUserID, rec.Cycle)
			if err != nil {
				return err
			}
			if prior != nil {
				hMsg = approvalerrs.ErrDuplicateAction.Error()
				return nil
			}
			task, err := s.tasks.GetOpenForUser(spaceID, rec.ID, actorUserID, rec.Cycle)
			if err != nil {
				return err
			}
			if task == nil || task.StageID != stage.ID {
				hMsg = approvalerrs.ErrNotAuthorizedApprover.Error()
				return nil
			}

			err = s.history.Create(dbmodels.ApprovalHistory{
				BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: spaceID},
				SubmissionID:   rec.ID,
				StageID:        stage.ID,
				Cycle:          rec.Cycle,
				Action:         data.Action,
				ActedByUserID:  actorUserID,
				OriginalUserID: task.OriginalUserID,
				DelegationID:   task.DelegationID,
				Comment:        data.Comment,
			})
			if err != nil {
				return err
			}
			if err = s.tasks.SetState(spaceID, task.ID, models.TaskStateDone); err != nil {
				return err
			}

			switch data.Action {
			case models.ActionReject:
				result, events, err = i.finishSubmission(s, spaceID, rec, models.DocStatusRejected, actorUserID, models.TriggerRejected)
				return err
			case models.ActionReturn:
				result, events, err = i.finishSubmission(s, spaceID, rec, models.DocStatusReturned, actorUserID, models.TriggerReturned)
				return err
			}

			// согласование: проверка кворума и попытка завершить этап
			count, err := s.history.CountApprovals(spaceID, rec.ID, stage.ID, rec.Cycle)
			if err != nil {
				return err
			}
			if int(count) < stage.Quorum() {
				result = &approvalapimodels.ActionResult{
					SubmissionID:    rec.ID,
					Status:          rec.Status,
					SignatureStatus: rec.SignatureStatus,
					StageID:         stage.ID,
				}
				return nil
			}
			res, evs, err := i.completeStage(s, spaceID, rec, workflow, stage, actorUserID)
			if err != nil {
				if errors.Is(err, approvalerrs.ErrSignatureNotComplete) {
					// решение записано, завершение этапа ждет подписания
					result = &approvalapimodels.ActionResult{
						SubmissionID:      rec.ID,
						Status:            rec.Status,
						SignatureStatus:   rec.SignatureStatus,
						StageID:           stage.ID,
						AwaitingSignature: true,
					}
					return nil
				}
				return err
			}
			result = res
			events = evs
			return nil
		})
	})
	if err != nil {
		return nil, "", err
	}
	if !locked {
		return nil, "", approvalerrs.ErrLockBusy
	}
	if hMsg != "" {
		return nil, hMsg, nil
	}
	trigger.Instance.Dispatch(events...)
	return result, "", nil
}

func (i impl) ResumeAfterSignature(ctx context.Context, spaceID, submissionID string) error {
	events := []trigger.Event{}
	locked, err := lock.WithDelay(ctx, lockKey(submissionID), lockWait, func() error {
		return i.inTx(func(s txStores) error {
			rec, err := s.submissions.GetByIDLocked(spaceID, submissionID)
			if err != nil {
				return err
			}
			if rec == nil || !rec.Status.AllowAction() || rec.StageID == nil {
				log.WithField("submission_id", submissionID).
					Warn("подписание завершено, но документ уже не на согласовании")
				return nil
			}
			err = s.submissions.Update(spaceID, rec.ID, map[string]interface{}{
				"signature_status": models.SignStatusSigned,
			})
			if err != nil {
				return err
			}
			rec.SignatureStatus = models.SignStatusSigned

			workflow, stage, err := i.currentStage(s, spaceID, rec)
			if err != nil {
				return err
			}
			count, err := s.history.CountApprovals(spaceID, rec.ID, stage.ID, rec.Cycle)
			if err != nil {
				return err
			}
			if int(count) < stage.Quorum() {
				// подпись пришла раньше кворума, этап завершит последнее согласование
				return nil
			}
			_, evs, err := i.completeStage(s, spaceID, rec, workflow, stage, "")
			if err != nil {
				return err
			}
			events = evs
			return nil
		})
	})
	if err != nil {
		return err
	}
	if !locked {
		return approvalerrs.ErrLockBusy
	}
	trigger.Instance.Dispatch(events...)
	return nil
}

func (i impl) FailSignature(ctx context.Context, spaceID, submissionID, reason string) error {
	locked, err := lock.WithDelay(ctx, lockKey(submissionID), lockWait, func() error {
		rec, err := i.submissionStore.GetByID(spaceID, submissionID)
		if err != nil {
			return err
		}
		if rec == nil || !rec.Status.AllowAction() {
			return nil
		}
		log.WithField("submission_id", submissionID).
			Warnf("подписание не удалось: %v", reason)
		return i.submissionStore.Update(spaceID, submissionID, map[string]interface{}{
			"signature_status": models.SignStatusFailed,
		})
	})
	if err != nil {
		return err
	}
	if !locked {
		return approvalerrs.ErrLockBusy
	}
	return nil
}

// findWorkflow процесс документа: зафиксированный при первой подаче
// или активный по типу документа
func (i impl) findWorkflow(s txStores, spaceID string, rec *dbmodels.DocSubmission) (*dbmodels.ApprovalWorkflow, error) {
	if rec.WorkflowID != nil {
		return s.workflows.GetByID(spaceID, *rec.WorkflowID)
	}
	return s.workflows.GetActiveByDocType(spaceID, rec.DocType)
}

func (i impl) currentStage(s txStores, spaceID string, rec *dbmodels.DocSubmission) (*dbmodels.ApprovalWorkflow, *dbmodels.WorkflowStage, error) {
	if rec.WorkflowID == nil || rec.StageID == nil {
		return nil, nil, errors.Errorf("у документа %v не задан процесс или этап", rec.ID)
	}
	workflow, err := s.workflows.GetByID(spaceID, *rec.WorkflowID)
	if err != nil {
		return nil, nil, err
	}
	if workflow == nil {
		return nil, nil, errors.Errorf("процесс %v не найден", *rec.WorkflowID)
	}
	stage := workflow.StageByID(*rec.StageID)
	if stage == nil {
		return nil, nil, errors.Errorf("этап %v не найден в процессе %v", *rec.StageID, workflow.ID)
	}
	return workflow, stage, nil
}

// activateStage переводит документ на этап: разворачивает согласующих,
// создает задачи, запрашивает подписание при необходимости.
// Повторная активация того же этапа в том же круге задач не дублирует
func (i impl) activateStage(s txStores, spaceID string, rec *dbmodels.DocSubmission, workflow *dbmodels.ApprovalWorkflow, stage *dbmodels.WorkflowStage, cycle int) (*approvalapimodels.ActionResult, []trigger.Event, error) {
	existing, err := s.tasks.ListByStage(spaceID, rec.ID, stage.ID, cycle)
	if err != nil {
		return nil, nil, err
	}
	if len(existing) == 0 {
		approvers, err := s.approvers.ResolveApprovers(spaceID, *stage, workflow.ID, rec.ID, time.Now())
		if err != nil {
			return nil, nil, err
		}
		if len(approvers) == 0 {
			return nil, nil, errors.Errorf("на этапе %v нет ни одного согласующего", stage.ID)
		}
		tasks := make([]dbmodels.ApprovalTask, 0, len(approvers))
		for _, approver := range approvers {
			tasks = append(tasks, dbmodels.ApprovalTask{
				BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: spaceID},
				SubmissionID:   rec.ID,
				StageID:        stage.ID,
				Cycle:          cycle,
				AssigneeUserID: approver.UserID,
				OriginalUserID: approver.OriginalUserID,
				DelegationID:   approver.DelegationID,
				State:          models.TaskStatePending,
			})
		}
		if err = s.tasks.CreateBatch(tasks); err != nil {
			return nil, nil, err
		}
	}

	signStatus := models.SignStatusNotRequired
	if stage.SignRequired {
		signStatus = models.SignStatusPending
	}
	err = s.submissions.Update(spaceID, rec.ID, map[string]interface{}{
		"workflow_id":      workflow.ID,
		"stage_id":         stage.ID,
		"status":           models.DocStatusPending,
		"signature_status": signStatus,
		"cycle":            cycle,
	})
	if err != nil {
		return nil, nil, err
	}
	rec.Status = models.DocStatusPending
	rec.SignatureStatus = signStatus
	rec.Cycle = cycle

	events := []trigger.Event{{
		Event:        models.TriggerStageActivated,
		SpaceID:      spaceID,
		SubmissionID: rec.ID,
		StageID:      stage.ID,
	}}
	if stage.SignRequired {
		events = append(events, trigger.Event{
			Event:        models.TriggerSignatureRequired,
			SpaceID:      spaceID,
			SubmissionID: rec.ID,
			StageID:      stage.ID,
		})
	}
	result := &approvalapimodels.ActionResult{
		SubmissionID:    rec.ID,
		Status:          rec.Status,
		SignatureStatus: rec.SignatureStatus,
		StageID:         stage.ID,
	}
	return result, events, nil
}

// completeStage завершает этап после набора кворума: переход на следующий
// этап либо итоговое согласование документа. Возвращает
// ErrSignatureNotComplete, если этап требует подписи, а ее еще нет
func (i impl) completeStage(s txStores, spaceID string, rec *dbmodels.DocSubmission, workflow *dbmodels.ApprovalWorkflow, stage *dbmodels.WorkflowStage, actorUserID string) (*approvalapimodels.ActionResult, []trigger.Event, error) {
	if stage.SignRequired && rec.SignatureStatus != models.SignStatusSigned {
		return nil, nil, approvalerrs.ErrSignatureNotComplete
	}
	err := s.tasks.CloseOpenByStage(spaceID, rec.ID, stage.ID, rec.Cycle, models.TaskStateRemoved)
	if err != nil {
		return nil, nil, err
	}

	next := workflow.NextStage(stage.StageOrder)
	if stage.IsFinal || next == nil {
		err = s.submissions.Update(spaceID, rec.ID, map[string]interface{}{
			"status": models.DocStatusApproved,
		})
		if err != nil {
			return nil, nil, err
		}
		result := &approvalapimodels.ActionResult{
			SubmissionID:    rec.ID,
			Status:          models.DocStatusApproved,
			SignatureStatus: rec.SignatureStatus,
		}
		events := []trigger.Event{
			{
				Event:        models.TriggerApproved,
				SpaceID:      spaceID,
				SubmissionID: rec.ID,
				StageID:      stage.ID,
				ActorUserID:  actorUserID,
			},
			{
				Event:        models.TriggerCompleted,
				SpaceID:      spaceID,
				SubmissionID: rec.ID,
			},
		}
		return result, events, nil
	}

	result, actEvents, err := i.activateStage(s, spaceID, rec, workflow, next, rec.Cycle)
	if err != nil {
		return nil, nil, err
	}
	events := append([]trigger.Event{{
		Event:        models.TriggerStageAdvanced,
		SpaceID:      spaceID,
		SubmissionID: rec.ID,
		StageID:      next.ID,
		ActorUserID:  actorUserID,
	}}, actEvents...)
	return result, events, nil
}

// finishSubmission отклонение или возврат на доработку:
// снимаются все открытые задачи, документ уходит с этапа
func (i impl) finishSubmission(s txStores, spaceID string, rec *dbmodels.DocSubmission, status models.DocStatus, actorUserID string, event models.TriggerEvent) (*approvalapimodels.ActionResult, []trigger.Event, error) {
	if err := s.tasks.CloseOpenBySubmission(spaceID, rec.ID, models.TaskStateRemoved); err != nil {
		return nil, nil, err
	}
	err := s.submissions.Update(spaceID, rec.ID, map[string]interface{}{
		"status":           status,
		"stage_id":         nil,
		"signature_status": models.SignStatusNotRequired,
	})
	if err != nil {
		return nil, nil, err
	}
	result := &approvalapimodels.ActionResult{
		SubmissionID:    rec.ID,
		Status:          status,
		SignatureStatus: models.SignStatusNotRequired,
	}
	events := []trigger.Event{{
		Event:        event,
		SpaceID:      spaceID,
		SubmissionID: rec.ID,
		ActorUserID:  actorUserID,
	}}
	return result, events, nil
}

func (i impl) Inbox(spaceID, userID string) (list []approvalapimodels.InboxItemView, err error) {
	tasks, err := i.taskStore.ListOpenByUser(spaceID, userID)
	if err != nil {
		return nil, err
	}
	list = make([]approvalapimodels.InboxItemView, 0, len(tasks))
	for _, task := range tasks {
		rec, err := i.submissionStore.GetByID(spaceID, task.SubmissionID)
		if err != nil {
			return nil, err
		}
		// задача актуальна, только пока документ стоит на ее этапе
		if rec == nil || !rec.OnStage(task.StageID) || rec.Cycle != task.Cycle {
			continue
		}
		item := approvalapimodels.InboxItemView{
			TaskID:           task.ID,
			SubmissionID:     rec.ID,
			DocType:          rec.DocType,
			Title:            rec.Title,
			DocNumber:        rec.DocNumber,
			StageID:          task.StageID,
			Substituted:      task.Substituted(),
			SignaturePending: rec.SignatureStatus == models.SignStatusPending,
			Status:           rec.Status,
			SignatureStatus:  rec.SignatureStatus,
			AssignedAt:       task.CreatedAt,
		}
		if task.Substituted() {
			item.OriginalUserID = task.OriginalUserID
		}
		list = append(list, item)
	}
	return list, nil
}

func (i impl) History(spaceID, submissionID string) (list []approvalapimodels.ApprovalHistoryView, err error) {
	recs, err := i.historyStore.ListBySubmission(spaceID, submissionID)
	if err != nil {
		return nil, err
	}
	list = make([]approvalapimodels.ApprovalHistoryView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.ApprovalHistoryConvert(rec))
	}
	return list, nil
}

func (i impl) StageTasks(spaceID, submissionID string) (list []approvalapimodels.ApprovalTaskView, err error) {
	rec, err := i.submissionStore.GetByID(spaceID, submissionID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.StageID == nil {
		return []approvalapimodels.ApprovalTaskView{}, nil
	}
	tasks, err := i.taskStore.ListByStage(spaceID, submissionID, *rec.StageID, rec.Cycle)
	if err != nil {
		return nil, err
	}
	list = make([]approvalapimodels.ApprovalTaskView, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, approvalapimodels.ApprovalTaskConvert(task))
	}
	return list, nil
}

func lockKey(submissionID string) string {
	return "submission:" + submissionID
}
