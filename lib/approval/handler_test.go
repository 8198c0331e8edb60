package approvalhandler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"doc-flow-backend/lib/approval/approvalerrs"
	approverresolver "doc-flow-backend/lib/approver"
	stageselect "doc-flow-backend/lib/stage-select"
	"doc-flow-backend/lib/trigger"
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// memSubmissions хранилище документов в памяти
type memSubmissions struct {
	recs map[string]*dbmodels.DocSubmission
}

func newMemSubmissions(recs ...*dbmodels.DocSubmission) *memSubmissions {
	m := &memSubmissions{recs: map[string]*dbmodels.DocSubmission{}}
	for _, rec := range recs {
		m.recs[rec.ID] = rec
	}
	return m
}

func (m *memSubmissions) Create(rec dbmodels.DocSubmission) (string, error) {
	m.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (m *memSubmissions) GetByID(spaceID, id string) (*dbmodels.DocSubmission, error) {
	rec, ok := m.recs[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (m *memSubmissions) GetByIDLocked(spaceID, id string) (*dbmodels.DocSubmission, error) {
	return m.GetByID(spaceID, id)
}

func (m *memSubmissions) Update(spaceID, id string, updMap map[string]interface{}) error {
	rec, ok := m.recs[id]
	if !ok {
		return errors.New("документ не найден")
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.DocStatus)
		case "signature_status":
			rec.SignatureStatus = value.(models.SignStatus)
		case "workflow_id":
			id := value.(string)
			rec.WorkflowID = &id
		case "stage_id":
			if value == nil {
				rec.StageID = nil
			} else {
				id := value.(string)
				rec.StageID = &id
			}
		case "cycle":
			rec.Cycle = value.(int)
		}
	}
	return nil
}

func (m *memSubmissions) List(spaceID string, filter approvalapimodels.SubmissionFilter) ([]dbmodels.DocSubmission, error) {
	return nil, nil
}

func (m *memSubmissions) ListCount(spaceID string, filter approvalapimodels.SubmissionFilter) (int64, error) {
	return 0, nil
}

// memTasks хранилище задач согласующих в памяти
type memTasks struct {
	recs []dbmodels.ApprovalTask
}

func (m *memTasks) CreateBatch(recs []dbmodels.ApprovalTask) error {
	for k, rec := range recs {
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("task-%d", len(m.recs)+k+1)
		}
		m.recs = append(m.recs, rec)
	}
	return nil
}

func (m *memTasks) ListByStage(spaceID, submissionID, stageID string, cycle int) ([]dbmodels.ApprovalTask, error) {
	list := make([]dbmodels.ApprovalTask, 0)
	for _, rec := range m.recs {
		if rec.SubmissionID == submissionID && rec.StageID == stageID && rec.Cycle == cycle {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (m *memTasks) GetOpenForUser(spaceID, submissionID, userID string, cycle int) (*dbmodels.ApprovalTask, error) {
	for k := range m.recs {
		rec := m.recs[k]
		if rec.SubmissionID == submissionID && rec.AssigneeUserID == userID &&
			rec.Cycle == cycle && rec.State == models.TaskStatePending {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memTasks) SetState(spaceID, id string, state models.TaskState) error {
	for k := range m.recs {
		if m.recs[k].ID == id {
			m.recs[k].State = state
			return nil
		}
	}
	return errors.New("задача не найдена")
}

func (m *memTasks) CloseOpenByStage(spaceID, submissionID, stageID string, cycle int, state models.TaskState) error {
	for k := range m.recs {
		rec := &m.recs[k]
		if rec.SubmissionID == submissionID && rec.StageID == stageID &&
			rec.Cycle == cycle && rec.State == models.TaskStatePending {
			rec.State = state
		}
	}
	return nil
}

func (m *memTasks) CloseOpenBySubmission(spaceID, submissionID string, state models.TaskState) error {
	for k := range m.recs {
		rec := &m.recs[k]
		if rec.SubmissionID == submissionID && rec.State == models.TaskStatePending {
			rec.State = state
		}
	}
	return nil
}

func (m *memTasks) ListOpenByUser(spaceID, userID string) ([]dbmodels.ApprovalTask, error) {
	list := make([]dbmodels.ApprovalTask, 0)
	for _, rec := range m.recs {
		if rec.SpaceID == spaceID && rec.AssigneeUserID == userID && rec.State == models.TaskStatePending {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (m *memTasks) openByStage(stageID string) []dbmodels.ApprovalTask {
	list := make([]dbmodels.ApprovalTask, 0)
	for _, rec := range m.recs {
		if rec.StageID == stageID && rec.State == models.TaskStatePending {
			list = append(list, rec)
		}
	}
	return list
}

// memHistory журнал решений в памяти
type memHistory struct {
	recs []dbmodels.ApprovalHistory
}

func (m *memHistory) Create(rec dbmodels.ApprovalHistory) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memHistory) CountApprovals(spaceID, submissionID, stageID string, cycle int) (int64, error) {
	seen := map[string]bool{}
	for _, rec := range m.recs {
		if rec.SubmissionID == submissionID && rec.StageID == stageID &&
			rec.Cycle == cycle && rec.Action == models.ActionApprove {
			seen[rec.ActedByUserID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *memHistory) GetActionBy(spaceID, submissionID, stageID, userID string, cycle int) (*dbmodels.ApprovalHistory, error) {
	for k := range m.recs {
		rec := m.recs[k]
		if rec.SubmissionID == submissionID && rec.StageID == stageID &&
			rec.ActedByUserID == userID && rec.Cycle == cycle {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memHistory) ListBySubmission(spaceID, submissionID string) ([]dbmodels.ApprovalHistory, error) {
	return m.recs, nil
}

type fakeWorkflows struct {
	wf *dbmodels.ApprovalWorkflow
}

func (f fakeWorkflows) Create(rec dbmodels.ApprovalWorkflow) (string, error) { return rec.ID, nil }
func (f fakeWorkflows) GetByID(spaceID, id string) (*dbmodels.ApprovalWorkflow, error) {
	return f.wf, nil
}
func (f fakeWorkflows) GetActiveByDocType(spaceID, docType string) (*dbmodels.ApprovalWorkflow, error) {
	return f.wf, nil
}
func (f fakeWorkflows) GetStage(spaceID, stageID string) (*dbmodels.WorkflowStage, error) {
	return nil, nil
}
func (f fakeWorkflows) List(spaceID string) ([]dbmodels.ApprovalWorkflow, error) { return nil, nil }
func (f fakeWorkflows) SetActive(spaceID, id string, isActive bool) error        { return nil }

type fakeApprovers struct {
	// byStage согласующие по этапам
	byStage map[string][]approverresolver.ResolvedApprover
}

func (f fakeApprovers) ResolveApprovers(spaceID string, stage dbmodels.WorkflowStage, workflowID, submissionID string, now time.Time) ([]approverresolver.ResolvedApprover, error) {
	return f.byStage[stage.ID], nil
}

func approversFor(userIDs ...string) []approverresolver.ResolvedApprover {
	list := make([]approverresolver.ResolvedApprover, 0, len(userIDs))
	for _, id := range userIDs {
		list = append(list, approverresolver.ResolvedApprover{UserID: id, OriginalUserID: id})
	}
	return list
}

type fixture struct {
	stores txStores
	subs   *memSubmissions
	tasks  *memTasks
	hist   *memHistory
}

func newFixture(wf *dbmodels.ApprovalWorkflow, byStage map[string][]approverresolver.ResolvedApprover, recs ...*dbmodels.DocSubmission) fixture {
	subs := newMemSubmissions(recs...)
	tasks := &memTasks{}
	hist := &memHistory{}
	return fixture{
		stores: txStores{
			submissions: subs,
			tasks:       tasks,
			history:     hist,
			workflows:   fakeWorkflows{wf: wf},
			approvers:   fakeApprovers{byStage: byStage},
		},
		subs:  subs,
		tasks: tasks,
		hist:  hist,
	}
}

// handler экземпляр с подменой транзакции на сторы фикстуры
func (f fixture) handler() impl {
	return impl{
		inTx: func(fn func(s txStores) error) error {
			return fn(f.stores)
		},
		submissionStore: f.subs,
		taskStore:       f.tasks,
		historyStore:    f.hist,
	}
}

func approvalStage(id string, order int, quorum int) dbmodels.WorkflowStage {
	return dbmodels.WorkflowStage{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: "sp1"},
		WorkflowID:     "wf1",
		StageOrder:     order,
		MinApprovals:   quorum,
	}
}

func twoStageWorkflow(firstQuorum int, signOnFirst bool) *dbmodels.ApprovalWorkflow {
	s1 := approvalStage("s1", 1, firstQuorum)
	s1.SignRequired = signOnFirst
	s2 := approvalStage("s2", 2, 1)
	return &dbmodels.ApprovalWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "wf1"}, SpaceID: "sp1"},
		DocType:        "договор",
		IsActive:       true,
		Stages:         []dbmodels.WorkflowStage{s1, s2},
	}
}

func draftSubmission(id string) *dbmodels.DocSubmission {
	return &dbmodels.DocSubmission{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: "sp1"},
		DocType:        "договор",
		Title:          "Договор поставки",
		AuthorID:       "author1",
		Status:         models.DocStatusDraft,
	}
}

func TestActivateStage(t *testing.T) {
	h := impl{}

	t.Run(`задачи создаются для всех согласующих`, func(t *testing.T) {
		wf := twoStageWorkflow(2, false)
		rec := draftSubmission("doc1")
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s1": approversFor("u1", "u2"),
		}, rec)

		result, events, err := h.activateStage(f.stores, "sp1", rec, wf, &wf.Stages[0], 1)
		require.NoError(t, err)
		require.Equal(t, models.DocStatusPending, result.Status)
		require.Equal(t, models.SignStatusNotRequired, result.SignatureStatus)
		require.Len(t, f.tasks.openByStage("s1"), 2)
		require.Len(t, events, 1)
		require.Equal(t, models.TriggerStageActivated, events[0].Event)

		stored := f.subs.recs["doc1"]
		require.Equal(t, models.DocStatusPending, stored.Status)
		require.Equal(t, 1, stored.Cycle)
		require.NotNil(t, stored.StageID)
		require.Equal(t, "s1", *stored.StageID)
	})

	t.Run(`этап с подписанием запрашивает подпись`, func(t *testing.T) {
		wf := twoStageWorkflow(1, true)
		rec := draftSubmission("doc1")
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s1": approversFor("u1"),
		}, rec)

		result, events, err := h.activateStage(f.stores, "sp1", rec, wf, &wf.Stages[0], 1)
		require.NoError(t, err)
		require.Equal(t, models.SignStatusPending, result.SignatureStatus)
		require.Len(t, events, 2)
		require.Equal(t, models.TriggerSignatureRequired, events[1].Event)
	})

	t.Run(`повторная активация не дублирует задачи`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		rec := draftSubmission("doc1")
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s1": approversFor("u1"),
		}, rec)

		_, _, err := h.activateStage(f.stores, "sp1", rec, wf, &wf.Stages[0], 1)
		require.NoError(t, err)
		_, _, err = h.activateStage(f.stores, "sp1", rec, wf, &wf.Stages[0], 1)
		require.NoError(t, err)
		require.Len(t, f.tasks.recs, 1)
	})

	t.Run(`этап без согласующих - ошибка конфигурации`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		rec := draftSubmission("doc1")
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{}, rec)

		_, _, err := h.activateStage(f.stores, "sp1", rec, wf, &wf.Stages[0], 1)
		require.Error(t, err)
	})
}

func TestCompleteStage(t *testing.T) {
	h := impl{}

	pendingOn := func(wf *dbmodels.ApprovalWorkflow, stageID string, signStatus models.SignStatus) *dbmodels.DocSubmission {
		rec := draftSubmission("doc1")
		rec.Status = models.DocStatusPending
		rec.SignatureStatus = signStatus
		rec.WorkflowID = &wf.ID
		rec.StageID = &stageID
		rec.Cycle = 1
		return rec
	}

	t.Run(`промежуточный этап переходит на следующий в том же круге`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		rec := pendingOn(wf, "s1", models.SignStatusNotRequired)
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s1": approversFor("u1"),
			"s2": approversFor("u2"),
		}, rec)
		require.NoError(t, f.tasks.CreateBatch([]dbmodels.ApprovalTask{{
			SubmissionID: "doc1", StageID: "s1", Cycle: 1,
			AssigneeUserID: "u1", OriginalUserID: "u1", State: models.TaskStatePending,
		}}))

		result, events, err := h.completeStage(f.stores, "sp1", rec, wf, &wf.Stages[0], "u1")
		require.NoError(t, err)
		require.Equal(t, models.DocStatusPending, result.Status)
		require.Equal(t, "s2", result.StageID)
		require.Empty(t, f.tasks.openByStage("s1"))
		require.Len(t, f.tasks.openByStage("s2"), 1)
		require.Equal(t, models.TriggerStageAdvanced, events[0].Event)
		require.Equal(t, 1, f.subs.recs["doc1"].Cycle)
	})

	t.Run(`последний этап дает итоговое согласование`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		rec := pendingOn(wf, "s2", models.SignStatusNotRequired)
		f := newFixture(wf, nil, rec)
		require.NoError(t, f.tasks.CreateBatch([]dbmodels.ApprovalTask{{
			SubmissionID: "doc1", StageID: "s2", Cycle: 1,
			AssigneeUserID: "u2", OriginalUserID: "u2", State: models.TaskStatePending,
		}}))

		result, events, err := h.completeStage(f.stores, "sp1", rec, wf, &wf.Stages[1], "u2")
		require.NoError(t, err)
		require.Equal(t, models.DocStatusApproved, result.Status)
		require.Empty(t, f.tasks.openByStage("s2"))
		require.Len(t, events, 2)
		require.Equal(t, models.TriggerApproved, events[0].Event)
		require.Equal(t, models.TriggerCompleted, events[1].Event)
		require.Equal(t, models.DocStatusApproved, f.subs.recs["doc1"].Status)
	})

	t.Run(`этап с подписанием не завершается без подписи`, func(t *testing.T) {
		wf := twoStageWorkflow(1, true)
		rec := pendingOn(wf, "s1", models.SignStatusPending)
		f := newFixture(wf, nil, rec)

		_, _, err := h.completeStage(f.stores, "sp1", rec, wf, &wf.Stages[0], "u1")
		require.ErrorIs(t, err, approvalerrs.ErrSignatureNotComplete)
		require.Equal(t, models.DocStatusPending, f.subs.recs["doc1"].Status)
	})

	t.Run(`после подписи этап завершается`, func(t *testing.T) {
		wf := twoStageWorkflow(1, true)
		rec := pendingOn(wf, "s1", models.SignStatusSigned)
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s2": approversFor("u2"),
		}, rec)

		result, _, err := h.completeStage(f.stores, "sp1", rec, wf, &wf.Stages[0], "u1")
		require.NoError(t, err)
		require.Equal(t, "s2", result.StageID)
	})
}

func TestFinishSubmission(t *testing.T) {
	h := impl{}
	wf := twoStageWorkflow(2, false)
	stageID := "s1"
	rec := draftSubmission("doc1")
	rec.Status = models.DocStatusPending
	rec.WorkflowID = &wf.ID
	rec.StageID = &stageID
	rec.Cycle = 2
	f := newFixture(wf, nil, rec)
	require.NoError(t, f.tasks.CreateBatch([]dbmodels.ApprovalTask{
		{SubmissionID: "doc1", StageID: "s1", Cycle: 2, AssigneeUserID: "u1", State: models.TaskStatePending},
		{SubmissionID: "doc1", StageID: "s1", Cycle: 2, AssigneeUserID: "u2", State: models.TaskStatePending},
	}))

	result, events, err := h.finishSubmission(f.stores, "sp1", rec, models.DocStatusReturned, "u1", models.TriggerReturned)
	require.NoError(t, err)
	require.Equal(t, models.DocStatusReturned, result.Status)
	require.Empty(t, f.tasks.openByStage("s1"))

	stored := f.subs.recs["doc1"]
	require.Equal(t, models.DocStatusReturned, stored.Status)
	require.Nil(t, stored.StageID)
	require.Equal(t, models.SignStatusNotRequired, stored.SignatureStatus)
	require.Len(t, events, 1)
	require.Equal(t, models.TriggerReturned, events[0].Event)
}

func TestQuorumCounting(t *testing.T) {
	hist := &memHistory{}
	add := func(userID string, action models.ApprovalAction, cycle int) {
		require.NoError(t, hist.Create(dbmodels.ApprovalHistory{
			SubmissionID: "doc1", StageID: "s1", Cycle: cycle,
			Action: action, ActedByUserID: userID, OriginalUserID: userID,
		}))
	}

	add("u1", models.ActionApprove, 1)
	add("u2", models.ActionApprove, 1)
	add("u3", models.ActionReturn, 1)
	// решения прошлого круга не должны учитываться
	add("u4", models.ActionApprove, 0)

	count, err := hist.CountApprovals("sp1", "doc1", "s1", 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

// actionFixture документ на согласовании на первом этапе с тремя задачами
func actionFixture(t *testing.T, quorum int) (fixture, impl) {
	t.Helper()
	wf := twoStageWorkflow(quorum, false)
	stageID := "s1"
	rec := draftSubmission("doc1")
	rec.Status = models.DocStatusPending
	rec.WorkflowID = &wf.ID
	rec.StageID = &stageID
	rec.Cycle = 1
	f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
		"s2": approversFor("next1"),
	}, rec)
	require.NoError(t, f.tasks.CreateBatch([]dbmodels.ApprovalTask{
		{SubmissionID: "doc1", StageID: "s1", Cycle: 1, AssigneeUserID: "u1", OriginalUserID: "u1", State: models.TaskStatePending},
		{SubmissionID: "doc1", StageID: "s1", Cycle: 1, AssigneeUserID: "u2", OriginalUserID: "u2", State: models.TaskStatePending},
		{SubmissionID: "doc1", StageID: "s1", Cycle: 1, AssigneeUserID: "u3", OriginalUserID: "u3", State: models.TaskStatePending},
	}))
	return f, f.handler()
}

func TestProcessAction(t *testing.T) {
	trigger.NewHandler(64)
	ctx := context.Background()
	approve := approvalapimodels.ActionData{Action: models.ActionApprove}

	t.Run(`повторное решение одного согласующего отклоняется`, func(t *testing.T) {
		_, h := actionFixture(t, 3)
		_, hMsg, err := h.ProcessAction(ctx, "sp1", "u1", "doc1", approve)
		require.NoError(t, err)
		require.Empty(t, hMsg)

		_, hMsg, err = h.ProcessAction(ctx, "sp1", "u1", "doc1", approve)
		require.NoError(t, err)
		require.Equal(t, approvalerrs.ErrDuplicateAction.Error(), hMsg)
	})

	t.Run(`решение принимает только назначенный согласующий`, func(t *testing.T) {
		_, h := actionFixture(t, 3)
		_, hMsg, err := h.ProcessAction(ctx, "sp1", "u9", "doc1", approve)
		require.NoError(t, err)
		require.Equal(t, approvalerrs.ErrNotAuthorizedApprover.Error(), hMsg)
	})

	t.Run(`одно отклонение прерывает этап с кворумом три`, func(t *testing.T) {
		f, h := actionFixture(t, 3)
		result, hMsg, err := h.ProcessAction(ctx, "sp1", "u2", "doc1", approvalapimodels.ActionData{
			Action:  models.ActionReject,
			Comment: "нет бюджета",
		})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.DocStatusRejected, result.Status)
		require.Empty(t, f.tasks.openByStage("s1"))
		require.Nil(t, f.subs.recs["doc1"].StageID)
	})

	t.Run(`кворум набирается разными согласующими`, func(t *testing.T) {
		f, h := actionFixture(t, 2)
		result, hMsg, err := h.ProcessAction(ctx, "sp1", "u1", "doc1", approve)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "s1", result.StageID)
		require.Equal(t, models.DocStatusPending, result.Status)

		result, hMsg, err = h.ProcessAction(ctx, "sp1", "u2", "doc1", approve)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "s2", result.StageID)
		require.Len(t, f.tasks.openByStage("s2"), 1)
	})

	t.Run(`возврат без комментария отклоняется`, func(t *testing.T) {
		_, h := actionFixture(t, 3)
		_, hMsg, err := h.ProcessAction(ctx, "sp1", "u1", "doc1", approvalapimodels.ActionData{Action: models.ActionReturn})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})

	t.Run(`решение по документу не на согласовании отклоняется`, func(t *testing.T) {
		f, h := actionFixture(t, 3)
		f.subs.recs["doc1"].Status = models.DocStatusReturned
		f.subs.recs["doc1"].StageID = nil
		_, hMsg, err := h.ProcessAction(ctx, "sp1", "u1", "doc1", approve)
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestSubmit(t *testing.T) {
	trigger.NewHandler(64)
	stageselect.NewHandler()
	ctx := context.Background()

	t.Run(`подача создает задачи первого этапа`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		rec := draftSubmission("doc1")
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s1": approversFor("u1", "u2"),
		}, rec)
		h := f.handler()

		result, hMsg, err := h.Submit(ctx, "sp1", "author1", "doc1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.DocStatusPending, result.Status)
		require.Equal(t, "s1", result.StageID)
		require.Len(t, f.tasks.openByStage("s1"), 2)
		require.Equal(t, 1, f.subs.recs["doc1"].Cycle)
	})

	t.Run(`подать документ может только автор`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		f := newFixture(wf, nil, draftSubmission("doc1"))
		h := f.handler()

		_, hMsg, err := h.Submit(ctx, "sp1", "someone-else", "doc1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Empty(t, f.tasks.recs)
	})

	t.Run(`повторная подача открывает новый круг`, func(t *testing.T) {
		wf := twoStageWorkflow(1, false)
		rec := draftSubmission("doc1")
		rec.Status = models.DocStatusReturned
		rec.WorkflowID = &wf.ID
		rec.Cycle = 1
		f := newFixture(wf, map[string][]approverresolver.ResolvedApprover{
			"s1": approversFor("u1"),
		}, rec)
		h := f.handler()

		result, hMsg, err := h.Submit(ctx, "sp1", "author1", "doc1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.DocStatusPending, result.Status)
		require.Equal(t, 2, f.subs.recs["doc1"].Cycle)
		require.Len(t, f.tasks.openByStage("s1"), 1)
	})
}

func TestInbox(t *testing.T) {
	stageID := "s1"
	onStage := draftSubmission("doc1")
	onStage.Status = models.DocStatusPending
	onStage.StageID = &stageID
	onStage.Cycle = 2

	moved := draftSubmission("doc2")
	moved.Status = models.DocStatusPending
	stage2 := "s2"
	moved.StageID = &stage2
	moved.Cycle = 1

	subs := newMemSubmissions(onStage, moved)
	tasks := &memTasks{}
	require.NoError(t, tasks.CreateBatch([]dbmodels.ApprovalTask{
		{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: "sp1"},
			SubmissionID:   "doc1", StageID: "s1", Cycle: 2,
			AssigneeUserID: "u1", OriginalUserID: "u9", State: models.TaskStatePending,
		},
		// документ ушел с этапа задачи, в список попасть не должна
		{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: "sp1"},
			SubmissionID:   "doc2", StageID: "s1", Cycle: 1,
			AssigneeUserID: "u1", OriginalUserID: "u1", State: models.TaskStatePending,
		},
		// задача прежнего круга
		{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: "sp1"},
			SubmissionID:   "doc1", StageID: "s1", Cycle: 1,
			AssigneeUserID: "u1", OriginalUserID: "u1", State: models.TaskStatePending,
		},
	}))

	h := impl{submissionStore: subs, taskStore: tasks}
	list, err := h.Inbox("sp1", "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "doc1", list[0].SubmissionID)
	require.True(t, list[0].Substituted)
	require.Equal(t, "u9", list[0].OriginalUserID)
}
