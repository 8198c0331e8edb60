package signaturehandler

import (
	"context"
	"fmt"
	"testing"

	approvalhandler "doc-flow-backend/lib/approval"
	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	"github.com/stretchr/testify/require"
)

type memSignStore struct {
	recs []dbmodels.SignatureRequest
}

func (m *memSignStore) Create(rec dbmodels.SignatureRequest) (string, error) {
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("sess-%d", len(m.recs)+1)
	}
	m.recs = append(m.recs, rec)
	return rec.ID, nil
}

func (m *memSignStore) GetByRequestID(requestID string) (*dbmodels.SignatureRequest, error) {
	for k := range m.recs {
		if m.recs[k].RequestID == requestID {
			rec := m.recs[k]
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memSignStore) GetRequested(spaceID, submissionID, stageID string) (*dbmodels.SignatureRequest, error) {
	for k := range m.recs {
		rec := m.recs[k]
		if rec.SubmissionID == submissionID && rec.StageID == stageID &&
			rec.Status == dbmodels.SignSessionRequested {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memSignStore) Update(id string, updMap map[string]interface{}) error {
	for k := range m.recs {
		if m.recs[k].ID != id {
			continue
		}
		if status, ok := updMap["status"]; ok {
			m.recs[k].Status = status.(dbmodels.SignSessionStatus)
		}
		if reason, ok := updMap["fail_reason"]; ok {
			m.recs[k].FailReason = reason.(string)
		}
		return nil
	}
	return nil
}

func (m *memSignStore) ListBySubmission(spaceID, submissionID string) ([]dbmodels.SignatureRequest, error) {
	return m.recs, nil
}

type fakeSubmissions struct {
	rec *dbmodels.DocSubmission
}

func (f *fakeSubmissions) Create(rec dbmodels.DocSubmission) (string, error) { return rec.ID, nil }
func (f *fakeSubmissions) GetByID(spaceID, id string) (*dbmodels.DocSubmission, error) {
	if f.rec == nil || f.rec.ID != id {
		return nil, nil
	}
	clone := *f.rec
	return &clone, nil
}
func (f *fakeSubmissions) GetByIDLocked(spaceID, id string) (*dbmodels.DocSubmission, error) {
	return f.GetByID(spaceID, id)
}
func (f *fakeSubmissions) Update(spaceID, id string, updMap map[string]interface{}) error {
	if status, ok := updMap["signature_status"]; ok {
		f.rec.SignatureStatus = status.(models.SignStatus)
	}
	return nil
}
func (f *fakeSubmissions) List(spaceID string, filter approvalapimodels.SubmissionFilter) ([]dbmodels.DocSubmission, error) {
	return nil, nil
}
func (f *fakeSubmissions) ListCount(spaceID string, filter approvalapimodels.SubmissionFilter) (int64, error) {
	return 0, nil
}

type fakeUsers struct{}

func (f fakeUsers) Create(rec dbmodels.SpaceUser) (string, error)         { return rec.ID, nil }
func (f fakeUsers) GetByID(id string) (*dbmodels.SpaceUser, error)        { return nil, nil }
func (f fakeUsers) FindByEmail(email string) (*dbmodels.SpaceUser, error) { return nil, nil }
func (f fakeUsers) ListByIDs(spaceID string, ids []string) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeUsers) ListByApprovalRoles(spaceID string, roles []string) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}

// fakeApproval фиксирует вызовы возобновления согласования
type fakeApproval struct {
	resumed bool
	failed  bool
}

func (f *fakeApproval) Submit(ctx context.Context, spaceID, actorUserID, submissionID string) (*approvalapimodels.ActionResult, string, error) {
	return nil, "", nil
}
func (f *fakeApproval) ProcessAction(ctx context.Context, spaceID, actorUserID, submissionID string, data approvalapimodels.ActionData) (*approvalapimodels.ActionResult, string, error) {
	return nil, "", nil
}
func (f *fakeApproval) ResumeAfterSignature(ctx context.Context, spaceID, submissionID string) error {
	f.resumed = true
	return nil
}
func (f *fakeApproval) FailSignature(ctx context.Context, spaceID, submissionID, reason string) error {
	f.failed = true
	return nil
}
func (f *fakeApproval) Inbox(spaceID, userID string) ([]approvalapimodels.InboxItemView, error) {
	return nil, nil
}
func (f *fakeApproval) History(spaceID, submissionID string) ([]approvalapimodels.ApprovalHistoryView, error) {
	return nil, nil
}
func (f *fakeApproval) StageTasks(spaceID, submissionID string) ([]approvalapimodels.ApprovalTaskView, error) {
	return nil, nil
}

func session(id, requestID string, status dbmodels.SignSessionStatus) dbmodels.SignatureRequest {
	return dbmodels.SignatureRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: "sp1"},
		SubmissionID:   "doc1",
		StageID:        "s1",
		RequestID:      requestID,
		SignerUserID:   "author1",
		Status:         status,
	}
}

func pendingSubmission(signStatus models.SignStatus) *dbmodels.DocSubmission {
	stageID := "s1"
	return &dbmodels.DocSubmission{
		BaseSpaceModel:  dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "doc1"}, SpaceID: "sp1"},
		DocType:         "договор",
		Title:           "Договор поставки",
		AuthorID:        "author1",
		StageID:         &stageID,
		Status:          models.DocStatusPending,
		SignatureStatus: signStatus,
		Cycle:           1,
	}
}

func swapApproval(t *testing.T) *fakeApproval {
	t.Helper()
	prev := approvalhandler.Instance
	fake := &fakeApproval{}
	approvalhandler.Instance = fake
	t.Cleanup(func() { approvalhandler.Instance = prev })
	return fake
}

func TestOnComplete(t *testing.T) {
	ctx := context.Background()

	t.Run(`успешный колбек завершает сессию и возобновляет согласование`, func(t *testing.T) {
		approval := swapApproval(t)
		store := &memSignStore{recs: []dbmodels.SignatureRequest{session("sess-1", "req-1", dbmodels.SignSessionRequested)}}
		h := impl{store: store, submissionStore: &fakeSubmissions{}, spaceUsersStore: fakeUsers{}}

		hMsg, err := h.OnComplete(ctx, "req-1", "", nil)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, dbmodels.SignSessionCompleted, store.recs[0].Status)
		require.True(t, approval.resumed)
	})

	t.Run(`сбойная сессия не принимает поздний колбек успеха`, func(t *testing.T) {
		approval := swapApproval(t)
		store := &memSignStore{recs: []dbmodels.SignatureRequest{session("sess-1", "req-old", dbmodels.SignSessionFailed)}}
		h := impl{store: store, submissionStore: &fakeSubmissions{}, spaceUsersStore: fakeUsers{}}

		hMsg, err := h.OnComplete(ctx, "req-old", "", nil)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, dbmodels.SignSessionFailed, store.recs[0].Status)
		require.False(t, approval.resumed, "сбойная сессия не должна возобновлять согласование")
	})

	t.Run(`повторный колбек по завершенной сессии идемпотентен`, func(t *testing.T) {
		approval := swapApproval(t)
		store := &memSignStore{recs: []dbmodels.SignatureRequest{session("sess-1", "req-1", dbmodels.SignSessionCompleted)}}
		h := impl{store: store, submissionStore: &fakeSubmissions{}, spaceUsersStore: fakeUsers{}}

		hMsg, err := h.OnComplete(ctx, "req-1", "", nil)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.False(t, approval.resumed)
	})

	t.Run(`неизвестная сессия`, func(t *testing.T) {
		swapApproval(t)
		h := impl{store: &memSignStore{}, submissionStore: &fakeSubmissions{}, spaceUsersStore: fakeUsers{}}
		hMsg, err := h.OnComplete(ctx, "req-x", "", nil)
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestRequestForStage(t *testing.T) {
	ctx := context.Background()

	t.Run(`после сбоя открывается новая сессия`, func(t *testing.T) {
		swapApproval(t)
		store := &memSignStore{recs: []dbmodels.SignatureRequest{session("sess-1", "req-old", dbmodels.SignSessionFailed)}}
		subs := &fakeSubmissions{rec: pendingSubmission(models.SignStatusFailed)}
		h := impl{store: store, submissionStore: subs, spaceUsersStore: fakeUsers{}}

		requestID, hMsg, err := h.RequestForStage(ctx, "sp1", "doc1", "user1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.NotEmpty(t, requestID)
		require.NotEqual(t, "req-old", requestID)
		require.Len(t, store.recs, 2)
		require.Equal(t, "user1", store.recs[1].RequestedBy)
		require.Equal(t, models.SignStatusPending, subs.rec.SignatureStatus)
	})

	t.Run(`действующая сессия не дублируется`, func(t *testing.T) {
		swapApproval(t)
		store := &memSignStore{recs: []dbmodels.SignatureRequest{session("sess-1", "req-1", dbmodels.SignSessionRequested)}}
		subs := &fakeSubmissions{rec: pendingSubmission(models.SignStatusPending)}
		h := impl{store: store, submissionStore: subs, spaceUsersStore: fakeUsers{}}

		requestID, hMsg, err := h.RequestForStage(ctx, "sp1", "doc1", "user1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "req-1", requestID)
		require.Len(t, store.recs, 1)
	})

	t.Run(`документ не на согласовании`, func(t *testing.T) {
		swapApproval(t)
		rec := pendingSubmission(models.SignStatusPending)
		rec.Status = models.DocStatusReturned
		rec.StageID = nil
		h := impl{store: &memSignStore{}, submissionStore: &fakeSubmissions{rec: rec}, spaceUsersStore: fakeUsers{}}

		_, hMsg, err := h.RequestForStage(ctx, "sp1", "doc1", "user1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})

	t.Run(`подписание для этапа не требуется`, func(t *testing.T) {
		swapApproval(t)
		h := impl{store: &memSignStore{}, submissionStore: &fakeSubmissions{rec: pendingSubmission(models.SignStatusNotRequired)}, spaceUsersStore: fakeUsers{}}

		_, hMsg, err := h.RequestForStage(ctx, "sp1", "doc1", "user1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}
