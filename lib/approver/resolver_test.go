package approverresolver

import (
	"testing"
	"time"

	"doc-flow-backend/models"
	approvalapimodels "doc-flow-backend/models/api/approval"
	dbmodels "doc-flow-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeUsersStore struct {
	byRole map[string][]string
}

func (f fakeUsersStore) Create(rec dbmodels.SpaceUser) (string, error)         { return rec.ID, nil }
func (f fakeUsersStore) GetByID(id string) (*dbmodels.SpaceUser, error)        { return nil, nil }
func (f fakeUsersStore) FindByEmail(email string) (*dbmodels.SpaceUser, error) { return nil, nil }
func (f fakeUsersStore) ListByIDs(spaceID string, ids []string) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeUsersStore) ListByApprovalRoles(spaceID string, roles []string) ([]dbmodels.SpaceUser, error) {
	list := make([]dbmodels.SpaceUser, 0)
	seen := map[string]bool{}
	for _, role := range roles {
		for _, id := range f.byRole[role] {
			if seen[id] {
				continue
			}
			seen[id] = true
			list = append(list, dbmodels.SpaceUser{
				BaseModel: dbmodels.BaseModel{ID: id},
			})
		}
	}
	return list, nil
}

type fakeDelegations struct {
	// byUser замещающий для исходного согласующего
	byUser map[string]dbmodels.Delegation
}

func (f fakeDelegations) Resolve(spaceID, originalUserID, workflowID, submissionID string, now time.Time) (*dbmodels.Delegation, error) {
	rec, ok := f.byUser[originalUserID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
func (f fakeDelegations) Create(spaceID string, data approvalapimodels.DelegationData) (string, string, error) {
	return "", "", nil
}
func (f fakeDelegations) Deactivate(spaceID, id string) error { return nil }
func (f fakeDelegations) List(spaceID, fromUserID string) ([]approvalapimodels.DelegationView, error) {
	return nil, nil
}

func userAssignee(userID string) dbmodels.StageAssignee {
	return dbmodels.StageAssignee{Kind: models.AssigneeKindUser, SpaceUserID: userID}
}

func roleAssignee(role string) dbmodels.StageAssignee {
	return dbmodels.StageAssignee{Kind: models.AssigneeKindRole, RoleName: role}
}

func stageWith(assignees ...dbmodels.StageAssignee) dbmodels.WorkflowStage {
	return dbmodels.WorkflowStage{Assignees: assignees}
}

func userIDs(list []ResolvedApprover) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.UserID)
	}
	return ids
}

func TestResolveApprovers(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run(`прямые участники без замещений`, func(t *testing.T) {
		h := impl{spaceUsersStore: fakeUsersStore{}, delegations: fakeDelegations{}}
		list, err := h.ResolveApprovers("sp1", stageWith(userAssignee("u1"), userAssignee("u2")), "wf1", "doc1", now)
		require.NoError(t, err)
		require.Equal(t, []string{"u1", "u2"}, userIDs(list))
		for _, a := range list {
			require.False(t, a.Substituted())
			require.Nil(t, a.DelegationID)
		}
	})

	t.Run(`роль разворачивается в сотрудников`, func(t *testing.T) {
		h := impl{
			spaceUsersStore: fakeUsersStore{byRole: map[string][]string{"бухгалтер": {"u3", "u4"}}},
			delegations:     fakeDelegations{},
		}
		list, err := h.ResolveApprovers("sp1", stageWith(userAssignee("u1"), roleAssignee("бухгалтер")), "wf1", "doc1", now)
		require.NoError(t, err)
		require.Equal(t, []string{"u1", "u3", "u4"}, userIDs(list))
	})

	t.Run(`сотрудник и его роль не дают дубля`, func(t *testing.T) {
		h := impl{
			spaceUsersStore: fakeUsersStore{byRole: map[string][]string{"бухгалтер": {"u1", "u2"}}},
			delegations:     fakeDelegations{},
		}
		list, err := h.ResolveApprovers("sp1", stageWith(userAssignee("u1"), roleAssignee("бухгалтер")), "wf1", "doc1", now)
		require.NoError(t, err)
		require.Equal(t, []string{"u1", "u2"}, userIDs(list))
	})

	t.Run(`замещение подменяет согласующего с сохранением исходного`, func(t *testing.T) {
		h := impl{
			spaceUsersStore: fakeUsersStore{},
			delegations: fakeDelegations{byUser: map[string]dbmodels.Delegation{
				"u1": {
					BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "d1"}},
					FromUserID:     "u1",
					ToUserID:       "sub1",
				},
			}},
		}
		list, err := h.ResolveApprovers("sp1", stageWith(userAssignee("u1"), userAssignee("u2")), "wf1", "doc1", now)
		require.NoError(t, err)
		require.Equal(t, []string{"sub1", "u2"}, userIDs(list))
		require.True(t, list[0].Substituted())
		require.Equal(t, "u1", list[0].OriginalUserID)
		require.NotNil(t, list[0].DelegationID)
		require.Equal(t, "d1", *list[0].DelegationID)
	})

	t.Run(`замещения на одного сотрудника схлопываются в одну задачу`, func(t *testing.T) {
		h := impl{
			spaceUsersStore: fakeUsersStore{},
			delegations: fakeDelegations{byUser: map[string]dbmodels.Delegation{
				"u1": {FromUserID: "u1", ToUserID: "sub1"},
				"u2": {FromUserID: "u2", ToUserID: "sub1"},
			}},
		}
		list, err := h.ResolveApprovers("sp1", stageWith(userAssignee("u1"), userAssignee("u2")), "wf1", "doc1", now)
		require.NoError(t, err)
		require.Equal(t, []string{"sub1"}, userIDs(list))
		require.Equal(t, "u1", list[0].OriginalUserID)
	})

	t.Run(`некорректный участник этапа дает ошибку`, func(t *testing.T) {
		h := impl{spaceUsersStore: fakeUsersStore{}, delegations: fakeDelegations{}}
		_, err := h.ResolveApprovers("sp1", stageWith(dbmodels.StageAssignee{Kind: models.AssigneeKindUser}), "wf1", "doc1", now)
		require.Error(t, err)
	})
}
