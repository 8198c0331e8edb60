package approverresolver

import (
	"time"

	"doc-flow-backend/db"
	delegationhandler "doc-flow-backend/lib/delegation"
	spaceusersstore "doc-flow-backend/lib/space/users/store"
	"doc-flow-backend/models"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ResolvedApprover итоговый согласующий с учетом замещения
type ResolvedApprover struct {
	UserID string
	// OriginalUserID исходный согласующий, совпадает с UserID без замещения
	OriginalUserID string
	DelegationID   *string
}

// Substituted согласующий заменен замещающим
func (r ResolvedApprover) Substituted() bool {
	return r.UserID != r.OriginalUserID
}

type Provider interface {
	// ResolveApprovers разворачивает участников этапа в набор согласующих:
	// роли - в сотрудников с этой ролью, затем каждому подбирается замещающий.
	// Замещающий не разворачивается повторно через роли. Набор без дублей
	ResolveApprovers(spaceID string, stage dbmodels.WorkflowStage, workflowID, submissionID string, now time.Time) ([]ResolvedApprover, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		spaceUsersStore: spaceusersstore.NewInstance(db.DB),
		delegations:     delegationhandler.Instance,
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		spaceUsersStore: spaceusersstore.NewInstance(tx),
		delegations:     delegationhandler.NewHandlerWithTx(tx),
	}
}

type impl struct {
	spaceUsersStore spaceusersstore.Provider
	delegations     delegationhandler.Provider
}

func (i impl) ResolveApprovers(spaceID string, stage dbmodels.WorkflowStage, workflowID, submissionID string, now time.Time) ([]ResolvedApprover, error) {
	originals, err := i.expandAssignees(spaceID, stage)
	if err != nil {
		return nil, err
	}

	result := make([]ResolvedApprover, 0, len(originals))
	seen := map[string]bool{}
	for _, userID := range originals {
		approver := ResolvedApprover{
			UserID:         userID,
			OriginalUserID: userID,
		}
		delegation, err := i.delegations.Resolve(spaceID, userID, workflowID, submissionID, now)
		if err != nil {
			return nil, err
		}
		if delegation != nil {
			delegationID := delegation.ID
			approver.UserID = delegation.ToUserID
			approver.DelegationID = &delegationID
		}
		if seen[approver.UserID] {
			continue
		}
		seen[approver.UserID] = true
		result = append(result, approver)
	}
	return result, nil
}

// expandAssignees участники этапа в виде списка сотрудников, без замещений
func (i impl) expandAssignees(spaceID string, stage dbmodels.WorkflowStage) ([]string, error) {
	users := make([]string, 0, len(stage.Assignees))
	seen := map[string]bool{}
	roles := make([]string, 0)
	for _, assignee := range stage.Assignees {
		if err := assignee.Validate(); err != nil {
			return nil, errors.Wrapf(err, "некорректный участник этапа %v", stage.ID)
		}
		switch assignee.Kind {
		case models.AssigneeKindUser:
			if !seen[assignee.SpaceUserID] {
				seen[assignee.SpaceUserID] = true
				users = append(users, assignee.SpaceUserID)
			}
		case models.AssigneeKindRole:
			roles = append(roles, assignee.RoleName)
		}
	}
	if len(roles) > 0 {
		roleUsers, err := i.spaceUsersStore.ListByApprovalRoles(spaceID, roles)
		if err != nil {
			return nil, err
		}
		for _, user := range roleUsers {
			if !seen[user.ID] {
				seen[user.ID] = true
				users = append(users, user.ID)
			}
		}
	}
	return users, nil
}
