package models

// DocStatus статус документа в процессе согласования
type DocStatus string

const (
	DocStatusDraft     DocStatus = "черновик"
	DocStatusSubmitted DocStatus = "подан"
	DocStatusPending   DocStatus = "на согласовании"
	DocStatusApproved  DocStatus = "согласован"
	DocStatusRejected  DocStatus = "отклонен"
	DocStatusReturned  DocStatus = "на доработке"
)

// IsTerminal согласован/отклонен - конечные статусы, изменение запрещено
func (s DocStatus) IsTerminal() bool {
	return s == DocStatusApproved || s == DocStatusRejected
}

// AllowSubmit подача возможна из черновика и после возврата на доработку
func (s DocStatus) AllowSubmit() bool {
	return s == DocStatusDraft || s == DocStatusReturned
}

// AllowEdit редактирование данных разрешено до подачи
func (s DocStatus) AllowEdit() bool {
	return s == DocStatusDraft || s == DocStatusReturned
}

// AllowAction действия согласования доступны только в статусе "на согласовании"
func (s DocStatus) AllowAction() bool {
	return s == DocStatusPending
}

// SignStatus статус подписания документа на этапе
type SignStatus string

const (
	SignStatusNotRequired SignStatus = "не требуется"
	SignStatusPending     SignStatus = "ожидает подписания"
	SignStatusSigned      SignStatus = "подписан"
	SignStatusFailed      SignStatus = "ошибка подписания"
)

// ApprovalAction тип действия согласующего
type ApprovalAction string

const (
	ActionApprove ApprovalAction = "согласовать"
	ActionReject  ApprovalAction = "отклонить"
	ActionReturn  ApprovalAction = "на доработку"
)

func (a ApprovalAction) IsValid() bool {
	return a == ActionApprove || a == ActionReject || a == ActionReturn
}

// TaskState состояние задачи согласующего
type TaskState string

const (
	TaskStatePending TaskState = "ожидает решения"
	TaskStateDone    TaskState = "решение принято"
	TaskStateRemoved TaskState = "снята"
)

// AssigneeKind вид участника этапа - роль или конкретный сотрудник
type AssigneeKind string

const (
	AssigneeKindRole AssigneeKind = "роль"
	AssigneeKindUser AssigneeKind = "сотрудник"
)

// DelegationScope область действия замещения, от частного к общему:
// документ -> процесс -> глобально
type DelegationScope string

const (
	DelegationScopeDocument DelegationScope = "документ"
	DelegationScopeWorkflow DelegationScope = "процесс"
	DelegationScopeGlobal   DelegationScope = "глобально"
)

// Weight вес области для выбора наиболее специфичного замещения
func (s DelegationScope) Weight() int {
	switch s {
	case DelegationScopeDocument:
		return 3
	case DelegationScopeWorkflow:
		return 2
	case DelegationScopeGlobal:
		return 1
	}
	return 0
}

func (s DelegationScope) IsValid() bool {
	return s.Weight() > 0
}

// NeedScopeID для глобального замещения идентификатор области не указывается
func (s DelegationScope) NeedScopeID() bool {
	return s != DelegationScopeGlobal
}
