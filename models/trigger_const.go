package models

// TriggerEvent код события, рассылаемого после фиксации перехода
type TriggerEvent string

const (
	TriggerSubmitted         TriggerEvent = "submitted"
	TriggerStageActivated    TriggerEvent = "stage_activated"
	TriggerStageAdvanced     TriggerEvent = "stage_advanced"
	TriggerApproved          TriggerEvent = "approved"
	TriggerRejected          TriggerEvent = "rejected"
	TriggerReturned          TriggerEvent = "returned"
	TriggerCompleted         TriggerEvent = "completed"
	TriggerSignatureRequired TriggerEvent = "signature_required"
)
