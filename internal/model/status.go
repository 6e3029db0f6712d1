package model

// Transitions is an allowed-transition table. Statuses absent from the map
// are terminal.
type Transitions map[string][]string

func (t Transitions) Allowed(from, to string) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

var ProjectTransitions = Transitions{
	string(ProjectStatusDraft):       {string(ProjectStatusOffering), string(ProjectStatusRejected)},
	string(ProjectStatusOffering):    {string(ProjectStatusInExecution), string(ProjectStatusRejected)},
	string(ProjectStatusInExecution): {string(ProjectStatusClosed), string(ProjectStatusRejected)},
}

// Agreements move forward only.
var AgreementTransitions = Transitions{
	string(AgreementStatusDraft):    {string(AgreementStatusSent)},
	string(AgreementStatusSent):     {string(AgreementStatusSigned)},
	string(AgreementStatusSigned):   {string(AgreementStatusExecuted)},
	string(AgreementStatusExecuted): {string(AgreementStatusSettled)},
}

// A purchase order fulfilled in a single delivery may skip
// partially_delivered.
var OrderTransitions = Transitions{
	string(OrderStatusDraft):              {string(OrderStatusSent)},
	string(OrderStatusSent):               {string(OrderStatusPartiallyDelivered), string(OrderStatusDelivered)},
	string(OrderStatusPartiallyDelivered): {string(OrderStatusDelivered), string(OrderStatusSettled)},
	string(OrderStatusDelivered):          {string(OrderStatusSettled)},
}

func ParseProjectStatus(raw string) (ProjectStatus, bool) {
	switch ProjectStatus(raw) {
	case ProjectStatusDraft, ProjectStatusOffering, ProjectStatusInExecution,
		ProjectStatusClosed, ProjectStatusRejected:
		return ProjectStatus(raw), true
	}
	return "", false
}

func ParseAgreementStatus(raw string) (AgreementStatus, bool) {
	switch AgreementStatus(raw) {
	case AgreementStatusDraft, AgreementStatusSent, AgreementStatusSigned,
		AgreementStatusExecuted, AgreementStatusSettled:
		return AgreementStatus(raw), true
	}
	return "", false
}

func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusDraft, OrderStatusSent, OrderStatusPartiallyDelivered,
		OrderStatusDelivered, OrderStatusSettled:
		return OrderStatus(raw), true
	}
	return "", false
}

func ParseRealizationKind(raw string) (RealizationKind, bool) {
	switch RealizationKind(raw) {
	case RealizationKindMaterial, RealizationKindLabor, RealizationKindOther:
		return RealizationKind(raw), true
	}
	return "", false
}
