package model

import "testing"

func TestProjectTransitions(t *testing.T) {
	cases := []struct {
		from, to ProjectStatus
		want     bool
	}{
		{ProjectStatusDraft, ProjectStatusOffering, true},
		{ProjectStatusDraft, ProjectStatusRejected, true},
		{ProjectStatusDraft, ProjectStatusInExecution, false},
		{ProjectStatusOffering, ProjectStatusInExecution, true},
		{ProjectStatusInExecution, ProjectStatusClosed, true},
		{ProjectStatusInExecution, ProjectStatusOffering, false},
		{ProjectStatusClosed, ProjectStatusDraft, false},
		{ProjectStatusRejected, ProjectStatusDraft, false},
	}
	for _, tc := range cases {
		got := ProjectTransitions.Allowed(string(tc.from), string(tc.to))
		if got != tc.want {
			t.Errorf("project %s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAgreementTransitionsAreLinear(t *testing.T) {
	order := []AgreementStatus{
		AgreementStatusDraft,
		AgreementStatusSent,
		AgreementStatusSigned,
		AgreementStatusExecuted,
		AgreementStatusSettled,
	}
	for i, from := range order {
		for j, to := range order {
			got := AgreementTransitions.Allowed(string(from), string(to))
			want := j == i+1
			if got != want {
				t.Errorf("agreement %s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusDraft, OrderStatusSent, true},
		{OrderStatusSent, OrderStatusPartiallyDelivered, true},
		{OrderStatusSent, OrderStatusDelivered, true},
		{OrderStatusPartiallyDelivered, OrderStatusDelivered, true},
		{OrderStatusPartiallyDelivered, OrderStatusSettled, true},
		{OrderStatusDelivered, OrderStatusSettled, true},
		{OrderStatusDelivered, OrderStatusSent, false},
		{OrderStatusSettled, OrderStatusDraft, false},
		{OrderStatusDraft, OrderStatusDelivered, false},
	}
	for _, tc := range cases {
		got := OrderTransitions.Allowed(string(tc.from), string(tc.to))
		if got != tc.want {
			t.Errorf("order %s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatuses(t *testing.T) {
	if _, ok := ParseProjectStatus("in_execution"); !ok {
		t.Error("in_execution must parse")
	}
	if _, ok := ParseProjectStatus("archived"); ok {
		t.Error("archived must not parse")
	}
	if _, ok := ParseOrderStatus("partially_delivered"); !ok {
		t.Error("partially_delivered must parse")
	}
	if _, ok := ParseAgreementStatus("cancelled"); ok {
		t.Error("cancelled must not parse")
	}
	if _, ok := ParseRealizationKind("material"); !ok {
		t.Error("material must parse")
	}
}
