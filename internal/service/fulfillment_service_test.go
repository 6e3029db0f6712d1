package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

func generateDocuments(t *testing.T, env *testEnv) (*generationFixture, *model.PurchaseOrder, *model.Agreement) {
	t.Helper()
	ctx := context.Background()
	fx := buildGenerationFixture(t, env)

	if _, err := env.generator.GenerateAgreements(ctx, fx.revision.ID); err != nil {
		t.Fatalf("generate agreements: %v", err)
	}
	if _, err := env.generator.GeneratePurchaseOrders(ctx, fx.revision.ID); err != nil {
		t.Fatalf("generate orders: %v", err)
	}

	orders, err := env.generator.ListOrders(ctx, fx.project.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	order, err := env.generator.GetOrder(ctx, orders[0].ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}

	agreements, err := env.generator.ListAgreements(ctx, fx.project.ID)
	if err != nil {
		t.Fatalf("list agreements: %v", err)
	}
	agreement, err := env.generator.GetAgreement(ctx, agreements[0].ID)
	if err != nil {
		t.Fatalf("get agreement: %v", err)
	}
	return fx, order, agreement
}

func TestRecordDeliveryAccumulates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, order, _ := generateDocuments(t, env)
	lineID := order.Lines[0].ID

	for _, qty := range []string{"60", "40"} {
		if _, err := env.fulfillment.RecordDelivery(ctx, RecordDeliveryInput{
			OrderID: order.ID,
			Lines:   []DeliveryLineInput{{OrderLineID: lineID, Quantity: dec(qty)}},
		}); err != nil {
			t.Fatalf("record delivery %s: %v", qty, err)
		}
	}

	reloaded, err := env.generator.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !reloaded.Lines[0].DeliveredQuantity.Equal(dec("100")) {
		t.Errorf("delivered = %s, want cumulative 100", reloaded.Lines[0].DeliveredQuantity)
	}

	deliveries, err := env.fulfillment.ListDeliveries(ctx, order.ID)
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}
	if len(deliveries) != 2 {
		t.Errorf("deliveries = %d, want 2", len(deliveries))
	}

	// The delivery-line sum agrees with the cumulative column.
	total, err := repository.NewFulfillmentRepository(env.db).DeliveredTotal(ctx, lineID)
	if err != nil {
		t.Fatalf("delivered total: %v", err)
	}
	if !total.Equal(reloaded.Lines[0].DeliveredQuantity) {
		t.Errorf("summed = %s, cumulative = %s", total, reloaded.Lines[0].DeliveredQuantity)
	}
}

func TestRecordDeliveryValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, order, _ := generateDocuments(t, env)

	if _, err := env.fulfillment.RecordDelivery(ctx, RecordDeliveryInput{
		OrderID: order.ID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty lines = %v, want ErrInvalidInput", err)
	}
	if _, err := env.fulfillment.RecordDelivery(ctx, RecordDeliveryInput{
		OrderID: order.ID,
		Lines:   []DeliveryLineInput{{OrderLineID: order.Lines[0].ID, Quantity: dec("-5")}},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative quantity = %v, want ErrInvalidInput", err)
	}
	if _, err := env.fulfillment.RecordDelivery(ctx, RecordDeliveryInput{
		OrderID: order.ID,
		Lines:   []DeliveryLineInput{{OrderLineID: uuid.New(), Quantity: dec("5")}},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("foreign line = %v, want ErrInvalidInput", err)
	}
}

func TestRecordExecutionOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, agreement := generateDocuments(t, env)
	line := agreement.Lines[0]

	first, err := env.fulfillment.RecordExecution(ctx, RecordExecutionInput{
		AgreementLineID: line.ID, Quantity: line.Quantity.Div(dec("2")),
	})
	if err != nil {
		t.Fatalf("first execution: %v", err)
	}
	if !first.CompletionPercent.Equal(dec("50")) {
		t.Errorf("percent = %s, want 50", first.CompletionPercent)
	}

	// Over-execution is recorded as-is, not capped at 100.
	second, err := env.fulfillment.RecordExecution(ctx, RecordExecutionInput{
		AgreementLineID: line.ID, Quantity: line.Quantity.Mul(dec("1.2")),
	})
	if err != nil {
		t.Fatalf("second execution: %v", err)
	}
	if !second.CompletionPercent.Equal(dec("120")) {
		t.Errorf("percent = %s, want 120", second.CompletionPercent)
	}

	reloaded, err := env.generator.GetAgreement(ctx, agreement.ID)
	if err != nil {
		t.Fatalf("get agreement: %v", err)
	}
	if !reloaded.Lines[0].ExecutedQuantity.Equal(line.Quantity.Mul(dec("1.2"))) {
		t.Errorf("executed = %s, want latest report value", reloaded.Lines[0].ExecutedQuantity)
	}

	executions, err := env.fulfillment.ListExecutions(ctx, line.ID)
	if err != nil {
		t.Fatalf("list executions: %v", err)
	}
	if len(executions) != 2 {
		t.Errorf("executions = %d, want both reports kept", len(executions))
	}
}

func TestAdvanceStatusesFollowTables(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, order, agreement := generateDocuments(t, env)

	if _, err := env.fulfillment.AdvanceAgreementStatus(ctx, agreement.ID, model.AgreementStatusSigned); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("draft -> signed = %v, want ErrInvalidTransition", err)
	}
	updated, err := env.fulfillment.AdvanceAgreementStatus(ctx, agreement.ID, model.AgreementStatusSent)
	if err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	if updated.Status != model.AgreementStatusSent {
		t.Errorf("status = %s, want sent", updated.Status)
	}

	if _, err := env.fulfillment.AdvanceOrderStatus(ctx, order.ID, model.OrderStatusSent); err != nil {
		t.Fatalf("order draft -> sent: %v", err)
	}
	// A single full delivery may skip partially_delivered.
	if _, err := env.fulfillment.AdvanceOrderStatus(ctx, order.ID, model.OrderStatusDelivered); err != nil {
		t.Errorf("sent -> delivered: %v", err)
	}
}
