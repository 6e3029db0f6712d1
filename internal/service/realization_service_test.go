package service

import (
	"context"
	"errors"
	"testing"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

func TestAddRealizationEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fx, order, agreement := generateDocuments(t, env)

	entry, err := env.realizations.AddEntry(ctx, AddRealizationInput{
		ProjectID:   fx.project.ID,
		Kind:        model.RealizationKindMaterial,
		Amount:      dec("980.00"),
		OrderID:     &order.ID,
		Description: "invoice FV/2026/08/114",
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if entry.Paid {
		t.Error("entry must start unpaid")
	}

	if _, err := env.realizations.AddEntry(ctx, AddRealizationInput{
		ProjectID: fx.project.ID,
		Kind:      model.RealizationKindLabor,
		Amount:    dec("100"),
		OrderID:   &order.ID, AgreementID: &agreement.ID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("both links = %v, want ErrInvalidInput", err)
	}
	if _, err := env.realizations.AddEntry(ctx, AddRealizationInput{
		ProjectID: fx.project.ID,
		Kind:      model.RealizationKindOther,
		Amount:    dec("0"),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero amount = %v, want ErrInvalidInput", err)
	}
}

func TestAddRealizationRejectsForeignDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, order, _ := generateDocuments(t, env)
	other, err := env.lifecycle.CreateProject(ctx, "Another site")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := env.realizations.AddEntry(ctx, AddRealizationInput{
		ProjectID: other.ID,
		Kind:      model.RealizationKindMaterial,
		Amount:    dec("50"),
		OrderID:   &order.ID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("foreign order = %v, want ErrInvalidInput", err)
	}
}

func TestMarkPaidAndFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fx, order, agreement := generateDocuments(t, env)

	material, err := env.realizations.AddEntry(ctx, AddRealizationInput{
		ProjectID: fx.project.ID, Kind: model.RealizationKindMaterial, Amount: dec("980"), OrderID: &order.ID,
	})
	if err != nil {
		t.Fatalf("add material entry: %v", err)
	}
	if _, err := env.realizations.AddEntry(ctx, AddRealizationInput{
		ProjectID: fx.project.ID, Kind: model.RealizationKindLabor, Amount: dec("450"), AgreementID: &agreement.ID,
	}); err != nil {
		t.Fatalf("add labor entry: %v", err)
	}

	if err := env.realizations.MarkPaid(ctx, material.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	paid := true
	entries, err := env.realizations.List(ctx, fx.project.ID, repository.ListFilter{Paid: &paid})
	if err != nil {
		t.Fatalf("list paid: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != material.ID {
		t.Fatalf("paid entries = %d, want the marked one", len(entries))
	}

	kind := model.RealizationKindLabor
	entries, err = env.realizations.List(ctx, fx.project.ID, repository.ListFilter{Kind: &kind})
	if err != nil {
		t.Fatalf("list by kind: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != model.RealizationKindLabor {
		t.Fatalf("labor entries = %d, want 1", len(entries))
	}
}
