package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/PanArtek/plany-app-sub000/internal/config"
	"github.com/PanArtek/plany-app-sub000/internal/model"
)

// generationFixture builds a locked revision with one position: two labor
// components split across two subcontractors and one supplier-sourced
// material component.
type generationFixture struct {
	project   *model.Project
	revision  *model.Revision
	position  *model.CostPosition
	subA      uuid.UUID
	subB      uuid.UUID
	supplier  uuid.UUID
	laborA    *model.LaborComponent
	laborB    *model.LaborComponent
	material  *model.MaterialComponent
}

func buildGenerationFixture(t *testing.T, env *testEnv) *generationFixture {
	t.Helper()
	ctx := context.Background()
	library := env.seedLibrary(t)

	productID := uuid.New()
	supplier := &model.Supplier{ID: uuid.New(), Name: "BudMat"}
	env.mustCreate(t, supplier)
	env.mustCreate(t, &model.SupplierPrice{
		ID: uuid.New(), SupplierID: supplier.ID, ProductID: productID, Price: dec("9.80"), IsActive: true,
	})

	subA := &model.Subcontractor{ID: uuid.New(), Name: "GipsBud"}
	subB := &model.Subcontractor{ID: uuid.New(), Name: "MalWork"}
	env.mustCreate(t, subA)
	env.mustCreate(t, subB)

	project, revision := env.newRevision(t)
	position, err := env.estimates.AddPosition(ctx, AddPositionInput{
		RevisionID: revision.ID, LibraryPositionID: library.ID, Quantity: dec("100"),
	})
	if err != nil {
		t.Fatalf("add position: %v", err)
	}

	laborA, err := env.estimates.AddLabor(ctx, position.ID, AddLaborInput{
		Description: "Framing", SubcontractorID: &subA.ID, Rate: dec("15"), Norma: dec("0.3"),
	})
	if err != nil {
		t.Fatalf("add labor: %v", err)
	}
	laborB, err := env.estimates.AddLabor(ctx, position.ID, AddLaborInput{
		Description: "Painting", SubcontractorID: &subB.ID, Rate: dec("12"), Norma: dec("0.2"),
	})
	if err != nil {
		t.Fatalf("add labor: %v", err)
	}
	material, err := env.estimates.AddMaterial(ctx, position.ID, AddMaterialInput{
		Name: "Mineral wool", Unit: "m2", Norma: dec("1"), ProductID: &productID,
	})
	if err != nil {
		t.Fatalf("add material: %v", err)
	}

	if _, err := env.lifecycle.LockRevision(ctx, revision.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	return &generationFixture{
		project:  project,
		revision: revision,
		position: position,
		subA:     subA.ID,
		subB:     subB.ID,
		supplier: supplier.ID,
		laborA:   laborA,
		laborB:   laborB,
		material: material,
	}
}

func TestGenerateAgreementsOnePerSubcontractor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fx := buildGenerationFixture(t, env)

	count, err := env.generator.GenerateAgreements(ctx, fx.revision.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if count != 2 {
		t.Fatalf("agreements = %d, want 2", count)
	}

	agreements, err := env.generator.ListAgreements(ctx, fx.project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agreements) != 2 {
		t.Fatalf("listed = %d, want 2", len(agreements))
	}
	for _, a := range agreements {
		if a.Status != model.AgreementStatusDraft {
			t.Errorf("status = %s, want draft", a.Status)
		}
		full, err := env.generator.GetAgreement(ctx, a.ID)
		if err != nil {
			t.Fatalf("get agreement: %v", err)
		}
		if len(full.Lines) != 1 {
			t.Fatalf("lines = %d, want 1", len(full.Lines))
		}
		line := full.Lines[0]
		if !line.Quantity.Equal(dec("30")) && !line.Quantity.Equal(dec("20")) {
			t.Errorf("line quantity = %s, want norma x position quantity", line.Quantity)
		}
		if len(line.Sources) != 1 {
			t.Fatalf("sources = %d, want 1", len(line.Sources))
		}
		if line.Sources[0].PositionID != fx.position.ID {
			t.Error("source link must point at the originating position")
		}
		if !line.Sources[0].Quantity.Equal(line.Quantity) {
			t.Error("source quantity must match the line quantity")
		}
	}
}

func TestGenerateOrdersGroupsBySupplier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fx := buildGenerationFixture(t, env)

	count, err := env.generator.GeneratePurchaseOrders(ctx, fx.revision.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Only the supplier-resolved component qualifies; library-priced
	// components without a supplier are excluded.
	if count != 1 {
		t.Fatalf("orders = %d, want 1", count)
	}

	orders, err := env.generator.ListOrders(ctx, fx.project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	order, err := env.generator.GetOrder(ctx, orders[0].ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.SupplierID != fx.supplier {
		t.Error("order must target the resolved supplier")
	}
	if len(order.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(order.Lines))
	}
	if !order.Lines[0].Quantity.Equal(dec("100")) {
		t.Errorf("line quantity = %s, want 100", order.Lines[0].Quantity)
	}
	if !order.Lines[0].Price.Equal(dec("9.80")) {
		t.Errorf("line price = %s, want resolved 9.80", order.Lines[0].Price)
	}
	if order.Lines[0].Sources[0].ComponentID != fx.material.ID {
		t.Error("source link must trace to the material component")
	}
}

func TestGenerateRejectsUnlockedRevision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, revision := env.newRevision(t)

	if _, err := env.generator.GenerateAgreements(ctx, revision.ID); !errors.Is(err, ErrNotLocked) {
		t.Errorf("agreements on open revision = %v, want ErrNotLocked", err)
	}
	if _, err := env.generator.GeneratePurchaseOrders(ctx, revision.ID); !errors.Is(err, ErrNotLocked) {
		t.Errorf("orders on open revision = %v, want ErrNotLocked", err)
	}
}

func TestGenerateRejectsSecondRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fx := buildGenerationFixture(t, env)

	if _, err := env.generator.GenerateAgreements(ctx, fx.revision.ID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := env.generator.GenerateAgreements(ctx, fx.revision.ID); !errors.Is(err, ErrConstraint) {
		t.Errorf("second run = %v, want ErrConstraint", err)
	}
}

func TestGenerateHonoursRequireAccepted(t *testing.T) {
	env := newTestEnvWithConfig(t, &config.Config{
		Generation: config.GenerationConfig{RequireAccepted: true},
	})
	ctx := context.Background()
	fx := buildGenerationFixture(t, env)

	if _, err := env.generator.GenerateAgreements(ctx, fx.revision.ID); !errors.Is(err, ErrConstraint) {
		t.Errorf("non-accepted revision = %v, want ErrConstraint", err)
	}

	if _, err := env.lifecycle.ChangeProjectStatus(ctx, fx.project.ID, model.ProjectStatusOffering, nil); err != nil {
		t.Fatalf("to offering: %v", err)
	}
	if _, err := env.lifecycle.ChangeProjectStatus(ctx, fx.project.ID, model.ProjectStatusInExecution, &fx.revision.ID); err != nil {
		t.Fatalf("to in_execution: %v", err)
	}
	if _, err := env.generator.GenerateAgreements(ctx, fx.revision.ID); err != nil {
		t.Errorf("accepted revision: %v", err)
	}
}
