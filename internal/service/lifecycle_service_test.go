package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

func TestCreateRevisionNumbersAreSequential(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, first := env.newRevision(t)

	second, err := env.lifecycle.CreateRevision(ctx, project.ID, "variant B")
	if err != nil {
		t.Fatalf("create revision: %v", err)
	}
	if first.Number != 1 || second.Number != 2 {
		t.Errorf("numbers = %d, %d, want 1, 2", first.Number, second.Number)
	}
}

func TestLockRevisionIsIdempotentFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, revision := env.newRevision(t)

	locked, err := env.lifecycle.LockRevision(ctx, revision.ID)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !locked.IsLocked || locked.LockedAt == nil {
		t.Error("revision must be locked with a timestamp")
	}

	if _, err := env.lifecycle.LockRevision(ctx, revision.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second lock = %v, want ErrInvalidTransition", err)
	}
	if _, err := env.lifecycle.LockRevision(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("lock unknown = %v, want ErrNotFound", err)
	}
}

func TestCopyRevisionPreservesValuesWithFreshIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	library := env.seedLibrary(t)
	_, revision := env.newRevision(t)

	position, err := env.estimates.AddPosition(ctx, AddPositionInput{
		RevisionID: revision.ID, LibraryPositionID: library.ID, Quantity: dec("320"), MarkupPercent: dec("30"),
	})
	if err != nil {
		t.Fatalf("add position: %v", err)
	}
	if _, err := env.estimates.SetMaterialPriceOverride(ctx, position.Materials[0].ID, dec("9.99")); err != nil {
		t.Fatalf("override: %v", err)
	}
	if _, err := env.lifecycle.LockRevision(ctx, revision.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	copied, err := env.lifecycle.CopyRevision(ctx, revision.ID, "variant B")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.IsLocked {
		t.Error("copy must start unlocked")
	}
	if copied.Number != 2 {
		t.Errorf("copy number = %d, want 2", copied.Number)
	}

	sourceSummary, err := env.estimates.RevisionSummary(ctx, revision.ID)
	if err != nil {
		t.Fatalf("source summary: %v", err)
	}
	copySummary, err := env.estimates.RevisionSummary(ctx, copied.ID)
	if err != nil {
		t.Fatalf("copy summary: %v", err)
	}
	if !sourceSummary.Total.Equal(copySummary.Total) {
		t.Errorf("totals differ: %s vs %s", sourceSummary.Total, copySummary.Total)
	}

	loaded, err := env.revisions.GetWithPositions(ctx, copied.ID)
	if err != nil {
		t.Fatalf("load copy: %v", err)
	}
	if len(loaded.Positions) != 1 {
		t.Fatalf("copied positions = %d, want 1", len(loaded.Positions))
	}
	copiedPos := &loaded.Positions[0]
	if copiedPos.ID == position.ID {
		t.Error("copied position must get a fresh id")
	}
	// The override survives the copy, still detectable against its source.
	var overridden *model.MaterialComponent
	for i := range copiedPos.Materials {
		if copiedPos.Materials[i].HasPriceOverride() {
			overridden = &copiedPos.Materials[i]
		}
	}
	if overridden == nil {
		t.Fatal("override must be carried into the copy")
	}
	if !overridden.Price.Equal(dec("9.99")) || !overridden.SourcePrice.Equal(dec("8.50")) {
		t.Errorf("copied override = %s/%s", overridden.Price, overridden.SourcePrice)
	}
}

func TestChangeProjectStatusEnforcesTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, _ := env.newRevision(t)

	if _, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusClosed, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("draft -> closed = %v, want ErrInvalidTransition", err)
	}
	updated, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusOffering, nil)
	if err != nil {
		t.Fatalf("draft -> offering: %v", err)
	}
	if updated.Status != model.ProjectStatusOffering {
		t.Errorf("status = %s, want offering", updated.Status)
	}
}

func TestEnterExecutionRequiresLockedRevision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, revision := env.newRevision(t)

	if _, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusOffering, nil); err != nil {
		t.Fatalf("to offering: %v", err)
	}

	if _, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusInExecution, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing revision = %v, want ErrInvalidInput", err)
	}
	if _, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusInExecution, &revision.ID); !errors.Is(err, ErrNotLocked) {
		t.Errorf("unlocked revision = %v, want ErrNotLocked", err)
	}

	if _, err := env.lifecycle.LockRevision(ctx, revision.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	updated, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusInExecution, &revision.ID)
	if err != nil {
		t.Fatalf("to in_execution: %v", err)
	}
	if updated.AcceptedRevisionID == nil || *updated.AcceptedRevisionID != revision.ID {
		t.Error("accepted revision must be recorded on the project")
	}

	accepted, err := env.revisions.Get(ctx, revision.ID)
	if err != nil {
		t.Fatalf("get revision: %v", err)
	}
	if !accepted.IsAccepted || accepted.AcceptedAt == nil {
		t.Error("revision must be flagged accepted")
	}
}

func TestEnterExecutionRejectsForeignRevision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, _ := env.newRevision(t)
	_, foreign := env.newRevision(t)

	if _, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusOffering, nil); err != nil {
		t.Fatalf("to offering: %v", err)
	}
	if _, err := env.lifecycle.LockRevision(ctx, foreign.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, err := env.lifecycle.ChangeProjectStatus(ctx, project.ID, model.ProjectStatusInExecution, &foreign.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("foreign revision = %v, want ErrInvalidInput", err)
	}
}
