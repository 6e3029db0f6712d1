package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/config"
	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
	"github.com/PanArtek/plany-app-sub000/internal/testutil"
)

type testEnv struct {
	db           *gorm.DB
	revisions    *repository.RevisionRepository
	estimates    *EstimateService
	lifecycle    *LifecycleService
	generator    *GeneratorService
	fulfillment  *FulfillmentService
	realizations *RealizationService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithConfig(t, &config.Config{})
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	log := zerolog.Nop()

	projectRepo := repository.NewProjectRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	fulfillmentRepo := repository.NewFulfillmentRepository(db)
	realizationRepo := repository.NewRealizationRepository(db)

	return &testEnv{
		db:           db,
		revisions:    revisionRepo,
		estimates:    NewEstimateService(db, projectRepo, revisionRepo, positionRepo, catalogRepo, log),
		lifecycle:    NewLifecycleService(db, projectRepo, revisionRepo, positionRepo, log),
		generator:    NewGeneratorService(db, revisionRepo, documentRepo, cfg, log),
		fulfillment:  NewFulfillmentService(db, documentRepo, fulfillmentRepo),
		realizations: NewRealizationService(db, projectRepo, documentRepo, realizationRepo),
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (e *testEnv) mustCreate(t *testing.T, value interface{}) {
	t.Helper()
	if err := e.db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

// seedLibrary inserts a partition-wall template: two materials at
// 8.50x0.9 and 22.00x1.1, two labor components at 15x0.3 and 12x0.2, no
// default labor price.
func (e *testEnv) seedLibrary(t *testing.T) *model.LibraryPosition {
	t.Helper()
	library := &model.LibraryPosition{
		ID:   uuid.New(),
		Name: "Gypsum partition wall 12.5",
		Unit: "m2",
	}
	e.mustCreate(t, library)
	e.mustCreate(t, &model.LibraryMaterialComponent{
		ID: uuid.New(), LibraryPositionID: library.ID, Lp: 1,
		Name: "Gypsum board", Unit: "m2", Norma: dec("0.9"), DefaultPrice: dec("8.50"),
	})
	e.mustCreate(t, &model.LibraryMaterialComponent{
		ID: uuid.New(), LibraryPositionID: library.ID, Lp: 2,
		Name: "CW profile", Unit: "m", Norma: dec("1.1"), DefaultPrice: dec("22.00"),
	})
	e.mustCreate(t, &model.LibraryLaborComponent{
		ID: uuid.New(), LibraryPositionID: library.ID, Lp: 1,
		Description: "Framing", DefaultRate: dec("15.00"), Norma: dec("0.3"),
	})
	e.mustCreate(t, &model.LibraryLaborComponent{
		ID: uuid.New(), LibraryPositionID: library.ID, Lp: 2,
		Description: "Boarding", DefaultRate: dec("12.00"), Norma: dec("0.2"),
	})
	return library
}

func (e *testEnv) newRevision(t *testing.T) (*model.Project, *model.Revision) {
	t.Helper()
	ctx := context.Background()
	project, err := e.lifecycle.CreateProject(ctx, "Office fit-out")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	revision, err := e.lifecycle.CreateRevision(ctx, project.ID, "baseline")
	if err != nil {
		t.Fatalf("create revision: %v", err)
	}
	return project, revision
}
