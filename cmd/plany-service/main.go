package main

import (
	"fmt"
	"os"

	"github.com/PanArtek/plany-app-sub000/internal/auth"
	"github.com/PanArtek/plany-app-sub000/internal/config"
	"github.com/PanArtek/plany-app-sub000/internal/db"
	httphandler "github.com/PanArtek/plany-app-sub000/internal/http"
	"github.com/PanArtek/plany-app-sub000/internal/http/middleware"
	"github.com/PanArtek/plany-app-sub000/internal/logger"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
	"github.com/PanArtek/plany-app-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	projectRepo := repository.NewProjectRepository(database)
	revisionRepo := repository.NewRevisionRepository(database)
	positionRepo := repository.NewPositionRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)
	documentRepo := repository.NewDocumentRepository(database)
	fulfillmentRepo := repository.NewFulfillmentRepository(database)
	realizationRepo := repository.NewRealizationRepository(database)

	estimateService := service.NewEstimateService(database, projectRepo, revisionRepo, positionRepo, catalogRepo, log)
	lifecycleService := service.NewLifecycleService(database, projectRepo, revisionRepo, positionRepo, log)
	generatorService := service.NewGeneratorService(database, revisionRepo, documentRepo, cfg, log)
	fulfillmentService := service.NewFulfillmentService(database, documentRepo, fulfillmentRepo)
	realizationService := service.NewRealizationService(database, projectRepo, documentRepo, realizationRepo)
	catalogService := service.NewCatalogService(catalogRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		estimateService,
		lifecycleService,
		generatorService,
		fulfillmentService,
		realizationService,
		catalogService,
		log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting plany service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
