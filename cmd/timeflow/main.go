package main

import (
	"fmt"
	"os"

	"github.com/jdevries/timeflow/internal/auth"
	"github.com/jdevries/timeflow/internal/config"
	"github.com/jdevries/timeflow/internal/db"
	"github.com/jdevries/timeflow/internal/excel"
	httphandler "github.com/jdevries/timeflow/internal/http"
	"github.com/jdevries/timeflow/internal/http/middleware"
	"github.com/jdevries/timeflow/internal/logger"
	"github.com/jdevries/timeflow/internal/pdf"
	"github.com/jdevries/timeflow/internal/repository"
	"github.com/jdevries/timeflow/internal/service"
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

	companyRepo := repository.NewCompanyRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	serviceRepo := repository.NewServiceRepository(database)
	timeEntryRepo := repository.NewTimeEntryRepository(database)

	excelGenerator := excel.NewGenerator()
	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	companyService := service.NewCompanyService(companyRepo, log)
	projectService := service.NewProjectService(projectRepo, log)
	serviceService := service.NewServiceService(serviceRepo, log)
	timeEntryService := service.NewTimeEntryService(timeEntryRepo, log)
	reportService := service.NewReportService(serviceService, timeEntryRepo, excelGenerator, pdfGenerator, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(companyService, projectService, serviceService, timeEntryService, reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting timeflow service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
