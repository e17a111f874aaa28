package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bodedono/contestacoes-api/api/swagger"
	"github.com/bodedono/contestacoes-api/internal/handler"
	"github.com/bodedono/contestacoes-api/internal/middleware"
	"github.com/bodedono/contestacoes-api/internal/repository"
	"github.com/bodedono/contestacoes-api/internal/service"
	"github.com/bodedono/contestacoes-api/pkg/cache"
	"github.com/bodedono/contestacoes-api/pkg/config"
	"github.com/bodedono/contestacoes-api/pkg/logger"
	corsmiddleware "github.com/bodedono/contestacoes-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bodedono/contestacoes-api/pkg/middleware/requestid"
	"github.com/bodedono/contestacoes-api/pkg/sheets"
)

// @title Contestações API
// @version 1.0.0
// @description Gestão de contestações de cancelamento iFood
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	httpClient := &http.Client{Timeout: cfg.Sheets.HTTPTimeout}
	tokens, err := sheets.NewTokenSource(cfg.Sheets.ClientEmail, cfg.Sheets.PrivateKey, httpClient)
	if err != nil {
		logr.Fatal("failed to init sheets credentials", zap.Error(err))
	}
	store := sheets.NewClient(cfg.Sheets.SpreadsheetID, tokens, httpClient)
	disputeRepo := repository.NewDisputeRepository(store, cfg.Sheets.SheetName)

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	}

	// Every write path shares this mutex: the row store has no transactions,
	// so snapshot-resolved positions are only valid while nothing else writes.
	writeMu := &sync.Mutex{}
	validate := validator.New()

	disputeSvc := service.NewDisputeService(disputeRepo, validate, cacheSvc, metricsSvc, logr, writeMu)
	importSvc := service.NewImportService(disputeRepo, cacheSvc, metricsSvc, logr, writeMu)
	maintenanceSvc := service.NewMaintenanceService(disputeRepo, cacheSvc, metricsSvc, logr, writeMu)
	dashboardSvc := service.NewDashboardService(disputeRepo, cacheSvc, metricsSvc, logr, cfg.Dashboard.CacheTTL)
	exportSvc := service.NewExportService(disputeRepo, logr, cfg.Export.Enabled)

	disputeHandler := handler.NewDisputeHandler(disputeSvc)
	importHandler := handler.NewImportHandler(importSvc, cfg.Import.MaxFileSizeBytes)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/resumo", metricsHandler.Snapshot)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	{
		api.GET("/contestacoes", disputeHandler.List)
		api.POST("/contestacoes", disputeHandler.Create)
		api.PUT("/contestacoes", disputeHandler.Update)
		api.DELETE("/contestacoes", disputeHandler.Delete)
		api.POST("/contestacoes/batch-update", disputeHandler.BatchUpdate)
		api.POST("/contestacoes/batch-delete", disputeHandler.BatchDelete)

		api.POST("/importacao", importHandler.Import)
		api.GET("/dashboard", dashboardHandler.Build)
		api.GET("/exportacao", exportHandler.Export)

		api.GET("/manutencao/linhas-vazias", maintenanceHandler.ReportEmptyRows)
		api.POST("/manutencao/linhas-vazias", maintenanceHandler.RemoveEmptyRows)
		api.GET("/manutencao/duplicatas", maintenanceHandler.ReportDuplicates)
		api.POST("/manutencao/duplicatas", maintenanceHandler.RemoveDuplicates)
		api.GET("/manutencao/normalizar", maintenanceHandler.ReportNormalization)
		api.POST("/manutencao/normalizar", maintenanceHandler.ApplyNormalization)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "sheet", cfg.Sheets.SheetName)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
