package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-discipline-api/api/swagger"
	"github.com/noah-isme/sma-discipline-api/internal/handler"
	"github.com/noah-isme/sma-discipline-api/internal/middleware"
	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/service"
	"github.com/noah-isme/sma-discipline-api/internal/store"
	"github.com/noah-isme/sma-discipline-api/pkg/config"
	"github.com/noah-isme/sma-discipline-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-discipline-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-discipline-api/pkg/middleware/requestid"
)

// @title SMA Discipline API
// @version 0.1.0
// @description Student disciplinary record tracker
// @BasePath /
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

	var recordStore *store.Store
	if cfg.Seed.DemoData {
		recordStore = store.NewSeeded()
		logr.Info("record store seeded with demo data")
	} else {
		recordStore = store.New()
	}

	validate := validator.New()

	authSvc := service.NewAuthService(recordStore, validate, logr)
	userSvc := service.NewUserService(recordStore, validate, logr)
	caseSvc := service.NewCaseService(recordStore, validate, logr)
	appealSvc := service.NewAppealService(recordStore, validate, logr)
	exportSvc := service.NewExportService(recordStore, logr, nil, nil)
	metricsSvc := service.NewMetricsService(recordStore)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	caseHandler := handler.NewCaseHandler(caseSvc)
	appealHandler := handler.NewAppealHandler(appealSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, recordStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.Identity(recordStore))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	users := authed.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Upsert)
	users.DELETE("/:id", userHandler.Delete)

	cases := authed.Group("/cases")
	cases.GET("", caseHandler.List)
	cases.GET("/:id", caseHandler.Get)
	cases.POST("", adminOnly, caseHandler.Create)
	cases.PUT("/:id", adminOnly, caseHandler.Update)
	cases.DELETE("/:id", adminOnly, caseHandler.Delete)

	appeals := authed.Group("/appeals")
	appeals.GET("", appealHandler.List)
	appeals.POST("", middleware.RequireRoles(models.RoleStudent), appealHandler.Submit)
	appeals.PUT("/:id/review", adminOnly, appealHandler.Review)

	if cfg.Exports.Enabled {
		exports := authed.Group("/export", adminOnly)
		exports.GET("/cases", exportHandler.Cases)
		exports.GET("/appeals", exportHandler.Appeals)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
