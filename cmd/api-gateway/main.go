package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bekzod-dev/maktab-api/api/swagger"
	"github.com/bekzod-dev/maktab-api/internal/handler"
	"github.com/bekzod-dev/maktab-api/internal/middleware"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/repository"
	"github.com/bekzod-dev/maktab-api/internal/service"
	"github.com/bekzod-dev/maktab-api/pkg/cache"
	"github.com/bekzod-dev/maktab-api/pkg/clock"
	"github.com/bekzod-dev/maktab-api/pkg/config"
	"github.com/bekzod-dev/maktab-api/pkg/database"
	"github.com/bekzod-dev/maktab-api/pkg/logger"
	corsmiddleware "github.com/bekzod-dev/maktab-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bekzod-dev/maktab-api/pkg/middleware/requestid"
)

// @title Maktab API
// @version 1.0.0
// @description Timetable and lesson scheduling backend for school branches
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
		redisClient = nil
	}

	orgClock := clock.NewSystem(cfg.Timetable.Timezone)
	metricsService := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, metricsService, logr)
	defer cacheRepo.Close() //nolint:errcheck
	branchRepo := repository.NewBranchRepository(db)
	classSubjectRepo := repository.NewClassSubjectRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	lessonRepo := repository.NewLessonRepository(db, metricsService)

	settingsService := service.NewSettingsService(branchRepo, cacheRepo, cfg.Timetable.SettingsTTL, logr)
	timetableService := service.NewTimetableService(timetableRepo, classSubjectRepo, settingsService, nil, logr)
	availabilityService := service.NewAvailabilityService(lessonRepo, classSubjectRepo, roomRepo, nil, logr)
	lessonService := service.NewLessonService(lessonRepo, classSubjectRepo, availabilityService, settingsService, orgClock, nil, logr)
	generatorService := service.NewGeneratorService(timetableRepo, lessonRepo, classSubjectRepo, metricsService, cfg.Timetable.MaxGenerateDays, nil, logr)
	tokenService := service.NewTokenService(cfg.JWT.Secret, logr)

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		exportService = service.NewExportService(lessonRepo, nil, nil, logr)
	}

	settingsHandler := handler.NewSettingsHandler(settingsService)
	timetableHandler := handler.NewTimetableHandler(timetableService, generatorService)
	lessonHandler := handler.NewLessonHandler(lessonService, exportService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	api.Use(middleware.JWT(tokenService))

	writers := middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler)

	api.GET("/branches/:id/settings", settingsHandler.Get)
	api.PUT("/branches/:id/settings", writers, settingsHandler.Update)
	api.GET("/branches/:id/slots", settingsHandler.DaySlots)

	api.GET("/timetables", timetableHandler.ListTemplates)
	api.POST("/timetables", writers, timetableHandler.CreateTemplate)
	api.GET("/timetables/:id", timetableHandler.GetTemplate)
	api.DELETE("/timetables/:id", writers, timetableHandler.DeleteTemplate)
	api.GET("/timetables/:id/slots", timetableHandler.ListSlots)
	api.POST("/timetables/:id/slots", writers, timetableHandler.CreateSlot)
	api.PUT("/timetables/:id/slots/:slotId", writers, timetableHandler.UpdateSlot)
	api.DELETE("/timetables/:id/slots/:slotId", writers, timetableHandler.DeleteSlot)
	api.POST("/timetables/:id/generate", writers, timetableHandler.GenerateLessons)

	api.GET("/lessons", lessonHandler.List)
	api.GET("/lessons/grid", lessonHandler.Grid)
	api.GET("/lessons/export", lessonHandler.Export)
	api.POST("/lessons", writers, lessonHandler.Create)
	api.GET("/lessons/:id", lessonHandler.Get)
	api.PATCH("/lessons/:id", lessonHandler.Update)
	api.PATCH("/lessons/:id/status", lessonHandler.UpdateStatus)
	api.DELETE("/lessons/:id", writers, lessonHandler.Delete)

	api.GET("/availability", availabilityHandler.Check)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "timezone", cfg.Timetable.Timezone)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
