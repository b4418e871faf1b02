package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/uniadmin/ums-api/api/swagger"
	"github.com/uniadmin/ums-api/internal/handler"
	"github.com/uniadmin/ums-api/internal/middleware"
	"github.com/uniadmin/ums-api/internal/repository"
	"github.com/uniadmin/ums-api/internal/service"
	"github.com/uniadmin/ums-api/pkg/cache"
	"github.com/uniadmin/ums-api/pkg/config"
	"github.com/uniadmin/ums-api/pkg/database"
	"github.com/uniadmin/ums-api/pkg/logger"
	corsmiddleware "github.com/uniadmin/ums-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uniadmin/ums-api/pkg/middleware/requestid"
)

// @title University Curriculum API
// @version 1.0.0
// @description Administration API for courses, training programs and subjects
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	validate := service.NewValidator()

	accountRepo := repository.NewAccountRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	programRepo := repository.NewProgramRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authSvc := service.NewAuthService(accountRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, logr)
	programSvc := service.NewProgramService(programRepo, courseRepo, cacheSvc, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, courseRepo, validate, logr)
	exportSvc := service.NewExportService(courseRepo, programRepo, subjectRepo, logr)
	dashboardSvc := service.NewDashboardService(statsRepo, cacheSvc, metricsSvc, cfg.Dashboard.CacheTTL, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc, exportSvc, logr)
	programHandler := handler.NewProgramHandler(programSvc, exportSvc, logr)
	subjectHandler := handler.NewSubjectHandler(subjectSvc, exportSvc, logr)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, cfg.Env)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	api := r.Group(cfg.APIPrefix)
	api.GET("/health", metricsHandler.Health)

	protect := middleware.JWT(authSvc)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", protect, authHandler.Profile)

	// Reads and exports stay open like the original deployment; only
	// mutations require a token.
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/export/excel", courseHandler.Export)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", protect, courseHandler.Create)
	courses.PUT("/:id", protect, courseHandler.Update)
	courses.DELETE("/:id", protect, courseHandler.Delete)

	programs := api.Group("/programs")
	programs.GET("", programHandler.List)
	programs.GET("/export/excel", programHandler.Export)
	programs.GET("/export/test", programHandler.ExportTest)
	programs.GET("/:id", programHandler.Get)
	programs.POST("", protect, programHandler.Create)
	programs.PUT("/:id", protect, programHandler.Update)
	programs.DELETE("/:id", protect, programHandler.Delete)

	subjects := api.Group("/subjects")
	subjects.GET("", subjectHandler.List)
	subjects.GET("/export/excel", subjectHandler.Export)
	subjects.GET("/course/:courseId", subjectHandler.ListByCourse)
	subjects.GET("/course/:courseId/export/excel", subjectHandler.ExportByCourse)
	subjects.GET("/:id", subjectHandler.Get)
	subjects.POST("", protect, subjectHandler.Create)
	subjects.PUT("/:id", protect, subjectHandler.Update)
	subjects.DELETE("/:id", protect, subjectHandler.Delete)

	api.GET("/dashboard", dashboardHandler.Stats)

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		r.Static("/web", cfg.Frontend.Dir)
		r.StaticFile("/", cfg.Frontend.Dir+"/index.html")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
