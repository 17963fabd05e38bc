package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jornal-escolar/portal-api/api/swagger"
	"github.com/jornal-escolar/portal-api/internal/handler"
	"github.com/jornal-escolar/portal-api/internal/middleware"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/internal/service"
	"github.com/jornal-escolar/portal-api/pkg/config"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
	"github.com/jornal-escolar/portal-api/pkg/logger"
	corsmiddleware "github.com/jornal-escolar/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jornal-escolar/portal-api/pkg/middleware/requestid"
	"github.com/jornal-escolar/portal-api/pkg/storage"
	"github.com/jornal-escolar/portal-api/pkg/tlsconf"
)

// @title Jornal Escolar Portal API
// @version 1.0.0
// @description Administrative API for a school newspaper: rosters, issue approvals, files, departments and tickets.
// @BasePath /
// @schemes http https

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

	store, err := docstore.New(cfg.Store.DataDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to open document store", "error", err)
	}

	journalFiles, err := storage.NewLocalStorage(cfg.Uploads.JournalsDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare journals upload dir", "error", err)
	}
	assetFiles, err := storage.NewLocalStorage(cfg.Uploads.AssetsDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare assets upload dir", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	metricsSvc := service.NewMetricsService()
	store.SetObserver(metricsSvc.ObserveDocumentOperation)

	studentRepo := repository.NewStudentRepository(store)
	journalRepo := repository.NewJournalRepository(store)
	assetRepo := repository.NewAssetRepository(store)
	departmentRepo := repository.NewDepartmentRepository(store)
	ticketRepo := repository.NewTicketRepository(store)
	announcementRepo := repository.NewAnnouncementRepository(store)
	calendarRepo := repository.NewCalendarRepository(store)
	rulesRepo := repository.NewRulesRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)
	userRepo := repository.NewUserRepository(store)
	auditRepo := repository.NewAuditRepository(store)
	roleRepo, err := repository.NewRoleRepository(store)
	if err != nil {
		logr.Sugar().Fatalw("failed to seed roles", "error", err)
	}

	authSvc := service.NewAuthService(userRepo, roleRepo, auditRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		AdminUsers: cfg.Admin.Users,
	})

	journalSvc := service.NewJournalService(journalRepo, journalFiles, signer, auditRepo, cfg.Uploads.MaxFileBytes, nil, logr)
	journalSvc.SetUploadObserver(metricsSvc.ObserveUpload)
	assetSvc := service.NewAssetService(assetRepo, assetFiles, cfg.Uploads.MaxFileBytes, nil, logr)
	assetSvc.SetUploadObserver(metricsSvc.ObserveUpload)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, int(cfg.JWT.Expiration.Seconds()), cfg.Protocol == "https"),
		Students:      handler.NewStudentHandler(service.NewStudentService(studentRepo, nil, logr)),
		Journals:      handler.NewJournalHandler(journalSvc, cfg.BaseURL()+cfg.APIPrefix),
		Assets:        handler.NewAssetHandler(assetSvc),
		Departments:   handler.NewDepartmentHandler(service.NewDepartmentService(departmentRepo, auditRepo, nil, logr)),
		Tickets:       handler.NewTicketHandler(service.NewTicketService(ticketRepo, auditRepo, nil, logr)),
		Announcements: handler.NewAnnouncementHandler(service.NewAnnouncementService(announcementRepo, nil, logr)),
		Calendar:      handler.NewCalendarHandler(service.NewCalendarService(calendarRepo, nil, logr)),
		Rules:         handler.NewRulesHandler(service.NewRulesService(rulesRepo, logr)),
		Settings:      handler.NewSettingsHandler(service.NewSettingsService(settingsRepo, nil, logr)),
		Dashboard:     handler.NewDashboardHandler(service.NewDashboardService(settingsRepo, studentRepo, ticketRepo, departmentRepo, calendarRepo, logr)),
		Users:         handler.NewUserHandler(service.NewUserService(userRepo, roleRepo, auditRepo, nil, logr)),
		Roles:         handler.NewRoleHandler(service.NewRoleService(roleRepo, nil, logr)),
		Audit:         handler.NewAuditHandler(auditRepo),
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxFileBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers.Register(r, cfg.APIPrefix, middleware.Session(authSvc, cfg.JWT.CookieName))

	tlsCfg, err := tlsconf.Server(cfg.TLS)
	if err != nil {
		logr.Sugar().Fatalw("failed to load TLS material", "error", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:      addr,
		Handler:   r,
		TLSConfig: tlsCfg,
	}

	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "tls", tlsCfg != nil)
	if tlsCfg != nil {
		err = server.ListenAndServeTLS("", "")
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
