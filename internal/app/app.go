package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"safehome_backend/database"
	"safehome_backend/internal/analysis"
	"safehome_backend/internal/analysis/gemini"
	"safehome_backend/internal/analysis/openai"
	"safehome_backend/internal/config"
	"safehome_backend/internal/email"
	"safehome_backend/internal/handlers"
	"safehome_backend/internal/logger"
	"safehome_backend/internal/middleware"
	"safehome_backend/internal/payment"
	"safehome_backend/internal/repositories"
	"safehome_backend/internal/routes"
	"safehome_backend/internal/services"
	"safehome_backend/internal/session"
	"safehome_backend/internal/sheets"
	"safehome_backend/internal/validator"
	"safehome_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	rdb, err := session.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Redis unavailable", "error", err)
	}
	sessionStore := session.NewStore(rdb, time.Duration(cfg.Redis.SessionTTL)*time.Minute)
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)

	serviceContainer := initializeServices(cfg, gormDB)
	ginRouter := SetupRouter(cfg, serviceContainer, sessionStore)

	// Фоновые задачи живут до остановки процесса
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	workers.NewRetargetWorker(serviceContainer.AdminService).Start(workerCtx)
	logger.Info("Retarget worker started")

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, serviceContainer *services.ServiceContainer, sessionStore *session.Store) *gin.Engine {
	v := validator.New()
	appHandlers := handlers.NewAppHandlers(serviceContainer, v, cfg)

	ginRouter := initializeGinRouter(cfg, sessionStore)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	orderRepo := repositories.NewOrderRepository(gormDB)
	capsuleRepo := repositories.NewCapsuleRepository(gormDB)

	analyzer := buildAnalyzer(cfg)
	store := buildSheetsStore(cfg)
	verifier := payment.NewTossVerifier(cfg.Toss.SecretKey, cfg.Toss.ConfirmURL)
	provider := email.NewSMTPProvider(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	return services.NewServiceContainer(orderRepo, capsuleRepo, analyzer, store, verifier, provider, cfg)
}

// buildAnalyzer собирает политику движков: OpenAI основной, Gemini
// запасной (если сконфигурирован ключ)
func buildAnalyzer(cfg *config.Config) *analysis.Analyzer {
	if cfg.OpenAI.APIKey == "" {
		logger.Fatal("OPENAI_API_KEY is required")
	}
	primary := openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	var fallback analysis.Engine
	if cfg.Gemini.APIKey != "" {
		engine, err := gemini.New(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warn("Gemini fallback disabled", "error", err)
		} else {
			fallback = engine
		}
	}

	return analysis.NewAnalyzer(primary, fallback)
}

func buildSheetsStore(cfg *config.Config) *sheets.Store {
	if cfg.Sheets.CredentialsJSON == "" || cfg.Sheets.SpreadsheetID == "" {
		logger.Warn("Google Sheets не сконфигурирован: аналитика будет пропускаться")
		return sheets.NewStore(nil, nil, cfg.Sheets.AnalyticsRange, cfg.Sheets.CapsuleRange)
	}

	client, err := sheets.NewClient(context.Background(), cfg.Sheets.CredentialsJSON, cfg.Sheets.SpreadsheetID)
	if err != nil {
		logger.Warn("Sheets клиент не создан, аналитика будет пропускаться", "error", err)
		return sheets.NewStore(nil, nil, cfg.Sheets.AnalyticsRange, cfg.Sheets.CapsuleRange)
	}

	return sheets.NewStore(client, client, cfg.Sheets.AnalyticsRange, cfg.Sheets.CapsuleRange)
}

func initializeGinRouter(cfg *config.Config, sessionStore *session.Store) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.SessionMiddleware(sessionStore))

	return r
}

