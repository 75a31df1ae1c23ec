package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg/auth"
	"github.com/Seer7-SWE/PayTM-clone/pkg/cache"
	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	middleware "github.com/Seer7-SWE/PayTM-clone/pkg/middlewares"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/handlers"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: cfg.ReplicaDSNs(),
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations on primary
	if err = database.RunMigrations(logger, cfg.PrimaryDbAddr); err != nil {
		disconnect()
		return nil, nil, err
	}

	// Sessions are revocable only when Redis is configured
	redisClient, closeRedis, err := cache.New(ctx, logger, cache.Config{Addr: cfg.RedisAddr})
	if err != nil {
		disconnect()
		return nil, nil, err
	}
	var store auth.SessionStore
	if redisClient != nil {
		store = auth.NewRedisSessionStore(redisClient)
	}
	authority := auth.NewSessionAuthority(logger, cfg.JwtSecret, cfg.SessionTTL, store)

	publisher := services.NewNoopPublisher(logger)
	if cfg.KafkaEnabled() {
		publisher, err = services.NewKafkaPublisher(logger, ctx, cfg)
		if err != nil {
			closeRedis()
			disconnect()
			return nil, nil, err
		}
	}

	// Setup dependencies
	userRepo := repositories.NewUserRepository()
	accountRepo := repositories.NewAccountRepository()
	transferRepo := repositories.NewTransferRepository()

	credentialService := services.NewCredentialService(logger, cfg, db, userRepo, accountRepo, authority)
	transferService := services.NewTransferService(logger, cfg, db, userRepo, accountRepo, transferRepo, publisher)
	ledgerService := services.NewLedgerService(logger, db, accountRepo, transferRepo)
	directoryService := services.NewDirectoryService(logger, db, userRepo, cfg.SearchLimit)

	baseHandler := handlers.NewBaseHandler(logger)
	authHandler := handlers.NewAuthHandler(logger, credentialService)
	accountHandler := handlers.NewAccountHandler(logger, ledgerService, transferService)
	userHandler := handlers.NewUserHandler(logger, directoryService, ledgerService, cfg.RecentLimit)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.Use(middleware.TraceID(logger))
	api.Use(middleware.Metrics())
	protected := api.Group("")
	protected.Use(middleware.Authenticate(logger, authority))

	authHandler.RegisterRoutes(api, protected)
	accountHandler.RegisterRoutes(protected)
	userHandler.RegisterRoutes(protected)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() {
		publisher.Close()
		closeRedis()
		disconnect()
	}

	return srv, cleanup, nil
}
