package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	_ "github.com/rafabene/avantpro-cms/docs"
	"github.com/rafabene/avantpro-cms/internal/domain/authz"
	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	"github.com/rafabene/avantpro-cms/internal/domain/ports"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
	"github.com/rafabene/avantpro-cms/internal/domain/valueobjects"
	httphandlers "github.com/rafabene/avantpro-cms/internal/handlers/http"
	"github.com/rafabene/avantpro-cms/internal/handlers/middleware"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/cache"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/config"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/i18n"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/logging"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/metrics"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/persistence/memory"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/avantpro-cms/internal/services"
)

// stores agrupa os repositórios do driver escolhido
type stores struct {
	users repositories.UserRepository
	roles repositories.CustomRoleRepository
	uow   ports.UnitOfWork
}

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLoggerWithWriter(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting avantpro cms",
		"env", cfg.Env,
		"db_driver", cfg.Database.Driver,
		"version", "dev",
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", "error", err)
		log.Fatal(err)
	}

	// Inicializar i18n
	i18nService, err := i18n.NewService(i18n.Locales, "en")
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	m := metrics.New()

	// Cache de papéis customizados, com invalidação entre instâncias quando há Redis
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			log.Fatal(err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	roleCache := cache.NewCustomRoleCache(st.roles, cache.Config{
		Size:        cfg.Cache.Size,
		TTL:         cfg.Cache.TTL,
		LoadTimeout: cfg.Cache.LoadTimeout,
		Channel:     cfg.Cache.InvalidationChannel,
	}, redisClient, logger, m)
	if err := roleCache.Start(ctx); err != nil {
		logger.Error("failed to subscribe to cache invalidations", "error", err)
		log.Fatal(err)
	}

	// Inicializar services
	resolver := authz.NewResolver(roleCache)
	permissionService := services.NewPermissionService(st.users, resolver, logger)
	customRoleService := services.NewCustomRoleService(st.roles, st.users, st.uow, roleCache, logger)
	userService := services.NewUserService(st.users, st.roles, st.uow, logger)

	if cfg.Database.Driver == config.DriverMemory {
		seedMemoryAdmin(ctx, cfg, st.users, logger)
	}

	// Setup Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httphandlers.NewRouter(httphandlers.RouterOptions{
		Env:            cfg.Env,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		I18n:           i18nService,
		Auth:           middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, permissionService, logger),
		Authorizer:     middleware.NewAuthorizer(permissionService, logger, m),
		Metrics:        m,
		Permissions:    httphandlers.NewPermissionHandler(permissionService, logger),
		CustomRoles:    httphandlers.NewCustomRoleHandler(customRoleService, logger),
		Users:          httphandlers.NewUserHandler(userService, logger),
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func openStores(cfg *config.Config, logger ports.Logger) (*stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		return &stores{
			users: store.Users(),
			roles: store.CustomRoles(),
			uow:   store.UnitOfWork(),
		}, nil
	}

	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &stores{
		users: postgres.NewUserRepository(db),
		roles: postgres.NewCustomRoleRepository(db),
		uow:   postgres.NewUnitOfWork(db),
	}, nil
}

// seedMemoryAdmin cria um superadmin para uso local com o driver em memória
func seedMemoryAdmin(ctx context.Context, cfg *config.Config, users repositories.UserRepository, logger ports.Logger) {
	email, err := valueobjects.NewEmail("admin@localhost.dev")
	if err != nil {
		logger.Error("failed to seed admin", "error", err)
		return
	}

	admin := &entities.User{
		OrganizationID: uuid.NewString(),
		Email:          email,
		Name:           "Local Admin",
		Role:           entities.SystemRoleRef(entities.RoleSuperadmin),
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Error("failed to seed admin", "error", err)
		return
	}

	token, err := middleware.IssueToken(cfg.JWT.Secret, cfg.JWT.Issuer, admin.ID, 24*time.Hour)
	if err != nil {
		logger.Error("failed to issue admin token", "error", err)
		return
	}
	logger.Info("seeded local superadmin",
		"user_id", admin.ID,
		"org_id", admin.OrganizationID,
		"token", token,
	)
}
