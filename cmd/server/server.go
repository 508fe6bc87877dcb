package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/application/audit"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/config"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/conversation"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/user"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/agentplatform"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/auth"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/crontab"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/repository/assignmentrepo"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/repository/conversationrepo"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/database/repository/userrepo"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/identity"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/logger"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/observability"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver"
	middleware "github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/middlewares"
	v1 "github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/admin"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/agent"
	conversationroute "github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/datastore"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/routes/v1/users"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	crontab    *crontab.Crontab
	validator  *auth.JWKSValidator
	cfg        *config.Config
	logger     zerolog.Logger
}

// @title Lente Console API
// @version 1.0
// @description Admin console backend for the hosted agent platform.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	db, err := database.NewDB(cfg.DatabaseURL, cfg.DatabaseReadURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := database.Migration(db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve jwks url: %w", err)
	}
	validator, err := auth.NewJWKSValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.RefreshJWKSInterval,
		cfg.AuthClockSkew,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("init jwks validator: %w", err)
	}

	userService := user.NewService(userrepo.NewUserGormRepository(db))
	assignmentService := assignment.NewService(assignmentrepo.NewAssignmentGormRepository(db))
	conversationService := conversation.NewService(conversationrepo.NewConversationGormRepository(db))

	platform := agentplatform.NewClient(cfg.AgentAPIBaseURL, cfg.AgentAPIKey, cfg.AgentAPITimeout, log)
	accounts := identity.NewClient(cfg.AuthBaseURL, cfg.AuthServiceKey, cfg.HTTPTimeout, log)

	authMW := middleware.AuthMiddleware(validator, userService, log)
	adminGateMW := middleware.RequireAdmin(middleware.AdminGateConfig{
		IsBootstrap: cfg.IsBootstrapAdmin,
	})

	v1Route := v1.NewV1Route(
		agent.NewAgentRoute(platform, assignmentService),
		datastore.NewDatastoreRoute(platform),
		conversationroute.NewConversationRoute(conversationService),
		users.NewUsersRoute(assignmentService),
		admin.NewAdminRoute(userService, assignmentService, accounts, audit.NewLogger(db, log), log),
		authMW,
		adminGateMW,
		validator.Ready,
	)

	return &Application{
		httpServer: httpserver.NewHttpServer(v1Route, cfg, log),
		crontab:    crontab.NewCrontab(conversationService, cfg, log),
		validator:  validator,
		cfg:        cfg,
		logger:     log,
	}, nil
}

func (application *Application) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(fmt.Sprintf(":%d", application.cfg.MetricsPort), mux)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.crontab.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.httpServer.Run()
		if err != nil {
			cancel()
		}
		return err
	})

	return eg.Wait()
}

func main() {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.GetLogger()
		fallback.Fatal().Err(err).Msg("load config")
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fallback := logger.GetLogger()
		fallback.Fatal().Err(err).Msg("configure logger")
	}

	ctx := context.Background()

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	application, err := buildApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build application")
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Int("metrics_port", cfg.MetricsPort).
		Str("environment", cfg.Environment).
		Msg("starting lente-console")

	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
