package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutoria-api/api/swagger"
	"github.com/noah-isme/tutoria-api/internal/migrations"
	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/repository"
	"github.com/noah-isme/tutoria-api/internal/service"
	"github.com/noah-isme/tutoria-api/internal/session"
	"github.com/noah-isme/tutoria-api/pkg/config"
	"github.com/noah-isme/tutoria-api/pkg/database"
	"github.com/noah-isme/tutoria-api/pkg/kv"
	"github.com/noah-isme/tutoria-api/pkg/logger"
	"github.com/noah-isme/tutoria-api/web"
)

// @title Tutorias API
// @version 1.0.0
// @description Registro de tutorias escolares: CRUD de professores e relatórios da gestão.
// @BasePath /api
// @schemes http https

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrations.Files, logr); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	users := repository.NewUserRepository(db)
	tutorias := repository.NewTutoriaRepository(db)

	seeder := service.NewSeedService(users, logr)
	if err := seeder.Ensure(ctx,
		service.SeedAccount{Username: cfg.Seed.AdminUsername, Password: cfg.Seed.AdminPassword, Role: models.RoleGestao},
		service.SeedAccount{Username: cfg.Seed.ProfessorUsername, Password: cfg.Seed.ProfessorPassword, Role: models.RoleProfessor},
	); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	rdb, err := kv.NewRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	store := session.NewRedisStore(rdb, cfg.Session.TTL)
	signer, err := session.NewSigner(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return err
	}
	cookies := session.NewCookies(cfg.Session.CookieName, cfg.Session.CookieSecure || cfg.Env == config.EnvProduction, cfg.Session.TTL)

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	metrics := service.NewMetricsService()
	authSvc := service.NewAuthService(users, store, metrics, logr, service.AuthConfig{GestaoPIN: cfg.Gestao.PIN})
	tutoriaSvc := service.NewTutoriaService(tutorias, service.NewValidator(), metrics, logr)
	gestaoSvc := service.NewGestaoService(users, tutorias, nil, nil, metrics, logr)

	router, err := newRouter(cfg, routerDeps{
		logger:    logr,
		metrics:   metrics,
		store:     store,
		signer:    signer,
		cookies:   cookies,
		templates: tmpl,
		auth:      authSvc,
		tutorias:  tutoriaSvc,
		gestao:    gestaoSvc,
		db:        db,
		redis:     rdb,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
