package main

import (
	"context"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoria-api/internal/handler"
	"github.com/noah-isme/tutoria-api/internal/middleware"
	"github.com/noah-isme/tutoria-api/internal/service"
	"github.com/noah-isme/tutoria-api/internal/session"
	"github.com/noah-isme/tutoria-api/pkg/config"
	"github.com/noah-isme/tutoria-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoria-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoria-api/pkg/middleware/requestid"
)

type routerDeps struct {
	logger    *zap.Logger
	metrics   *service.MetricsService
	store     session.Store
	signer    *session.Signer
	cookies   *session.Cookies
	templates *template.Template
	auth      *service.AuthService
	tutorias  *service.TutoriaService
	gestao    *service.GestaoService
	db        *sqlx.DB
	redis     *redis.Client
}

func newRouter(cfg *config.Config, deps routerDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(deps.templates)

	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.logger))
	r.Use(middleware.Metrics(deps.metrics))
	r.Use(corsmiddleware.New(cfg.HTTP.AllowedOrigins))
	r.Use(middleware.Session(deps.store, deps.signer, deps.cookies, deps.logger))
	r.Use(middleware.CSRF(cfg.HTTP.AllowedOrigins))

	redisPing := handler.PingerFunc(func(ctx context.Context) error {
		return deps.redis.Ping(ctx).Err()
	})
	ops := handler.NewMetricsHandler(deps.metrics, map[string]handler.Pinger{
		"postgres": deps.db,
		"redis":    redisPing,
	}, deps.logger)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	pages := handler.NewPageHandler(deps.auth, deps.tutorias, deps.signer, deps.cookies, deps.logger)
	r.GET("/", pages.Home)
	r.GET("/cadastro", pages.RegisterPage)
	r.POST("/cadastro", pages.Register)
	r.GET("/login", pages.LoginPage)
	r.POST("/login", pages.Login)
	r.GET("/logout", pages.Logout)
	r.POST("/gestao/bloquear", pages.LockGestao)

	loggedIn := r.Group("/", middleware.RequireLoginPage())
	loggedIn.GET("/form", pages.Form)
	loggedIn.GET("/lista", pages.List)
	loggedIn.GET("/gestao", pages.GestaoPage)
	loggedIn.POST("/gestao", pages.UnlockGestao)
	loggedIn.GET("/gestao/painel", middleware.RequireGestaoPage(), pages.GestaoPanel)

	api := r.Group("/api", middleware.RequireLoginAPI())
	tutorias := handler.NewTutoriaHandler(deps.tutorias)
	api.GET("/catalogo", tutorias.Catalog)
	api.POST("/tutorias", tutorias.Create)
	api.PUT("/tutorias/:id", tutorias.Update)
	api.DELETE("/tutorias/:id", tutorias.Delete)

	gestao := handler.NewGestaoHandler(deps.gestao)
	admin := api.Group("/gestao", middleware.RequireGestaoAPI())
	admin.GET("/professores", gestao.Professores)
	admin.GET("/tutorias", gestao.Tutorias)
	admin.GET("/tutorias/export", gestao.Export)
	admin.POST("/carimbo", gestao.BulkStamp)
	admin.POST("/tutorias/:id/carimbo", gestao.StampOne)

	return r, nil
}
