package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/assets"
	"github.com/mentoria/mentoria/internal/auth"
	"github.com/mentoria/mentoria/internal/config"
	"github.com/mentoria/mentoria/internal/logger"
	"github.com/mentoria/mentoria/internal/metrics"
	"github.com/mentoria/mentoria/internal/session"
	"github.com/mentoria/mentoria/internal/web"
)

// Pinger reports whether a backing component is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpstreamAPI is the auth API as seen by the web front-end.
type UpstreamAPI interface {
	web.AuthAPI
	Health(ctx context.Context) error
}

// WebDependencies groups what the front-end router needs.
type WebDependencies struct {
	Config config.Config
	API    UpstreamAPI
	Assets assets.Source
}

// APIDependencies groups what the auth API router needs.
type APIDependencies struct {
	Config      config.Config
	DB          Pinger
	AuthService *auth.Service
}

// NewWebRouter builds the Gin engine serving the MentorIA screens.
func NewWebRouter(deps WebDependencies) (*gin.Engine, error) {
	tmpl, err := web.LoadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.SetHTMLTemplate(tmpl)

	registerHealthRoutes(router, upstreamCheck(deps.API))
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	src := deps.Assets
	if src == nil {
		src = assets.Embedded()
	}
	router.GET("/static/*filepath", assets.Handler(src))

	handler := web.NewHandler(deps.API, session.NewStore(deps.Config.Cookies))
	web.RegisterRoutes(router, handler)

	return router, nil
}

// NewAPIRouter builds the Gin engine serving the REST auth API.
func NewAPIRouter(deps APIDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(deps.Config.CORS.AllowedOrigins))

	registerHealthRoutes(router, dbCheck(deps.DB))
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/api")
	registerAPIHealth(api, dbCheck(deps.DB))
	if deps.AuthService != nil {
		auth.RegisterRoutes(api, deps.AuthService)
	}

	return router
}
