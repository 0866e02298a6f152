package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/auth"
	"github.com/mentoria/mentoria/internal/config"
	"github.com/mentoria/mentoria/internal/logger"
	"github.com/mentoria/mentoria/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubAPI struct{ healthErr error }

func (stubAPI) Login(context.Context, apiclient.Credentials) (apiclient.TokenPair, error) {
	return apiclient.TokenPair{}, apiclient.ErrInvalidCredentials
}

func (stubAPI) Register(context.Context, apiclient.Registration) (apiclient.TokenPair, error) {
	return apiclient.TokenPair{}, apiclient.ErrUnavailable
}

func (stubAPI) Profile(context.Context, string) (apiclient.User, error) {
	return apiclient.User{}, apiclient.ErrUnauthorized
}

func (s stubAPI) Health(context.Context) error { return s.healthErr }

func serve(router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func newWebRouter(t *testing.T, api UpstreamAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router, err := NewWebRouter(WebDependencies{Config: config.Defaults(), API: api})
	require.NoError(t, err)
	return router
}

func TestWebRouterServesScreensAndAssets(t *testing.T) {
	router := newWebRouter(t, stubAPI{})

	rr := serve(router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "MentorIA")
	assert.NotEmpty(t, rr.Header().Get(logger.CorrelationIDHeader))

	rr = serve(router, http.MethodGet, "/static/mentoria.css", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")

	rr = serve(router, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/connexion", rr.Header().Get("Location"))
}

func TestWebRouterReadinessFollowsUpstream(t *testing.T) {
	rr := serve(newWebRouter(t, stubAPI{}), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(newWebRouter(t, stubAPI{healthErr: apiclient.ErrUnavailable}), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "auth-api")
}

func TestWebRouterExposesMetrics(t *testing.T) {
	metrics.InitMetrics()
	router := newWebRouter(t, stubAPI{})

	serve(router, http.MethodGet, "/", nil)
	rr := serve(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "mentoria_http_requests_total")
}

func newAPIRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Auth.BcryptCost = 4
	return NewAPIRouter(APIDependencies{
		Config:      cfg,
		DB:          db,
		AuthService: auth.NewService(nil, cfg.Auth),
	})
}

func TestAPIHealthEndpoint(t *testing.T) {
	rr := serve(newAPIRouter(stubPinger{}), http.MethodGet, "/api/health/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"MentorIA API is running"}`, rr.Body.String())

	rr = serve(newAPIRouter(stubPinger{err: errors.New("connection refused")}), http.MethodGet, "/api/health/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "unhealthy")
}

func TestAPILiveness(t *testing.T) {
	rr := serve(newAPIRouter(stubPinger{err: errors.New("down")}), http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(newAPIRouter(stubPinger{err: errors.New("down")}), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "postgres")
}

func TestAPIProfileRequiresToken(t *testing.T) {
	rr := serve(newAPIRouter(stubPinger{}), http.MethodGet, "/api/auth/profile/", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newAPIRouter(stubPinger{})

	rr := serve(router, http.MethodOptions, "/api/auth/login/", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = serve(router, http.MethodGet, "/api/health/", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
