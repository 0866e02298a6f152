// Package web renders the MentorIA screens: landing page, login, registration and dashboard.
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/session"
)

// Routes served by the front-end.
const (
	RouteHome      = "/"
	RouteLogin     = "/connexion"
	RouteRegister  = "/inscription"
	RouteDashboard = "/dashboard"
	RouteLogout    = "/deconnexion"
)

// Messages shown to the user. They never carry server detail beyond the
// registration message returned by the API.
const (
	msgInvalidCredentials = "Nom d'utilisateur ou mot de passe incorrect"
	msgServerUnavailable  = "Erreur de connexion au serveur"
	msgRegistrationFailed = "Une erreur est survenue lors de l'inscription"
)

// AuthAPI is the subset of the REST client used by the screens.
type AuthAPI interface {
	Login(ctx context.Context, creds apiclient.Credentials) (apiclient.TokenPair, error)
	Register(ctx context.Context, reg apiclient.Registration) (apiclient.TokenPair, error)
	Profile(ctx context.Context, accessToken string) (apiclient.User, error)
}

// Handler serves the screens.
type Handler struct {
	api    AuthAPI
	tokens *session.Store
}

// NewHandler creates a Handler.
func NewHandler(api AuthAPI, tokens *session.Store) *Handler {
	return &Handler{api: api, tokens: tokens}
}

// RegisterRoutes mounts the screens on router. Templates must already be installed.
func RegisterRoutes(router gin.IRoutes, h *Handler) {
	router.GET(RouteHome, h.home)
	router.GET(RouteLogin, h.loginPage)
	router.POST(RouteLogin, h.login)
	router.GET(RouteRegister, h.registerPage)
	router.POST(RouteRegister, h.register)
	router.GET(RouteDashboard, h.dashboard)
	router.POST(RouteLogout, h.logout)
}

func (h *Handler) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", nil)
}

func (h *Handler) logout(c *gin.Context) {
	h.tokens.Clear(c)
	c.Redirect(http.StatusSeeOther, RouteHome)
}
