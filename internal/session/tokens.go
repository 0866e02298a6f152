package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/config"
)

// Cookie names for the two bearer tokens.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// ErrEmptyToken is returned when asked to persist an empty token.
var ErrEmptyToken = errors.New("refusing to store empty token")

// Store keeps the access and refresh tokens in HttpOnly cookies.
type Store struct {
	secure bool
	domain string
	maxAge int
}

// NewStore creates a Store from cookie settings.
func NewStore(cfg config.CookieConfig) *Store {
	return &Store{
		secure: cfg.Secure,
		domain: cfg.Domain,
		maxAge: int(cfg.MaxAge.Seconds()),
	}
}

// Save writes both tokens. Nothing is written unless both are non-empty.
func (s *Store) Save(c *gin.Context, access, refresh string) error {
	if strings.TrimSpace(access) == "" || strings.TrimSpace(refresh) == "" {
		return ErrEmptyToken
	}
	s.set(c, AccessCookie, access, s.maxAge)
	s.set(c, RefreshCookie, refresh, s.maxAge)
	return nil
}

// Access returns the stored access token, if any.
func (s *Store) Access(c *gin.Context) (string, bool) {
	token, err := c.Cookie(AccessCookie)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// Clear deletes both tokens.
func (s *Store) Clear(c *gin.Context) {
	s.set(c, AccessCookie, "", -1)
	s.set(c, RefreshCookie, "", -1)
}

func (s *Store) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", s.domain, s.secure, true)
}
