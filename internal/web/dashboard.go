package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/logger"
	"go.uber.org/zap"
)

type dashboardView struct {
	User apiclient.User
}

func (h *Handler) dashboard(c *gin.Context) {
	token, ok := h.tokens.Access(c)
	if !ok {
		c.Redirect(http.StatusFound, RouteLogin)
		return
	}

	user, err := h.api.Profile(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.tokens.Clear(c)
		} else {
			logger.FromContext(c).Warn("profile request failed", zap.Error(err))
		}
		c.Redirect(http.StatusFound, RouteLogin)
		return
	}

	c.HTML(http.StatusOK, "dashboard", dashboardView{User: user})
}
