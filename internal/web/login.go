package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/logger"
	"go.uber.org/zap"
)

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type loginView struct {
	Error    string
	Username string
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", loginView{})
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login", loginView{Error: msgInvalidCredentials})
		return
	}

	tokens, err := h.api.Login(c.Request.Context(), apiclient.Credentials{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		view := loginView{Username: form.Username}
		if errors.Is(err, apiclient.ErrInvalidCredentials) {
			view.Error = msgInvalidCredentials
			c.HTML(http.StatusUnauthorized, "login", view)
			return
		}
		logger.FromContext(c).Warn("login request failed", zap.Error(err))
		view.Error = msgServerUnavailable
		c.HTML(http.StatusBadGateway, "login", view)
		return
	}

	if err := h.tokens.Save(c, tokens.Access, tokens.Refresh); err != nil {
		logger.FromContext(c).Error("store tokens", zap.Error(err))
		c.HTML(http.StatusBadGateway, "login", loginView{Username: form.Username, Error: msgServerUnavailable})
		return
	}

	c.Redirect(http.StatusSeeOther, RouteDashboard)
}
