package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/logger"
	"go.uber.org/zap"
)

type registerForm struct {
	FirstName          string `form:"first_name"`
	LastName           string `form:"last_name"`
	Username           string `form:"username"`
	Email              string `form:"email"`
	PhoneNumber        string `form:"phone_number"`
	CommissionScolaire string `form:"commission_scolaire"`
	SchoolName         string `form:"school_name"`
	Password           string `form:"password"`
	PasswordConfirm    string `form:"password_confirm"`
}

// redisplay drops the passwords before the form is rendered again.
func (f registerForm) redisplay() registerForm {
	f.Password = ""
	f.PasswordConfirm = ""
	return f
}

func (f registerForm) registration() apiclient.Registration {
	return apiclient.Registration{
		Username:        f.Username,
		Email:           f.Email,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Password:        f.Password,
		PasswordConfirm: f.PasswordConfirm,
		TeacherProfile: apiclient.TeacherProfile{
			CommissionScolaire: f.CommissionScolaire,
			SchoolName:         f.SchoolName,
			GradeLevels:        []string{},
			Subjects:           []string{},
			PhoneNumber:        f.PhoneNumber,
		},
	}
}

type registerView struct {
	Error string
	Form  registerForm
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register", registerView{})
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register", registerView{Error: msgRegistrationFailed})
		return
	}

	tokens, err := h.api.Register(c.Request.Context(), form.registration())
	if err != nil {
		view := registerView{Form: form.redisplay()}

		var refused *apiclient.RegistrationError
		if errors.As(err, &refused) {
			view.Error = refused.Message
			if view.Error == "" {
				view.Error = msgRegistrationFailed
			}
			c.HTML(http.StatusBadRequest, "register", view)
			return
		}

		logger.FromContext(c).Warn("register request failed", zap.Error(err))
		view.Error = msgServerUnavailable
		c.HTML(http.StatusBadGateway, "register", view)
		return
	}

	if err := h.tokens.Save(c, tokens.Access, tokens.Refresh); err != nil {
		logger.FromContext(c).Error("store tokens", zap.Error(err))
		c.HTML(http.StatusBadGateway, "register", registerView{Form: form.redisplay(), Error: msgServerUnavailable})
		return
	}

	c.Redirect(http.StatusSeeOther, RouteDashboard)
}
