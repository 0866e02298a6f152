package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// User-facing messages, matching what the web front-end displays verbatim.
const (
	msgRegistered      = "Inscription réussie"
	msgProfileUpdated  = "Profil mis à jour avec succès"
	msgPasswordsDiffer = "Les mots de passe ne correspondent pas."
	msgEmailTaken      = "Un utilisateur avec cette adresse email existe déjà."
	msgUsernameTaken   = "Un utilisateur avec ce nom d'utilisateur existe déjà."
	msgWeakPassword    = "Le mot de passe doit contenir au moins 8 caractères et ne peut pas être entièrement numérique."
	msgInvalidPayload  = "Veuillez remplir tous les champs obligatoires."
	msgNoAccount       = "No active account found with the given credentials"
)

// RegisterRoutes mounts authentication endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register/", handler.register)
		authGroup.POST("/login/", handler.login)
	}

	protected := authGroup.Group("/")
	protected.Use(AuthMiddleware(service))
	{
		protected.GET("/profile/", handler.profile)
		protected.PUT("/profile/", handler.updateUser)
		protected.PATCH("/profile/", handler.updateUser)
		protected.PUT("/profile/teacher/", handler.updateTeacherProfile)
		protected.PATCH("/profile/teacher/", handler.updateTeacherProfile)
	}
}

type httpHandler struct {
	service *Service
}

type teacherProfilePayload struct {
	CommissionScolaire string   `json:"commission_scolaire" binding:"max=200"`
	SchoolName         string   `json:"school_name" binding:"max=200"`
	GradeLevels        []string `json:"grade_levels"`
	Subjects           []string `json:"subjects"`
	PhoneNumber        string   `json:"phone_number" binding:"max=20"`
}

type registerRequest struct {
	Username        string                `json:"username" binding:"required,max=150"`
	Email           string                `json:"email" binding:"required,email"`
	FirstName       string                `json:"first_name" binding:"required,max=150"`
	LastName        string                `json:"last_name" binding:"required,max=150"`
	Password        string                `json:"password" binding:"required"`
	PasswordConfirm string                `json:"password_confirm" binding:"required"`
	TeacherProfile  teacherProfilePayload `json:"teacher_profile"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userPatch struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
}

type teacherProfilePatch struct {
	CommissionScolaire *string   `json:"commission_scolaire" binding:"omitempty,max=200"`
	SchoolName         *string   `json:"school_name" binding:"omitempty,max=200"`
	GradeLevels        *[]string `json:"grade_levels"`
	Subjects           *[]string `json:"subjects"`
	PhoneNumber        *string   `json:"phone_number" binding:"omitempty,max=20"`
}

type tokensResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type userResponse struct {
	ID             int64                 `json:"id"`
	Username       string                `json:"username"`
	Email          string                `json:"email"`
	FirstName      string                `json:"first_name"`
	LastName       string                `json:"last_name"`
	DateJoined     time.Time             `json:"date_joined"`
	TeacherProfile teacherProfilePayload `json:"teacher_profile"`
}

func (h *httpHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidPayload, "detail": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Profile: TeacherProfile{
			CommissionScolaire: req.TeacherProfile.CommissionScolaire,
			SchoolName:         req.TeacherProfile.SchoolName,
			GradeLevels:        req.TeacherProfile.GradeLevels,
			Subjects:           req.TeacherProfile.Subjects,
			PhoneNumber:        req.TeacherProfile.PhoneNumber,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgPasswordsDiffer})
		case errors.Is(err, ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgEmailTaken})
		case errors.Is(err, ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgUsernameTaken})
		case errors.Is(err, ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgWeakPassword})
		default:
			zap.L().Error("register user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": msgRegistered,
		"user":    marshalUser(result.User),
		"tokens":  marshalTokens(result.Tokens),
	})
}

func (h *httpHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": msgNoAccount})
			return
		}
		zap.L().Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		return
	}

	c.JSON(http.StatusOK, marshalTokens(result.Tokens))
}

func (h *httpHandler) profile(c *gin.Context) {
	principal, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}

	user, err := h.service.Profile(c.Request.Context(), principal.ID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, marshalUser(user))
}

func (h *httpHandler) updateUser(c *gin.Context) {
	principal, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}

	var req userPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidPayload, "detail": err.Error()})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), principal.ID, UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgEmailTaken})
		case errors.Is(err, ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgUsernameTaken})
		case errors.Is(err, ErrBlankField):
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidPayload})
		default:
			h.writeLookupError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, marshalUser(user))
}

func (h *httpHandler) updateTeacherProfile(c *gin.Context) {
	principal, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}

	var req teacherProfilePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.service.UpdateTeacherProfile(c.Request.Context(), principal.ID, ProfilePatch{
		CommissionScolaire: req.CommissionScolaire,
		SchoolName:         req.SchoolName,
		GradeLevels:        req.GradeLevels,
		Subjects:           req.Subjects,
		PhoneNumber:        req.PhoneNumber,
	})
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgProfileUpdated,
		"user":    marshalUser(user),
	})
}

// writeLookupError treats a token whose user vanished like any other invalid token.
func (h *httpHandler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
		return
	}
	zap.L().Error("load user", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
}

func marshalTokens(tokens TokenPair) tokensResponse {
	return tokensResponse{
		Access:  tokens.AccessToken,
		Refresh: tokens.RefreshToken,
	}
}

func marshalUser(user User) userResponse {
	return userResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.DateJoined.UTC(),
		TeacherProfile: teacherProfilePayload{
			CommissionScolaire: user.Profile.CommissionScolaire,
			SchoolName:         user.Profile.SchoolName,
			GradeLevels:        nonNil(user.Profile.GradeLevels),
			Subjects:           nonNil(user.Profile.Subjects),
			PhoneNumber:        user.Profile.PhoneNumber,
		},
	}
}
