package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mentoria/mentoria/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	refreshTokenLength = 48
	minPasswordLength  = 8
	maxPasswordLength  = 72 // bcrypt limit
	tokenIssuer        = "mentoria"
	tokenAudience      = "mentoria-web"
)

// userStore abstracts the persistence layer.
type userStore interface {
	CreateUser(ctx context.Context, input NewUser) (User, error)
	FindUserByUsername(ctx context.Context, username string) (User, error)
	FindUserByID(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, userID int64, fields UserFields) (User, error)
	UpdateTeacherProfile(ctx context.Context, userID int64, profile TeacherProfile) (User, error)
	StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
}

// Service encapsulates authentication use cases.
type Service struct {
	store   userStore
	cfg     config.AuthConfig
	nowFunc func() time.Time
	parser  *jwt.Parser
}

// NewService creates a Service with dependencies.
func NewService(store userStore, cfg config.AuthConfig) *Service {
	return &Service{
		store:   store,
		cfg:     cfg,
		nowFunc: time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithAudience(tokenAudience),
			jwt.WithExpirationRequired(),
		),
	}
}

// RegisterInput carries data for user registration.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
	Profile         TeacherProfile
}

// LoginInput carries login credentials.
type LoginInput struct {
	Username string
	Password string
}

// ProfilePatch lists teacher profile fields to change; nil fields are left untouched.
type ProfilePatch struct {
	CommissionScolaire *string
	SchoolName         *string
	GradeLevels        *[]string
	Subjects           *[]string
	PhoneNumber        *string
}

// UserPatch lists account fields to change; nil fields are left untouched.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// AuthResult contains user and token information.
type AuthResult struct {
	User   User
	Tokens TokenPair
}

// UserClaims describes the validated identity extracted from an access token.
type UserClaims struct {
	UserID    int64
	Username  string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Register creates a new user with its teacher profile and issues tokens.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if input.Password != input.PasswordConfirm {
		return AuthResult{}, ErrPasswordMismatch
	}
	if err := validatePassword(input.Password); err != nil {
		return AuthResult{}, err
	}

	hashedPassword, err := hashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, NewUser{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hashedPassword,
		Profile:      input.Profile,
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrUsernameTaken) {
			return AuthResult{}, err
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Profile returns the user identified by an access token.
func (s *Service) Profile(ctx context.Context, userID int64) (User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	return user.SafeUser(), nil
}

// UpdateUser applies a partial update to the user's own account fields.
func (s *Service) UpdateUser(ctx context.Context, userID int64, patch UserPatch) (User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	fields := UserFields{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if patch.Username != nil {
		fields.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		fields.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.FirstName != nil {
		fields.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		fields.LastName = strings.TrimSpace(*patch.LastName)
	}
	if fields.Username == "" || fields.Email == "" || fields.FirstName == "" || fields.LastName == "" {
		return User{}, ErrBlankField
	}

	updated, err := s.store.UpdateUser(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return updated.SafeUser(), nil
}

// UpdateTeacherProfile applies a partial update to the user's teacher profile.
func (s *Service) UpdateTeacherProfile(ctx context.Context, userID int64, patch ProfilePatch) (User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	profile := user.Profile
	if patch.CommissionScolaire != nil {
		profile.CommissionScolaire = *patch.CommissionScolaire
	}
	if patch.SchoolName != nil {
		profile.SchoolName = *patch.SchoolName
	}
	if patch.GradeLevels != nil {
		profile.GradeLevels = *patch.GradeLevels
	}
	if patch.Subjects != nil {
		profile.Subjects = *patch.Subjects
	}
	if patch.PhoneNumber != nil {
		profile.PhoneNumber = *patch.PhoneNumber
	}

	updated, err := s.store.UpdateTeacherProfile(ctx, userID, profile)
	if err != nil {
		return User{}, err
	}
	return updated.SafeUser(), nil
}

// ValidateAccessToken verifies the token signature and extracts user claims.
func (s *Service) ValidateAccessToken(tokenString string) (UserClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return UserClaims{}, ErrUnauthorized
	}

	parsed, err := s.parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.AccessTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return UserClaims{}, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return UserClaims{}, ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return UserClaims{}, ErrUnauthorized
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || exp.Before(s.nowFunc()) {
		return UserClaims{}, ErrUnauthorized
	}

	username, _ := claims["username"].(string)

	iat := time.Time{}
	if issued, err := claims.GetIssuedAt(); err == nil && issued != nil {
		iat = issued.Time
	}

	return UserClaims{
		UserID:    userID,
		Username:  username,
		ExpiresAt: exp.Time,
		IssuedAt:  iat,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, user User) (AuthResult, error) {
	now := s.nowFunc()

	accessToken, accessExpiry, err := s.generateAccessToken(user, now)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, refreshExpiry, err := s.generateRefreshToken(now)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshHash := hashRefreshToken(refreshToken, s.cfg.RefreshTokenSecret)
	if err := s.store.StoreRefreshToken(ctx, user.ID, refreshHash, refreshExpiry); err != nil {
		return AuthResult{}, fmt.Errorf("store refresh token: %w", err)
	}

	return AuthResult{
		User: user.SafeUser(),
		Tokens: TokenPair{
			AccessToken:        accessToken,
			AccessTokenExpiry:  accessExpiry,
			RefreshToken:       refreshToken,
			RefreshTokenExpiry: refreshExpiry,
		},
	}, nil
}

func (s *Service) generateAccessToken(user User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.AccessTokenTTL)
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
		"username": user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (s *Service) generateRefreshToken(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.RefreshTokenTTL)

	raw := make([]byte, refreshTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, err
	}

	token := base64.RawURLEncoding.EncodeToString(raw)
	return token, expiresAt, nil
}

func hashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func hashRefreshToken(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrWeakPassword
	}
	if strings.Trim(password, "0123456789") == "" {
		return ErrWeakPassword
	}
	return nil
}
