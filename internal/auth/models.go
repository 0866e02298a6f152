package auth

import "time"

// User represents a registered teacher account.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	DateJoined   time.Time
	Profile      TeacherProfile
}

// SafeUser removes sensitive fields for response payloads.
func (u User) SafeUser() User {
	u.PasswordHash = ""
	return u
}

// TeacherProfile holds the school affiliation attached to every user.
type TeacherProfile struct {
	CommissionScolaire string
	SchoolName         string
	GradeLevels        []string
	Subjects           []string
	PhoneNumber        string
	IsVerified         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser carries the fields persisted on registration.
type NewUser struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Profile      TeacherProfile
}

// UserFields carries the editable account columns.
type UserFields struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// TokenPair bundles access and refresh tokens.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}
