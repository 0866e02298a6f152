package apiclient

import "time"

// Credentials is the login form posted to the auth API.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TeacherProfile is the school affiliation nested in users and registrations.
type TeacherProfile struct {
	CommissionScolaire string   `json:"commission_scolaire"`
	SchoolName         string   `json:"school_name"`
	GradeLevels        []string `json:"grade_levels"`
	Subjects           []string `json:"subjects"`
	PhoneNumber        string   `json:"phone_number"`
}

// Registration is the registration form posted to the auth API.
type Registration struct {
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
	TeacherProfile  TeacherProfile `json:"teacher_profile"`
}

// User is the read-only profile returned by the auth API.
type User struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	DateJoined     time.Time      `json:"date_joined"`
	TeacherProfile TeacherProfile `json:"teacher_profile"`
}

// TokenPair holds the two opaque bearer tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (t TokenPair) complete() bool {
	return t.Access != "" && t.Refresh != ""
}
