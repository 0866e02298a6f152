package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

const selectUser = `
SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.password_hash, u.date_joined,
       p.commission_scolaire, p.school_name, p.grade_levels, p.subjects, p.phone_number,
       p.is_verified, p.created_at, p.updated_at
FROM users u
JOIN teacher_profiles p ON p.user_id = u.id`

// Repository provides database access for authentication concerns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser persists a user and its teacher profile in one transaction.
func (r *Repository) CreateUser(ctx context.Context, input NewUser) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;`,
		input.Username, input.Email, input.PasswordHash, input.FirstName, input.LastName,
	).Scan(&id)
	if err != nil {
		return User{}, mapUniqueViolation(err, "insert user")
	}

	profile := input.Profile
	_, err = tx.Exec(ctx, `
INSERT INTO teacher_profiles (user_id, commission_scolaire, school_name, grade_levels, subjects, phone_number)
VALUES ($1, $2, $3, $4, $5, $6);`,
		id, profile.CommissionScolaire, profile.SchoolName,
		nonNil(profile.GradeLevels), nonNil(profile.Subjects), profile.PhoneNumber,
	)
	if err != nil {
		return User{}, fmt.Errorf("insert teacher profile: %w", err)
	}

	user, err := scanUser(tx.QueryRow(ctx, selectUser+` WHERE u.id = $1;`, id))
	if err != nil {
		return User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit tx: %w", err)
	}

	return user, nil
}

// FindUserByUsername fetches a user by username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.username = $1;`, username))
}

// FindUserByID fetches a user by identifier.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.id = $1;`, id))
}

// UpdateUser overwrites the editable account columns.
func (r *Repository) UpdateUser(ctx context.Context, userID int64, fields UserFields) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET username = $2, email = $3, first_name = $4, last_name = $5
WHERE id = $1;`,
		userID, fields.Username, fields.Email, fields.FirstName, fields.LastName,
	)
	if err != nil {
		return User{}, mapUniqueViolation(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}

	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.id = $1;`, userID))
}

// UpdateTeacherProfile overwrites the editable teacher profile fields.
func (r *Repository) UpdateTeacherProfile(ctx context.Context, userID int64, profile TeacherProfile) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
UPDATE teacher_profiles
SET commission_scolaire = $2, school_name = $3, grade_levels = $4, subjects = $5,
    phone_number = $6, updated_at = NOW()
WHERE user_id = $1;`,
		userID, profile.CommissionScolaire, profile.SchoolName,
		nonNil(profile.GradeLevels), nonNil(profile.Subjects), profile.PhoneNumber,
	)
	if err != nil {
		return User{}, fmt.Errorf("update teacher profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}

	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.id = $1;`, userID))
}

// StoreRefreshToken records the hash of an issued refresh token.
func (r *Repository) StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
INSERT INTO refresh_tokens (user_id, token_hash, expires_at, revoked_at)
VALUES ($1, $2, $3, NULL)
ON CONFLICT (user_id, token_hash)
DO UPDATE SET expires_at = EXCLUDED.expires_at, revoked_at = NULL, created_at = NOW();`

	if _, err := r.pool.Exec(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.DateJoined,
		&user.Profile.CommissionScolaire,
		&user.Profile.SchoolName,
		&user.Profile.GradeLevels,
		&user.Profile.Subjects,
		&user.Profile.PhoneNumber,
		&user.Profile.IsVerified,
		&user.Profile.CreatedAt,
		&user.Profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func mapUniqueViolation(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return ErrEmailAlreadyExists
		case "users_username_key":
			return ErrUsernameTaken
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
