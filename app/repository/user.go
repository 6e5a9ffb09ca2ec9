package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, avatar, is_active, is_confirmed, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.IsActive,
		user.IsConfirmed,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = uint64(id)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password_hash, avatar, refresh_token, is_active, is_confirmed, role, created_at, updated_at
		FROM users WHERE email = ?
	`
	user := &entity.User{}
	var role string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.RefreshToken,
		&user.IsActive,
		&user.IsConfirmed,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Role = entity.Role(role)
	return user, nil
}

// UpdateRefreshToken commits the single live refresh token for the user.
// An invalid NullString clears it, forcing a re-login.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID uint64, token sql.NullString) error {
	query := `UPDATE users SET refresh_token = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, token, time.Now(), userID)
	return err
}

func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	query := `UPDATE users SET is_confirmed = 1, updated_at = ? WHERE email = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), email)
	return err
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, email, url string) error {
	query := `UPDATE users SET avatar = ?, updated_at = ? WHERE email = ?`
	_, err := r.db.ExecContext(ctx, query, url, time.Now(), email)
	return err
}
