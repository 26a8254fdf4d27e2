package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/user/model"
	"journal-backend/pkg/cache"
	"journal-backend/pkg/logger"
)

const userCacheTTL = 15 * time.Minute

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
// Profile reads go through a cache-aside layer keyed by user id.
// Credential lookups (by email) always hit the database.
type postgresUserRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresUserRepository(pool *pgxpool.Pool, cacheClient cache.Cache) UserRepository {
	return &postgresUserRepository{
		pool:  pool,
		cache: cacheClient,
	}
}

func userCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

const userColumns = `
	id, email, password_hash, role,
	given_name, family_name, orcid_id,
	institution, department, country,
	is_active, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.GivenName,
		&u.FamilyName,
		&u.OrcidID,
		&u.Institution,
		&u.Department,
		&u.Country,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, role,
			given_name, family_name, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.GivenName,
		user.FamilyName,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var cached model.User
	found, err := r.cache.Get(ctx, userCacheKey(userID), &cached)
	if err != nil {
		logger.Error("User cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var user model.User
	if err := scanUser(r.pool.QueryRow(ctx, query, userID), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.cache.Set(ctx, userCacheKey(userID), &user, userCacheTTL); err != nil {
		logger.Error("User cache write failed", err)
	}

	return &user, nil
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE email = $1
	`

	var user model.User
	if err := scanUser(r.pool.QueryRow(ctx, query, email), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			given_name = $2,
			family_name = $3,
			orcid_id = $4,
			institution = $5,
			department = $6,
			country = $7,
			is_active = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.GivenName,
		user.FamilyName,
		user.OrcidID,
		user.Institution,
		user.Department,
		user.Country,
		user.IsActive,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	// Invalidate so the next read repopulates with fresh data.
	if err := r.cache.Delete(ctx, userCacheKey(user.ID)); err != nil {
		logger.Error("User cache invalidation failed", err)
	}

	return nil
}
