package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

const (
	RoleOwner      = "owner"
	RoleModerator  = "moderator"
	RoleSuperAdmin = "super_admin"
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

const userColumns = `id, business_id, email, name, password_hash, role, is_active, created_at`

const listModeratorsQuery = `
	SELECT ` + userColumns + `
	FROM users
	WHERE business_id = $1 AND role = 'moderator'
	ORDER BY created_at DESC`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.BusinessID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, err
}

func (r *Repository) GetUserByID(ctx context.Context, businessID, userID uuid.UUID) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE business_id = $1 AND id = $2`,
		businessID, userID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, err
}

func (r *Repository) IsActiveModerator(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE business_id = $1 AND id = $2 AND role = 'moderator' AND is_active
		)`, businessID, userID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check moderator: %w", err)
	}
	return active, nil
}

func (r *Repository) ListModerators(ctx context.Context, businessID uuid.UUID) ([]User, error) {
	rows, err := r.pool.Query(ctx, listModeratorsQuery, businessID)
	if err != nil {
		return nil, fmt.Errorf("list moderators: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan moderator: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderators: %w", err)
	}
	return users, nil
}

func (r *Repository) CreateUser(ctx context.Context, user User) (User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (id, business_id, email, name, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.ID, user.BusinessID, strings.ToLower(strings.TrimSpace(user.Email)), user.Name,
		user.PasswordHash, user.Role, user.IsActive, user.CreatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *Repository) SetActive(ctx context.Context, businessID, userID uuid.UUID, active bool) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET is_active = $3
		WHERE business_id = $1 AND id = $2 AND role = 'moderator'
		RETURNING `+userColumns,
		businessID, userID, active))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("set user active: %w", err)
	}
	return user, err
}

// Business is a tenant.
type Business struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// CreateBusinessWithOwner creates a tenant and its first owner in one transaction.
func (r *Repository) CreateBusinessWithOwner(ctx context.Context, business Business, owner User) (User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin business tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO businesses (id, name, created_at) VALUES ($1, $2, $3)`,
		business.ID, business.Name, business.CreatedAt,
	); err != nil {
		return User{}, fmt.Errorf("create business: %w", err)
	}

	created, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (id, business_id, email, name, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7)
		RETURNING `+userColumns,
		owner.ID, business.ID, strings.ToLower(strings.TrimSpace(owner.Email)), owner.Name,
		owner.PasswordHash, RoleOwner, business.CreatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create owner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit business tx: %w", err)
	}
	return created, nil
}

// ListBusinessIDs returns every tenant id, oldest first.
func (r *Repository) ListBusinessIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM businesses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect businesses: %w", err)
	}
	return ids, nil
}
