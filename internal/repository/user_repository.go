package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RushabhBarot/CityFix/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken surfaces the unique index on users.email, which is the
	// authority on duplicate registrations.
	ErrEmailTaken = errors.New("email already registered")
)

const userColumns = `
	id, name, email, password_hash, role, mobile_number, avatar_url,
	active, department, id_card_url, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, role, mobile_number, avatar_url,
			active, department, id_card_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.MobileNumber,
		user.AvatarURL,
		user.Active,
		user.Department,
		user.IDCardURL,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE users SET active = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListByRoleAndActive(ctx context.Context, role models.UserRole, active bool) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND active = $2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, role, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *UserRepository) ListActiveWorkersByDepartment(ctx context.Context, department models.Department) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND active = TRUE AND department = $2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, models.RoleWorker, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *UserRepository) CountByRoleAndActive(ctx context.Context, role models.UserRole, active bool) (int64, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = $1 AND active = $2`
	var count int64
	if err := r.pool.QueryRow(ctx, query, role, active).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.MobileNumber,
		&user.AvatarURL,
		&user.Active,
		&user.Department,
		&user.IDCardURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) scanAll(rows pgx.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
