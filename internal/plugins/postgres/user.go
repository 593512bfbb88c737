package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, fullname, username, email, password_hash FROM users WHERE ` + where
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Fullname, &user.Username, &user.Email, &user.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, `username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query :=
		`INSERT INTO users (id, fullname, username, email, password_hash)
        VALUES ($1, $2, $3, $4, $5)`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, u.ID, u.Fullname, u.Username, u.Email, u.PasswordHash)
	return err
}

func (r *UserRepo) UpdateFullname(ctx context.Context, id uuid.UUID, fullname string) error {
	return r.update(ctx, `UPDATE users SET fullname = $2 WHERE id = $1`, id, fullname)
}

func (r *UserRepo) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	return r.update(ctx, `UPDATE users SET username = $2 WHERE id = $1`, id, username)
}

func (r *UserRepo) update(ctx context.Context, query string, id uuid.UUID, value string) error {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id, value)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Search(ctx context.Context, contains, by string, skipID uuid.UUID, count int) ([]domain.User, error) {
	column := "username"
	if by == "fullname" {
		column = "fullname"
	}
	query := fmt.Sprintf(
		`SELECT id, fullname, username, email, password_hash FROM users
        WHERE %s ILIKE '%%' || $1 || '%%' AND id != $2
        ORDER BY username
        LIMIT $3`, column)

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, contains, skipID, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Fullname, &u.Username, &u.Email, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
