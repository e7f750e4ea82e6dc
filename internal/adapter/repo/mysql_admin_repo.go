package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

type MySQLAdminUserRepo struct{ db *sql.DB }

func NewMySQLAdminUserRepo(db *sql.DB) *MySQLAdminUserRepo { return &MySQLAdminUserRepo{db: db} }

func (r *MySQLAdminUserRepo) GetByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,email,password_hash,created_at FROM admin_users WHERE email=?`, email)

	var u entity.AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ usecase.AdminUserRepo = (*MySQLAdminUserRepo)(nil)
