package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

type MySQLSalesPopupRepo struct{ db *sql.DB }

func NewMySQLSalesPopupRepo(db *sql.DB) *MySQLSalesPopupRepo { return &MySQLSalesPopupRepo{db: db} }

func (r *MySQLSalesPopupRepo) Insert(ctx context.Context, p entity.SalesPopup) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sales_popups (id,customer_name,product_name,wilaya,is_active,is_fake,created_at)
VALUES (?,?,?,?,?,?,NOW())`,
		p.ID, p.CustomerName, p.ProductName, p.Wilaya, p.IsActive, p.IsFake)
	return err
}

func (r *MySQLSalesPopupRepo) ListActive(ctx context.Context, limit int) ([]entity.SalesPopup, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,customer_name,product_name,wilaya,is_active,is_fake,created_at
FROM sales_popups WHERE is_active = TRUE
ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.SalesPopup
	for rows.Next() {
		var p entity.SalesPopup
		if err := rows.Scan(&p.ID, &p.CustomerName, &p.ProductName, &p.Wilaya,
			&p.IsActive, &p.IsFake, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ usecase.SalesPopupRepo = (*MySQLSalesPopupRepo)(nil)
