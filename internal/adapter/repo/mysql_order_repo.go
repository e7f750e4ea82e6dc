package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id,customer_name,phone,wilaya,commune,delivery_type,product_id,
                    product_price,delivery_price,total_price,status,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
`, o.ID, o.CustomerName, o.Phone, o.Wilaya, o.Commune, string(o.DeliveryType),
		nullString(o.ProductID), o.ProductPrice, o.DeliveryPrice, o.TotalPrice, string(o.Status))
	return err
}

const orderColumns = `id,customer_name,phone,wilaya,commune,delivery_type,product_id,
product_price,delivery_price,total_price,status,created_at,updated_at`

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) List(ctx context.Context, status entity.Status, limit int) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status=?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *MySQLOrderRepo) UpdateStatus(ctx context.Context, id string, to entity.Status) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW()
        WHERE id = ?`,
		string(to), id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var deliveryType, status string
	var productID sql.NullString
	err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Wilaya, &o.Commune, &deliveryType,
		&productID, &o.ProductPrice, &o.DeliveryPrice, &o.TotalPrice, &status,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	o.DeliveryType = entity.DeliveryType(deliveryType)
	o.Status = entity.Status(status)
	if productID.Valid {
		o.ProductID = &productID.String
	}
	return &o, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
