package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

type MySQLProductRepo struct{ db *sql.DB }

func NewMySQLProductRepo(db *sql.DB) *MySQLProductRepo { return &MySQLProductRepo{db: db} }

// features and images are JSON arrays in a TEXT column.
func (r *MySQLProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,name,description,price,stock_count,features,images,created_at,updated_at
FROM products WHERE id=?`, id)

	var p entity.Product
	var desc sql.NullString
	var features, images []byte
	err := row.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.StockCount, &features, &images,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	p.Description = desc.String
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, err
		}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)
