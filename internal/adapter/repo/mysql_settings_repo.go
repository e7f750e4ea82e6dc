package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

// MySQLSettingsRepo manages the two singleton settings rows. Updates upsert:
// the first save creates the row.
type MySQLSettingsRepo struct{ db *sql.DB }

func NewMySQLSettingsRepo(db *sql.DB) *MySQLSettingsRepo { return &MySQLSettingsRepo{db: db} }

func (r *MySQLSettingsRepo) DeliverySettings(ctx context.Context) (*entity.DeliverySettings, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,home_price,office_price,whatsapp_number,updated_at
FROM delivery_settings LIMIT 1`)

	var s entity.DeliverySettings
	var whatsapp sql.NullString
	err := row.Scan(&s.ID, &s.HomePrice, &s.OfficePrice, &whatsapp, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Defaults until the admin saves once.
		return &entity.DeliverySettings{HomePrice: 700, OfficePrice: 500}, nil
	}
	if err != nil {
		return nil, err
	}
	s.WhatsappNumber = whatsapp.String
	return &s, nil
}

func (r *MySQLSettingsRepo) UpdateDeliverySettings(ctx context.Context, s entity.DeliverySettings) (*entity.DeliverySettings, error) {
	existing, err := r.DeliverySettings(ctx)
	if err != nil {
		return nil, err
	}
	if existing.ID == "" {
		s.ID = uuid.NewString()
		_, err = r.db.ExecContext(ctx, `
INSERT INTO delivery_settings (id,home_price,office_price,whatsapp_number,updated_at)
VALUES (?,?,?,?,NOW())`,
			s.ID, s.HomePrice, s.OfficePrice, s.WhatsappNumber)
	} else {
		s.ID = existing.ID
		_, err = r.db.ExecContext(ctx, `
UPDATE delivery_settings
SET home_price=?, office_price=?, whatsapp_number=?, updated_at=NOW()
WHERE id=?`,
			s.HomePrice, s.OfficePrice, s.WhatsappNumber, s.ID)
	}
	if err != nil {
		return nil, err
	}
	return r.DeliverySettings(ctx)
}

func (r *MySQLSettingsRepo) StoreSettings(ctx context.Context) (*entity.StoreSettings, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,about_us,phone,email,address,working_hours_weekdays,working_hours_friday,updated_at
FROM store_settings LIMIT 1`)

	var s entity.StoreSettings
	err := row.Scan(&s.ID, &s.AboutUs, &s.Phone, &s.Email, &s.Address,
		&s.WorkingHoursWeekdays, &s.WorkingHoursFriday, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &entity.StoreSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MySQLSettingsRepo) UpdateStoreSettings(ctx context.Context, s entity.StoreSettings) (*entity.StoreSettings, error) {
	existing, err := r.StoreSettings(ctx)
	if err != nil {
		return nil, err
	}
	if existing.ID == "" {
		s.ID = uuid.NewString()
		_, err = r.db.ExecContext(ctx, `
INSERT INTO store_settings (id,about_us,phone,email,address,working_hours_weekdays,working_hours_friday,updated_at)
VALUES (?,?,?,?,?,?,?,NOW())`,
			s.ID, s.AboutUs, s.Phone, s.Email, s.Address,
			s.WorkingHoursWeekdays, s.WorkingHoursFriday)
	} else {
		s.ID = existing.ID
		_, err = r.db.ExecContext(ctx, `
UPDATE store_settings
SET about_us=?, phone=?, email=?, address=?, working_hours_weekdays=?, working_hours_friday=?, updated_at=NOW()
WHERE id=?`,
			s.AboutUs, s.Phone, s.Email, s.Address,
			s.WorkingHoursWeekdays, s.WorkingHoursFriday, s.ID)
	}
	if err != nil {
		return nil, err
	}
	return r.StoreSettings(ctx)
}

var _ usecase.SettingsRepo = (*MySQLSettingsRepo)(nil)
