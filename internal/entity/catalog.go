package entity

import "time"

// Product is the single item the store sells. Kept as a table anyway so the
// admin can swap products without a redeploy.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	StockCount  int
	Features    []string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeliverySettings holds the two flat delivery fees shown on the order form.
type DeliverySettings struct {
	ID             string
	HomePrice      float64
	OfficePrice    float64
	WhatsappNumber string
	UpdatedAt      time.Time
}

type StoreSettings struct {
	ID                   string
	AboutUs              string
	Phone                string
	Email                string
	Address              string
	WorkingHoursWeekdays string
	WorkingHoursFriday   string
	UpdatedAt            time.Time
}

// SalesPopup is one entry of the "someone just bought" feed on the landing
// page. Real orders feed it through the order.created consumer; the admin can
// also seed fake ones.
type SalesPopup struct {
	ID           string
	CustomerName string
	ProductName  string
	Wilaya       string
	IsActive     bool
	IsFake       bool
	CreatedAt    time.Time
}

type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
