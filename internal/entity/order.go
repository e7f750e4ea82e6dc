package entity

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type DeliveryType string

const (
	DeliveryOffice DeliveryType = "office"
	DeliveryHome   DeliveryType = "home"
)

// Order is a cash-on-delivery order. There is no payment step; price fields
// are informational. ProductID is a weak reference: deleting a product later
// must not touch existing orders.
type Order struct {
	ID            string
	CustomerName  string
	Phone         string
	Wilaya        string
	Commune       string
	DeliveryType  DeliveryType
	ProductID     *string
	ProductPrice  float64
	DeliveryPrice float64
	TotalPrice    float64
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
