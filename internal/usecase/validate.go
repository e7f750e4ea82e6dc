package usecase

import (
	"regexp"
	"unicode/utf8"

	"github.com/zizozako94-cmyk/soqdz/internal/entity"
)

// Algerian mobile numbers: 0 then 5/6/7 then eight digits.
var phonePattern = regexp.MustCompile(`^0[567][0-9]{8}$`)

// SubmitOrderInput is the raw submission payload. Price fields are pointers
// so a missing field is distinguishable from an explicit zero.
type SubmitOrderInput struct {
	CustomerName  string
	Phone         string
	Wilaya        string
	Commune       string
	DeliveryType  string
	ProductID     *string
	ProductPrice  *float64
	DeliveryPrice *float64
	TotalPrice    *float64
}

// submissionRules mirror the database constraints on the orders table, one
// rule per field. Each returns "" when satisfied.
var submissionRules = []func(in SubmitOrderInput) string{
	func(in SubmitOrderInput) string {
		if in.CustomerName == "" {
			return "Customer name is required"
		}
		if n := utf8.RuneCountInString(in.CustomerName); n < 3 || n > 100 {
			return "Customer name must be between 3 and 100 characters"
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		if in.Phone == "" {
			return "Phone number is required"
		}
		if !phonePattern.MatchString(in.Phone) {
			return "Invalid phone number format"
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		if in.Wilaya == "" {
			return "Wilaya is required"
		}
		if utf8.RuneCountInString(in.Wilaya) > 50 {
			return "Wilaya name is too long"
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		if in.Commune == "" {
			return "Commune is required"
		}
		if utf8.RuneCountInString(in.Commune) > 100 {
			return "Commune name is too long"
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		dt := entity.DeliveryType(in.DeliveryType)
		if dt != entity.DeliveryOffice && dt != entity.DeliveryHome {
			return `Delivery type must be "office" or "home"`
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		if in.ProductPrice == nil || *in.ProductPrice < 0 {
			return "Invalid product price"
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		if in.DeliveryPrice == nil || *in.DeliveryPrice < 0 {
			return "Invalid delivery price"
		}
		return ""
	},
	func(in SubmitOrderInput) string {
		if in.TotalPrice == nil || *in.TotalPrice < 0 {
			return "Invalid total price"
		}
		return ""
	},
}

// ValidateSubmission checks every rule and returns all violations, so the
// order form can show every problem at once. An empty slice means valid.
// TotalPrice is deliberately not checked against ProductPrice+DeliveryPrice;
// the client computes it and the server stores it as sent.
func ValidateSubmission(in SubmitOrderInput) []string {
	var errs []string
	for _, rule := range submissionRules {
		if msg := rule(in); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}
