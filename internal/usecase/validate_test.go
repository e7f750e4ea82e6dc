package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func validInput() SubmitOrderInput {
	return SubmitOrderInput{
		CustomerName:  "Amine Benali",
		Phone:         "0551234567",
		Wilaya:        "Alger",
		Commune:       "Bab El Oued",
		DeliveryType:  "office",
		ProductPrice:  f64(9200),
		DeliveryPrice: f64(500),
		TotalPrice:    f64(9700),
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	assert.Empty(t, ValidateSubmission(validInput()))
}

func TestValidateSubmission_Phone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"0551234567", true},
		{"0661234567", true},
		{"0771234567", true},
		{"0441234567", false}, // bad operator prefix
		{"1551234567", false}, // must start with 0
		{"055123456", false},  // too short
		{"05512345678", false},
		{"05512345a7", false},
	}
	for _, tc := range cases {
		in := validInput()
		in.Phone = tc.phone
		errs := ValidateSubmission(in)
		if tc.ok {
			assert.Empty(t, errs, "phone %q should be valid", tc.phone)
		} else {
			assert.Equal(t, []string{"Invalid phone number format"}, errs, "phone %q", tc.phone)
		}
	}
}

func TestValidateSubmission_FieldMessages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitOrderInput)
		want   string
	}{
		{"missing name", func(in *SubmitOrderInput) { in.CustomerName = "" }, "Customer name is required"},
		{"short name", func(in *SubmitOrderInput) { in.CustomerName = "Ab" }, "Customer name must be between 3 and 100 characters"},
		{"long name", func(in *SubmitOrderInput) { in.CustomerName = strings.Repeat("a", 101) }, "Customer name must be between 3 and 100 characters"},
		{"missing phone", func(in *SubmitOrderInput) { in.Phone = "" }, "Phone number is required"},
		{"missing wilaya", func(in *SubmitOrderInput) { in.Wilaya = "" }, "Wilaya is required"},
		{"long wilaya", func(in *SubmitOrderInput) { in.Wilaya = strings.Repeat("w", 51) }, "Wilaya name is too long"},
		{"missing commune", func(in *SubmitOrderInput) { in.Commune = "" }, "Commune is required"},
		{"long commune", func(in *SubmitOrderInput) { in.Commune = strings.Repeat("c", 101) }, "Commune name is too long"},
		{"bad delivery type", func(in *SubmitOrderInput) { in.DeliveryType = "drone" }, `Delivery type must be "office" or "home"`},
		{"missing product price", func(in *SubmitOrderInput) { in.ProductPrice = nil }, "Invalid product price"},
		{"negative product price", func(in *SubmitOrderInput) { in.ProductPrice = f64(-1) }, "Invalid product price"},
		{"missing delivery price", func(in *SubmitOrderInput) { in.DeliveryPrice = nil }, "Invalid delivery price"},
		{"negative delivery price", func(in *SubmitOrderInput) { in.DeliveryPrice = f64(-0.5) }, "Invalid delivery price"},
		{"missing total price", func(in *SubmitOrderInput) { in.TotalPrice = nil }, "Invalid total price"},
		{"negative total price", func(in *SubmitOrderInput) { in.TotalPrice = f64(-9700) }, "Invalid total price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			assert.Equal(t, []string{tc.want}, ValidateSubmission(in))
		})
	}
}

func TestValidateSubmission_CollectsEveryViolation(t *testing.T) {
	errs := ValidateSubmission(SubmitOrderInput{})
	assert.Len(t, errs, 8, "one violation per field, no short-circuit")
	assert.Equal(t, "Customer name is required", errs[0])
	assert.Equal(t, "Invalid total price", errs[7])
}

func TestValidateSubmission_ZeroPricesAllowed(t *testing.T) {
	in := validInput()
	in.ProductPrice = f64(0)
	in.DeliveryPrice = f64(0)
	in.TotalPrice = f64(0)
	assert.Empty(t, ValidateSubmission(in))
}

func TestValidateSubmission_TotalNotCrossChecked(t *testing.T) {
	in := validInput()
	in.TotalPrice = f64(1) // does not match product+delivery, still accepted
	assert.Empty(t, ValidateSubmission(in))
}

func TestValidateSubmission_NameBoundsAreRunes(t *testing.T) {
	in := validInput()
	in.CustomerName = "أحم" // 3 runes, more bytes
	assert.Empty(t, ValidateSubmission(in))
}
