package models

import "strings"

// ShippingAddress is where an order is delivered. Phone numbers must be
// Tanzanian mobile numbers (+255 or 0 prefix followed by 6 or 7 and eight digits).
type ShippingAddress struct {
	FirstName  string `bson:"firstName" json:"firstName" validate:"required"`
	LastName   string `bson:"lastName" json:"lastName" validate:"required"`
	Address    string `bson:"address" json:"address" validate:"required"`
	City       string `bson:"city" json:"city" validate:"required"`
	Region     string `bson:"region" json:"region" validate:"required"`
	Phone      string `bson:"phone" json:"phone" validate:"required,tzphone"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
}

// Normalized returns a copy with surrounding whitespace trimmed from every field.
func (a ShippingAddress) Normalized() ShippingAddress {
	return ShippingAddress{
		FirstName:  strings.TrimSpace(a.FirstName),
		LastName:   strings.TrimSpace(a.LastName),
		Address:    strings.TrimSpace(a.Address),
		City:       strings.TrimSpace(a.City),
		Region:     strings.TrimSpace(a.Region),
		Phone:      strings.TrimSpace(a.Phone),
		PostalCode: strings.TrimSpace(a.PostalCode),
	}
}

func (a ShippingAddress) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type PaymentType string

const (
	PaymentMobileMoney    PaymentType = "mobile_money"
	PaymentCashOnDelivery PaymentType = "cash_on_delivery"
	PaymentCard           PaymentType = "card"
	PaymentBank           PaymentType = "bank"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentMobileMoney, PaymentCashOnDelivery, PaymentCard, PaymentBank:
		return true
	}
	return false
}

// PaymentMethod is a tagged variant over the supported payment types. Only
// mobile money carries a mandatory account (wallet) number.
type PaymentMethod struct {
	ID            string      `bson:"id" json:"id"`
	Type          PaymentType `bson:"type" json:"type" validate:"required,oneof=mobile_money cash_on_delivery card bank"`
	Provider      string      `bson:"provider" json:"provider"`
	AccountNumber string      `bson:"accountNumber,omitempty" json:"accountNumber,omitempty" validate:"required_if=Type mobile_money"`
	IsDefault     bool        `bson:"isDefault" json:"isDefault"`
}

type ShippingMethod struct {
	ID            string   `bson:"id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Description   string   `bson:"description" json:"description"`
	Price         int64    `bson:"price" json:"price"`
	EstimatedDays string   `bson:"estimatedDays" json:"estimatedDays"`
	MaxDays       int      `bson:"maxDays" json:"maxDays"`
	Regions       []string `bson:"regions,omitempty" json:"regions,omitempty"`
}

// TransitDays is the upper bound of the delivery window; zero means same day.
func (m ShippingMethod) TransitDays() int {
	if m.MaxDays < 0 {
		return 0
	}
	return m.MaxDays
}

// ServesRegion reports whether the method delivers to region. A method
// without a region list delivers everywhere.
func (m ShippingMethod) ServesRegion(region string) bool {
	if len(m.Regions) == 0 {
		return true
	}
	for _, r := range m.Regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}
