package cart

import (
	"context"
	"strings"

	"agrilink/internal/models"
)

// DiscountCatalog resolves a shopper-entered code. Implementations match
// codes case-insensitively and return ErrInvalidCode for unknown codes.
type DiscountCatalog interface {
	Lookup(ctx context.Context, code string) (models.DiscountCode, error)
}

// StaticCatalog is a fixed in-process set of discount codes.
type StaticCatalog map[string]models.DiscountCode

func NewStaticCatalog(codes ...models.DiscountCode) StaticCatalog {
	catalog := make(StaticCatalog, len(codes))
	for _, code := range codes {
		catalog[NormalizeCode(code.Code)] = code
	}
	return catalog
}

func (s StaticCatalog) Lookup(_ context.Context, code string) (models.DiscountCode, error) {
	found, ok := s[NormalizeCode(code)]
	if !ok {
		return models.DiscountCode{}, ErrInvalidCode
	}
	return found, nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DefaultDiscountCodes are the promotional codes available without a database.
func DefaultDiscountCodes() []models.DiscountCode {
	return []models.DiscountCode{
		{Code: "WELCOME10", Type: models.DiscountPercentage, Value: 10, MinimumAmount: 50000, IsActive: true},
		{Code: "SAVE5000", Type: models.DiscountFixed, Value: 5000, MinimumAmount: 25000, IsActive: true},
		{Code: "FARMER20", Type: models.DiscountPercentage, Value: 20, MinimumAmount: 100000, IsActive: true},
	}
}
