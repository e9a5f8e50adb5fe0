package cart

import (
	"errors"
	"fmt"

	"agrilink/internal/money"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidCode     = errors.New("invalid discount code")
	ErrBelowMinimum    = errors.New("cart subtotal is below the discount minimum")
)

// BelowMinimumError is returned when a discount code exists but the cart
// subtotal has not reached the code's minimum amount.
type BelowMinimumError struct {
	Code     string
	Minimum  int64
	Subtotal int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("Minimum order amount is %s", money.Format(e.Minimum))
}

func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimum
}
