package orders

import (
	"errors"
	"fmt"

	"agrilink/internal/models"
)

var (
	ErrEmptyOrder        = errors.New("order has no items")
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
	// ErrStatusChanged is returned by a Store when the order's status no
	// longer matches the status the transition was validated against.
	ErrStatusChanged = errors.New("order status changed concurrently")
)

type IllegalTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
