package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrDiscountNotFound     = errors.New("invalid discount code")
	ErrDiscountInactive     = errors.New("discount code is not active")
	ErrDiscountExpired      = errors.New("discount code expired")
	ErrDiscountLimitReached = errors.New("discount code usage limit reached")

	// ErrCreditConflict means the guarded balance update kept losing to
	// concurrent debits of the same user. The settlement transaction rolls
	// back and the caller may retry.
	ErrCreditConflict = errors.New("credit balance changed concurrently")
)

// InsufficientStockError identifies which product in the caller's own cart
// could not be reserved.
type InsufficientStockError struct {
	ProductID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}
