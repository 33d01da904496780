package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email is already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")
	ErrAlreadyCancelled   = errors.New("invoice is already cancelled")
	ErrHasPayments        = errors.New("invoice has linked payments; issue a credit note instead")
)

// UnbalancedBatchError reports a ledger batch whose debits and credits do not
// match within tolerance. Nothing is written when this is returned.
type UnbalancedBatchError struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

func (e *UnbalancedBatchError) Error() string {
	return fmt.Sprintf("unbalanced ledger batch: debits=%s credits=%s",
		e.TotalDebits.StringFixed(2), e.TotalCredits.StringFixed(2))
}

// InsufficientStockError reports an outbound quantity that exceeds the
// available balance for a product at a warehouse.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available=%s required=%s",
		e.ProductID, e.Available.String(), e.Required.String())
}
