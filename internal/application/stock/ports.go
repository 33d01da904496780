package stock

import (
	"context"

	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction, handing it a
// movement repository bound to that transaction. Guarantees atomicity for
// multi-leg movements (transfers, adjustments).
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error
}
