package billing

import (
	"context"

	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction, handing it
// the four repositories an invoice operation touches, all bound to that
// transaction. Invoice header, lines, stock movements and ledger entries
// commit or roll back together.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InvoiceRepository,
		ledRepo repository.LedgerRepository,
		movRepo repository.StockMovementRepository,
		payRepo repository.PaymentRepository,
	) error) error
}

// AuditRecorder writes an audit trail entry. Implementations are best-effort
// and never return an error; callers invoke it after commit.
type AuditRecorder interface {
	Record(log *entity.AuditLog)
}
