package inventory

import (
	"context"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// LedgerSink recibe los eventos de dominio del inventario (add/update/delete/remove).
// El Store es su único emisor; el ledger nunca llama de vuelta al Store.
type LedgerSink interface {
	Record(ctx context.Context, in entity.TransactionInput) (entity.Transaction, error)
}
