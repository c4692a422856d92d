package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

// ItemSource snapshot de la colección de items (inventory.Store).
type ItemSource interface {
	Items() []entity.Item
}

// TransactionSource snapshot del ledger (ledger.Ledger).
type TransactionSource interface {
	All() []entity.Transaction
}

// StockValuer calcula Σ price × quantity sobre el blob persistido en key.
// Lo implementa el backend postgres (postgres.KVRepo).
type StockValuer interface {
	StockValue(ctx context.Context, key string) (decimal.Decimal, error)
}

// InventoryReport datos de entrada del reporte PDF de inventario.
type InventoryReport struct {
	Title       string
	GeneratedAt time.Time
	Items       []entity.Item
	Totals      stock.Totals
	Categories  []stock.CategoryTotal
	LowStock    []entity.Item
}

// InventoryPDFGenerator abstrae la librería de PDF.
type InventoryPDFGenerator interface {
	GenerateInventoryPDF(ctx context.Context, report InventoryReport) ([]byte, error)
}

// LedgerXMLExporter serializa movimientos a XML.
type LedgerXMLExporter interface {
	ExportLedgerXML(ctx context.Context, txs []entity.Transaction, generatedAt time.Time) ([]byte, error)
}
