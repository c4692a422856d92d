package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

// ReportUseCase genera los reportes descargables.
type ReportUseCase struct {
	items ItemSource
	txs   TransactionSource
	pdf   InventoryPDFGenerator
	xml   LedgerXMLExporter
	now   func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando los generadores. loc es la zona
// horaria de las ventanas de fecha y de la marca de generación.
func NewReportUseCase(items ItemSource, txs TransactionSource, pdf InventoryPDFGenerator, xml LedgerXMLExporter, loc *time.Location) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUseCase{items: items, txs: txs, pdf: pdf, xml: xml, now: func() time.Time { return time.Now().In(loc) }}
}

// InventoryPDF devuelve (pdfBytes, filename, nil).
func (uc *ReportUseCase) InventoryPDF(ctx context.Context) ([]byte, string, error) {
	items := uc.items.Items()
	now := uc.now()
	report := InventoryReport{
		Title:       "Reporte de inventario",
		GeneratedAt: now,
		Items:       items,
		Totals:      stock.Summarize(items),
		Categories:  stock.CategoryTotals(items),
		LowStock:    stock.LowStock(items),
	}
	b, err := uc.pdf.GenerateInventoryPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte pdf: %w", err)
	}
	return b, fmt.Sprintf("inventario_%s.pdf", now.Format("20060102_1504")), nil
}

// LedgerXML exporta los movimientos que pasan q (mismo filtro que el listado).
func (uc *ReportUseCase) LedgerXML(ctx context.Context, q stock.TransactionQuery) ([]byte, string, error) {
	now := uc.now()
	txs, err := stock.FilterTransactions(uc.txs.All(), q, now)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.xml.ExportLedgerXML(ctx, txs, now)
	if err != nil {
		return nil, "", fmt.Errorf("reporte xml: %w", err)
	}
	return b, fmt.Sprintf("movimientos_%s.xml", now.Format("20060102_1504")), nil
}
