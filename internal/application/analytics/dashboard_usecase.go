// Package analytics contiene los casos de uso de lectura: el resumen del dashboard
// y los reportes exportables (PDF de inventario, XML del ledger).
package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

const (
	dashboardRecent   = 5 // movimientos recientes en el widget
	dashboardLowStock = 5 // items con stock bajo en el widget
)

// DashboardUseCase arma el resumen del dashboard a partir de snapshots del Store y del ledger.
// No guarda estado: cada llamada recalcula todo.
type DashboardUseCase struct {
	items    ItemSource
	txs      TransactionSource
	loc      *time.Location
	now      func() time.Time
	valuer   StockValuer
	valueKey string
	log      zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso. loc define los límites de cada día de la serie.
func NewDashboardUseCase(items ItemSource, txs TransactionSource, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{items: items, txs: txs, loc: loc, now: time.Now, log: zerolog.Nop()}
}

// WithStockValuer delega TotalValue en el backend para la clave de items dada.
// Si el backend falla se usa el total calculado en memoria.
func (uc *DashboardUseCase) WithStockValuer(v StockValuer, key string, log zerolog.Logger) *DashboardUseCase {
	uc.valuer = v
	uc.valueKey = key
	uc.log = log
	return uc
}

// GetSummary totales, datos de gráficos, recientes y stock bajo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := uc.items.Items()
	txs := uc.txs.All()
	now := uc.now().In(uc.loc)

	totals := stock.Summarize(items)
	if uc.valuer != nil {
		v, err := uc.valuer.StockValue(ctx, uc.valueKey)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", uc.valueKey).Msg("valor de stock desde el backend, se usa el calculado")
		} else {
			totals.TotalValue = v
		}
	}

	chart := make([]dto.CategoryPointDTO, 0)
	for _, c := range stock.CategoryTotals(items) {
		chart = append(chart, dto.CategoryPointDTO{Category: c.Category, Quantity: c.Quantity})
	}

	history := make([]dto.FlowPointDTO, 0, stock.FlowDays)
	for _, d := range stock.WeeklyFlow(txs, now) {
		history = append(history, dto.FlowPointDTO{
			Date:    d.Day.Format("2006-01-02"),
			Label:   d.Day.Format("02/01"),
			Inflow:  d.Inflow,
			Outflow: d.Outflow,
		})
	}

	low := stock.LowStock(items)
	if len(low) > dashboardLowStock {
		low = low[:dashboardLowStock]
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:      totals.ItemCount,
		TotalItems:         totals.TotalItems,
		TotalValue:         totals.TotalValue,
		LowStockCount:      totals.LowStock,
		Categories:         len(totals.Categories),
		CategoryChart:      chart,
		StockStatus:        dto.StockStatusDTO{Normal: totals.NormalStock, Low: totals.LowStock},
		History:            history,
		RecentTransactions: dto.ToTransactionResponses(stock.Recent(txs, dashboardRecent)),
		LowStockItems:      dto.ToItemResponses(low),
	}, nil
}
