// Package pdf genera el reporte de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Items | Unidades | Valor total | Stock bajo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Nombre | Categoría | Proveedor | Cant | Mín | Valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR CATEGORÍA: unidades por categoría                       │
//	│  STOCK BAJO: items a reponer                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ analytics.InventoryPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa analytics.InventoryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInventoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInventoryPDF(ctx context.Context, report analytics.InventoryReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(text.NewRow(8, "Inventario vacío", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}))
	}
	for _, r := range itemRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	for _, r := range categoryRows(report) {
		m.AddRows(r)
	}
	if len(report.LowStock) > 0 {
		m.AddRows(line.NewRow(3))
		for _, r := range lowStockRows(report.LowStock) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report analytics.InventoryReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(strings.ToUpper(report.Title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cuatro indicadores en columnas iguales.
func summaryRow(report analytics.InventoryReport) core.Row {
	kpi := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: color, Top: 6, Align: align.Center}),
		)
	}
	t := report.Totals
	return row.New(16).Add(
		kpi("Productos", fmt.Sprintf("%d", t.ItemCount), colorPrimary),
		kpi("Unidades en stock", fmt.Sprintf("%d", t.TotalItems), colorPrimary),
		kpi("Valor total", "$"+formatMoney(t.TotalValue), colorPrimary),
		kpi("Stock bajo", fmt.Sprintf("%d", t.LowStock), colorAlert),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Nombre", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Proveedor", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Mín.", 1, align.Center),
		h("Valor", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []entity.Item) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		qtyColor := colorGray
		if it.IsLowStock() {
			qtyColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Supplier, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1, Color: qtyColor})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.MinQuantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.StockValue()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func categoryRows(report analytics.InventoryReport) []core.Row {
	rows := []core.Row{
		text.NewRow(7, "UNIDADES POR CATEGORÍA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	}
	for _, c := range report.Categories {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(nonEmpty(c.Category, "—"), props.Text{Size: 8, Left: 2})),
			col.New(6).Add(text.New(fmt.Sprintf("%d", c.Quantity), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func lowStockRows(items []entity.Item) []core.Row {
	rows := []core.Row{
		text.NewRow(7, "ITEMS A REPONER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1}),
	}
	for _, it := range items {
		rows = append(rows, text.NewRow(5, fmt.Sprintf("%s: %d de %d mínimas (%s)", it.Name, it.Quantity, it.MinQuantity, nonEmpty(it.Location, "sin ubicación")),
			props.Text{Size: 8, Left: 2, Color: colorGray}))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
