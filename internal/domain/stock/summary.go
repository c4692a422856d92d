package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// CategoryTotal cantidad total de unidades de una categoría (datos de gráficos).
type CategoryTotal struct {
	Category string
	Quantity int
}

// Totals indicadores agregados del inventario.
type Totals struct {
	ItemCount   int             // items distintos
	TotalItems  int             // Σ quantity
	TotalValue  decimal.Decimal // Σ price × quantity
	Categories  []string        // etiquetas distintas, orden de primera aparición
	Suppliers   []string
	LowStock    int
	NormalStock int
}

// CategoryTotals suma quantity por categoría, en orden de primera aparición.
func CategoryTotals(items []entity.Item) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategoryTotal{Category: it.Category})
		}
		out[i].Quantity += it.Quantity
	}
	return out
}

// Summarize calcula los totales del dashboard.
func Summarize(items []entity.Item) Totals {
	t := Totals{
		ItemCount:  len(items),
		TotalValue: decimal.Zero,
		Categories: make([]string, 0),
		Suppliers:  make([]string, 0),
	}
	seenCat := make(map[string]struct{})
	seenSup := make(map[string]struct{})
	for _, it := range items {
		t.TotalItems += it.Quantity
		t.TotalValue = t.TotalValue.Add(it.StockValue())
		if it.IsLowStock() {
			t.LowStock++
		} else {
			t.NormalStock++
		}
		if _, ok := seenCat[it.Category]; !ok {
			seenCat[it.Category] = struct{}{}
			t.Categories = append(t.Categories, it.Category)
		}
		if _, ok := seenSup[it.Supplier]; !ok {
			seenSup[it.Supplier] = struct{}{}
			t.Suppliers = append(t.Suppliers, it.Supplier)
		}
	}
	return t
}
