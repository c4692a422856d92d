// Package stock contiene el motor de vistas derivadas: funciones puras sobre
// instantáneas de items y movimientos (stock bajo, agregados, búsqueda, orden,
// paginación y series de 7 días). No guarda estado ni caché.
package stock

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// StockStatus filtro por estado de stock.
type StockStatus string

// Estados de stock.
const (
	StatusAll    StockStatus = "all"
	StatusLow    StockStatus = "low"    // quantity <= minQuantity
	StatusNormal StockStatus = "normal" // quantity > minQuantity
)

// SortOrder dirección de ordenamiento.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// filterAll es el valor que usa la UI para "sin filtro" en selects.
const filterAll = "all"

// ItemQuery parámetros del listado de inventario. Los valores vacíos no filtran.
type ItemQuery struct {
	Search   string
	Category string
	Supplier string
	Status   StockStatus
	SortBy   string // por defecto "name"
	Order    SortOrder
}

type itemComparator func(f *folder, a, b entity.Item) int

var itemSortFields = map[string]itemComparator{
	"name":        func(f *folder, a, b entity.Item) int { return f.compare(a.Name, b.Name) },
	"category":    func(f *folder, a, b entity.Item) int { return f.compare(a.Category, b.Category) },
	"supplier":    func(f *folder, a, b entity.Item) int { return f.compare(a.Supplier, b.Supplier) },
	"description": func(f *folder, a, b entity.Item) int { return f.compare(a.Description, b.Description) },
	"location":    func(f *folder, a, b entity.Item) int { return f.compare(a.Location, b.Location) },
	"quantity":    func(_ *folder, a, b entity.Item) int { return cmp.Compare(a.Quantity, b.Quantity) },
	"minQuantity": func(_ *folder, a, b entity.Item) int { return cmp.Compare(a.MinQuantity, b.MinQuantity) },
	"price":       func(_ *folder, a, b entity.Item) int { return a.Price.Cmp(b.Price) },
	"createdAt":   func(_ *folder, a, b entity.Item) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"lastUpdated": func(_ *folder, a, b entity.Item) int { return a.LastUpdated.Compare(b.LastUpdated) },
}

// Alias snake_case aceptados desde query strings.
var itemSortAliases = map[string]string{
	"min_quantity": "minQuantity",
	"created_at":   "createdAt",
	"last_updated": "lastUpdated",
}

// LowStock devuelve los items con quantity <= minQuantity, en el orden de entrada.
func LowStock(items []entity.Item) []entity.Item {
	out := make([]entity.Item, 0)
	for _, it := range items {
		if it.IsLowStock() {
			out = append(out, it)
		}
	}
	return out
}

// ItemsByCategory coincidencia exacta de categoría.
func ItemsByCategory(items []entity.Item, category string) []entity.Item {
	out := make([]entity.Item, 0)
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// SearchItems busca query (sin distinguir mayúsculas, por subcadena) en nombre,
// categoría y descripción. Query vacío devuelve todos los items.
func SearchItems(items []entity.Item, query string) []entity.Item {
	f := newFolder()
	q := f.fold(query)
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if q == "" || f.contains(it.Name, q) || f.contains(it.Category, q) || f.contains(it.Description, q) {
			out = append(out, it)
		}
	}
	return out
}

// FilterItems aplica búsqueda → filtros de igualdad → orden estable por un único campo.
// La búsqueda cubre nombre, descripción, categoría y proveedor.
func FilterItems(items []entity.Item, q ItemQuery) ([]entity.Item, error) {
	status := q.Status
	if status == "" {
		status = StatusAll
	}
	if status != StatusAll && status != StatusLow && status != StatusNormal {
		return nil, fmt.Errorf("%w: estado de stock %q", domain.ErrInvalidInput, q.Status)
	}
	less, err := itemOrdering(q.SortBy, q.Order)
	if err != nil {
		return nil, err
	}

	f := newFolder()
	search := f.fold(q.Search)
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if search != "" &&
			!f.contains(it.Name, search) &&
			!f.contains(it.Description, search) &&
			!f.contains(it.Category, search) &&
			!f.contains(it.Supplier, search) {
			continue
		}
		if q.Category != "" && q.Category != filterAll && it.Category != q.Category {
			continue
		}
		if q.Supplier != "" && q.Supplier != filterAll && it.Supplier != q.Supplier {
			continue
		}
		if status == StatusLow && !it.IsLowStock() {
			continue
		}
		if status == StatusNormal && it.IsLowStock() {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool { return less(f, out[i], out[j]) })
	return out, nil
}

func itemOrdering(field string, order SortOrder) (func(f *folder, a, b entity.Item) bool, error) {
	if field == "" {
		field = "name"
	}
	if alias, ok := itemSortAliases[field]; ok {
		field = alias
	}
	compare, ok := itemSortFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: campo de orden %q", domain.ErrInvalidInput, field)
	}
	switch order {
	case "", Asc:
		return func(f *folder, a, b entity.Item) bool { return compare(f, a, b) < 0 }, nil
	case Desc:
		return func(f *folder, a, b entity.Item) bool { return compare(f, a, b) > 0 }, nil
	}
	return nil, fmt.Errorf("%w: dirección de orden %q", domain.ErrInvalidInput, order)
}
