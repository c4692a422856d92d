package stock

import (
	"cmp"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"

	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// DateWindow ventana de fechas relativa a "ahora".
type DateWindow string

// Ventanas soportadas por el listado de movimientos.
const (
	WindowAll       DateWindow = "all"
	WindowToday     DateWindow = "today"     // desde las 00:00 de hoy
	WindowYesterday DateWindow = "yesterday" // desde las 00:00 de ayer
	WindowWeek      DateWindow = "week"      // últimos 7 días
	WindowMonth     DateWindow = "month"     // últimos 30 días
)

// DefaultRecentLimit cantidad por defecto de Recent.
const DefaultRecentLimit = 10

// TransactionQuery parámetros del listado de movimientos. Por defecto: fecha descendente.
type TransactionQuery struct {
	Search string
	Type   entity.TransactionType // "" o "all" = todos
	Window DateWindow
	SortBy string
	Order  SortOrder
}

type txComparator func(c *collate.Collator, a, b entity.Transaction) int

var txSortFields = map[string]txComparator{
	"date":     func(_ *collate.Collator, a, b entity.Transaction) int { return a.Date.Compare(b.Date) },
	"itemName": func(c *collate.Collator, a, b entity.Transaction) int { return c.CompareString(a.ItemName, b.ItemName) },
	"itemId":   func(c *collate.Collator, a, b entity.Transaction) int { return c.CompareString(a.ItemID, b.ItemID) },
	"type":     func(c *collate.Collator, a, b entity.Transaction) int { return c.CompareString(string(a.Type), string(b.Type)) },
	"user":     func(c *collate.Collator, a, b entity.Transaction) int { return c.CompareString(a.User, b.User) },
	"notes":    func(c *collate.Collator, a, b entity.Transaction) int { return c.CompareString(a.Notes, b.Notes) },
	"quantity": func(_ *collate.Collator, a, b entity.Transaction) int { return cmp.Compare(a.Quantity, b.Quantity) },
	"previousQuantity": func(_ *collate.Collator, a, b entity.Transaction) int {
		// sin valor cuenta como mayor: al final en asc, al principio en desc
		switch {
		case a.PreviousQuantity == nil && b.PreviousQuantity == nil:
			return 0
		case a.PreviousQuantity == nil:
			return 1
		case b.PreviousQuantity == nil:
			return -1
		}
		return cmp.Compare(*a.PreviousQuantity, *b.PreviousQuantity)
	},
}

var txSortAliases = map[string]string{
	"item_name":         "itemName",
	"item_id":           "itemId",
	"previous_quantity": "previousQuantity",
}

// Recent devuelve hasta limit movimientos por fecha descendente. A igual fecha,
// el último agregado va primero. limit <= 0 usa DefaultRecentLimit.
func Recent(txs []entity.Transaction, limit int) []entity.Transaction {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := make([]entity.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		out = append(out, txs[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterTransactions aplica búsqueda (nombre del item, usuario, notas) → tipo → ventana
// de fechas → orden. now es el reloj de pared al momento de la consulta.
func FilterTransactions(txs []entity.Transaction, q TransactionQuery, now time.Time) ([]entity.Transaction, error) {
	if q.Type != "" && q.Type != filterAll && !q.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, q.Type)
	}
	start, bounded, err := windowStart(q.Window, now)
	if err != nil {
		return nil, err
	}
	less, err := txOrdering(q.SortBy, q.Order)
	if err != nil {
		return nil, err
	}

	f := newFolder()
	search := f.fold(q.Search)
	out := make([]entity.Transaction, 0, len(txs))
	for _, t := range txs {
		if search != "" &&
			!f.contains(t.ItemName, search) &&
			!f.contains(t.User, search) &&
			!f.contains(t.Notes, search) {
			continue
		}
		if q.Type != "" && q.Type != filterAll && t.Type != q.Type {
			continue
		}
		if bounded && t.Date.Before(start) {
			continue
		}
		out = append(out, t)
	}

	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool { return less(c, out[i], out[j]) })
	return out, nil
}

func windowStart(w DateWindow, now time.Time) (time.Time, bool, error) {
	switch w {
	case "", WindowAll:
		return time.Time{}, false, nil
	case WindowToday:
		return StartOfDay(now), true, nil
	case WindowYesterday:
		return StartOfDay(now).AddDate(0, 0, -1), true, nil
	case WindowWeek:
		return now.AddDate(0, 0, -7), true, nil
	case WindowMonth:
		return now.AddDate(0, 0, -30), true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: ventana de fechas %q", domain.ErrInvalidInput, w)
}

func txOrdering(field string, order SortOrder) (func(c *collate.Collator, a, b entity.Transaction) bool, error) {
	if field == "" {
		field = "date"
		if order == "" {
			order = Desc
		}
	}
	if alias, ok := txSortAliases[field]; ok {
		field = alias
	}
	compare, ok := txSortFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: campo de orden %q", domain.ErrInvalidInput, field)
	}
	switch order {
	case "", Asc:
		return func(c *collate.Collator, a, b entity.Transaction) bool { return compare(c, a, b) < 0 }, nil
	case Desc:
		return func(c *collate.Collator, a, b entity.Transaction) bool { return compare(c, a, b) > 0 }, nil
	}
	return nil, fmt.Errorf("%w: dirección de orden %q", domain.ErrInvalidInput, order)
}
