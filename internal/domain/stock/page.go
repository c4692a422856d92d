package stock

// DefaultPageSize tamaño de página de los listados (inventario y movimientos).
const DefaultPageSize = 10

// Page una rebanada paginada de un listado ya filtrado y ordenado.
type Page[T any] struct {
	Items      []T
	Page       int // página efectiva, ya acotada
	PageSize   int
	TotalItems int
	TotalPages int
}

// Paginate devuelve la página solicitada de list. La página se acota a [1, TotalPages];
// con list vacío la página efectiva es 1 y TotalPages es 0.
func Paginate[T any](list []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(list)
	totalPages := (total + pageSize - 1) / pageSize

	last := max(totalPages, 1)
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	items := make([]T, 0, max(end-start, 0))
	if start < total {
		items = append(items, list[start:end]...)
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
