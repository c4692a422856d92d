package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Location    string          `json:"location,omitempty"`
}

// Validate exige name, category y supplier no vacíos y números no negativos.
func (r CreateItemRequest) Validate() error {
	for _, f := range []struct{ name, value string }{{"name", r.Name}, {"category", r.Category}, {"supplier", r.Supplier}} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s es obligatorio", domain.ErrInvalidInput, f.name)
		}
	}
	if r.Quantity < 0 {
		return fmt.Errorf("%w: quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if r.MinQuantity < 0 {
		return fmt.Errorf("%w: min_quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// UpdateItemRequest body para PUT /api/items/:id. Solo se aplican los campos presentes.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Supplier    *string          `json:"supplier,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	MinQuantity *int             `json:"min_quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Location    *string          `json:"location,omitempty"`
}

// Validate aplica a los campos presentes las mismas reglas que CreateItemRequest.
func (r UpdateItemRequest) Validate() error {
	for _, f := range []struct {
		name  string
		value *string
	}{{"name", r.Name}, {"category", r.Category}, {"supplier", r.Supplier}} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return fmt.Errorf("%w: %s no puede quedar vacío", domain.ErrInvalidInput, f.name)
		}
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return fmt.Errorf("%w: quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if r.MinQuantity != nil && *r.MinQuantity < 0 {
		return fmt.Errorf("%w: min_quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if r.Price != nil && r.Price.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// RegisterMovementRequest body para POST /api/items/:id/movements.
type RegisterMovementRequest struct {
	Type     string `json:"type"` // add | remove
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// ItemListQuery parámetros de GET /api/items.
type ItemListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	Search   string `query:"search"`
	Category string `query:"category"`
	Supplier string `query:"supplier"`
	Status   string `query:"status"` // all | low | normal
	SortBy   string `query:"sort_by"`
	Order    string `query:"order"` // asc | desc
}

// ItemResponse salida de un item.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
	StockValue  decimal.Decimal `json:"stock_value"`
	LowStock    bool            `json:"low_stock"`
	Image       string          `json:"image,omitempty"`
	Location    string          `json:"location,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUpdated time.Time       `json:"last_updated"`
}

// ToItemResponse mapea la entidad a la respuesta HTTP.
func ToItemResponse(it entity.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Category:    it.Category,
		Supplier:    it.Supplier,
		Quantity:    it.Quantity,
		MinQuantity: it.MinQuantity,
		Price:       it.Price,
		StockValue:  it.StockValue(),
		LowStock:    it.IsLowStock(),
		Image:       it.Image,
		Location:    it.Location,
		CreatedAt:   it.CreatedAt,
		LastUpdated: it.LastUpdated,
	}
}

// ToItemResponses mapea una lista.
func ToItemResponses(items []entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return out
}

// CreatedResponse respuesta de creación.
type CreatedResponse struct {
	ID string `json:"id"`
}
