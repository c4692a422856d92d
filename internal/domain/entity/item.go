package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto en stock.
// Los tags JSON definen el formato del blob persistido en el almacén clave-valor.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"minQuantity"` // punto de reorden
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Location    string          `json:"location,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// IsLowStock indica si la cantidad está en o por debajo del mínimo.
func (i Item) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// StockValue devuelve price × quantity.
func (i Item) StockValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
