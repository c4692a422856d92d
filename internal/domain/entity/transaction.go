package entity

import "time"

// TransactionType tipo de movimiento registrado en el ledger.
type TransactionType string

// Tipos de movimiento.
const (
	TransactionAdd    TransactionType = "add"    // alta de item o entrada de stock
	TransactionRemove TransactionType = "remove" // salida de stock
	TransactionUpdate TransactionType = "update" // cambio de cantidad por edición
	TransactionDelete TransactionType = "delete" // baja del item
)

// Valid indica si t es uno de los tipos conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionAdd, TransactionRemove, TransactionUpdate, TransactionDelete:
		return true
	}
	return false
}

// Transaction entrada inmutable del ledger.
// ItemName es una copia del nombre al momento del evento; no se sincroniza con renombres posteriores.
type Transaction struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"itemId"`
	ItemName         string          `json:"itemName"`
	Type             TransactionType `json:"type"`
	Quantity         int             `json:"quantity"`
	PreviousQuantity *int            `json:"previousQuantity,omitempty"` // solo en update
	Date             time.Time       `json:"date"`
	User             string          `json:"user"`
	Notes            string          `json:"notes,omitempty"`
}

// TransactionInput datos de una entrada antes de que el ledger asigne ID y fecha.
type TransactionInput struct {
	ItemID           string
	ItemName         string
	Type             TransactionType
	Quantity         int
	PreviousQuantity *int
	User             string
	Notes            string
}
