package dto

import (
	"time"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// TransactionListQuery parámetros de GET /api/transactions.
type TransactionListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	Search   string `query:"search"`
	Type     string `query:"type"`   // all | add | remove | update | delete
	Window   string `query:"window"` // all | today | yesterday | week | month
	SortBy   string `query:"sort_by"`
	Order    string `query:"order"`
}

// TransactionResponse salida de una entrada del ledger.
type TransactionResponse struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"item_id"`
	ItemName         string    `json:"item_name"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity *int      `json:"previous_quantity,omitempty"`
	Date             time.Time `json:"date"`
	User             string    `json:"user"`
	Notes            string    `json:"notes,omitempty"`
}

// ToTransactionResponses mapea entradas del ledger a la respuesta HTTP.
func ToTransactionResponses(txs []entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionResponse{
			ID:               t.ID,
			ItemID:           t.ItemID,
			ItemName:         t.ItemName,
			Type:             string(t.Type),
			Quantity:         t.Quantity,
			PreviousQuantity: t.PreviousQuantity,
			Date:             t.Date,
			User:             t.User,
			Notes:            t.Notes,
		})
	}
	return out
}
