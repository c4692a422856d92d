package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts int             `json:"total_products"` // cantidad de items distintos
	TotalItems    int             `json:"total_items"`    // Σ quantity
	TotalValue    decimal.Decimal `json:"total_value"`    // Σ price × quantity
	LowStockCount int             `json:"low_stock_count"`
	Categories    int             `json:"categories"`

	CategoryChart []CategoryPointDTO `json:"category_chart"`
	StockStatus   StockStatusDTO     `json:"stock_status"`
	History       []FlowPointDTO     `json:"history"` // últimos 7 días, del más antiguo a hoy

	RecentTransactions []TransactionResponse `json:"recent_transactions"`
	LowStockItems      []ItemResponse        `json:"low_stock_items"`
}

// CategoryPointDTO cantidad total por categoría.
type CategoryPointDTO struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// StockStatusDTO conteo de items normales y con stock bajo.
type StockStatusDTO struct {
	Normal int `json:"normal"`
	Low    int `json:"low"`
}

// FlowPointDTO entradas y salidas de un día.
type FlowPointDTO struct {
	Date    string `json:"date"`  // YYYY-MM-DD
	Label   string `json:"label"` // dd/mm
	Inflow  int    `json:"inflow"`
	Outflow int    `json:"outflow"`
}
