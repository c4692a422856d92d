package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve totales, datos de los gráficos y los últimos movimientos.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_products, total_items, total_value, category_chart,
// stock_status, history[7], recent_transactions[5], low_stock_items[5]).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
