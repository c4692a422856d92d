package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
	"github.com/jhoicas/inventory-system/internal/application/auth"
	"github.com/jhoicas/inventory-system/internal/application/inventory"
	"github.com/jhoicas/inventory-system/internal/application/ledger"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items     *inventory.Store
	Ledger    *ledger.Ledger
	AuthUC    *auth.AuthUseCase
	Dashboard *analytics.DashboardUseCase
	Reports   *analytics.ReportUseCase
	JWTSecret string
	PageSize  int
	Location  *time.Location
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Items, deps.PageSize)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Delete("/", adminOnly, itemHandler.Clear)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/search", itemHandler.Search)
	items.Get("/category/:category", itemHandler.ByCategory)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/movements", itemHandler.RegisterMovement)

	// Historial de movimientos
	txs := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Ledger, deps.Reports, deps.PageSize, deps.Location)
	txs.Get("/", txHandler.List)
	txs.Delete("/", adminOnly, txHandler.Clear)
	txs.Get("/recent", txHandler.Recent)
	txs.Get("/export.xml", txHandler.ExportXML)
	txs.Get("/item/:itemId", txHandler.ByItem)
	txs.Get("/type/:type", txHandler.ByType)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
	reportHandler := NewReportHandler(deps.Reports)
	protected.Get("/reports/inventory.pdf", reportHandler.InventoryPDF)
}
