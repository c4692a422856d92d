package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/application/ledger"
	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

// TransactionHandler maneja las consultas del historial de movimientos (protegido).
type TransactionHandler struct {
	ledger   *ledger.Ledger
	reports  *analytics.ReportUseCase
	pageSize int
	now      func() time.Time
}

// NewTransactionHandler construye el handler. loc es la zona horaria de las ventanas de fecha.
func NewTransactionHandler(l *ledger.Ledger, reports *analytics.ReportUseCase, pageSize int, loc *time.Location) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = stock.DefaultPageSize
	}
	if loc == nil {
		loc = time.Local
	}
	return &TransactionHandler{
		ledger:   l,
		reports:  reports,
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// List godoc
// @Summary      Listar movimientos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Busca en nombre del item, usuario y notas"
// @Param        type       query  string  false  "all | add | remove | update | delete"
// @Param        window     query  string  false  "all | today | yesterday | week | month"
// @Param        sort_by    query  string  false  "Campo de orden (date por defecto)"
// @Param        order      query  string  false  "asc | desc (desc por defecto)"
// @Param        page       query  int     false  "Página (1..)"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.ListResponse[dto.TransactionResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	q, page, err := h.parseQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	filtered, err := stock.FilterTransactions(h.ledger.All(), q, h.now())
	if err != nil {
		return writeError(c, err)
	}
	p := stock.Paginate(filtered, page.Page, page.PageSize)
	return c.JSON(dto.ListResponse[dto.TransactionResponse]{
		Items: dto.ToTransactionResponses(p.Items),
		Page:  pageResponse(p),
	})
}

// Recent godoc
// @Summary      Movimientos más recientes
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad (10 por defecto)"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions/recent [get]
func (h *TransactionHandler) Recent(c *fiber.Ctx) error {
	return c.JSON(dto.ToTransactionResponses(h.ledger.GetRecent(c.QueryInt("limit", 0))))
}

// ByItem godoc
// @Summary      Movimientos de un item
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del item"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions/item/{itemId} [get]
func (h *TransactionHandler) ByItem(c *fiber.Ctx) error {
	return c.JSON(dto.ToTransactionResponses(h.ledger.GetByItem(c.Params("itemId"))))
}

// ByType godoc
// @Summary      Movimientos por tipo
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "add | remove | update | delete"
// @Success      200  {array}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/type/{type} [get]
func (h *TransactionHandler) ByType(c *fiber.Ctx) error {
	typ := entity.TransactionType(c.Params("type"))
	if !typ.Valid() {
		return writeError(c, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, typ))
	}
	return c.JSON(dto.ToTransactionResponses(h.ledger.GetByType(typ)))
}

// Clear godoc
// @Summary      Vaciar el historial
// @Description  Solo admin.
// @Tags         transactions
// @Security     Bearer
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/transactions [delete]
func (h *TransactionHandler) Clear(c *fiber.Ctx) error {
	if err := h.ledger.Clear(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportXML godoc
// @Summary      Exportar movimientos a XML
// @Description  Acepta los mismos filtros que el listado; no pagina.
// @Tags         transactions
// @Security     Bearer
// @Produce      application/xml
// @Param        search  query  string  false  "Busca en nombre del item, usuario y notas"
// @Param        type    query  string  false  "all | add | remove | update | delete"
// @Param        window  query  string  false  "all | today | yesterday | week | month"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/export.xml [get]
func (h *TransactionHandler) ExportXML(c *fiber.Ctx) error {
	q, _, err := h.parseQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	b, filename, err := h.reports.LedgerXML(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(b)
}

func (h *TransactionHandler) parseQuery(c *fiber.Ctx) (stock.TransactionQuery, dto.PageRequest, error) {
	var q dto.TransactionListQuery
	if err := c.QueryParser(&q); err != nil {
		return stock.TransactionQuery{}, dto.PageRequest{}, fmt.Errorf("%w: parámetros inválidos", domain.ErrInvalidInput)
	}
	page := dto.PageRequest{Page: q.Page, PageSize: q.PageSize}
	page.DefaultPage(h.pageSize)
	return stock.TransactionQuery{
		Search: q.Search,
		Type:   entity.TransactionType(q.Type),
		Window: stock.DateWindow(q.Window),
		SortBy: q.SortBy,
		Order:  stock.SortOrder(q.Order),
	}, page, nil
}
