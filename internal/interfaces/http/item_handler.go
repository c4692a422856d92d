package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/application/inventory"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

// ItemHandler maneja el CRUD de items y los movimientos de stock (protegido).
type ItemHandler struct {
	store    *inventory.Store
	pageSize int
}

// NewItemHandler construye el handler. pageSize es el tamaño por defecto de los listados.
func NewItemHandler(store *inventory.Store, pageSize int) *ItemHandler {
	if pageSize <= 0 {
		pageSize = stock.DefaultPageSize
	}
	return &ItemHandler{store: store, pageSize: pageSize}
}

// List godoc
// @Summary      Listar items
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Busca en nombre, descripción, categoría y proveedor"
// @Param        category   query  string  false  "Categoría exacta (all = todas)"
// @Param        supplier   query  string  false  "Proveedor exacto (all = todos)"
// @Param        status     query  string  false  "all | low | normal"
// @Param        sort_by    query  string  false  "Campo de orden (name por defecto)"
// @Param        order      query  string  false  "asc | desc"
// @Param        page       query  int     false  "Página (1..)"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.ListResponse[dto.ItemResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ItemListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page := dto.PageRequest{Page: q.Page, PageSize: q.PageSize}
	page.DefaultPage(h.pageSize)

	filtered, err := stock.FilterItems(h.store.Items(), stock.ItemQuery{
		Search:   q.Search,
		Category: q.Category,
		Supplier: q.Supplier,
		Status:   stock.StockStatus(q.Status),
		SortBy:   q.SortBy,
		Order:    stock.SortOrder(q.Order),
	})
	if err != nil {
		return writeError(c, err)
	}
	p := stock.Paginate(filtered, page.Page, page.PageSize)
	return c.JSON(dto.ListResponse[dto.ItemResponse]{
		Items: dto.ToItemResponses(p.Items),
		Page:  pageResponse(p),
	})
}

// Create godoc
// @Summary      Crear item
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, category, supplier, quantity, min_quantity, price"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.store.AddItem(c.UserContext(), GetUserName(c), in)
	if err != nil {
		return writeError(c, err)
	}
	it, _ := h.store.GetItem(id)
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(it))
}

// GetByID godoc
// @Summary      Obtener item por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	it, ok := h.store.GetItem(utils.CopyString(c.Params("id")))
	if !ok {
		return notFound(c)
	}
	return c.JSON(dto.ToItemResponse(it))
}

// Update godoc
// @Summary      Actualizar item
// @Description  Solo se aplican los campos presentes. Un cambio de quantity queda en el historial.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del item"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id := utils.CopyString(c.Params("id"))
	ok, err := h.store.UpdateItem(c.UserContext(), GetUserName(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c)
	}
	it, _ := h.store.GetItem(id)
	return c.JSON(dto.ToItemResponse(it))
}

// Delete godoc
// @Summary      Eliminar item
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del item"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	ok, err := h.store.DeleteItem(c.UserContext(), GetUserName(c), utils.CopyString(c.Params("id")))
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock godoc
// @Summary      Items con stock bajo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(dto.ToItemResponses(h.store.GetLowStockItems()))
}

// Search godoc
// @Summary      Buscar items
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "Texto a buscar en nombre, categoría o descripción"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/search [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	return c.JSON(dto.ToItemResponses(h.store.SearchItems(c.Query("q"))))
}

// ByCategory godoc
// @Summary      Items de una categoría
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "Categoría exacta"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/category/{category} [get]
func (h *ItemHandler) ByCategory(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PATH", Message: "categoría inválida"})
	}
	return c.JSON(dto.ToItemResponses(h.store.GetItemsByCategory(category)))
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida de stock
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del item"
// @Param        body  body  dto.RegisterMovementRequest  true  "type (add|remove), quantity, notes"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [post]
func (h *ItemHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	it, err := h.store.RegisterMovement(c.UserContext(), GetUserName(c), utils.CopyString(c.Params("id")), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(it))
}

// Clear godoc
// @Summary      Vaciar el inventario
// @Description  No borra el historial de movimientos. Solo admin.
// @Tags         items
// @Security     Bearer
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/items [delete]
func (h *ItemHandler) Clear(c *fiber.Ctx) error {
	if err := h.store.ClearInventory(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func pageResponse[T any](p stock.Page[T]) dto.PageResponse {
	return dto.PageResponse{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}
