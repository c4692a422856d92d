package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
	"github.com/jhoicas/inventory-system/internal/application/auth"
	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/application/inventory"
	"github.com/jhoicas/inventory-system/internal/application/ledger"
	"github.com/jhoicas/inventory-system/internal/infrastructure/kvstore"
	"github.com/jhoicas/inventory-system/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-system/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/inventory-system/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventory-system/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno completo sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app    *fiber.App
	store  *inventory.Store
	ledger *ledger.Ledger
	admin  string
	user   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	kv := kvstore.NewMemory()
	log := zerolog.Nop()

	l := ledger.New(kv, log)
	require.NoError(t, l.Init(ctx))
	store := inventory.New(kv, l, log)
	require.NoError(t, store.Init(ctx))

	authUC := auth.NewAuthUseCase(kvstore.NewUserRepository(kv, log), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	}, 0)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Items:     store,
		Ledger:    l,
		AuthUC:    authUC,
		Dashboard: analytics.NewDashboardUseCase(store, l, time.UTC),
		Reports:   analytics.NewReportUseCase(store, l, pdf.NewMarotoPDFGenerator(), xmlexport.NewLedgerExporter(), time.UTC),
		JWTSecret: testJWTSecret,
		PageSize:  2,
		Location:  time.UTC,
	})

	admin, err := pkgjwt.Generate(testJWTSecret, "1", "Administrador", "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	user, err := pkgjwt.Generate(testJWTSecret, "2", "Usuário Comum", "user", testIssuer, testExpMin)
	require.NoError(t, err)
	return &testEnv{app: app, store: store, ledger: l, admin: "Bearer " + admin, user: "Bearer " + user}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) createItem(t *testing.T, name string, qty, minQty int) dto.ItemResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/items", e.admin, map[string]any{
		"name": name, "category": "Ferretería", "supplier": "ACME",
		"quantity": qty, "min_quantity": minQty, "price": "2.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ItemResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_CrearYListarConAtribucion(t *testing.T) {
	env := newTestEnv(t)
	created := env.createItem(t, "Tornillo", 10, 3)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "25", created.StockValue.String())
	assert.False(t, created.LowStock)

	txs := env.ledger.GetByItem(created.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, "Administrador", txs[0].User, "el movimiento se atribuye al nombre del token")
	assert.Equal(t, 10, txs[0].Quantity)

	env.createItem(t, "Arandela", 1, 5)
	env.createItem(t, "Clavo", 7, 2)

	resp := env.do(t, http.MethodGet, "/api/items?sort_by=name&page=2", env.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ListResponse[dto.ItemResponse]](t, resp)
	assert.Equal(t, 3, list.Page.TotalItems)
	assert.Equal(t, 2, list.Page.TotalPages, "page_size por defecto del router")
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Tornillo", list.Items[0].Name)
}

func TestItems_ListarFiltraPorEstadoYAcotaPagina(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 10, 3)
	env.createItem(t, "Arandela", 1, 5)

	resp := env.do(t, http.MethodGet, "/api/items?status=low&page=9", env.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ListResponse[dto.ItemResponse]](t, resp)
	assert.Equal(t, 1, list.Page.Page, "la página se acota a la última")
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Arandela", list.Items[0].Name)

	resp = env.do(t, http.MethodGet, "/api/items?sort_by=color", env.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_CrearInvalidoDevuelve400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/items", env.admin, map[string]any{"name": "Sin categoría", "supplier": "ACME"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "VALIDATION")
	assert.Equal(t, 0, env.store.Len())
	assert.Equal(t, 0, env.ledger.Len())
}

func TestItems_ActualizarYEliminar(t *testing.T) {
	env := newTestEnv(t)
	it := env.createItem(t, "Tornillo", 10, 3)

	resp := env.do(t, http.MethodPut, "/api/items/"+it.ID, env.admin, map[string]any{"quantity": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ItemResponse](t, resp)
	assert.Equal(t, 4, updated.Quantity)

	resp = env.do(t, http.MethodPut, "/api/items/no-existe", env.admin, map[string]any{"quantity": 4})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/items/"+it.ID, env.user, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/items/"+it.ID, env.user, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	types := []string{}
	for _, tx := range env.ledger.GetByItem(it.ID) {
		types = append(types, string(tx.Type))
	}
	assert.Equal(t, []string{"add", "update", "delete"}, types)
}

func TestItems_ActualizarConservaItemIDTrasOtrasPeticiones(t *testing.T) {
	env := newTestEnv(t)
	it := env.createItem(t, "Tornillo", 10, 3)

	resp := env.do(t, http.MethodPut, "/api/items/"+it.ID, env.admin, map[string]any{"quantity": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Peticiones posteriores reutilizan los buffers del contexto de fiber.
	other := "/api/items/" + strings.Repeat("x", len(it.ID))
	for i := 0; i < 40; i++ {
		resp = env.do(t, http.MethodGet, other, env.user, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	txs := env.ledger.GetByItem(it.ID)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, it.ID, tx.ItemID)
	}
	assert.Equal(t, "update", string(txs[1].Type))
	require.NotNil(t, txs[1].PreviousQuantity)
	assert.Equal(t, 10, *txs[1].PreviousQuantity)
}

func TestItems_MovimientosDeStock(t *testing.T) {
	env := newTestEnv(t)
	it := env.createItem(t, "Tornillo", 5, 3)

	resp := env.do(t, http.MethodPost, "/api/items/"+it.ID+"/movements", env.user, map[string]any{"type": "remove", "quantity": 9})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "salida mayor al stock")

	resp = env.do(t, http.MethodPost, "/api/items/"+it.ID+"/movements", env.user, map[string]any{"type": "remove", "quantity": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	moved := decode[dto.ItemResponse](t, resp)
	assert.Equal(t, 2, moved.Quantity)
	assert.True(t, moved.LowStock)

	resp = env.do(t, http.MethodPost, "/api/items/"+it.ID+"/movements", env.user, map[string]any{"type": "update", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/items/low-stock", env.user, nil)
	low := decode[[]dto.ItemResponse](t, resp)
	require.Len(t, low, 1)
	assert.Equal(t, it.ID, low[0].ID)
}

func TestItems_BusquedaYCategoria(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 5, 3)

	resp := env.do(t, http.MethodGet, "/api/items/search?q=TORN", env.user, nil)
	assert.Len(t, decode[[]dto.ItemResponse](t, resp), 1)

	resp = env.do(t, http.MethodGet, "/api/items/category/"+"Ferreter%C3%ADa", env.user, nil)
	assert.Len(t, decode[[]dto.ItemResponse](t, resp), 1)

	resp = env.do(t, http.MethodGet, "/api/items/category/Otra", env.user, nil)
	assert.Empty(t, decode[[]dto.ItemResponse](t, resp))
}

func TestItems_VaciarSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 5, 3)

	resp := env.do(t, http.MethodDelete, "/api/items", env.user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/items", env.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, env.store.Len())
	assert.Equal(t, 1, env.ledger.Len(), "vaciar el inventario no toca el historial")
}

func TestItems_SinTokenDevuelve401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos, dashboard y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactions_ListadoYFiltros(t *testing.T) {
	env := newTestEnv(t)
	a := env.createItem(t, "Tornillo", 5, 3)
	env.createItem(t, "Clavo", 5, 3)
	env.do(t, http.MethodPost, "/api/items/"+a.ID+"/movements", env.user, map[string]any{"type": "add", "quantity": 2})

	resp := env.do(t, http.MethodGet, "/api/transactions?window=today&page_size=10", env.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ListResponse[dto.TransactionResponse]](t, resp)
	assert.Equal(t, 3, list.Page.TotalItems)

	resp = env.do(t, http.MethodGet, "/api/transactions/type/add", env.user, nil)
	assert.Len(t, decode[[]dto.TransactionResponse](t, resp), 3)

	resp = env.do(t, http.MethodGet, "/api/transactions/type/otro", env.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/transactions?window=siglo", env.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/transactions/item/"+a.ID, env.user, nil)
	assert.Len(t, decode[[]dto.TransactionResponse](t, resp), 2)

	resp = env.do(t, http.MethodGet, "/api/transactions/recent?limit=1", env.user, nil)
	recent := decode[[]dto.TransactionResponse](t, resp)
	require.Len(t, recent, 1)
	assert.Equal(t, "Entrada de 2 unidades", recent[0].Notes)
}

func TestTransactions_VaciarSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 5, 3)

	resp := env.do(t, http.MethodDelete, "/api/transactions", env.user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/transactions", env.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, env.ledger.Len())
	assert.Equal(t, 1, env.store.Len())
}

func TestTransactions_ExportarXML(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 5, 3)

	resp := env.do(t, http.MethodGet, "/api/transactions/export.xml", env.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/xml")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "movimientos_")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Tornillo")
}

func TestDashboard_Resumen(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 10, 3)
	env.createItem(t, "Arandela", 1, 5)

	resp := env.do(t, http.MethodGet, "/api/dashboard/summary", env.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 11, summary.TotalItems)
	assert.Equal(t, "27.5", summary.TotalValue.String())
	assert.Equal(t, dto.StockStatusDTO{Normal: 1, Low: 1}, summary.StockStatus)
	assert.Len(t, summary.History, 7)
	assert.Len(t, summary.RecentTransactions, 2)
}

func TestReports_InventarioPDF(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Tornillo", 10, 3)

	resp := env.do(t, http.MethodGet, "/api/reports/inventory.pdf", env.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_LoginDemoYMe(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "admin@example.com", "password": "cualquiera"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "admin", login.User.Role)

	resp = env.do(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "Administrador", me.Name)
}

func TestAuth_RegistroYDuplicado(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"name": "Ana", "email": "ana@example.com", "password": "secreta"}

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nadie@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
