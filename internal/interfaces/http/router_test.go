package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stylashop-pos/internal/application/authz"
	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/application/events"
	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/application/sales"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/memory"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stylashop-pos/internal/interfaces/http"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

// consoleSession sesión controlable; "ok" es la única contraseña válida y el
// usuario es el rol.
type consoleSession struct {
	mu sync.Mutex
	s  entity.Session
}

func (f *consoleSession) Check(context.Context) (entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.s.Authenticated() {
		return entity.Session{}, domain.ErrNoSession
	}
	return f.s, nil
}

func (f *consoleSession) Login(context.Context, string) error {
	return domain.ErrInvalidToken
}

func (f *consoleSession) LoginWithCredentials(_ context.Context, username, password string) error {
	if password != "ok" {
		return fmt.Errorf("auth/login: %w", domain.ErrInvalidCredentials)
	}
	f.as(username)
	return nil
}

func (f *consoleSession) Logout(context.Context) {
	f.mu.Lock()
	f.s = entity.Session{}
	f.mu.Unlock()
}

func (f *consoleSession) as(role string) {
	f.mu.Lock()
	f.s = entity.Session{
		Token:     "tok",
		Identity:  entity.Identity{UserID: 9, Name: "Ana", Role: role},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.mu.Unlock()
}

type shopBackend struct {
	mu          sync.Mutex
	sales       []entity.SaleOrder
	payments    []entity.Payment
	reportCalls int
}

func (b *shopBackend) ListProducts(context.Context) ([]entity.Product, error) {
	return []entity.Product{
		{ID: 1, Name: "Blusa lino", UnitPrice: decimal.NewFromInt(30)},
		{ID: 2, Name: "Jean slim", UnitPrice: decimal.NewFromInt(80)},
	}, nil
}

func (b *shopBackend) ListClients(context.Context) ([]entity.Client, error) {
	return []entity.Client{{ID: 5, Name: "Luisa", LastName: "Pérez"}}, nil
}

func (b *shopBackend) List(context.Context) ([]entity.SaleOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.SaleOrder(nil), b.sales...), nil
}

func (b *shopBackend) Create(_ context.Context, s entity.SaleOrder, _ string) (*entity.SaleOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = int64(len(b.sales) + 1)
	b.sales = append(b.sales, s)
	return &s, nil
}

func (b *shopBackend) Update(_ context.Context, s entity.SaleOrder) (*entity.SaleOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.sales {
		if b.sales[i].ID == s.ID {
			b.sales[i] = s
		}
	}
	return &s, nil
}

func (b *shopBackend) Income(context.Context, time.Time, time.Time, bool) ([]byte, error) {
	b.mu.Lock()
	b.reportCalls++
	b.mu.Unlock()
	return []byte("%PDF-1.4 ingresos"), nil
}

func (b *shopBackend) PaymentMethods(context.Context, time.Time, time.Time) ([]byte, error) {
	b.mu.Lock()
	b.reportCalls++
	b.mu.Unlock()
	return []byte("%PDF-1.4 metodos"), nil
}

type shopPayments struct{ b *shopBackend }

func (p shopPayments) Create(_ context.Context, pay entity.Payment, _ string) (*entity.Payment, error) {
	p.b.mu.Lock()
	defer p.b.mu.Unlock()
	pay.ID = int64(len(p.b.payments) + 1)
	p.b.payments = append(p.b.payments, pay)
	return &pay, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildConsole(t *testing.T) (*fiber.App, *consoleSession, *shopBackend) {
	t.Helper()
	log := zerolog.Nop()
	sess := &consoleSession{}
	backend := &shopBackend{}
	bus := events.NewBus()

	seller := sales.NewSeller(backend, backend, sess, bus, log)
	caja := cashier.NewCashier(backend, shopPayments{backend}, memory.NewCollectionJournal(), sess, bus, cashier.Config{}, log)
	rep := reports.NewService(backend, pdf.NewMarotoPDFGenerator("StylaShop"), log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Session: sess, Seller: seller, Cashier: caja, Reports: rep, Log: log})
	return app, sess, backend
}

func call(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

// ── Auth y páginas ────────────────────────────────────────────────────────────

func TestConsoleLogin_CredencialesInvalidas(t *testing.T) {
	app, _, _ := buildConsole(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", map[string]string{"username": "CAJERO", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	aviso := body["aviso"].(map[string]any)
	assert.Equal(t, "Usuario o contraseña inválidos", aviso["message"])
}

func TestConsoleLogin_SinDatos_400(t *testing.T) {
	app, _, _ := buildConsole(t)
	resp := call(t, app, http.MethodPost, "/api/auth/login", map[string]string{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConsoleLogin_LuegoVentasMuestraVistaDelRol(t *testing.T) {
	app, _, _ := buildConsole(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", map[string]string{"username": "CAJERO", "password": "ok"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sesion := decodeMap(t, resp)
	assert.Equal(t, true, sesion["autenticado"])
	assert.Equal(t, "CAJERO", sesion["role"])

	body := decodeMap(t, call(t, app, http.MethodGet, "/ventas", nil))
	assert.Equal(t, []any{authz.ViewCashier}, body["vistas"])
}

func TestConsoleLoginPage_ConSesion_RedirigeAlDashboard(t *testing.T) {
	app, sess, _ := buildConsole(t)
	sess.as("ADMIN")

	resp := call(t, app, http.MethodGet, "/login", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, authz.DashboardPath, resp.Header.Get("Location"))
}

func TestConsoleLogout_CierraSesion(t *testing.T) {
	app, sess, _ := buildConsole(t)
	sess.as("ADMIN")

	resp := call(t, app, http.MethodPost, "/api/auth/logout", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/dashboard", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, authz.LoginPath, resp.Header.Get("Location"))
}

// ── Vendedor ──────────────────────────────────────────────────────────────────

func TestConsoleVendedor_FlujoCompleto(t *testing.T) {
	app, sess, backend := buildConsole(t)
	sess.as("VENDEDOR")

	cat := decodeMap(t, call(t, app, http.MethodGet, "/api/vendedor/catalogo?q=blusa", nil))
	assert.Len(t, cat["productos"], 1)
	assert.Len(t, cat["clientes"], 1)

	resp := call(t, app, http.MethodPost, "/api/vendedor/carrito", map[string]int64{"productoId": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	carrito := decodeMap(t, call(t, app, http.MethodPost, "/api/vendedor/carrito", map[string]int64{"productoId": 1}))
	assert.Equal(t, 60.0, carrito["total"])

	// Sin cliente no hay venta ni petición al backend.
	resp = call(t, app, http.MethodPost, "/api/vendedor/venta", nil)
	body := decodeMap(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Empty(t, backend.sales)

	resp = call(t, app, http.MethodPut, "/api/vendedor/cliente", map[string]int64{"clienteId": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/vendedor/venta", nil)
	venta := decodeMap(t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.SaleStatusCreated, venta["estado"])
	assert.Equal(t, 60.0, venta["total"])

	carrito = decodeMap(t, call(t, app, http.MethodGet, "/api/vendedor/carrito", nil))
	assert.Empty(t, carrito["lineas"], "el carrito se vacía tras registrar la venta")
	assert.Nil(t, carrito["cliente"])
}

func TestConsoleVendedor_NoAccedeACaja(t *testing.T) {
	app, sess, _ := buildConsole(t)
	sess.as("VENDEDOR")

	resp := call(t, app, http.MethodGet, "/api/caja/pendientes", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, authz.DashboardPath, resp.Header.Get("Location"))
}

// ── Caja ──────────────────────────────────────────────────────────────────────

func TestConsoleCaja_CobroEnEfectivoYRecibo(t *testing.T) {
	app, sess, backend := buildConsole(t)
	backend.sales = []entity.SaleOrder{{
		ID: 1, Correlativo: "VENTA-1", Status: entity.SaleStatusCreated,
		Total: decimal.NewFromInt(30), Client: entity.Client{ID: 5, Name: "Luisa"},
	}}
	sess.as("CAJERO")

	pend := decodeMap(t, call(t, app, http.MethodGet, "/api/caja/pendientes", nil))
	require.Len(t, pend["ventas"], 1)

	resp := call(t, app, http.MethodPost, "/api/caja/cobrar/1", map[string]any{
		"metodoPago": "efectivo", "montoRecibido": 50, "confirmarCambio": true,
	})
	recibo := decodeMap(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, recibo)
	assert.Equal(t, 20.0, recibo["cambio"])
	pago := recibo["pago"].(map[string]any)
	assert.Equal(t, 30.0, pago["monto"], "el pago es siempre por el total")
	assert.Equal(t, entity.SaleStatusPaid, backend.sales[0].Status)

	resp = call(t, app, http.MethodGet, "/api/caja/recibos/1", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestConsoleCaja_MontoInsuficiente_NoRegistraPago(t *testing.T) {
	app, sess, backend := buildConsole(t)
	backend.sales = []entity.SaleOrder{{ID: 1, Correlativo: "VENTA-1", Status: entity.SaleStatusCreated, Total: decimal.NewFromInt(30)}}
	sess.as("ADMIN")

	resp := call(t, app, http.MethodPost, "/api/caja/cobrar/1", map[string]any{"metodoPago": "EFECTIVO", "montoRecibido": 10})
	body := decodeMap(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_AMOUNT", body["code"])
	assert.Empty(t, backend.payments)
}

// La venta llegó al backend después de la última carga de pendientes.
func TestConsoleCaja_VentaNueva_RecargaAntesDeCobrar(t *testing.T) {
	app, sess, backend := buildConsole(t)
	sess.as("CAJERO")

	pend := decodeMap(t, call(t, app, http.MethodGet, "/api/caja/pendientes", nil))
	require.Empty(t, pend["ventas"])

	backend.sales = append(backend.sales, entity.SaleOrder{
		ID: 7, Correlativo: "VENTA-7", Status: entity.SaleStatusCreated, Total: decimal.NewFromInt(15),
	})

	resp := call(t, app, http.MethodPost, "/api/caja/cobrar/7", map[string]any{"metodoPago": "TARJETA"})
	recibo := decodeMap(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, recibo)
	assert.Equal(t, entity.SaleStatusPaid, backend.sales[len(backend.sales)-1].Status)
	require.Len(t, backend.payments, 1)
}

func TestConsoleCaja_VentaInexistente_404(t *testing.T) {
	app, sess, _ := buildConsole(t)
	sess.as("CAJERO")

	resp := call(t, app, http.MethodPost, "/api/caja/cobrar/99", map[string]any{"metodoPago": "TARJETA"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func TestConsoleReportes_RangoIncompleto_SinPeticion(t *testing.T) {
	app, sess, backend := buildConsole(t)
	sess.as("ADMIN")

	resp := call(t, app, http.MethodGet, "/api/reportes/ingresos?desde=2024-05-01", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, backend.reportCalls)
}

func TestConsoleReportes_MetodosPago(t *testing.T) {
	app, sess, backend := buildConsole(t)
	sess.as("ADMIN")

	resp := call(t, app, http.MethodGet, "/api/reportes/metodos-pago?desde=2024-05-01&hasta=2024-05-31", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, 1, backend.reportCalls)
}

func TestConsoleReportes_SoloAdmin(t *testing.T) {
	app, sess, _ := buildConsole(t)
	sess.as("CAJERO")

	resp := call(t, app, http.MethodGet, "/api/reportes/ingresos?desde=2024-05-01&hasta=2024-05-31", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
