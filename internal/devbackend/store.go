// Package devbackend es un backend REST en memoria con la forma del de la
// tienda (auth, productos, clientes, ventas, pagos y reportes). Sirve para
// desarrollo local y pruebas de punta a punta del cliente.
package devbackend

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// account usuario del backend con su hash bcrypt.
type account struct {
	entity.User
	PasswordHash string
	Active       bool
}

// Store estado del backend. Seguro para uso concurrente.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account // por username
	products []entity.Product
	clients  []entity.Client
	sales    map[int64]entity.SaleOrder
	payments []entity.Payment
	nextSale int64

	saleKeys    map[string]int64 // Idempotency-Key → venta creada
	paymentKeys map[string]int64 // Idempotency-Key → índice+1 del pago

	failUpdates int // PUT ventas que fallan con 503 (pruebas de cobro parcial)
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*account),
		sales:       make(map[int64]entity.SaleOrder),
		saleKeys:    make(map[string]int64),
		paymentKeys: make(map[string]int64),
	}
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (s *Store) addAccount(a *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = int64(len(s.accounts) + 1)
	}
	s.accounts[strings.ToLower(a.Username)] = a
}

func (s *Store) accountByUsername(username string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[strings.ToLower(strings.TrimSpace(username))]
}

func (s *Store) accountByID(id int64) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountByIDLocked(id)
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// AddProduct agrega un producto; sin ID se asigna el siguiente.
func (s *Store) AddProduct(p entity.Product) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = int64(len(s.products) + 1)
	}
	s.products = append(s.products, p)
	return p
}

// AddClient agrega un cliente; sin ID se asigna el siguiente.
func (s *Store) AddClient(c entity.Client) entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = int64(len(s.clients) + 1)
	}
	s.clients = append(s.clients, c)
	return c
}

func (s *Store) listProducts() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Product(nil), s.products...)
}

func (s *Store) listClients() []entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Client(nil), s.clients...)
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// createSale valida y registra la venta. Con una Idempotency-Key ya vista
// devuelve la venta original sin crear otra.
func (s *Store) createSale(in entity.SaleOrder, key string) (entity.SaleOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if id, ok := s.saleKeys[key]; ok {
			return s.sales[id], nil
		}
	}
	client, ok := s.clientLocked(in.Client.ID)
	if !ok {
		return entity.SaleOrder{}, fmt.Errorf("%w: el cliente %d no existe", domain.ErrValidation, in.Client.ID)
	}
	if len(in.Lines) == 0 {
		return entity.SaleOrder{}, fmt.Errorf("%w: la venta no tiene detalles", domain.ErrValidation)
	}
	total := decimal.Zero
	for i, l := range in.Lines {
		p, ok := s.productLocked(l.ProductID)
		if !ok {
			return entity.SaleOrder{}, fmt.Errorf("%w: el producto %d no existe", domain.ErrValidation, l.ProductID)
		}
		if l.Quantity <= 0 {
			return entity.SaleOrder{}, fmt.Errorf("%w: cantidad inválida para %s", domain.ErrValidation, p.Name)
		}
		in.Lines[i].ProductName = p.Name
		in.Lines[i].Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(in.Lines[i].Subtotal)
	}
	s.nextSale++
	in.ID = s.nextSale
	in.Client = client
	in.Total = total
	in.Status = entity.SaleStatusCreated
	if a := s.accountByIDLocked(in.SellerID); a != nil {
		in.SellerName = a.Username
	}
	s.sales[in.ID] = in
	if key != "" {
		s.saleKeys[key] = in.ID
	}
	return in, nil
}

func (s *Store) listSales() []entity.SaleOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.SaleOrder, 0, len(s.sales))
	for _, v := range s.sales {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sale devuelve una venta por id.
func (s *Store) Sale(id int64) (entity.SaleOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sales[id]
	return v, ok
}

// updateSale reemplaza estado y método de pago. Solo CREADA → PAGADA.
func (s *Store) updateSale(id int64, in entity.SaleOrder) (entity.SaleOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdates > 0 {
		s.failUpdates--
		return entity.SaleOrder{}, errUnavailable
	}
	cur, ok := s.sales[id]
	if !ok {
		return entity.SaleOrder{}, fmt.Errorf("venta %d: %w", id, domain.ErrNotFound)
	}
	if in.Status != "" && in.Status != cur.Status {
		if cur.Status != entity.SaleStatusCreated || in.Status != entity.SaleStatusPaid {
			return entity.SaleOrder{}, fmt.Errorf("%w: la venta está %s", domain.ErrConflict, cur.Status)
		}
		cur.Status = in.Status
	}
	if in.PaymentMethod != "" {
		cur.PaymentMethod = in.PaymentMethod
	}
	s.sales[id] = cur
	return cur, nil
}

// FailNextStatusUpdates hace que los próximos n PUT ventas respondan 503.
func (s *Store) FailNextStatusUpdates(n int) {
	s.mu.Lock()
	s.failUpdates = n
	s.mu.Unlock()
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// createPayment registra el pago de una venta CREADA por su total exacto.
// Una Idempotency-Key repetida devuelve el pago original.
func (s *Store) createPayment(p entity.Payment, key string) (entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if idx, ok := s.paymentKeys[key]; ok {
			return s.payments[idx-1], nil
		}
	}
	sale, ok := s.sales[p.SaleID]
	if !ok {
		return entity.Payment{}, fmt.Errorf("venta %d: %w", p.SaleID, domain.ErrNotFound)
	}
	if sale.Status != entity.SaleStatusCreated {
		return entity.Payment{}, fmt.Errorf("%w: la venta %s ya fue pagada", domain.ErrConflict, sale.Correlativo)
	}
	for _, prev := range s.payments {
		if prev.SaleID == p.SaleID {
			return entity.Payment{}, fmt.Errorf("%w: la venta %s ya tiene un pago registrado", domain.ErrConflict, sale.Correlativo)
		}
	}
	if !p.Method.Valid() {
		return entity.Payment{}, fmt.Errorf("%w: método de pago %q", domain.ErrValidation, p.Method)
	}
	if !p.Amount.Equal(sale.Total) {
		return entity.Payment{}, fmt.Errorf("%w: el monto debe ser igual al total de la venta", domain.ErrValidation)
	}
	if p.Date == "" {
		p.Date = time.Now().Format(entity.SaleDateLayout)
	}
	p.ID = int64(len(s.payments) + 1)
	s.payments = append(s.payments, p)
	if key != "" {
		s.paymentKeys[key] = int64(len(s.payments))
	}
	return p, nil
}

// Payments copia de los pagos registrados.
func (s *Store) Payments() []entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Payment(nil), s.payments...)
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func (s *Store) incomeReport(from, to time.Time, detailed bool) entity.IncomeReport {
	rep := entity.IncomeReport{From: from, To: to, Detailed: detailed, Total: decimal.Zero}
	for _, v := range s.listSales() {
		if v.Status != entity.SaleStatusPaid || !inRange(v.Date, from, to) {
			continue
		}
		rep.Sales = append(rep.Sales, v)
		rep.Total = rep.Total.Add(v.Total)
	}
	return rep
}

func (s *Store) paymentMethodsReport(from, to time.Time) entity.PaymentMethodsReport {
	totals := make(map[entity.PaymentMethod]*entity.MethodTotal)
	rep := entity.PaymentMethodsReport{From: from, To: to, Total: decimal.Zero}
	for _, p := range s.Payments() {
		if !inRange(p.Date, from, to) {
			continue
		}
		mt, ok := totals[p.Method]
		if !ok {
			mt = &entity.MethodTotal{Method: p.Method, Total: decimal.Zero}
			totals[p.Method] = mt
		}
		mt.Count++
		mt.Total = mt.Total.Add(p.Amount)
		rep.Total = rep.Total.Add(p.Amount)
	}
	for _, m := range entity.PaymentMethods {
		if mt, ok := totals[m]; ok {
			rep.Methods = append(rep.Methods, *mt)
		}
	}
	return rep
}

func inRange(date string, from, to time.Time) bool {
	d, err := time.ParseInLocation(entity.SaleDateLayout, date, from.Location())
	if err != nil {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

// ── Helpers bajo lock ─────────────────────────────────────────────────────────

func (s *Store) clientLocked(id int64) (entity.Client, bool) {
	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Client{}, false
}

func (s *Store) productLocked(id int64) (entity.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func (s *Store) accountByIDLocked(id int64) *account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}
