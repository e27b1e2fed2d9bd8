// Package sales implementa el flujo del vendedor: catálogo, carrito y
// registro de la venta.
package sales

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

// ErrCheckoutIncomplete venta sin cliente o sin productos; no se envía nada.
var ErrCheckoutIncomplete = fmt.Errorf("%w: debe seleccionar un cliente y al menos un producto", domain.ErrValidation)

// Seller estado del vendedor. Seguro para uso concurrente.
type Seller struct {
	catalog   repository.CatalogRepository
	sales     repository.SaleRepository
	session   SessionReader
	publisher SalePublisher
	now       func() time.Time
	log       zerolog.Logger

	mu         sync.Mutex
	products   []entity.Product
	clients    []entity.Client
	cart       *entity.Cart
	client     *entity.Client
	submitting bool
}

// NewSeller construye el flujo con el carrito vacío.
func NewSeller(
	catalog repository.CatalogRepository,
	sales repository.SaleRepository,
	session SessionReader,
	publisher SalePublisher,
	log zerolog.Logger,
) *Seller {
	return &Seller{
		catalog:   catalog,
		sales:     sales,
		session:   session,
		publisher: publisher,
		now:       time.Now,
		log:       log,
		cart:      entity.NewCart(),
	}
}

// SetClock reemplaza el reloj (tests).
func (s *Seller) SetClock(now func() time.Time) { s.now = now }

// ── Catálogo ──────────────────────────────────────────────────────────────────

// LoadCatalog carga productos y clientes del backend.
func (s *Seller) LoadCatalog(ctx context.Context) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	clients, err := s.catalog.ListClients(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.products = products
	s.clients = clients
	s.mu.Unlock()
	s.log.Debug().Int("productos", len(products)).Int("clientes", len(clients)).Msg("catálogo cargado")
	return nil
}

// Products copia del catálogo cargado.
func (s *Seller) Products() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Product(nil), s.products...)
}

// Clients copia de los clientes cargados.
func (s *Seller) Clients() []entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Client(nil), s.clients...)
}

// SearchProducts filtra por nombre o descripción sin distinguir mayúsculas.
// Consulta vacía devuelve todo el catálogo.
func (s *Seller) SearchProducts(q string) []entity.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// ── Carrito ───────────────────────────────────────────────────────────────────

// AddToCart suma una unidad del producto. Mientras se registra una venta el
// carrito no se modifica (ErrBusy).
func (s *Seller) AddToCart(p entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return domain.ErrBusy
	}
	s.cart.Add(p)
	return nil
}

// AddToCartByID busca el producto en el catálogo cargado y lo agrega.
func (s *Seller) AddToCartByID(productID int64) error {
	s.mu.Lock()
	var found *entity.Product
	for i := range s.products {
		if s.products[i].ID == productID {
			p := s.products[i]
			found = &p
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return fmt.Errorf("producto %d: %w", productID, domain.ErrNotFound)
	}
	return s.AddToCart(*found)
}

// RemoveFromCart resta una unidad; si el producto no está no hace nada.
func (s *Seller) RemoveFromCart(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return domain.ErrBusy
	}
	s.cart.Remove(productID)
	return nil
}

// ClearCart vacía el carrito.
func (s *Seller) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return domain.ErrBusy
	}
	s.cart.Clear()
	return nil
}

// Cart líneas actuales en orden de alta.
func (s *Seller) Cart() []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Total del carrito.
func (s *Seller) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// QuantityOf cantidad del producto en el carrito.
func (s *Seller) QuantityOf(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.QuantityOf(productID)
}

// ── Cliente ───────────────────────────────────────────────────────────────────

// SelectClient fija el cliente de la venta entre los cargados. 0 lo quita.
func (s *Seller) SelectClient(clientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clientID == 0 {
		s.client = nil
		return nil
	}
	for i := range s.clients {
		if s.clients[i].ID == clientID {
			c := s.clients[i]
			s.client = &c
			return nil
		}
	}
	return fmt.Errorf("cliente %d: %w", clientID, domain.ErrNotFound)
}

// SelectedClient cliente elegido, si hay.
func (s *Seller) SelectedClient() (entity.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return entity.Client{}, false
	}
	return *s.client, true
}

// Submitting indica si hay una venta en envío.
func (s *Seller) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// ── Venta ─────────────────────────────────────────────────────────────────────

// Checkout registra la venta con el carrito y el cliente actuales.
// Sin cliente o con el carrito vacío devuelve ErrCheckoutIncomplete sin
// llamar al backend. Si el backend acepta, vacía carrito y cliente y publica
// SaleCreated; si falla, el carrito queda como estaba para reintentar.
func (s *Seller) Checkout(ctx context.Context) (*entity.SaleOrder, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	if s.client == nil || s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, ErrCheckoutIncomplete
	}
	lines := s.cart.Lines()
	client := *s.client
	s.submitting = true
	s.mu.Unlock()

	created, err := s.submit(ctx, lines, client)

	s.mu.Lock()
	s.submitting = false
	if err == nil {
		s.cart.Clear()
		s.client = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Int64("cliente_id", client.ID).Msg("venta no registrada")
		return nil, err
	}
	s.log.Info().
		Int64("venta_id", created.ID).
		Str("correlativo", created.Correlativo).
		Str("total", created.Total.StringFixed(2)).
		Msg("venta registrada")
	if s.publisher != nil {
		s.publisher.PublishSaleCreated(*created)
	}
	return created, nil
}

func (s *Seller) submit(ctx context.Context, lines []entity.CartLine, client entity.Client) (*entity.SaleOrder, error) {
	sess, err := s.session.Check(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	correlativo := fmt.Sprintf("VENTA-%d", now.UnixMilli())
	sale := entity.NewSaleFromCart(correlativo, now, lines, client, sess.Identity.UserID)
	sale.SellerName = sess.Identity.Name

	created, err := s.sales.Create(ctx, sale, uuid.NewString())
	if err != nil {
		return nil, err
	}
	if created.Status == "" {
		created.Status = entity.SaleStatusCreated
	}
	if created.Total.IsZero() {
		created.Total = sale.Total
	}
	return created, nil
}
