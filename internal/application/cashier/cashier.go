// Package cashier implementa el flujo de caja: lista de ventas pendientes y
// cobro con registro de pago y cambio de estado.
package cashier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/application/events"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

// Config parámetros del flujo de caja.
type Config struct {
	PollInterval  time.Duration // recarga periódica; 5 s por defecto
	StatusRetries int           // reintentos del PUT de estado tras registrar el pago
	RetryDelay    time.Duration // espera entre reintentos
}

// Cashier estado de la caja. Seguro para uso concurrente.
type Cashier struct {
	sales    repository.SaleRepository
	payments repository.PaymentRepository
	journal  repository.CollectionJournal
	session  SessionReader
	events   SaleEvents
	cfg      Config
	now      func() time.Time
	log      zerolog.Logger

	mu         sync.Mutex
	pending    []entity.SaleOrder
	paid       map[int64]struct{}
	collecting map[int64]struct{}
	loaded     bool

	lifeMu  sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewCashier construye el flujo; events puede ser nil (solo recarga periódica).
func NewCashier(
	sales repository.SaleRepository,
	payments repository.PaymentRepository,
	journal repository.CollectionJournal,
	session SessionReader,
	events SaleEvents,
	cfg Config,
	log zerolog.Logger,
) *Cashier {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.StatusRetries < 0 {
		cfg.StatusRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return &Cashier{
		sales:      sales,
		payments:   payments,
		journal:    journal,
		session:    session,
		events:     events,
		cfg:        cfg,
		now:        time.Now,
		log:        log,
		paid:       make(map[int64]struct{}),
		collecting: make(map[int64]struct{}),
	}
}

// SetClock reemplaza el reloj (tests).
func (c *Cashier) SetClock(now func() time.Time) { c.now = now }

// ── Ciclo de vida ─────────────────────────────────────────────────────────────

// Start termina cobros a medias del journal, hace la carga inicial y lanza la
// recarga en segundo plano (cada PollInterval y con cada SaleCreated). Todas
// las peticiones del flujo usan un contexto que Stop cancela. Devuelve el
// error de la carga inicial; la recarga periódica queda activa igual.
func (c *Cashier) Start(ctx context.Context) error {
	c.lifeMu.Lock()
	if c.cancel != nil {
		c.lifeMu.Unlock()
		return fmt.Errorf("caja: ya iniciada")
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.stopped = make(chan struct{})
	c.lifeMu.Unlock()

	if n, err := c.ResumePending(runCtx); err != nil {
		c.log.Warn().Err(err).Msg("no se pudieron terminar cobros pendientes del journal")
	} else if n > 0 {
		c.log.Info().Int("ventas", n).Msg("cobros pendientes del journal completados")
	}

	err := c.Refresh(runCtx)

	var feed <-chan events.SaleCreated
	unsubscribe := func() {}
	if c.events != nil {
		feed, unsubscribe = c.events.Subscribe()
	}
	go c.loop(runCtx, feed, unsubscribe)
	return err
}

// Stop cancela las peticiones en curso y espera a que termine la recarga.
func (c *Cashier) Stop() {
	c.lifeMu.Lock()
	cancel, stopped := c.cancel, c.stopped
	c.cancel = nil
	c.lifeMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (c *Cashier) loop(ctx context.Context, feed <-chan events.SaleCreated, unsubscribe func()) {
	defer close(c.stopped)
	defer unsubscribe()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshBackground(ctx, "poll")
		case _, ok := <-feed:
			if !ok {
				feed = nil
				continue
			}
			c.refreshBackground(ctx, "venta creada")
		}
	}
}

// ── Lista de pendientes ───────────────────────────────────────────────────────

// Refresh recarga las ventas pendientes (status CREADA). Es la carga pedida
// por el usuario: devuelve el error. Gana la última respuesta recibida.
func (c *Cashier) Refresh(ctx context.Context) error {
	all, err := c.sales.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := make([]entity.SaleOrder, 0, len(all))
	for _, s := range all {
		if !s.IsPending() {
			continue
		}
		// Una venta cobrada aquí no vuelve a CREADA aunque llegue una lista vieja.
		if _, ok := c.paid[s.ID]; ok {
			continue
		}
		pending = append(pending, s)
	}
	c.pending = pending
	c.loaded = true
	return nil
}

// refreshBackground recarga sin molestar al usuario: el error solo se registra.
func (c *Cashier) refreshBackground(ctx context.Context, reason string) {
	if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
		c.log.Warn().Err(err).Str("motivo", reason).Msg("recarga de pendientes fallida")
	}
}

// Pending copia de la lista de ventas pendientes.
func (c *Cashier) Pending() []entity.SaleOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.SaleOrder(nil), c.pending...)
}

// Loaded indica si hubo al menos una carga exitosa.
func (c *Cashier) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Search filtra los pendientes por correlativo o nombre del cliente.
func (c *Cashier) Search(q string) []entity.SaleOrder {
	q = strings.ToLower(strings.TrimSpace(q))
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.SaleOrder, 0, len(c.pending))
	for _, s := range c.pending {
		if q == "" ||
			strings.Contains(strings.ToLower(s.Correlativo), q) ||
			strings.Contains(strings.ToLower(s.Client.FullName()), q) {
			out = append(out, s)
		}
	}
	return out
}

// PendingByID busca una venta en la lista de pendientes.
func (c *Cashier) PendingByID(id int64) (entity.SaleOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.pending {
		if s.ID == id {
			return s, nil
		}
	}
	return entity.SaleOrder{}, fmt.Errorf("venta %d pendiente: %w", id, domain.ErrNotFound)
}

// ── Cobro ─────────────────────────────────────────────────────────────────────

// Collect cobra la venta:
//
//  1. método de pago (sin elegir → ErrCancelled, sin efectos);
//  2. en efectivo, monto recibido ≥ total (si no, se vuelve a preguntar) y
//     confirmación si hay cambio;
//  3. POST pagos por el total de la venta, con la llave de idempotencia del journal;
//  4. PUT ventas/:id con estado PAGADA, con reintentos;
//  5. recarga inmediata de pendientes.
//
// Si el pago pudo quedar registrado pero el cobro no terminó, devuelve
// ErrPartialCollection y el journal conserva el cobro para ResumePending.
func (c *Cashier) Collect(ctx context.Context, order entity.SaleOrder, p Prompter) (*entity.Receipt, error) {
	if !order.IsPending() {
		return nil, fmt.Errorf("venta %s en estado %s: %w", order.Correlativo, order.Status, domain.ErrConflict)
	}
	if !c.claim(order.ID) {
		return nil, domain.ErrBusy
	}
	defer c.release(order.ID)

	entry, err := c.journal.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	// Un cobro anterior de esta venta quedó con el pago registrado: solo falta el estado.
	if entry != nil && entry.Stage == entity.CollectionPaymentRecorded {
		c.log.Info().Int64("venta_id", order.ID).Msg("retomando cobro con pago ya registrado")
		if err := c.finish(ctx, order, entry); err != nil {
			return nil, err
		}
		return c.receipt(ctx, order, entryPayment(entry), entry.Amount, decimal.Zero), nil
	}

	var method entity.PaymentMethod
	if entry != nil {
		// El pago anterior quedó sin confirmar: se repite con el mismo método y la misma llave.
		method = entry.Method
		c.log.Info().Int64("venta_id", order.ID).Msg("retomando cobro con pago sin confirmar")
	} else {
		if method, err = p.ChoosePaymentMethod(ctx, order); err != nil {
			return nil, err
		}
		if method == "" {
			return nil, domain.ErrCancelled
		}
		if !method.Valid() {
			return nil, fmt.Errorf("%w: método de pago %q", domain.ErrValidation, method)
		}
	}

	tendered, change := order.Total, decimal.Zero
	if method == entity.PaymentCash {
		tendered, change, err = c.askCash(ctx, order, p)
		if err != nil {
			return nil, err
		}
	}

	if entry == nil {
		entry = &entity.CollectionEntry{
			SaleID:         order.ID,
			Correlativo:    order.Correlativo,
			IdempotencyKey: uuid.NewString(),
			Method:         method,
			Amount:         order.Total,
			Stage:          entity.CollectionStarted,
		}
		if err := c.journal.Save(ctx, entry); err != nil {
			return nil, err
		}
	}

	created, err := c.recordPayment(ctx, order, entry)
	if err != nil {
		return nil, err
	}
	if err := c.finish(ctx, order, entry); err != nil {
		return nil, err
	}
	return c.receipt(ctx, order, *created, tendered, change), nil
}

// recordPayment envía POST pagos con la llave del journal y deja la entrada en
// payment_recorded. Si el backend rechaza el pago la entrada se borra; si el
// resultado es incierto (timeout, 5xx, red) queda en started para repetir el
// envío con la misma llave.
func (c *Cashier) recordPayment(ctx context.Context, order entity.SaleOrder, entry *entity.CollectionEntry) (*entity.Payment, error) {
	payment := entity.Payment{
		Date:   c.now().Format(entity.SaleDateLayout),
		Amount: order.Total,
		Method: entry.Method,
		SaleID: order.ID,
	}
	created, err := c.payments.Create(ctx, payment, entry.IdempotencyKey)
	if err != nil {
		// El journal se escribe aunque el request se haya cancelado.
		jctx := context.WithoutCancel(ctx)
		if rejected(err) {
			if derr := c.journal.Delete(jctx, order.ID); derr != nil {
				c.log.Warn().Err(derr).Int64("venta_id", order.ID).Msg("no se pudo limpiar el journal")
			}
			c.log.Warn().Err(err).Int64("venta_id", order.ID).Msg("pago rechazado; la venta sigue pendiente")
			return nil, err
		}
		entry.LastError = err.Error()
		if serr := c.journal.Save(jctx, entry); serr != nil {
			c.log.Error().Err(serr).Int64("venta_id", order.ID).Msg("no se pudo actualizar el journal")
		}
		c.log.Error().Err(err).
			Int64("venta_id", order.ID).
			Str("llave", entry.IdempotencyKey).
			Msg("pago sin confirmar; se repetirá con la misma llave")
		return nil, fmt.Errorf("%w: venta %s: pago sin confirmar: %w", domain.ErrPartialCollection, order.Correlativo, err)
	}

	entry.Stage = entity.CollectionPaymentRecorded
	entry.PaymentID = created.ID
	entry.LastError = ""
	if err := c.journal.Save(ctx, entry); err != nil {
		c.log.Error().Err(err).Int64("venta_id", order.ID).Msg("no se pudo registrar el pago en el journal")
	}
	return created, nil
}

// askCash pide el efectivo hasta que alcance y confirma el cambio.
func (c *Cashier) askCash(ctx context.Context, order entity.SaleOrder, p Prompter) (decimal.Decimal, decimal.Decimal, error) {
	var problem error
	for {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		tendered, err := p.AskTenderedAmount(ctx, order, problem)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		change, err := ComputeChange(order.Total, tendered)
		if err != nil {
			problem = err
			continue
		}
		if change.IsPositive() {
			ok, err := p.ConfirmChange(ctx, ChangeQuote{Order: order, Total: order.Total, Tendered: tendered, Change: change})
			if err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			if !ok {
				return decimal.Zero, decimal.Zero, domain.ErrCancelled
			}
		}
		return tendered, change, nil
	}
}

// finish marca la venta PAGADA (con reintentos) y cierra el journal.
func (c *Cashier) finish(ctx context.Context, order entity.SaleOrder, entry *entity.CollectionEntry) error {
	paid := order
	paid.Status = entity.SaleStatusPaid
	paid.PaymentMethod = entry.Method

	err := c.updateWithRetry(ctx, paid, entry)
	if err != nil {
		entry.LastError = err.Error()
		if serr := c.journal.Save(ctx, entry); serr != nil {
			c.log.Error().Err(serr).Int64("venta_id", order.ID).Msg("no se pudo actualizar el journal")
		}
		c.log.Error().Err(err).
			Int64("venta_id", order.ID).
			Int64("pago_id", entry.PaymentID).
			Int("intentos", entry.Attempts).
			Msg("pago registrado pero la venta sigue CREADA")
		return fmt.Errorf("%w: venta %s: %w", domain.ErrPartialCollection, order.Correlativo, err)
	}

	if err := c.journal.Delete(ctx, order.ID); err != nil {
		c.log.Warn().Err(err).Int64("venta_id", order.ID).Msg("no se pudo limpiar el journal")
	}

	c.mu.Lock()
	c.paid[order.ID] = struct{}{}
	for i, s := range c.pending {
		if s.ID == order.ID {
			c.pending = append(c.pending[:i:i], c.pending[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.log.Info().
		Int64("venta_id", order.ID).
		Str("correlativo", order.Correlativo).
		Str("metodo", string(entry.Method)).
		Str("total", order.Total.StringFixed(2)).
		Msg("venta cobrada")

	if err := c.Refresh(ctx); err != nil {
		c.log.Warn().Err(err).Msg("recarga tras el cobro fallida")
	}
	return nil
}

// updateWithRetry el PUT reemplaza la venta completa: repetirlo no duplica nada.
func (c *Cashier) updateWithRetry(ctx context.Context, paid entity.SaleOrder, entry *entity.CollectionEntry) error {
	var err error
	for attempt := 0; attempt <= c.cfg.StatusRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(c.cfg.RetryDelay):
			}
		}
		entry.Attempts++
		if _, err = c.sales.Update(ctx, paid); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		c.log.Warn().Err(err).Int64("venta_id", paid.ID).Int("intento", attempt+1).Msg("actualización de estado fallida")
	}
	return err
}

func retryable(err error) bool {
	for _, permanent := range []error{
		domain.ErrValidation, domain.ErrNotFound, domain.ErrForbidden, domain.ErrUnauthorized,
		domain.ErrNoSession, domain.ErrTokenExpired, context.Canceled,
	} {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return true
}

// rejected indica una respuesta definitiva del backend al POST pagos: el pago
// no quedó registrado.
func rejected(err error) bool {
	for _, definitive := range []error{
		domain.ErrValidation, domain.ErrConflict, domain.ErrNotFound, domain.ErrForbidden,
		domain.ErrUnauthorized, domain.ErrNoSession, domain.ErrTokenExpired,
	} {
		if errors.Is(err, definitive) {
			return true
		}
	}
	return false
}

// ResumePending completa los cobros abiertos del journal: repite el pago sin
// confirmar con su llave original y actualiza el estado de las ventas con el
// pago registrado. Nunca crea un segundo pago. Devuelve cuántos completó.
func (c *Cashier) ResumePending(ctx context.Context) (int, error) {
	entries, err := c.journal.Unfinished(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	all, err := c.sales.List(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]entity.SaleOrder, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}

	done := 0
	var errs []error
	for _, e := range entries {
		order, ok := byID[e.SaleID]
		if !ok {
			c.log.Warn().Int64("venta_id", e.SaleID).Msg("venta del journal no encontrada en el backend")
			continue
		}
		if order.Status == entity.SaleStatusPaid {
			if err := c.journal.Delete(ctx, e.SaleID); err != nil {
				errs = append(errs, err)
			}
			done++
			continue
		}
		if !c.claim(order.ID) {
			continue
		}
		err := c.resume(ctx, order, e)
		c.release(order.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}

func (c *Cashier) resume(ctx context.Context, order entity.SaleOrder, e *entity.CollectionEntry) error {
	if e.Stage == entity.CollectionStarted {
		if _, err := c.recordPayment(ctx, order, e); err != nil {
			return err
		}
	}
	return c.finish(ctx, order, e)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (c *Cashier) claim(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.collecting[id]; busy {
		return false
	}
	c.collecting[id] = struct{}{}
	return true
}

func (c *Cashier) release(id int64) {
	c.mu.Lock()
	delete(c.collecting, id)
	c.mu.Unlock()
}

func (c *Cashier) receipt(ctx context.Context, order entity.SaleOrder, payment entity.Payment, tendered, change decimal.Decimal) *entity.Receipt {
	order.Status = entity.SaleStatusPaid
	order.PaymentMethod = payment.Method
	r := &entity.Receipt{
		Order:    order,
		Payment:  payment,
		Tendered: tendered,
		Change:   change,
		IssuedAt: c.now(),
	}
	if c.session != nil {
		if s, err := c.session.Check(ctx); err == nil {
			r.CashierName = s.Identity.Name
			if r.CashierName == "" {
				r.CashierName = s.Identity.Email
			}
		}
	}
	return r
}

func entryPayment(e *entity.CollectionEntry) entity.Payment {
	return entity.Payment{ID: e.PaymentID, Amount: e.Amount, Method: e.Method, SaleID: e.SaleID}
}
