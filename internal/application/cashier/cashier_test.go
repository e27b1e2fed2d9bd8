package cashier_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/application/events"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/memory"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu         sync.Mutex
	sales      map[int64]entity.SaleOrder
	payments   []entity.Payment
	keys       []string // llaves de todos los POST pagos recibidos
	paidKeys   []string // llave de cada pago registrado
	listCalls  int
	payErr     error
	lostReply  []error // el pago se registra pero la respuesta se pierde; se consumen en orden
	updateErrs []error // se consumen en orden; nil = éxito
	listErr    error
}

func newBackend(orders ...entity.SaleOrder) *fakeBackend {
	b := &fakeBackend{sales: map[int64]entity.SaleOrder{}}
	for _, o := range orders {
		b.sales[o.ID] = o
	}
	return b
}

func (b *fakeBackend) List(context.Context) ([]entity.SaleOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]entity.SaleOrder, 0, len(b.sales))
	for id := int64(1); id <= 100; id++ {
		if s, ok := b.sales[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (b *fakeBackend) Create(_ context.Context, s entity.SaleOrder, _ string) (*entity.SaleOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sales[s.ID] = s
	return &s, nil
}

func (b *fakeBackend) Update(_ context.Context, s entity.SaleOrder) (*entity.SaleOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.updateErrs) > 0 {
		err := b.updateErrs[0]
		b.updateErrs = b.updateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	b.sales[s.ID] = s
	return &s, nil
}

func (b *fakeBackend) createPayment(p entity.Payment, key string) (*entity.Payment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, key)
	if b.payErr != nil {
		return nil, b.payErr
	}
	for i, prev := range b.payments {
		if prev.SaleID != p.SaleID {
			continue
		}
		if b.paidKeys[i] == key {
			prev := prev
			return &prev, nil
		}
		return nil, fmt.Errorf("%w: la venta ya tiene un pago registrado", domain.ErrConflict)
	}
	p.ID = int64(len(b.payments) + 100)
	b.payments = append(b.payments, p)
	b.paidKeys = append(b.paidKeys, key)
	if len(b.lostReply) > 0 {
		err := b.lostReply[0]
		b.lostReply = b.lostReply[1:]
		return nil, err
	}
	return &p, nil
}

func (b *fakeBackend) status(id int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sales[id].Status
}

func (b *fakeBackend) paymentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payments)
}

type paymentsAdapter struct{ b *fakeBackend }

func (p paymentsAdapter) Create(_ context.Context, pay entity.Payment, key string) (*entity.Payment, error) {
	return p.b.createPayment(pay, key)
}

type fakeSession struct{}

func (fakeSession) Check(context.Context) (entity.Session, error) {
	return entity.Session{Token: "t", Identity: entity.Identity{Name: "Carla", Role: "CAJERO"}}, nil
}

// scripted responde en orden y registra los problemas recibidos.
type scripted struct {
	method   entity.PaymentMethod
	amounts  []string
	confirm  bool
	problems []error
	asked    int
	quotes   []cashier.ChangeQuote
}

func (s *scripted) ChoosePaymentMethod(context.Context, entity.SaleOrder) (entity.PaymentMethod, error) {
	return s.method, nil
}

func (s *scripted) AskTenderedAmount(_ context.Context, _ entity.SaleOrder, problem error) (decimal.Decimal, error) {
	s.problems = append(s.problems, problem)
	if s.asked >= len(s.amounts) {
		return decimal.Zero, domain.ErrCancelled
	}
	a := decimal.RequireFromString(s.amounts[s.asked])
	s.asked++
	return a, nil
}

func (s *scripted) ConfirmChange(_ context.Context, q cashier.ChangeQuote) (bool, error) {
	s.quotes = append(s.quotes, q)
	return s.confirm, nil
}

func order(id int64, total string) entity.SaleOrder {
	return entity.SaleOrder{
		ID: id, Correlativo: "VENTA-" + decimal.NewFromInt(id).String(),
		Status: entity.SaleStatusCreated, Total: decimal.RequireFromString(total),
		Client: entity.Client{ID: 1, Name: "Lucía", LastName: "Pérez"},
	}
}

func newCashier(b *fakeBackend, j *memory.CollectionJournal, bus *events.Bus, cfg cashier.Config) *cashier.Cashier {
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}
	var ev cashier.SaleEvents
	if bus != nil {
		ev = bus
	}
	return cashier.NewCashier(b, paymentsAdapter{b}, j, fakeSession{}, ev, cfg, zerolog.Nop())
}

// ── ComputeChange ─────────────────────────────────────────────────────────────

func TestComputeChange(t *testing.T) {
	ch, err := cashier.ComputeChange(decimal.NewFromInt(50), decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, ch.Equal(decimal.NewFromInt(10)))

	ch, err = cashier.ComputeChange(decimal.RequireFromString("19.99"), decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	assert.True(t, ch.IsZero())

	_, err = cashier.ComputeChange(decimal.NewFromInt(50), decimal.RequireFromString("49.99"))
	assert.ErrorIs(t, err, domain.ErrInsufficientAmount)

	_, err = cashier.ComputeChange(decimal.NewFromInt(0), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ── Collect ───────────────────────────────────────────────────────────────────

// Escenario: venta de $50 en efectivo con $60 → cambio $10, pago por $50, PAGADA y fuera de pendientes.
func TestCollect_EfectivoConCambio(t *testing.T) {
	b := newBackend(order(1, "50"), order(2, "12"))
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{})
	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, c.Pending(), 2)

	p := &scripted{method: entity.PaymentCash, amounts: []string{"60"}, confirm: true}
	r, err := c.Collect(context.Background(), order(1, "50"), p)
	require.NoError(t, err)

	assert.True(t, r.Change.Equal(decimal.NewFromInt(10)))
	assert.True(t, r.Tendered.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "Carla", r.CashierName)
	require.Len(t, p.quotes, 1, "con cambio se pide confirmación")
	assert.True(t, p.quotes[0].Change.Equal(decimal.NewFromInt(10)))

	require.Equal(t, 1, b.paymentCount())
	assert.True(t, b.payments[0].Amount.Equal(decimal.NewFromInt(50)), "se cobra el total, no lo recibido")
	assert.Equal(t, entity.PaymentCash, b.payments[0].Method)
	assert.NotEmpty(t, b.keys[0])

	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)

	entry, _ := j.Get(context.Background(), 1)
	assert.Nil(t, entry, "journal limpio tras el cobro")
}

func TestCollect_MontoInsuficiente_VuelveAPreguntar(t *testing.T) {
	b := newBackend(order(1, "50"))
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})
	p := &scripted{method: entity.PaymentCash, amounts: []string{"40", "50"}}

	r, err := c.Collect(context.Background(), order(1, "50"), p)
	require.NoError(t, err)
	require.Len(t, p.problems, 2)
	assert.Nil(t, p.problems[0])
	assert.ErrorIs(t, p.problems[1], domain.ErrInsufficientAmount)
	assert.Empty(t, p.quotes, "sin cambio no hay confirmación")
	assert.True(t, r.Change.IsZero())
	assert.Equal(t, 1, b.paymentCount())
}

func TestCollect_MontoInsuficienteYCancela_NoEnvia(t *testing.T) {
	b := newBackend(order(1, "50"))
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})
	p := &scripted{method: entity.PaymentCash, amounts: []string{"10", "20"}}

	_, err := c.Collect(context.Background(), order(1, "50"), p)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Equal(t, 0, b.paymentCount())
	assert.Equal(t, entity.SaleStatusCreated, b.status(1))
}

func TestCollect_SinMetodo_SinEfectos(t *testing.T) {
	b := newBackend(order(1, "50"))
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{})
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Equal(t, 0, b.paymentCount())
	entry, _ := j.Get(context.Background(), 1)
	assert.Nil(t, entry)
}

func TestCollect_CambioRechazado(t *testing.T) {
	b := newBackend(order(1, "50"))
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})
	p := &scripted{method: entity.PaymentCash, amounts: []string{"100"}, confirm: false}

	_, err := c.Collect(context.Background(), order(1, "50"), p)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Equal(t, 0, b.paymentCount())
}

func TestCollect_Tarjeta_NoPideMonto(t *testing.T) {
	b := newBackend(order(1, "80"))
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})
	p := &scripted{method: entity.PaymentCard}

	r, err := c.Collect(context.Background(), order(1, "80"), p)
	require.NoError(t, err)
	assert.Empty(t, p.problems)
	assert.Equal(t, entity.PaymentCard, r.Payment.Method)
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
}

func TestCollect_VentaYaPagada_Conflicto(t *testing.T) {
	b := newBackend()
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})
	o := order(1, "10")
	o.Status = entity.SaleStatusPaid
	_, err := c.Collect(context.Background(), o, &scripted{method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCollect_PagoRechazado_VentaSiguePendiente(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.payErr = fmt.Errorf("%w: método no habilitado", domain.ErrValidation)
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{})
	require.NoError(t, c.Refresh(context.Background()))

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentTransfer})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrPartialCollection)
	assert.Equal(t, entity.SaleStatusCreated, b.status(1))
	assert.Len(t, c.Pending(), 1)
	entry, _ := j.Get(context.Background(), 1)
	assert.Nil(t, entry, "un rechazo del backend cierra el journal")
}

// El backend registra el pago pero la respuesta no llega (timeout): la
// entrada queda en started y el siguiente intento reusa la llave.
func TestCollect_PagoSinRespuesta_ReintentaConLaMismaLlave(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.lostReply = []error{errors.Join(domain.ErrServer, context.DeadlineExceeded)}
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrPartialCollection)
	assert.ErrorIs(t, err, domain.ErrServer)
	assert.Equal(t, entity.SaleStatusCreated, b.status(1))

	entry, _ := j.Get(context.Background(), 1)
	require.NotNil(t, entry)
	assert.Equal(t, entity.CollectionStarted, entry.Stage)
	assert.NotEmpty(t, entry.LastError)

	// Segundo intento del cajero: sin volver a elegir método, misma llave.
	p := &scripted{}
	r, err := c.Collect(context.Background(), order(1, "50"), p)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCard, r.Payment.Method)
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
	assert.Equal(t, 1, b.paymentCount())
	require.Len(t, b.keys, 2)
	assert.Equal(t, b.keys[0], b.keys[1])

	entry, _ = j.Get(context.Background(), 1)
	assert.Nil(t, entry)
}

func TestResumePending_RepitePagoSinConfirmar(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.lostReply = []error{errors.Join(domain.ErrServer, context.DeadlineExceeded)}
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentTransfer})
	require.ErrorIs(t, err, domain.ErrPartialCollection)

	n, err := c.ResumePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
	assert.Equal(t, 1, b.paymentCount(), "nunca se crea un segundo pago")
	require.Len(t, b.keys, 2)
	assert.Equal(t, b.keys[0], b.keys[1])
	entry, _ := j.Get(context.Background(), 1)
	assert.Nil(t, entry)
}

// Si el primer envío nunca llegó al backend, el reintento crea el pago.
func TestResumePending_PagoNoLlego_LoCrea(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.payErr = domain.ErrServer
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentCard})
	require.ErrorIs(t, err, domain.ErrPartialCollection)
	assert.Equal(t, 0, b.paymentCount())

	b.mu.Lock()
	b.payErr = nil
	b.mu.Unlock()

	n, err := c.ResumePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, b.paymentCount())
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
}

func TestCollect_EstadoFallaUnaVez_SeReintenta(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.updateErrs = []error{domain.ErrServer}
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{StatusRetries: 2})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
	assert.Equal(t, 1, b.paymentCount())
}

// Pago registrado y estado sin actualizar: ErrPartialCollection, y al retomar
// se completa sin un segundo pago.
func TestCollect_Parcial_YResumeSinSegundoPago(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.updateErrs = []error{domain.ErrServer, domain.ErrServer}
	j := memory.NewCollectionJournal()
	c := newCashier(b, j, nil, cashier.Config{StatusRetries: 1})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrPartialCollection)
	assert.ErrorIs(t, err, domain.ErrServer)
	assert.Equal(t, entity.SaleStatusCreated, b.status(1))

	entry, _ := j.Get(context.Background(), 1)
	require.NotNil(t, entry)
	assert.Equal(t, entity.CollectionPaymentRecorded, entry.Stage)
	assert.Equal(t, 2, entry.Attempts)

	n, err := c.ResumePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
	assert.Equal(t, 1, b.paymentCount(), "nunca se crea un segundo pago")
	entry, _ = j.Get(context.Background(), 1)
	assert.Nil(t, entry)
}

func TestCollect_ReintentoDelUsuario_UsaElJournal(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.updateErrs = []error{domain.ErrServer}
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{StatusRetries: 0})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentCash, amounts: []string{"50"}})
	require.ErrorIs(t, err, domain.ErrPartialCollection)

	// El cajero vuelve a cobrar: no se pregunta nada ni se crea otro pago.
	p := &scripted{}
	r, err := c.Collect(context.Background(), order(1, "50"), p)
	require.NoError(t, err)
	assert.Empty(t, p.problems)
	assert.Equal(t, entity.PaymentCash, r.Payment.Method)
	assert.Equal(t, 1, b.paymentCount())
	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
}

func TestCollect_ErrorPermanenteNoSeReintenta(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.updateErrs = []error{domain.ErrValidation, nil}
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{StatusRetries: 3})

	_, err := c.Collect(context.Background(), order(1, "50"), &scripted{method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrPartialCollection)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ── Lista y ciclo de vida ─────────────────────────────────────────────────────

func TestRefresh_FiltraCreadasYBusca(t *testing.T) {
	paid := order(3, "5")
	paid.Status = entity.SaleStatusPaid
	other := order(2, "9")
	other.Client = entity.Client{Name: "Mario", LastName: "Ruiz"}
	b := newBackend(order(1, "50"), other, paid)
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})

	require.NoError(t, c.Refresh(context.Background()))
	assert.Len(t, c.Pending(), 2)
	assert.Len(t, c.Search("ruiz"), 1)
	assert.Len(t, c.Search("venta-1"), 1)
	_, err := c.PendingByID(3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRefresh_ErrorDelUsuario(t *testing.T) {
	b := newBackend()
	b.listErr = domain.ErrServer
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})
	assert.ErrorIs(t, c.Refresh(context.Background()), domain.ErrServer)
	assert.False(t, c.Loaded())
}

func TestStart_RecargaConVentaCreadaYPoll(t *testing.T) {
	b := newBackend(order(1, "50"))
	bus := events.NewBus()
	c := newCashier(b, memory.NewCollectionJournal(), bus, cashier.Config{PollInterval: time.Hour})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()
	require.Len(t, c.Pending(), 1)

	_, _ = b.Create(context.Background(), order(2, "20"), "")
	bus.PublishSaleCreated(order(2, "20"))

	assert.Eventually(t, func() bool { return len(c.Pending()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestStart_PollPeriodico(t *testing.T) {
	b := newBackend()
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{PollInterval: 10 * time.Millisecond})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	_, _ = b.Create(context.Background(), order(5, "20"), "")
	assert.Eventually(t, func() bool { return len(c.Pending()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStart_ErrorInicialSeDevuelvePeroSigueCorriendo(t *testing.T) {
	b := newBackend(order(1, "50"))
	b.listErr = errors.New("sin red")
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{PollInterval: 10 * time.Millisecond})
	assert.Error(t, c.Start(context.Background()))
	defer c.Stop()

	b.mu.Lock()
	b.listErr = nil
	b.mu.Unlock()
	assert.Eventually(t, func() bool { return len(c.Pending()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStop_DetieneLaRecarga(t *testing.T) {
	b := newBackend()
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{PollInterval: 5 * time.Millisecond})
	require.NoError(t, c.Start(context.Background()))
	assert.Error(t, c.Start(context.Background()), "no se inicia dos veces")
	c.Stop()
	c.Stop()

	b.mu.Lock()
	calls := b.listCalls
	b.mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, calls, b.listCalls)
}

func TestStart_RetomaJournal(t *testing.T) {
	b := newBackend(order(1, "50"))
	j := memory.NewCollectionJournal()
	require.NoError(t, j.Save(context.Background(), &entity.CollectionEntry{
		SaleID: 1, IdempotencyKey: "k", Method: entity.PaymentCard,
		Amount: decimal.NewFromInt(50), Stage: entity.CollectionPaymentRecorded, PaymentID: 9,
	}))
	c := newCashier(b, j, nil, cashier.Config{PollInterval: time.Hour})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	assert.Equal(t, entity.SaleStatusPaid, b.status(1))
	assert.Empty(t, c.Pending())
	assert.Equal(t, 0, b.paymentCount())
}

func TestStaticPrompter_CobroConCambioConfirmado(t *testing.T) {
	b := newBackend(order(1, "50"))
	c := newCashier(b, memory.NewCollectionJournal(), nil, cashier.Config{})

	_, err := c.Collect(context.Background(), order(1, "50"), cashier.StaticPrompter{
		Method: entity.PaymentCash, Tendered: decimal.NewFromInt(70),
	})
	assert.ErrorIs(t, err, domain.ErrCancelled, "sin Confirm el cambio no se acepta")
	assert.Equal(t, 0, b.paymentCount())

	r, err := c.Collect(context.Background(), order(1, "50"), cashier.StaticPrompter{
		Method: entity.PaymentCash, Tendered: decimal.NewFromInt(70), Confirm: true,
	})
	require.NoError(t, err)
	assert.True(t, r.Change.Equal(decimal.NewFromInt(20)))
}
