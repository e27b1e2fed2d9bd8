package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// CashierHandler vista de caja: pendientes, cobro y recibos.
type CashierHandler struct {
	cashier *cashier.Cashier
	reports *reports.Service
	log     zerolog.Logger

	mu       sync.Mutex
	receipts map[int64]*entity.Receipt
}

// NewCashierHandler construye el handler. Los recibos emitidos se guardan en
// memoria mientras viva el proceso.
func NewCashierHandler(c *cashier.Cashier, r *reports.Service, log zerolog.Logger) *CashierHandler {
	return &CashierHandler{cashier: c, reports: r, log: log, receipts: make(map[int64]*entity.Receipt)}
}

// Pending GET /api/caja/pendientes?q=
func (h *CashierHandler) Pending(c *fiber.Ctx) error {
	if !h.cashier.Loaded() {
		if err := h.cashier.Refresh(c.UserContext()); err != nil {
			return respondError(c, h.log, err)
		}
	}
	return c.JSON(salesBody(h.cashier.Search(c.Query("q"))))
}

// Refresh POST /api/caja/pendientes/recargar
func (h *CashierHandler) Refresh(c *fiber.Ctx) error {
	if err := h.cashier.Refresh(c.UserContext()); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(salesBody(h.cashier.Pending()))
}

// Collect POST /api/caja/cobrar/:id con las respuestas del cajero en el cuerpo.
func (h *CashierHandler) Collect(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badID(c, "id")
	}
	var in dto.CobroRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	method := entity.PaymentMethod("")
	if in.MetodoPago != "" {
		if method, err = entity.ParsePaymentMethod(in.MetodoPago); err != nil {
			return respondError(c, h.log, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		}
	}
	order, err := h.pendingOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	receipt, err := h.cashier.Collect(c.UserContext(), order, cashier.StaticPrompter{
		Method:   method,
		Tendered: in.MontoRecibido.Decimal,
		Confirm:  in.ConfirmarCambio,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.mu.Lock()
	h.receipts[id] = receipt
	h.mu.Unlock()
	return c.JSON(dto.FromReceipt(*receipt))
}

// pendingOrder busca la venta en la lista local y, si no está, recarga antes
// de responder 404: la venta pudo crearse en otra terminal después del último poll.
func (h *CashierHandler) pendingOrder(ctx context.Context, id int64) (entity.SaleOrder, error) {
	order, err := h.cashier.PendingByID(id)
	if !errors.Is(err, domain.ErrNotFound) {
		return order, err
	}
	if err := h.cashier.Refresh(ctx); err != nil {
		return entity.SaleOrder{}, err
	}
	return h.cashier.PendingByID(id)
}

// Resume POST /api/caja/reanudar: completa los cobros que quedaron a medias.
func (h *CashierHandler) Resume(c *fiber.Ctx) error {
	n, err := h.cashier.ResumePending(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"completados": n})
}

// Receipt GET /api/caja/recibos/:id: PDF del recibo de un cobro de esta sesión.
func (h *CashierHandler) Receipt(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badID(c, "id")
	}
	h.mu.Lock()
	r := h.receipts[id]
	h.mu.Unlock()
	if r == nil {
		return respondError(c, h.log, fmt.Errorf("recibo de la venta %d: %w", id, domain.ErrNotFound))
	}
	pdf, err := h.reports.Receipt(c.UserContext(), r)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendPDF(c, fmt.Sprintf("recibo-%s.pdf", r.Order.Correlativo), pdf)
}

func salesBody(orders []entity.SaleOrder) fiber.Map {
	out := make([]dto.VentaDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.FromSaleOrder(o))
	}
	return fiber.Map{"ventas": out}
}

func sendPDF(c *fiber.Ctx, filename string, pdf []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
