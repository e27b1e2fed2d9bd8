package devbackend

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

var errUnavailable = errors.New("servicio no disponible, intente más tarde")

// ReportRenderer genera los PDF de reportes.
type ReportRenderer interface {
	GenerateIncomeReportPDF(ctx context.Context, rep entity.IncomeReport) ([]byte, error)
	GeneratePaymentMethodsReportPDF(ctx context.Context, rep entity.PaymentMethodsReport) ([]byte, error)
}

// handlers endpoints del backend.
type handlers struct {
	store    *Store
	auth     *AuthService
	renderer ReportRenderer
	log      zerolog.Logger
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (h *handlers) login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, err := h.auth.Login(in.Username, in.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.LoginResponse{Token: token})
}

func (h *handlers) profile(c *fiber.Ctx) error {
	u, err := h.auth.Profile(getClaims(c).UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.UsuarioDTO{ID: u.ID, Username: u.Username, Nombre: u.Name, Correo: u.Email, Role: u.Role})
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func (h *handlers) products(c *fiber.Ctx) error {
	list := h.store.listProducts()
	out := make([]dto.ProductoDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromProduct(p))
	}
	return c.JSON(out)
}

func (h *handlers) clients(c *fiber.Ctx) error {
	list := h.store.listClients()
	out := make([]dto.ClienteDTO, 0, len(list))
	for _, cl := range list {
		out = append(out, dto.FromClient(cl))
	}
	return c.JSON(out)
}

// ── Ventas y pagos ────────────────────────────────────────────────────────────

func (h *handlers) listSales(c *fiber.Ctx) error {
	list := h.store.listSales()
	out := make([]dto.VentaDTO, 0, len(list))
	for _, v := range list {
		out = append(out, saleBody(v))
	}
	return c.JSON(out)
}

func (h *handlers) createSale(c *fiber.Ctx) error {
	var in dto.VentaDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale := dto.ToSaleOrder(in)
	if sale.SellerID == 0 {
		sale.SellerID = getClaims(c).UserID
	}
	created, err := h.store.createSale(sale, c.Get("Idempotency-Key"))
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info().Int64("venta_id", created.ID).Str("correlativo", created.Correlativo).Msg("venta creada")
	return c.Status(fiber.StatusCreated).JSON(saleBody(created))
}

func (h *handlers) updateSale(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.VentaDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updated, err := h.store.updateSale(id, dto.ToSaleOrder(in))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(saleBody(updated))
}

func (h *handlers) createPayment(c *fiber.Ctx) error {
	var in dto.PagoDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.store.createPayment(dto.ToPayment(in), c.Get("Idempotency-Key"))
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info().Int64("venta_id", p.SaleID).Str("metodo", string(p.Method)).Msg("pago registrado")
	return c.Status(fiber.StatusCreated).JSON(dto.FromPayment(p))
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func (h *handlers) incomeReport(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return h.fail(c, err)
	}
	pdf, err := h.renderer.GenerateIncomeReportPDF(c.UserContext(), h.store.incomeReport(from, to, c.QueryBool("detallado")))
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, pdf)
}

func (h *handlers) paymentMethodsReport(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return h.fail(c, err)
	}
	pdf, err := h.renderer.GeneratePaymentMethodsReportPDF(c.UserContext(), h.store.paymentMethodsReport(from, to))
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, pdf)
}

func reportRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err1 := time.ParseInLocation(entity.SaleDateLayout, c.Query("fechaInicio"), time.Local)
	to, err2 := time.ParseInLocation(entity.SaleDateLayout, c.Query("fechaFinal"), time.Local)
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, errors.Join(domain.ErrValidation, errors.New("fechaInicio y fechaFinal son requeridas (AAAA-MM-DD)"))
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.Join(domain.ErrValidation, errors.New("la fecha final es anterior a la de inicio"))
	}
	return from, to, nil
}

func sendPDF(c *fiber.Ctx, pdf []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}

// ── Errores ───────────────────────────────────────────────────────────────────

// fail responde con {code, message}; message es el texto que el cliente
// muestra tal cual.
func (h *handlers) fail(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, errUnavailable):
		status, code = fiber.StatusServiceUnavailable, "UNAVAILABLE"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrAccountForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrValidation):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	}
	if status == fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("ruta", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: publicMessage(err)})
}

// publicMessage quita el prefijo del sentinel ("datos incompletos o
// inválidos: el cliente 9 no existe" → "El cliente 9 no existe").
func publicMessage(err error) string {
	msg := err.Error()
	for _, s := range []error{domain.ErrValidation, domain.ErrConflict} {
		prefix := s.Error()
		if strings.HasPrefix(msg, prefix) {
			msg = strings.TrimLeft(strings.TrimPrefix(msg, prefix), ": \n")
			break
		}
	}
	if msg == "" {
		return err.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func saleBody(v entity.SaleOrder) dto.VentaDTO {
	out := dto.FromSaleOrder(v)
	out.UsuarioDTO.Username = v.SellerName
	for i, l := range v.Lines {
		out.DetallesVenta[i].ProductoDTO.Nombre = l.ProductName
	}
	return out
}
