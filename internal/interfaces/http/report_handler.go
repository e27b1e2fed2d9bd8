package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/reports"
)

// ReportHandler reportes PDF para ADMIN.
type ReportHandler struct {
	reports *reports.Service
	log     zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(r *reports.Service, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{reports: r, log: log}
}

// Income GET /api/reportes/ingresos?desde=AAAA-MM-DD&hasta=AAAA-MM-DD&detallado=true
func (h *ReportHandler) Income(c *fiber.Ctx) error {
	from, err := reports.ParseDate(c.Query("desde"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	to, err := reports.ParseDate(c.Query("hasta"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	pdf, err := h.reports.Income(c.UserContext(), from, to, c.QueryBool("detallado"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendPDF(c, "ingresos.pdf", pdf)
}

// PaymentMethods GET /api/reportes/metodos-pago?desde=&hasta=
func (h *ReportHandler) PaymentMethods(c *fiber.Ctx) error {
	from, err := reports.ParseDate(c.Query("desde"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	to, err := reports.ParseDate(c.Query("hasta"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	pdf, err := h.reports.PaymentMethods(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendPDF(c, "metodos-pago.pdf", pdf)
}
