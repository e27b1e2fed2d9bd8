// Package reports expone los reportes PDF del backend y genera el recibo de caja.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

// ReceiptRenderer genera el PDF de un recibo.
type ReceiptRenderer interface {
	GenerateReceiptPDF(ctx context.Context, r *entity.Receipt) ([]byte, error)
}

// Service reportes de ingresos y métodos de pago, y recibos.
type Service struct {
	repo     repository.ReportRepository
	renderer ReceiptRenderer
	log      zerolog.Logger
}

// NewService construye el servicio.
func NewService(repo repository.ReportRepository, renderer ReceiptRenderer, log zerolog.Logger) *Service {
	return &Service{repo: repo, renderer: renderer, log: log}
}

// Income PDF de ingresos entre from y to (inclusive). detailed lista cada venta.
func (s *Service) Income(ctx context.Context, from, to time.Time, detailed bool) ([]byte, error) {
	if err := ValidateRange(from, to); err != nil {
		return nil, err
	}
	pdf, err := s.repo.Income(ctx, from, to, detailed)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("bytes", len(pdf)).Bool("detallado", detailed).Msg("reporte de ingresos")
	return pdf, nil
}

// PaymentMethods PDF de totales por método de pago entre from y to.
func (s *Service) PaymentMethods(ctx context.Context, from, to time.Time) ([]byte, error) {
	if err := ValidateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.PaymentMethods(ctx, from, to)
}

// Receipt PDF del recibo de un cobro.
func (s *Service) Receipt(ctx context.Context, r *entity.Receipt) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: recibo vacío", domain.ErrValidation)
	}
	return s.renderer.GenerateReceiptPDF(ctx, r)
}

// ValidateRange exige ambas fechas y from ≤ to.
func ValidateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: debe indicar fecha de inicio y fecha final", domain.ErrValidation)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: la fecha final es anterior a la de inicio", domain.ErrValidation)
	}
	return nil
}

// ParseDate interpreta YYYY-MM-DD en la zona local.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(entity.SaleDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, formato esperado AAAA-MM-DD", domain.ErrValidation, s)
	}
	return t, nil
}
