package repository

import (
	"context"
	"time"
)

// ReportRepository reportes PDF generados por el backend.
type ReportRepository interface {
	Income(ctx context.Context, from, to time.Time, detailed bool) ([]byte, error)
	PaymentMethods(ctx context.Context, from, to time.Time) ([]byte, error)
}
