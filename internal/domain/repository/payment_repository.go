package repository

import (
	"context"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// PaymentRepository puerto para registrar pagos (recurso pagos del backend).
type PaymentRepository interface {
	Create(ctx context.Context, payment entity.Payment, idempotencyKey string) (*entity.Payment, error)
}
