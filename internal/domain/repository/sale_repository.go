package repository

import (
	"context"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// SaleRepository puerto para las ventas (recurso ventas del backend).
type SaleRepository interface {
	List(ctx context.Context) ([]entity.SaleOrder, error)
	// Create registra la venta. idempotencyKey permite al backend descartar reenvíos.
	Create(ctx context.Context, sale entity.SaleOrder, idempotencyKey string) (*entity.SaleOrder, error)
	// Update reemplaza la venta (PUT). Es idempotente: se puede reintentar.
	Update(ctx context.Context, sale entity.SaleOrder) (*entity.SaleOrder, error)
}
