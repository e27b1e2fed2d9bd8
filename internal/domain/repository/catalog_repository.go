package repository

import (
	"context"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// CatalogRepository datos de referencia de solo lectura para el vendedor.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	ListClients(ctx context.Context) ([]entity.Client, error)
}
