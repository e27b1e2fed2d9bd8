package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogAPI)(nil)

// CatalogAPI adaptador de productos y clientes (solo lectura).
type CatalogAPI struct {
	c *Client
}

// NewCatalogAPI construye el adaptador.
func NewCatalogAPI(c *Client) *CatalogAPI { return &CatalogAPI{c: c} }

// ListProducts GET productos.
func (a *CatalogAPI) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var out []dto.ProductoDTO
	if err := a.c.doJSON(ctx, request{method: http.MethodGet, path: "productos"}, &out); err != nil {
		return nil, fmt.Errorf("catálogo: productos: %w", err)
	}
	products := make([]entity.Product, 0, len(out))
	for _, p := range out {
		products = append(products, dto.ToProduct(p))
	}
	return products, nil
}

// ListClients GET clientes.
func (a *CatalogAPI) ListClients(ctx context.Context) ([]entity.Client, error) {
	var out []dto.ClienteDTO
	if err := a.c.doJSON(ctx, request{method: http.MethodGet, path: "clientes"}, &out); err != nil {
		return nil, fmt.Errorf("catálogo: clientes: %w", err)
	}
	clients := make([]entity.Client, 0, len(out))
	for _, c := range out {
		clients = append(clients, dto.ToClient(c))
	}
	return clients, nil
}
