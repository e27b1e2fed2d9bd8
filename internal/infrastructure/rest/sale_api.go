package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleAPI)(nil)

// SaleAPI adaptador del recurso ventas.
type SaleAPI struct {
	c *Client
}

// NewSaleAPI construye el adaptador.
func NewSaleAPI(c *Client) *SaleAPI { return &SaleAPI{c: c} }

// List GET ventas.
func (a *SaleAPI) List(ctx context.Context) ([]entity.SaleOrder, error) {
	var out []dto.VentaDTO
	if err := a.c.doJSON(ctx, request{method: http.MethodGet, path: "ventas"}, &out); err != nil {
		return nil, fmt.Errorf("ventas: listar: %w", err)
	}
	sales := make([]entity.SaleOrder, 0, len(out))
	for _, v := range out {
		sales = append(sales, dto.ToSaleOrder(v))
	}
	return sales, nil
}

// Create POST ventas. Si el backend responde sin cuerpo se devuelve la venta enviada.
func (a *SaleAPI) Create(ctx context.Context, sale entity.SaleOrder, idempotencyKey string) (*entity.SaleOrder, error) {
	var out dto.VentaDTO
	if err := a.c.doJSON(ctx, request{
		method:         http.MethodPost,
		path:           "ventas",
		body:           dto.FromSaleOrder(sale),
		idempotencyKey: idempotencyKey,
	}, &out); err != nil {
		return nil, fmt.Errorf("ventas: crear: %w", err)
	}
	if out.ID == 0 && out.Correlativo == "" {
		return &sale, nil
	}
	created := dto.ToSaleOrder(out)
	return &created, nil
}

// Update PUT ventas/:id con la venta completa.
func (a *SaleAPI) Update(ctx context.Context, sale entity.SaleOrder) (*entity.SaleOrder, error) {
	var out dto.VentaDTO
	if err := a.c.doJSON(ctx, request{
		method: http.MethodPut,
		path:   "ventas/" + strconv.FormatInt(sale.ID, 10),
		body:   dto.FromSaleOrder(sale),
	}, &out); err != nil {
		return nil, fmt.Errorf("ventas: actualizar %d: %w", sale.ID, err)
	}
	if out.ID == 0 {
		return &sale, nil
	}
	updated := dto.ToSaleOrder(out)
	return &updated, nil
}
