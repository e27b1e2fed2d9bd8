package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentAPI)(nil)

// PaymentAPI adaptador del recurso pagos.
type PaymentAPI struct {
	c *Client
}

// NewPaymentAPI construye el adaptador.
func NewPaymentAPI(c *Client) *PaymentAPI { return &PaymentAPI{c: c} }

// Create POST pagos con Idempotency-Key.
func (a *PaymentAPI) Create(ctx context.Context, payment entity.Payment, idempotencyKey string) (*entity.Payment, error) {
	var out dto.PagoDTO
	if err := a.c.doJSON(ctx, request{
		method:         http.MethodPost,
		path:           "pagos",
		body:           dto.FromPayment(payment),
		idempotencyKey: idempotencyKey,
	}, &out); err != nil {
		return nil, fmt.Errorf("pagos: crear para venta %d: %w", payment.SaleID, err)
	}
	if out.ID == 0 {
		return &payment, nil
	}
	created := dto.ToPayment(out)
	if created.SaleID == 0 {
		created.SaleID = payment.SaleID
	}
	return &created, nil
}
