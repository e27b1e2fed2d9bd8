package sales

import (
	"context"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// SessionReader sesión vigente (verificación pasiva incluida).
type SessionReader interface {
	Check(ctx context.Context) (entity.Session, error)
}

// SalePublisher avisa a otros flujos que se creó una venta.
type SalePublisher interface {
	PublishSaleCreated(sale entity.SaleOrder)
}
