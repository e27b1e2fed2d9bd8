package repository

import (
	"context"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// CollectionJournal registro durable de cobros de caja en curso.
type CollectionJournal interface {
	// Get devuelve la entrada abierta de la venta o nil si no existe.
	Get(ctx context.Context, saleID int64) (*entity.CollectionEntry, error)
	// Save inserta o reemplaza la entrada de la venta.
	Save(ctx context.Context, entry *entity.CollectionEntry) error
	// Delete elimina la entrada (cobro completado o pago rechazado por el backend).
	Delete(ctx context.Context, saleID int64) error
	// Unfinished lista las entradas sin completar: pago sin confirmar (started)
	// o pago registrado con la venta sin actualizar (payment_recorded).
	Unfinished(ctx context.Context) ([]*entity.CollectionEntry, error)
}
