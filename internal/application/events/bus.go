// Package events conecta los flujos de venta y caja dentro del proceso.
package events

import (
	"sync"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// SaleCreated se publica cuando el backend aceptó una venta nueva.
type SaleCreated struct {
	Sale entity.SaleOrder
}

// Bus difusión de SaleCreated a los suscriptores. Publish nunca bloquea: si el
// buffer de un suscriptor está lleno el evento se descarta para ese
// suscriptor (la caja igual recarga en el siguiente tick).
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan SaleCreated
	nextID int
}

// NewBus crea un bus sin suscriptores.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan SaleCreated)}
}

// Subscribe registra un suscriptor con buffer de 8 eventos.
func (b *Bus) Subscribe() (<-chan SaleCreated, func()) {
	ch := make(chan SaleCreated, 8)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// PublishSaleCreated difunde el evento.
func (b *Bus) PublishSaleCreated(sale entity.SaleOrder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- SaleCreated{Sale: sale}:
		default:
		}
	}
}
