package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.CollectionJournal = (*CollectionJournal)(nil)

// CollectionJournal journal de cobros en memoria; se pierde al salir del
// proceso (JOURNAL_DRIVER=memory).
type CollectionJournal struct {
	mu      sync.Mutex
	entries map[int64]entity.CollectionEntry
	now     func() time.Time
}

// NewCollectionJournal crea un journal vacío.
func NewCollectionJournal() *CollectionJournal {
	return &CollectionJournal{entries: make(map[int64]entity.CollectionEntry), now: time.Now}
}

func (j *CollectionJournal) Get(_ context.Context, saleID int64) (*entity.CollectionEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[saleID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (j *CollectionJournal) Save(_ context.Context, e *entity.CollectionEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	j.entries[e.SaleID] = *e
	return nil
}

func (j *CollectionJournal) Delete(_ context.Context, saleID int64) error {
	j.mu.Lock()
	delete(j.entries, saleID)
	j.mu.Unlock()
	return nil
}

func (j *CollectionJournal) Unfinished(_ context.Context) ([]*entity.CollectionEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*entity.CollectionEntry
	for _, e := range j.entries {
		if e.Stage != entity.CollectionCompleted {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].SaleID < out[b].SaleID
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}
