package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.CollectionJournal = (*CollectionJournalRepo)(nil)

const journalSchema = `
CREATE TABLE IF NOT EXISTS pos_collection_journal (
	sale_id         BIGINT PRIMARY KEY,
	correlativo     TEXT NOT NULL DEFAULT '',
	idempotency_key TEXT NOT NULL,
	method          TEXT NOT NULL,
	amount          NUMERIC(14,2) NOT NULL,
	stage           TEXT NOT NULL,
	payment_id      BIGINT NOT NULL DEFAULT 0,
	attempts        INT NOT NULL DEFAULT 0,
	last_error      TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
)`

const journalColumns = `sale_id, correlativo, idempotency_key, method, amount, stage, payment_id, attempts, last_error, created_at, updated_at`

// journalUpsert inserta o reemplaza por sale_id; created_at se conserva.
const journalUpsert = `
	INSERT INTO pos_collection_journal (` + journalColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (sale_id) DO UPDATE SET
		correlativo = EXCLUDED.correlativo,
		idempotency_key = EXCLUDED.idempotency_key,
		method = EXCLUDED.method,
		amount = EXCLUDED.amount,
		stage = EXCLUDED.stage,
		payment_id = EXCLUDED.payment_id,
		attempts = EXCLUDED.attempts,
		last_error = EXCLUDED.last_error,
		updated_at = EXCLUDED.updated_at`

// CollectionJournalRepo journal de cobros sobre PostgreSQL.
type CollectionJournalRepo struct {
	pool *pgxpool.Pool
}

// NewCollectionJournalRepository construye el adaptador de persistencia del journal.
func NewCollectionJournalRepository(pool *pgxpool.Pool) *CollectionJournalRepo {
	return &CollectionJournalRepo{pool: pool}
}

// EnsureSchema crea la tabla si no existe.
func (r *CollectionJournalRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("crear tabla journal: %w", err)
	}
	return nil
}

// Get obtiene la entrada de la venta; nil si no existe.
func (r *CollectionJournalRepo) Get(ctx context.Context, saleID int64) (*entity.CollectionEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM pos_collection_journal WHERE sale_id = $1`
	e, err := scanEntry(r.pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("journal sin esquema: %w", domain.ErrServer)
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return e, nil
}

// Save inserta o reemplaza la entrada (upsert por sale_id).
func (r *CollectionJournalRepo) Save(ctx context.Context, e *entity.CollectionEntry) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	_, err := r.pool.Exec(ctx, journalUpsert, entryArgs(e)...)
	if err != nil {
		return fmt.Errorf("upsert journal entry: %w", err)
	}
	return nil
}

// Delete elimina la entrada de la venta.
func (r *CollectionJournalRepo) Delete(ctx context.Context, saleID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM pos_collection_journal WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	return nil
}

// Unfinished lista las entradas sin completar, de la más antigua a la más nueva.
func (r *CollectionJournalRepo) Unfinished(ctx context.Context) ([]*entity.CollectionEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM pos_collection_journal WHERE stage <> $1 ORDER BY created_at, sale_id`
	rows, err := r.pool.Query(ctx, query, entity.CollectionCompleted)
	if err != nil {
		return nil, fmt.Errorf("list unfinished: %w", err)
	}
	defer rows.Close()

	var out []*entity.CollectionEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// entryArgs valores en el orden de journalColumns.
func entryArgs(e *entity.CollectionEntry) []any {
	return []any{
		e.SaleID, e.Correlativo, e.IdempotencyKey, string(e.Method), e.Amount, e.Stage,
		e.PaymentID, e.Attempts, e.LastError, e.CreatedAt, e.UpdatedAt,
	}
}

func scanEntry(row pgx.Row) (*entity.CollectionEntry, error) {
	var e entity.CollectionEntry
	var method string
	err := row.Scan(
		&e.SaleID, &e.Correlativo, &e.IdempotencyKey, &method, &e.Amount, &e.Stage,
		&e.PaymentID, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Method = entity.PaymentMethod(method)
	return &e, nil
}
