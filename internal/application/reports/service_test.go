package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

type fakeRepo struct {
	calls    int
	detailed bool
}

func (f *fakeRepo) Income(_ context.Context, _, _ time.Time, detailed bool) ([]byte, error) {
	f.calls++
	f.detailed = detailed
	return []byte("%PDF-ingresos"), nil
}

func (f *fakeRepo) PaymentMethods(context.Context, time.Time, time.Time) ([]byte, error) {
	f.calls++
	return []byte("%PDF-metodos"), nil
}

type fakeRenderer struct{}

func (fakeRenderer) GenerateReceiptPDF(context.Context, *entity.Receipt) ([]byte, error) {
	return []byte("%PDF-recibo"), nil
}

func TestIncome_RangoValido(t *testing.T) {
	repo := &fakeRepo{}
	s := reports.NewService(repo, fakeRenderer{}, zerolog.Nop())
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)

	pdf, err := s.Income(context.Background(), from, from, true)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-ingresos", string(pdf))
	assert.True(t, repo.detailed)
}

func TestReportes_RangoInvalido_NoLlamaAlBackend(t *testing.T) {
	repo := &fakeRepo{}
	s := reports.NewService(repo, fakeRenderer{}, zerolog.Nop())
	from := time.Date(2026, 10, 10, 0, 0, 0, 0, time.Local)

	_, err := s.Income(context.Background(), from, from.AddDate(0, 0, -1), false)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.PaymentMethods(context.Background(), time.Time{}, from)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, repo.calls)
}

func TestParseDate(t *testing.T) {
	d, err := reports.ParseDate("2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, 17, d.Day())

	_, err = reports.ParseDate("17/10/2026")
	assert.ErrorIs(t, err, domain.ErrValidation)

	d, err = reports.ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestReceipt(t *testing.T) {
	s := reports.NewService(&fakeRepo{}, fakeRenderer{}, zerolog.Nop())
	_, err := s.Receipt(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	pdf, err := s.Receipt(context.Background(), &entity.Receipt{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-recibo", string(pdf))
}
