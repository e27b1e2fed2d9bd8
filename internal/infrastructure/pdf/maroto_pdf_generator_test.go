package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/pdf"
)

func TestGenerateReceiptPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Stylashop")
	r := &entity.Receipt{
		Order: entity.SaleOrder{
			ID: 1, Correlativo: "VENTA-1700000000000", Date: "2026-10-17", Time: "10:30",
			Total:  decimal.RequireFromString("30.00"),
			Client: entity.Client{ID: 2, Name: "Lucía", LastName: "Pérez"},
			Lines: []entity.SaleLine{{ProductID: 3, ProductName: "Blusa", Quantity: 2,
				UnitPrice: decimal.NewFromInt(15), Subtotal: decimal.NewFromInt(30)}},
		},
		Payment:  entity.Payment{Method: entity.PaymentCash, Amount: decimal.NewFromInt(30)},
		Tendered: decimal.NewFromInt(50),
		Change:   decimal.NewFromInt(20),
	}
	b, err := g.GenerateReceiptPDF(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestGenerateReceiptPDF_Nil(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator("").GenerateReceiptPDF(context.Background(), nil)
	assert.Error(t, err)
}

func TestGenerateReportsPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Stylashop")
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 16)

	b, err := g.GenerateIncomeReportPDF(context.Background(), entity.IncomeReport{
		From: from, To: to, Detailed: true, Total: decimal.NewFromInt(30),
		Sales: []entity.SaleOrder{{Correlativo: "VENTA-1", Date: "2026-10-02", Total: decimal.NewFromInt(30), PaymentMethod: entity.PaymentCard}},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))

	b, err = g.GeneratePaymentMethodsReportPDF(context.Background(), entity.PaymentMethodsReport{
		From: from, To: to, Total: decimal.NewFromInt(30),
		Methods: []entity.MethodTotal{{Method: entity.PaymentCard, Count: 1, Total: decimal.NewFromInt(30)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}
