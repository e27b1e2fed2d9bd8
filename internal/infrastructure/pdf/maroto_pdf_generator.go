// Package pdf genera los documentos PDF del punto de venta: el recibo de
// caja y los reportes de ingresos y métodos de pago.
//
// Layout del recibo (A4, una página):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + Recibo de caja │ Correlativo + Fecha/Hora │
//	│  CLIENTE / CAJERO                                            │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  TOTALES: Total / Método / Recibido / Cambio                 │
//	│  FOOTER: QR con el correlativo + leyenda                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 122, Green: 31, Blue: 92}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera recibos y reportes usando Maroto v2.
type MarotoPDFGenerator struct {
	shopName string
}

// NewMarotoPDFGenerator construye el generador; shopName encabeza los documentos.
func NewMarotoPDFGenerator(shopName string) *MarotoPDFGenerator {
	if shopName == "" {
		shopName = "Stylashop"
	}
	return &MarotoPDFGenerator{shopName: shopName}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.shopName, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateReceiptPDF recibo de un cobro completado.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, r *entity.Receipt) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: recibo vacío")
	}
	m := g.newDocument("Recibo de caja " + r.Order.Correlativo)

	m.AddRows(g.headerRow("RECIBO DE CAJA", r.Order.Correlativo,
		fmt.Sprintf("Fecha: %s %s", r.Order.Date, r.Order.Time)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow("Cant.", "Producto", "Precio Unit.", "Subtotal"))
	m.AddRows(saleLineRows(r.Order.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(receiptTotalsRow(r))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(40).Add(
		col.New(4).Add(code.NewQr(r.Order.Correlativo, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Gracias por su compra.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary,
			}),
			text.New("Conserve este recibo para cambios y devoluciones.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	))

	return render(m)
}

// GenerateIncomeReportPDF reporte de ingresos; en modo detallado lista cada venta.
func (g *MarotoPDFGenerator) GenerateIncomeReportPDF(_ context.Context, rep entity.IncomeReport) ([]byte, error) {
	m := g.newDocument("Reporte de ingresos")
	m.AddRows(g.headerRow("REPORTE DE INGRESOS", rangeLabel(rep.From, rep.To),
		fmt.Sprintf("Ventas pagadas: %d", len(rep.Sales))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if rep.Detailed {
		m.AddRows(tableHeaderRow("Fecha", "Venta / Cliente", "Método", "Total"))
		for _, s := range rep.Sales {
			m.AddRows(row.New(7).Add(
				cell(s.Date, 2, align.Left),
				cell(s.Correlativo+"  "+s.Client.FullName(), 5, align.Left),
				cell(s.PaymentMethod.Label(), 2, align.Center),
				cell(money.Format(s.Total), 3, align.Right),
			))
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	m.AddRows(grandTotalRow("TOTAL INGRESOS:", money.Format(rep.Total)))
	return render(m)
}

// GeneratePaymentMethodsReportPDF totales por método de pago.
func (g *MarotoPDFGenerator) GeneratePaymentMethodsReportPDF(_ context.Context, rep entity.PaymentMethodsReport) ([]byte, error) {
	m := g.newDocument("Reporte por método de pago")
	m.AddRows(g.headerRow("MÉTODOS DE PAGO", rangeLabel(rep.From, rep.To), ""))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow("Pagos", "Método", "", "Total"))
	for _, mt := range rep.Methods {
		m.AddRows(row.New(7).Add(
			cell(strconv.Itoa(mt.Count), 1, align.Center),
			cell(mt.Method.Label(), 5, align.Left),
			cell("", 2, align.Right),
			cell(money.Format(mt.Total), 4, align.Right),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(grandTotalRow("TOTAL COBRADO:", money.Format(rep.Total)))
	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda + título (izq) y referencia + detalle (der).
func (g *MarotoPDFGenerator) headerRow(title, ref, detail string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(ref, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 3,
			}),
			text.New(detail, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func partiesRow(r *entity.Receipt) core.Row {
	client := r.Order.Client.FullName()
	if client == "" {
		client = "Cliente #" + strconv.FormatInt(r.Order.Client.ID, 10)
	}
	return row.New(14).Add(
		col.New(6).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(client, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("ATENDIÓ EN CAJA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}),
			text.New(nonEmpty(r.CashierName, "-"), props.Text{Size: 10, Top: 6, Align: align.Right}),
		),
	)
}

func tableHeaderRow(c1, c2, c3, c4 string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(c1, 2, align.Left),
		h(c2, 5, align.Left),
		h(c3, 2, align.Center),
		h(c4, 3, align.Right),
	)
}

func saleLineRows(lines []entity.SaleLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := l.ProductName
		if name == "" {
			name = "Producto #" + strconv.FormatInt(l.ProductID, 10)
		}
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(l.Quantity), 2, align.Left),
			cell(name, 5, align.Left),
			cell(money.Format(l.UnitPrice), 2, align.Center),
			cell(money.Format(l.Subtotal), 3, align.Right),
		))
	}
	return result
}

func receiptTotalsRow(r *entity.Receipt) core.Row {
	labels := []string{"Total:", "Método de pago:"}
	values := []string{money.Format(r.Order.Total), r.Payment.Method.Label()}
	if r.Payment.Method == entity.PaymentCash {
		labels = append(labels, "Recibido:", "Cambio:")
		values = append(values, money.Format(r.Tendered), money.Format(r.Change))
	}
	lc := col.New(3)
	vc := col.New(3)
	for i := range labels {
		top := float64(i * 6)
		lc.Add(text.New(labels[i], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		vc.Add(text.New(values[i], props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	return row.New(26).Add(col.New(6), lc, vc)
}

func grandTotalRow(label, value string) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func rangeLabel(from, to time.Time) string {
	return from.Format("02/01/2006") + " – " + to.Format("02/01/2006")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
