package cli

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/pkg/money"
)

// TerminalPrompter pregunta al cajero por la terminal. Una línea vacía
// cancela el cobro.
type TerminalPrompter struct {
	c *Console
}

var _ cashier.Prompter = TerminalPrompter{}

// NewTerminalPrompter construye el prompter sobre la consola.
func NewTerminalPrompter(c *Console) TerminalPrompter {
	return TerminalPrompter{c: c}
}

func (p TerminalPrompter) ChoosePaymentMethod(ctx context.Context, order entity.SaleOrder) (entity.PaymentMethod, error) {
	p.c.Printf("Cobrar %s por %s\n", order.Correlativo, money.Format(order.Total))
	for i, m := range entity.PaymentMethods {
		p.c.Printf("  %d) %s\n", i+1, m.Label())
	}
	for {
		line, err := p.c.ReadLine(ctx, "Método (vacío cancela): ")
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", domain.ErrCancelled
		}
		var n int
		if _, err := fmt.Sscanf(line, "%d", &n); err == nil && n >= 1 && n <= len(entity.PaymentMethods) {
			return entity.PaymentMethods[n-1], nil
		}
		if m, err := entity.ParsePaymentMethod(line); err == nil {
			return m, nil
		}
		p.c.Printf("Opción inválida: %s\n", line)
	}
}

func (p TerminalPrompter) AskTenderedAmount(ctx context.Context, order entity.SaleOrder, problem error) (decimal.Decimal, error) {
	if problem != nil {
		p.c.Notify(problem)
	}
	for {
		line, err := p.c.ReadLine(ctx, fmt.Sprintf("Monto recibido (total %s): ", money.Format(order.Total)))
		if err != nil {
			return decimal.Zero, err
		}
		if line == "" {
			return decimal.Zero, domain.ErrCancelled
		}
		amount, err := ParseAmount(line)
		if err == nil {
			return amount, nil
		}
		p.c.Printf("Monto inválido: %s\n", line)
	}
}

func (p TerminalPrompter) ConfirmChange(ctx context.Context, q cashier.ChangeQuote) (bool, error) {
	p.c.Printf("Total %s, recibido %s, cambio %s\n",
		money.Format(q.Total), money.Format(q.Tendered), money.Format(q.Change))
	line, err := p.c.ReadLine(ctx, "¿Confirmar? (s/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "s", "si", "sí", "y", "yes":
		return true, nil
	}
	return false, nil
}

// thousandsGrouped entero con miles separados por punto, como "60.000".
var thousandsGrouped = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseAmount acepta "1234.5", "1234,5", "1.234,50" y "60.000" (miles con
// punto y decimales con coma, como los imprime money.Format).
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if strings.Contains(s, ",") || thousandsGrouped.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: monto %q", domain.ErrValidation, s)
	}
	return d, nil
}
