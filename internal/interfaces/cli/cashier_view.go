package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/pkg/money"
)

const cashierHelp = `Órdenes de caja:
  pendientes [texto]  ventas por cobrar (filtra por correlativo o cliente)
  recargar            vuelve a traer las ventas
  cobrar <id>         cobra la venta
  reanudar            completa cobros que quedaron a medias
  salir
`

// CashierView vista de caja. Los recibos se guardan como PDF en ReceiptsDir
// (vacío = no se guardan).
type CashierView struct {
	Cashier     *cashier.Cashier
	Reports     *reports.Service
	ReceiptsDir string
}

// Run atiende órdenes hasta salir. El flujo de caja ya debe estar iniciado.
func (v CashierView) Run(ctx context.Context, c *Console) error {
	c.Printf("%s", cashierHelp)
	prompter := NewTerminalPrompter(c)
	return c.loop(ctx, "caja> ", func(cmd command) error {
		switch cmd.name {
		case "ayuda", "help":
			c.Printf("%s", cashierHelp)
		case "pendientes":
			printPending(c, v.Cashier.Search(cmd.arg(0)))
		case "recargar":
			if err := v.Cashier.Refresh(ctx); err != nil {
				return err
			}
			printPending(c, v.Cashier.Pending())
		case "cobrar":
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			order, err := v.Cashier.PendingByID(id)
			if err != nil {
				return err
			}
			receipt, err := v.Cashier.Collect(ctx, order, prompter)
			if err != nil {
				return err
			}
			c.Printf("Venta %s pagada con %s.", receipt.Order.Correlativo, receipt.Payment.Method.Label())
			if receipt.Change.IsPositive() {
				c.Printf(" Cambio: %s.", money.Format(receipt.Change))
			}
			c.Printf("\n")
			if path, err := v.saveReceipt(ctx, receipt); err != nil {
				c.Notify(err)
			} else if path != "" {
				c.Printf("Recibo: %s\n", path)
			}
		case "reanudar":
			n, err := v.Cashier.ResumePending(ctx)
			if err != nil {
				return err
			}
			c.Printf("Cobros completados: %d\n", n)
		default:
			c.Printf("Orden desconocida: %s (escriba ayuda)\n", cmd.name)
		}
		return nil
	})
}

func (v CashierView) saveReceipt(ctx context.Context, r *entity.Receipt) (string, error) {
	if v.ReceiptsDir == "" || v.Reports == nil {
		return "", nil
	}
	pdf, err := v.Reports.Receipt(ctx, r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(v.ReceiptsDir, 0o755); err != nil {
		return "", fmt.Errorf("recibos: %w", err)
	}
	path := filepath.Join(v.ReceiptsDir, fmt.Sprintf("recibo-%s.pdf", r.Order.Correlativo))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("recibos: %w", err)
	}
	return path, nil
}

func printPending(c *Console, orders []entity.SaleOrder) {
	if len(orders) == 0 {
		c.Printf("No hay ventas pendientes\n")
		return
	}
	for _, o := range orders {
		c.Printf("%4d  %-20s %-25s %s %s %12s\n", o.ID, o.Correlativo, o.Client.FullName(), o.Date, o.Time, money.Format(o.Total))
	}
}
