package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/stylashop-pos/internal/application/sales"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/pkg/money"
)

const sellerHelp = `Órdenes del vendedor:
  catalogo [texto]   productos (filtra por nombre o descripción)
  clientes           clientes disponibles
  agregar <id>       suma una unidad al carrito
  quitar <id>        resta una unidad
  vaciar             vacía el carrito
  cliente <id>       selecciona el cliente (0 lo quita)
  carrito            muestra el carrito
  vender             registra la venta
  recargar           vuelve a traer catálogo y clientes
  salir
`

// RunSeller vista del vendedor en la terminal.
func RunSeller(ctx context.Context, c *Console, s *sales.Seller) error {
	if err := s.LoadCatalog(ctx); err != nil {
		c.Notify(err)
	}
	c.Printf("%s", sellerHelp)
	return c.loop(ctx, "vendedor> ", func(cmd command) error {
		switch cmd.name {
		case "ayuda", "help":
			c.Printf("%s", sellerHelp)
		case "catalogo":
			for _, p := range s.SearchProducts(cmd.arg(0)) {
				c.Printf("%4d  %-30s %12s  (en carrito: %d)\n", p.ID, p.Name, money.Format(p.UnitPrice), s.QuantityOf(p.ID))
			}
		case "clientes":
			for _, cl := range s.Clients() {
				c.Printf("%4d  %s\n", cl.ID, cl.FullName())
			}
		case "recargar":
			return s.LoadCatalog(ctx)
		case "agregar":
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			if err := s.AddToCartByID(id); err != nil {
				return err
			}
			printCart(c, s)
		case "quitar":
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			if err := s.RemoveFromCart(id); err != nil {
				return err
			}
			printCart(c, s)
		case "vaciar":
			return s.ClearCart()
		case "cliente":
			id, err := argID(cmd)
			if err != nil {
				return err
			}
			return s.SelectClient(id)
		case "carrito":
			printCart(c, s)
		case "vender":
			sale, err := s.Checkout(ctx)
			if err != nil {
				return err
			}
			c.Printf("Venta %s registrada (id %d) por %s. Pase a caja.\n", sale.Correlativo, sale.ID, money.Format(sale.Total))
		default:
			c.Printf("Orden desconocida: %s (escriba ayuda)\n", cmd.name)
		}
		return nil
	})
}

func printCart(c *Console, s *sales.Seller) {
	lines := s.Cart()
	if len(lines) == 0 {
		c.Printf("Carrito vacío\n")
	}
	for _, l := range lines {
		c.Printf("%4d  %-30s x%-3d %12s\n", l.Product.ID, l.Product.Name, l.Quantity, money.Format(l.Subtotal()))
	}
	if cl, ok := s.SelectedClient(); ok {
		c.Printf("Cliente: %s\n", cl.FullName())
	}
	c.Printf("Total: %s\n", money.Format(s.Total()))
}

func argID(cmd command) (int64, error) {
	id, err := strconv.ParseInt(cmd.arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s requiere un id numérico", domain.ErrValidation, cmd.name)
	}
	return id, nil
}
