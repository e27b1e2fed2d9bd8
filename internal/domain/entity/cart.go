package entity

import "github.com/shopspring/decimal"

// CartLine es una línea del carrito: snapshot del producto + cantidad (>= 1).
type CartLine struct {
	Product  Product
	Quantity int
}

// Subtotal devuelve Quantity × UnitPrice.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart es el carrito en memoria de un vendedor. Mantiene el orden de inserción
// y como máximo una línea por ID de producto. El total nunca se almacena.
// No es seguro para uso concurrente; el flujo de ventas lo protege.
type Cart struct {
	lines []CartLine
}

// NewCart crea un carrito vacío.
func NewCart() *Cart { return &Cart{} }

// Add suma una unidad del producto. Si no existe la línea, se agrega al final
// con cantidad 1 y el precio vigente del producto.
func (c *Cart) Add(p Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: 1})
}

// Remove resta una unidad del producto; la línea desaparece al llegar a 0.
// Devuelve false si el producto no estaba en el carrito.
func (c *Cart) Remove(productID int64) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return true
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Clear vacía el carrito.
func (c *Cart) Clear() { c.lines = nil }

// Lines devuelve una copia de las líneas en orden de inserción.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len cantidad de líneas (productos distintos).
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// QuantityOf devuelve la cantidad del producto en el carrito (0 si no está).
func (c *Cart) QuantityOf(productID int64) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Total Σ cantidad × precio unitario, recalculado en cada llamada.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) indexOf(productID int64) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
