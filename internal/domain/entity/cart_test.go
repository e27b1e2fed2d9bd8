package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

func product(id int64, price string) entity.Product {
	return entity.Product{ID: id, Name: "Producto", UnitPrice: decimal.RequireFromString(price)}
}

// Escenario: agregar dos veces, quitar dos veces.
func TestCart_AgregarYQuitar(t *testing.T) {
	c := entity.NewCart()
	p := product(1, "10.00")

	c.Add(p)
	c.Add(p)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.QuantityOf(1))
	assert.True(t, c.Total().Equal(decimal.RequireFromString("20.00")))

	assert.True(t, c.Remove(1))
	assert.Equal(t, 1, c.QuantityOf(1))
	assert.True(t, c.Total().Equal(decimal.RequireFromString("10.00")))

	assert.True(t, c.Remove(1))
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_QuitarProductoAusente(t *testing.T) {
	c := entity.NewCart()
	c.Add(product(1, "5"))
	assert.False(t, c.Remove(99))
	assert.Equal(t, 1, c.QuantityOf(1))
}

func TestCart_OrdenDeInsercion(t *testing.T) {
	c := entity.NewCart()
	c.Add(product(3, "1"))
	c.Add(product(1, "1"))
	c.Add(product(2, "1"))
	c.Add(product(1, "1"))

	ids := []int64{}
	for _, l := range c.Lines() {
		ids = append(ids, l.Product.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids, "una línea por producto, en orden de alta")
}

// Agregar P y quitarlo una vez deja el carrito exactamente como estaba.
func TestCart_AgregarQuitarEsIdempotente(t *testing.T) {
	c := entity.NewCart()
	c.Add(product(1, "2.50"))
	c.Add(product(2, "4.00"))
	c.Add(product(2, "4.00"))
	before := c.Lines()

	c.Add(product(2, "4.00"))
	c.Remove(2)
	assert.Equal(t, before, c.Lines())

	c.Add(product(7, "1.00"))
	c.Remove(7)
	assert.Equal(t, before, c.Lines())
}

func TestCart_TotalCoincideConRecalculo(t *testing.T) {
	c := entity.NewCart()
	ops := []struct {
		add bool
		id  int64
	}{{true, 1}, {true, 2}, {true, 1}, {false, 2}, {true, 3}, {true, 3}, {false, 1}, {true, 2}}
	prices := map[int64]string{1: "10.10", 2: "0.99", 3: "7.00"}

	for _, op := range ops {
		if op.add {
			c.Add(product(op.id, prices[op.id]))
		} else {
			c.Remove(op.id)
		}
		expected := decimal.Zero
		for _, l := range c.Lines() {
			expected = expected.Add(l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		assert.True(t, expected.Equal(c.Total()), "total %s != %s", c.Total(), expected)
	}
}

func TestCart_LinesDevuelveCopia(t *testing.T) {
	c := entity.NewCart()
	c.Add(product(1, "1"))
	lines := c.Lines()
	lines[0].Quantity = 50
	assert.Equal(t, 1, c.QuantityOf(1))
}
