package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/application/sales"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// SellerHandler vista del vendedor: catálogo, carrito y registro de la venta.
type SellerHandler struct {
	seller *sales.Seller
	log    zerolog.Logger
}

// NewSellerHandler construye el handler.
func NewSellerHandler(seller *sales.Seller, log zerolog.Logger) *SellerHandler {
	return &SellerHandler{seller: seller, log: log}
}

// Catalog GET /api/vendedor/catalogo?q=&recargar=true
// La primera consulta (o recargar=true) trae productos y clientes del backend.
func (h *SellerHandler) Catalog(c *fiber.Ctx) error {
	if c.QueryBool("recargar") || len(h.seller.Products()) == 0 {
		if err := h.seller.LoadCatalog(c.UserContext()); err != nil {
			return respondError(c, h.log, err)
		}
	}
	products := h.seller.SearchProducts(c.Query("q"))
	clients := h.seller.Clients()

	out := struct {
		Productos []dto.ProductoDTO `json:"productos"`
		Clientes  []dto.ClienteDTO  `json:"clientes"`
	}{
		Productos: make([]dto.ProductoDTO, 0, len(products)),
		Clientes:  make([]dto.ClienteDTO, 0, len(clients)),
	}
	for _, p := range products {
		out.Productos = append(out.Productos, dto.FromProduct(p))
	}
	for _, cl := range clients {
		out.Clientes = append(out.Clientes, dto.FromClient(cl))
	}
	return c.JSON(out)
}

// Cart GET /api/vendedor/carrito
func (h *SellerHandler) Cart(c *fiber.Ctx) error {
	return c.JSON(h.cart())
}

// AddItem POST /api/vendedor/carrito {productoId}: suma una unidad.
func (h *SellerHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AgregarProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductoID <= 0 {
		return badID(c, "productoId")
	}
	if err := h.seller.AddToCartByID(in.ProductoID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.cart())
}

// RemoveItem DELETE /api/vendedor/carrito/:productoId: resta una unidad.
func (h *SellerHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("productoId"), 10, 64)
	if err != nil {
		return badID(c, "productoId")
	}
	if err := h.seller.RemoveFromCart(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.cart())
}

// ClearCart DELETE /api/vendedor/carrito
func (h *SellerHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.seller.ClearCart(); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.cart())
}

// SelectClient PUT /api/vendedor/cliente {clienteId}; 0 quita la selección.
func (h *SellerHandler) SelectClient(c *fiber.Ctx) error {
	var in dto.SeleccionarClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.seller.SelectClient(in.ClienteID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.cart())
}

// Checkout POST /api/vendedor/venta: registra la venta con el carrito actual.
func (h *SellerHandler) Checkout(c *fiber.Ctx) error {
	sale, err := h.seller.Checkout(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSaleOrder(*sale))
}

func (h *SellerHandler) cart() dto.CarritoDTO {
	var client *entity.Client
	if cl, ok := h.seller.SelectedClient(); ok {
		client = &cl
	}
	return dto.FromCart(h.seller.Cart(), client, h.seller.Total(), h.seller.Submitting())
}
