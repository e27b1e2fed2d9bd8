package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// ── Consola local ─────────────────────────────────────────────────────────────

// ConsoleLoginRequest cuerpo de POST /api/auth/login de la consola: credenciales
// o un token ya emitido.
type ConsoleLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// SesionDTO estado de la sesión expuesto por la consola (sin el token).
type SesionDTO struct {
	Autenticado bool      `json:"autenticado"`
	UsuarioID   int64     `json:"usuarioId,omitempty"`
	Nombre      string    `json:"nombre,omitempty"`
	Correo      string    `json:"correo,omitempty"`
	Role        string    `json:"role,omitempty"`
	ExpiraEn    time.Time `json:"expiraEn,omitzero"`
	Vistas      []string  `json:"vistas,omitempty"`
}

// LineaCarritoDTO línea del carrito del vendedor.
type LineaCarritoDTO struct {
	Producto ProductoDTO `json:"producto"`
	Cantidad int         `json:"cantidad"`
	Subtotal Amount      `json:"subtotal"`
}

// CarritoDTO carrito con cliente seleccionado y total.
type CarritoDTO struct {
	Lineas      []LineaCarritoDTO `json:"lineas"`
	Cliente     *ClienteDTO       `json:"cliente,omitempty"`
	Total       Amount            `json:"total"`
	Registrando bool              `json:"registrando"`
}

// AgregarProductoRequest cuerpo de POST /api/vendedor/carrito.
type AgregarProductoRequest struct {
	ProductoID int64 `json:"productoId"`
}

// SeleccionarClienteRequest cuerpo de PUT /api/vendedor/cliente (0 lo quita).
type SeleccionarClienteRequest struct {
	ClienteID int64 `json:"clienteId"`
}

// CobroRequest respuestas del cajero para POST /api/caja/cobrar/:id.
type CobroRequest struct {
	MetodoPago      string `json:"metodoPago"`
	MontoRecibido   Amount `json:"montoRecibido"`
	ConfirmarCambio bool   `json:"confirmarCambio"`
}

// ReciboDTO comprobante de un cobro completado.
type ReciboDTO struct {
	Venta    VentaDTO  `json:"venta"`
	Pago     PagoDTO   `json:"pago"`
	Recibido Amount    `json:"recibido"`
	Cambio   Amount    `json:"cambio"`
	Cajero   string    `json:"cajero,omitempty"`
	Emitido  time.Time `json:"emitido"`
}

// FromSession arma el SesionDTO; vistas son las vistas de ventas del rol.
func FromSession(s entity.Session, vistas []string) SesionDTO {
	if !s.Authenticated() {
		return SesionDTO{}
	}
	return SesionDTO{
		Autenticado: true,
		UsuarioID:   s.Identity.UserID,
		Nombre:      s.Identity.Name,
		Correo:      s.Identity.Email,
		Role:        s.Identity.Role,
		ExpiraEn:    s.ExpiresAt,
		Vistas:      vistas,
	}
}

// FromCart arma el CarritoDTO.
func FromCart(lines []entity.CartLine, client *entity.Client, total decimal.Decimal, submitting bool) CarritoDTO {
	out := CarritoDTO{Lineas: make([]LineaCarritoDTO, 0, len(lines)), Total: NewAmount(total), Registrando: submitting}
	for _, l := range lines {
		out.Lineas = append(out.Lineas, LineaCarritoDTO{
			Producto: FromProduct(l.Product),
			Cantidad: l.Quantity,
			Subtotal: NewAmount(l.Subtotal()),
		})
	}
	if client != nil {
		c := FromClient(*client)
		out.Cliente = &c
	}
	return out
}

// FromReceipt arma el ReciboDTO.
func FromReceipt(r entity.Receipt) ReciboDTO {
	return ReciboDTO{
		Venta:    FromSaleOrder(r.Order),
		Pago:     FromPayment(r.Payment),
		Recibido: NewAmount(r.Tendered),
		Cambio:   NewAmount(r.Change),
		Cajero:   r.CashierName,
		Emitido:  r.IssuedAt,
	}
}
