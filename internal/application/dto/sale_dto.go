package dto

// VentaDTO venta tal como la recibe y devuelve el recurso ventas.
type VentaDTO struct {
	ID            int64             `json:"id,omitempty"`
	Correlativo   string            `json:"correlativo"`
	Fecha         string            `json:"fecha"`
	Hora          string            `json:"hora"`
	Estado        string            `json:"estado"`
	Total         Amount            `json:"total"`
	MetodoPago    string            `json:"metodoPago,omitempty"`
	ClienteDTO    ClienteDTO        `json:"clienteDTO"`
	UsuarioDTO    UsuarioDTO        `json:"usuarioDTO"`
	DetallesVenta []DetalleVentaDTO `json:"detallesVenta"`
}

// DetalleVentaDTO línea de una venta.
type DetalleVentaDTO struct {
	ID          int64          `json:"id,omitempty"`
	ProductoDTO ProductoRefDTO `json:"productoDTO"`
	Cantidad    int            `json:"cantidad"`
	Precio      Amount         `json:"precio"`
	Subtotal    Amount         `json:"subtotal"`
}

// PagoDTO cuerpo de POST pagos. El backend espera la venta en "venta".
type PagoDTO struct {
	ID         int64  `json:"id,omitempty"`
	FechaPago  string `json:"fechaPago"`
	Monto      Amount `json:"monto"`
	MetodoPago string `json:"metodoPago"`
	Venta      RefDTO `json:"venta"`
}
