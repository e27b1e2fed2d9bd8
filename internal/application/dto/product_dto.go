package dto

// ProductoDTO producto del catálogo (GET productos).
type ProductoDTO struct {
	ID             int64   `json:"id"`
	Nombre         string  `json:"nombre"`
	Descripcion    string  `json:"descripcion"`
	PrecioUnitario Amount  `json:"precioUnitario"`
	ImagenURL      string  `json:"imagenUrl,omitempty"`
	Categoria      *RefDTO `json:"categoria,omitempty"`
	Marca          *RefDTO `json:"marca,omitempty"`
}

// ProductoRefDTO producto dentro de un detalle de venta; al crear solo viaja el id.
type ProductoRefDTO struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre,omitempty"`
}

// ClienteDTO cliente (GET clientes y clienteDTO de una venta).
type ClienteDTO struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre,omitempty"`
	Apellido  string `json:"apellido,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Email     string `json:"email,omitempty"`
}
