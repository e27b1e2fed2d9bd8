package dto

import "github.com/jhoicas/stylashop-pos/internal/domain/entity"

// ToProduct convierte el producto del backend a entidad.
func ToProduct(p ProductoDTO) entity.Product {
	out := entity.Product{
		ID:          p.ID,
		Name:        p.Nombre,
		Description: p.Descripcion,
		UnitPrice:   p.PrecioUnitario.Decimal,
		ImageURL:    p.ImagenURL,
	}
	if p.Categoria != nil {
		out.CategoryID = p.Categoria.ID
	}
	if p.Marca != nil {
		out.BrandID = p.Marca.ID
	}
	return out
}

// FromProduct convierte la entidad al formato del backend.
func FromProduct(p entity.Product) ProductoDTO {
	out := ProductoDTO{
		ID:             p.ID,
		Nombre:         p.Name,
		Descripcion:    p.Description,
		PrecioUnitario: NewAmount(p.UnitPrice),
		ImagenURL:      p.ImageURL,
	}
	if p.CategoryID != 0 {
		out.Categoria = &RefDTO{ID: p.CategoryID}
	}
	if p.BrandID != 0 {
		out.Marca = &RefDTO{ID: p.BrandID}
	}
	return out
}

// ToClient convierte el cliente del backend a entidad.
func ToClient(c ClienteDTO) entity.Client {
	return entity.Client{
		ID:       c.ID,
		Name:     c.Nombre,
		LastName: c.Apellido,
		Email:    c.Email,
		Phone:    c.Telefono,
		Address:  c.Direccion,
	}
}

// FromClient convierte la entidad al formato del backend.
func FromClient(c entity.Client) ClienteDTO {
	return ClienteDTO{
		ID:        c.ID,
		Nombre:    c.Name,
		Apellido:  c.LastName,
		Telefono:  c.Phone,
		Direccion: c.Address,
		Email:     c.Email,
	}
}

// ToUser convierte el perfil del backend a entidad.
func ToUser(u UsuarioDTO) entity.User {
	return entity.User{ID: u.ID, Username: u.Username, Name: u.Nombre, Email: u.Correo, Role: u.Role}
}

// ToSaleOrder convierte la venta del backend a entidad.
func ToSaleOrder(v VentaDTO) entity.SaleOrder {
	lines := make([]entity.SaleLine, 0, len(v.DetallesVenta))
	for _, d := range v.DetallesVenta {
		sub := d.Subtotal.Decimal
		if sub.IsZero() {
			sub = d.Precio.Mul(decimalFromInt(d.Cantidad))
		}
		lines = append(lines, entity.SaleLine{
			ProductID:   d.ProductoDTO.ID,
			ProductName: d.ProductoDTO.Nombre,
			Quantity:    d.Cantidad,
			UnitPrice:   d.Precio.Decimal,
			Subtotal:    sub,
		})
	}
	sellerName := v.UsuarioDTO.Username
	if sellerName == "" {
		sellerName = v.UsuarioDTO.Nombre
	}
	return entity.SaleOrder{
		ID:            v.ID,
		Correlativo:   v.Correlativo,
		Date:          v.Fecha,
		Time:          shortTime(v.Hora),
		Status:        v.Estado,
		Total:         v.Total.Decimal,
		Client:        ToClient(v.ClienteDTO),
		SellerID:      v.UsuarioDTO.ID,
		SellerName:    sellerName,
		PaymentMethod: entity.PaymentMethod(v.MetodoPago),
		Lines:         lines,
	}
}

// FromSaleOrder convierte la entidad al cuerpo de POST/PUT ventas.
func FromSaleOrder(s entity.SaleOrder) VentaDTO {
	details := make([]DetalleVentaDTO, 0, len(s.Lines))
	for _, l := range s.Lines {
		details = append(details, DetalleVentaDTO{
			ProductoDTO: ProductoRefDTO{ID: l.ProductID},
			Cantidad:    l.Quantity,
			Precio:      NewAmount(l.UnitPrice),
			Subtotal:    NewAmount(l.Subtotal),
		})
	}
	return VentaDTO{
		ID:            s.ID,
		Correlativo:   s.Correlativo,
		Fecha:         s.Date,
		Hora:          s.Time,
		Estado:        s.Status,
		Total:         NewAmount(s.Total),
		MetodoPago:    string(s.PaymentMethod),
		ClienteDTO:    FromClient(s.Client),
		UsuarioDTO:    UsuarioDTO{ID: s.SellerID},
		DetallesVenta: details,
	}
}

// ToPayment convierte el pago del backend a entidad.
func ToPayment(p PagoDTO) entity.Payment {
	return entity.Payment{
		ID:     p.ID,
		Date:   p.FechaPago,
		Amount: p.Monto.Decimal,
		Method: entity.PaymentMethod(p.MetodoPago),
		SaleID: p.Venta.ID,
	}
}

// FromPayment convierte la entidad al cuerpo de POST pagos.
func FromPayment(p entity.Payment) PagoDTO {
	return PagoDTO{
		ID:         p.ID,
		FechaPago:  p.Date,
		Monto:      NewAmount(p.Amount),
		MetodoPago: string(p.Method),
		Venta:      RefDTO{ID: p.SaleID},
	}
}
