package devbackend

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// SeedPassword contraseña de los usuarios de ejemplo.
const SeedPassword = "stylashop"

// Seed carga usuarios (admin, vendedor, cajero y una cuenta inactiva), un
// catálogo corto y clientes de ejemplo.
func Seed(s *Store, auth *AuthService) error {
	users := []struct {
		user   entity.User
		active bool
	}{
		{entity.User{Username: "admin", Name: "Administradora", Email: "admin@stylashop.co", Role: entity.RoleAdmin}, true},
		{entity.User{Username: "vendedor", Name: "Valentina Ruiz", Email: "vendedor@stylashop.co", Role: entity.RoleVendedor}, true},
		{entity.User{Username: "cajero", Name: "Camilo Díaz", Email: "cajero@stylashop.co", Role: entity.RoleCajero}, true},
		{entity.User{Username: "inactivo", Name: "Cuenta suspendida", Role: entity.RoleVendedor}, false},
	}
	for _, u := range users {
		if _, err := auth.RegisterUser(u.user, SeedPassword, u.active); err != nil {
			return err
		}
	}

	for _, p := range []entity.Product{
		{Name: "Blusa de lino", Description: "Manga corta, blanca", UnitPrice: decimal.NewFromInt(89900), CategoryID: 1, BrandID: 1},
		{Name: "Jean tiro alto", Description: "Denim azul oscuro", UnitPrice: decimal.NewFromInt(139900), CategoryID: 2, BrandID: 2},
		{Name: "Vestido floral", Description: "Largo, estampado", UnitPrice: decimal.NewFromInt(159900), CategoryID: 3, BrandID: 1},
		{Name: "Chaqueta de cuero", Description: "Sintético, negra", UnitPrice: decimal.NewFromInt(249900), CategoryID: 4, BrandID: 3},
		{Name: "Bufanda tejida", Description: "Lana, gris", UnitPrice: decimal.RequireFromString("45900.50"), CategoryID: 5, BrandID: 2},
	} {
		s.AddProduct(p)
	}
	for _, c := range []entity.Client{
		{Name: "Laura", LastName: "Gómez", Email: "laura@example.com", Phone: "3001234567"},
		{Name: "Andrés", LastName: "Martínez", Email: "andres@example.com", Phone: "3109876543"},
		{Name: "Sofía", LastName: "Herrera", Phone: "3205550000"},
	} {
		s.AddClient(c)
	}
	return nil
}
