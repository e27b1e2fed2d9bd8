// Package authz decide el acceso a las vistas protegidas a partir de la sesión.
package authz

import "github.com/jhoicas/stylashop-pos/internal/domain/entity"

// Rutas de redirección.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Decision resultado de evaluar una vista protegida.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Decide: sin sesión → /login; rol fuera de la lista → /dashboard.
// Sin roles basta con estar autenticado.
func Decide(s entity.Session, allowedRoles ...string) Decision {
	if !s.Authenticated() {
		return Decision{RedirectTo: LoginPath}
	}
	if !s.HasRole(allowedRoles...) {
		return Decision{RedirectTo: DashboardPath}
	}
	return Decision{Allowed: true}
}

// Vistas de la página de ventas.
const (
	ViewSeller  = "vendedor"
	ViewCashier = "cajero"
)

// SalesViews vistas de ventas que ve cada rol: VENDEDOR la de vendedor,
// CAJERO la de caja y ADMIN ambas. Otros roles ninguna.
func SalesViews(role string) []string {
	switch entity.NormalizeRole(role) {
	case entity.RoleVendedor:
		return []string{ViewSeller}
	case entity.RoleCajero:
		return []string{ViewCashier}
	case entity.RoleAdmin:
		return []string{ViewSeller, ViewCashier}
	}
	return nil
}

// Roles por área.
var (
	SellerRoles  = []string{entity.RoleVendedor, entity.RoleAdmin}
	CashierRoles = []string{entity.RoleCajero, entity.RoleAdmin}
	ReportRoles  = []string{entity.RoleAdmin}
)
