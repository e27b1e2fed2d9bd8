package entity

import "strings"

// Roles emitidos por el backend en el claim de rol.
const (
	RoleAdmin    = "ADMIN"
	RoleVendedor = "VENDEDOR"
	RoleCajero   = "CAJERO"
)

// User representa al usuario autenticado tal como lo devuelve auth/profile.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Role     string `json:"role"`
}

// NormalizeRole lleva un rol a su forma canónica: mayúsculas y sin prefijo
// "ROLE_" (Spring Security lo añade a las authorities).
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(r, "ROLE_")
}

// SameRole compara dos roles ignorando mayúsculas y el prefijo "ROLE_".
func SameRole(a, b string) bool {
	na := NormalizeRole(a)
	return na != "" && na == NormalizeRole(b)
}
