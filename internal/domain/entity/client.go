package entity

import "strings"

// Client representa un cliente de la tienda (GET clientes).
type Client struct {
	ID       int64
	Name     string
	LastName string
	Email    string
	Phone    string
	Address  string
}

// FullName devuelve nombre y apellido separados por espacio.
func (c Client) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.LastName)
}
