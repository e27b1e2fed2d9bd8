package repository

import "context"

// TokenStore almacenamiento durable del token de sesión del cliente.
// Load devuelve "" sin error cuando no hay token guardado.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
