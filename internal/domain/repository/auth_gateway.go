package repository

import (
	"context"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// AuthGateway puerto hacia los endpoints auth/* del backend.
type AuthGateway interface {
	// Login intercambia credenciales por un token (POST auth/login).
	Login(ctx context.Context, username, password string) (string, error)
	// Profile devuelve el perfil del dueño del token (GET auth/profile).
	// Recibe el token explícito porque se llama mientras la sesión se está formando.
	Profile(ctx context.Context, token string) (*entity.User, error)
}
