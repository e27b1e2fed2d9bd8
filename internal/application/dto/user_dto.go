package dto

// LoginRequest cuerpo de POST auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse respuesta de POST auth/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// UsuarioDTO usuario en auth/profile y como vendedor de una venta (usuarioDTO).
type UsuarioDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Nombre   string `json:"nombre,omitempty"`
	Correo   string `json:"correo,omitempty"`
	Role     string `json:"role,omitempty"`
}
