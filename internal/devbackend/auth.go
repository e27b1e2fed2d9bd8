package devbackend

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthService registro de usuarios y login con bcrypt + JWT.
type AuthService struct {
	store  *Store
	jwtCfg JWTConfig
}

// NewAuthService construye el servicio de auth.
func NewAuthService(store *Store, jwtCfg JWTConfig) *AuthService {
	return &AuthService{store: store, jwtCfg: jwtCfg}
}

// RegisterUser hashea password con bcrypt y guarda el usuario. Sin rol queda VENDEDOR.
func (s *AuthService) RegisterUser(u entity.User, password string, active bool) (entity.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" || password == "" {
		return entity.User{}, fmt.Errorf("%w: username y password son requeridos", domain.ErrValidation)
	}
	if s.store.accountByUsername(u.Username) != nil {
		return entity.User{}, fmt.Errorf("%w: el usuario %s ya existe", domain.ErrConflict, u.Username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, err
	}
	if u.Role == "" {
		u.Role = entity.RoleVendedor
	}
	if u.Name == "" {
		u.Name = u.Username
	}
	a := &account{User: u, PasswordHash: string(hash), Active: active}
	s.store.addAccount(a)
	return a.User, nil
}

// Login verifica username/password y genera el JWT.
// Usuario o contraseña incorrectos → ErrInvalidCredentials; cuenta inactiva → ErrAccountForbidden.
func (s *AuthService) Login(username, password string) (string, error) {
	a := s.store.accountByUsername(username)
	if a == nil {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !a.Active {
		return "", domain.ErrAccountForbidden
	}
	return jwt.Generate(s.jwtCfg.Secret, s.jwtCfg.Issuer, s.jwtCfg.ExpMinutes, jwt.Claims{
		UserID: a.ID,
		Nombre: a.Name,
		Correo: a.Email,
		Role:   a.Role,
	})
}

// Profile perfil del usuario dueño del token.
func (s *AuthService) Profile(userID int64) (entity.User, error) {
	a := s.store.accountByID(userID)
	if a == nil {
		return entity.User{}, fmt.Errorf("usuario %d: %w", userID, domain.ErrNotFound)
	}
	return a.User, nil
}
