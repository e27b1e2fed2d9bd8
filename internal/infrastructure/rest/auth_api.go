package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.AuthGateway = (*AuthAPI)(nil)

// AuthAPI adaptador de auth/login y auth/profile.
type AuthAPI struct {
	c *Client
}

// NewAuthAPI construye el adaptador.
func NewAuthAPI(c *Client) *AuthAPI { return &AuthAPI{c: c} }

// Login POST auth/login. 401 → ErrInvalidCredentials, 403 → ErrAccountForbidden.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (string, error) {
	var out dto.LoginResponse
	err := a.c.doJSON(ctx, request{
		method:    http.MethodPost,
		path:      "auth/login",
		body:      dto.LoginRequest{Username: username, Password: password},
		anonymous: true,
	}, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusUnauthorized:
				return "", domain.ErrInvalidCredentials
			case http.StatusForbidden:
				return "", domain.ErrAccountForbidden
			}
		}
		return "", fmt.Errorf("auth: login: %w", err)
	}
	token := strings.TrimSpace(out.Token)
	if token == "" {
		return "", fmt.Errorf("auth: login: respuesta sin token: %w", domain.ErrServer)
	}
	return token, nil
}

// Profile GET auth/profile con el token indicado.
func (a *AuthAPI) Profile(ctx context.Context, token string) (*entity.User, error) {
	var out dto.UsuarioDTO
	if err := a.c.doJSON(ctx, request{
		method: http.MethodGet,
		path:   "auth/profile",
		bearer: token,
	}, &out); err != nil {
		return nil, fmt.Errorf("auth: perfil: %w", err)
	}
	u := dto.ToUser(out)
	return &u, nil
}
