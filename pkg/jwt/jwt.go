package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingExp el token no trae el claim estándar exp.
var ErrMissingExp = errors.New("jwt: claim exp ausente")

// Claims payload que emite el backend de la tienda.
// Authorities se usa solo cuando el emisor no envía role (tokens de Spring).
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64    `json:"userId"`
	Nombre      string   `json:"nombre,omitempty"`
	Correo      string   `json:"correo,omitempty"`
	Role        string   `json:"role,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
}

// Generate firma un token HS256 con los claims indicados y una expiración
// de expMinutes desde ahora (negativo = ya expirado, útil en tests).
func Generate(secret, issuer string, expMinutes int, c Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	c.Issuer = issuer
	if c.Subject == "" {
		c.Subject = c.Correo
	}
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims tipados.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// Decode lee el payload sin verificar la firma (el cliente no conoce el
// secreto; la verificación es del backend). Exige el claim exp.
func Decode(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("jwt: decodificar: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("jwt: exp inválido: %w", err)
	}
	if exp == nil {
		return nil, ErrMissingExp
	}
	return claims, nil
}

// ExpiresAt devuelve el instante del claim exp.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := Decode(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	exp, _ := claims.GetExpirationTime()
	return exp.Time, nil
}

// IsExpired true si now >= exp o si el token no se puede decodificar.
func IsExpired(tokenString string, now time.Time) bool {
	exp, err := ExpiresAt(tokenString)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}
