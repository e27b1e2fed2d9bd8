package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Identity datos del usuario derivados de los claims del token (y
// opcionalmente enriquecidos con auth/profile).
type Identity struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

// Session sesión del cliente. Si Token no está vacío, Identity y ExpiresAt se
// derivaron de él en la misma operación.
type Session struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}

// Authenticated indica si hay un token en la sesión.
func (s Session) Authenticated() bool { return s.Token != "" }

// HasRole indica si el rol de la sesión está en la lista (vacía = cualquiera).
func (s Session) HasRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if SameRole(s.Identity.Role, r) {
			return true
		}
	}
	return false
}

// ResolveIdentity es la única regla de resolución de claims del proyecto:
//
//	rol:    role → roles[0] → authorities[0] (string u objeto {authority})
//	correo: correo → email → sub
//	nombre: nombre → name → username
//	id:     userId → user_id → id
//
// Un string vacío cuenta como ausente.
func ResolveIdentity(claims map[string]any) Identity {
	return Identity{
		UserID: firstID(claims, "userId", "user_id", "id"),
		Name:   firstString(claims, "nombre", "name", "username"),
		Email:  firstString(claims, "correo", "email", "sub"),
		Role:   resolveRole(claims),
	}
}

// Merge completa la identidad con los campos no vacíos de other.
func (i Identity) Merge(other Identity) Identity {
	if other.UserID != 0 {
		i.UserID = other.UserID
	}
	if other.Name != "" {
		i.Name = other.Name
	}
	if other.Email != "" {
		i.Email = other.Email
	}
	if other.Role != "" {
		i.Role = other.Role
	}
	return i
}

func resolveRole(claims map[string]any) string {
	if s := asString(claims["role"]); s != "" {
		return s
	}
	if s := firstElement(claims["roles"]); s != "" {
		return s
	}
	return firstElement(claims["authorities"])
}

func firstString(claims map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(claims[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstID(claims map[string]any, keys ...string) int64 {
	for _, k := range keys {
		if id, ok := asInt64(claims[k]); ok {
			return id
		}
	}
	return 0
}

// firstElement toma el primer elemento de un arreglo de strings o de objetos
// {"authority": "..."}.
func firstElement(v any) string {
	switch arr := v.(type) {
	case []any:
		if len(arr) == 0 {
			return ""
		}
		if m, ok := arr[0].(map[string]any); ok {
			return asString(m["authority"])
		}
		return asString(arr[0])
	case []string:
		if len(arr) == 0 {
			return ""
		}
		return strings.TrimSpace(arr[0])
	}
	return ""
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	}
	return ""
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t != 0 {
			return int64(t), true
		}
	case json.Number:
		n, err := t.Int64()
		return n, err == nil && n != 0
	case int64:
		return t, t != 0
	case int:
		return int64(t), t != 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err == nil && n != 0 {
			return n, true
		}
	}
	return 0, false
}
