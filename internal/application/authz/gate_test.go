package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stylashop-pos/internal/application/authz"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

func sess(role string) entity.Session {
	return entity.Session{Token: "t", Identity: entity.Identity{Role: role}}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name  string
		s     entity.Session
		roles []string
		want  authz.Decision
	}{
		{"sin sesión", entity.Session{}, nil, authz.Decision{RedirectTo: "/login"}},
		{"sin sesión con roles", entity.Session{}, []string{"ADMIN"}, authz.Decision{RedirectTo: "/login"}},
		{"autenticado sin lista", sess("CAJERO"), nil, authz.Decision{Allowed: true}},
		{"rol permitido", sess("CAJERO"), authz.CashierRoles, authz.Decision{Allowed: true}},
		{"rol con prefijo y minúsculas", sess("role_cajero"), authz.CashierRoles, authz.Decision{Allowed: true}},
		{"rol no permitido", sess("VENDEDOR"), authz.CashierRoles, authz.Decision{RedirectTo: "/dashboard"}},
		{"sin rol", sess(""), authz.ReportRoles, authz.Decision{RedirectTo: "/dashboard"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, authz.Decide(tc.s, tc.roles...))
		})
	}
}

func TestSalesViews(t *testing.T) {
	assert.Equal(t, []string{"vendedor"}, authz.SalesViews("VENDEDOR"))
	assert.Equal(t, []string{"cajero"}, authz.SalesViews("cajero"))
	assert.Equal(t, []string{"vendedor", "cajero"}, authz.SalesViews("ROLE_ADMIN"))
	assert.Empty(t, authz.SalesViews("BODEGA"))
}
