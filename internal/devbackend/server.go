package devbackend

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// Config del backend de desarrollo.
type Config struct {
	AppName string
	JWT     JWTConfig
	Seed    bool // carga usuarios, catálogo y clientes de ejemplo
}

// Server backend en memoria listo para Listen o app.Test.
type Server struct {
	App   *fiber.App
	Store *Store
	Auth  *AuthService
}

// New arma el backend con sus rutas bajo /api.
func New(cfg Config, renderer ReportRenderer, log zerolog.Logger) (*Server, error) {
	store := NewStore()
	authSvc := NewAuthService(store, cfg.JWT)
	if cfg.Seed {
		if err := Seed(store, authSvc); err != nil {
			return nil, err
		}
	}

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.AppName})
	})

	h := &handlers{store: store, auth: authSvc, renderer: renderer, log: log}
	api := app.Group("/api")

	// Auth (público salvo profile)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.login)
	authGroup.Get("/profile", AuthMiddleware(cfg.JWT.Secret), h.profile)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(cfg.JWT.Secret))

	protected.Get("/productos", h.products)
	protected.Get("/clientes", h.clients)

	protected.Get("/ventas", h.listSales)
	protected.Post("/ventas", RequireRole(entity.RoleVendedor, entity.RoleAdmin), h.createSale)
	protected.Put("/ventas/:id", RequireRole(entity.RoleCajero, entity.RoleAdmin), h.updateSale)

	protected.Post("/pagos", RequireRole(entity.RoleCajero, entity.RoleAdmin), h.createPayment)

	reportes := protected.Group("/reportes", RequireRole(entity.RoleAdmin))
	reportes.Get("/ingresos", h.incomeReport)
	reportes.Get("/metodos-pago", h.paymentMethodsReport)

	return &Server{App: app, Store: store, Auth: authSvc}, nil
}
