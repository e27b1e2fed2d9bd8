package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/authz"
	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/application/sales"
)

// RouterDeps dependencias para el router de la consola.
type RouterDeps struct {
	Session SessionService
	Seller  *sales.Seller
	Cashier *cashier.Cashier
	Reports *reports.Service
	Log     zerolog.Logger
}

// Router registra las vistas y la API de la consola.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.Session, deps.Log)

	// Páginas
	app.Get(authz.LoginPath, authHandler.LoginPage)
	app.Get(authz.DashboardPath, RequireSession(deps.Session), authHandler.Dashboard)
	app.Get("/ventas", RequireSession(deps.Session), authHandler.Ventas)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Vendedor (VENDEDOR, ADMIN)
	if deps.Seller != nil {
		seller := api.Group("/vendedor", RequireRole(deps.Session, authz.SellerRoles...))
		sellerHandler := NewSellerHandler(deps.Seller, deps.Log)
		seller.Get("/catalogo", sellerHandler.Catalog)
		seller.Get("/carrito", sellerHandler.Cart)
		seller.Post("/carrito", sellerHandler.AddItem)
		seller.Delete("/carrito/:productoId", sellerHandler.RemoveItem)
		seller.Delete("/carrito", sellerHandler.ClearCart)
		seller.Put("/cliente", sellerHandler.SelectClient)
		seller.Post("/venta", sellerHandler.Checkout)
	}

	// Caja (CAJERO, ADMIN)
	if deps.Cashier != nil {
		caja := api.Group("/caja", RequireRole(deps.Session, authz.CashierRoles...))
		cashierHandler := NewCashierHandler(deps.Cashier, deps.Reports, deps.Log)
		caja.Get("/pendientes", cashierHandler.Pending)
		caja.Post("/pendientes/recargar", cashierHandler.Refresh)
		caja.Post("/cobrar/:id", cashierHandler.Collect)
		caja.Post("/reanudar", cashierHandler.Resume)
		caja.Get("/recibos/:id", cashierHandler.Receipt)
	}

	// Reportes (ADMIN)
	if deps.Reports != nil {
		reportes := api.Group("/reportes", RequireRole(deps.Session, authz.ReportRoles...))
		reportHandler := NewReportHandler(deps.Reports, deps.Log)
		reportes.Get("/ingresos", reportHandler.Income)
		reportes.Get("/metodos-pago", reportHandler.PaymentMethods)
	}
}
