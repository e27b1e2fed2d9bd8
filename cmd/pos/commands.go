package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stylashop-pos/internal/application/authz"
	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/domain"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
	"github.com/jhoicas/stylashop-pos/internal/interfaces/cli"
	httpRouter "github.com/jhoicas/stylashop-pos/internal/interfaces/http"
)

// ── Sesión ────────────────────────────────────────────────────────────────────

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "usuario")
	password := fs.String("p", "", "contraseña")
	token := fs.String("token", "", "token JWT ya emitido")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *token != "" {
		err = a.session.Login(ctx, *token)
	} else {
		if *username == "" {
			if *username, err = a.console.ReadLine(ctx, "Usuario: "); err != nil {
				return err
			}
		}
		if *password == "" {
			if *password, err = a.console.ReadLine(ctx, "Contraseña: "); err != nil {
				return err
			}
		}
		err = a.session.LoginWithCredentials(ctx, *username, *password)
	}
	if err != nil {
		return err
	}
	return a.whoami(ctx)
}

func (a *app) whoami(ctx context.Context) error {
	s, err := a.session.Check(ctx)
	if err != nil {
		return err
	}
	id := s.Identity
	a.console.Printf("Usuario: %s (id %d)\nCorreo: %s\nRol: %s\nExpira: %s\n",
		nonEmpty(id.Name, "-"), id.UserID, nonEmpty(id.Email, "-"), nonEmpty(id.Role, "-"),
		s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	if views := authz.SalesViews(id.Role); len(views) > 0 {
		a.console.Printf("Vistas de ventas: %s\n", strings.Join(views, ", "))
	}
	return nil
}

// guard aplica el gate a una vista de terminal y devuelve un contexto que se
// cancela si la sesión termina (logout o expiración) mientras la vista corre.
func (a *app) guard(ctx context.Context, roles ...string) (context.Context, context.CancelFunc, error) {
	if err := a.authorize(ctx, roles...); err != nil {
		return nil, nil, err
	}

	viewCtx, cancel := context.WithCancel(ctx)
	updates, unsubscribe := a.session.Subscribe()
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-viewCtx.Done():
				return
			case cur, ok := <-updates:
				if !ok {
					return
				}
				if !cur.Authenticated() {
					a.console.Notify(domain.ErrTokenExpired)
					cancel()
					return
				}
			}
		}
	}()
	return viewCtx, cancel, nil
}

// authorize verificación del gate sin vigilar la sesión después.
func (a *app) authorize(ctx context.Context, roles ...string) error {
	s, err := a.session.Check(ctx)
	if err != nil {
		return err
	}
	if d := authz.Decide(s, roles...); !d.Allowed {
		return fmt.Errorf("%w: el rol %s no tiene acceso a esta vista", domain.ErrForbidden, s.Identity.Role)
	}
	return nil
}

// ── Vistas ────────────────────────────────────────────────────────────────────

func (a *app) sell(ctx context.Context) error {
	viewCtx, cancel, err := a.guard(ctx, authz.SellerRoles...)
	if err != nil {
		return err
	}
	defer cancel()
	return ignoreCancel(cli.RunSeller(viewCtx, a.console, a.seller))
}

func (a *app) collect(ctx context.Context) error {
	viewCtx, cancel, err := a.guard(ctx, authz.CashierRoles...)
	if err != nil {
		return err
	}
	defer cancel()

	if err := a.cashier.Start(viewCtx); err != nil {
		a.console.Notify(err)
	}
	defer a.cashier.Stop()

	view := cli.CashierView{Cashier: a.cashier, Reports: a.reports, ReceiptsDir: a.cfg.Receipts.Dir}
	return ignoreCancel(view.Run(viewCtx, a.console))
}

func (a *app) report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: indique ingresos o metodos", domain.ErrValidation)
	}
	kind := args[0]
	fs := flag.NewFlagSet("reporte", flag.ContinueOnError)
	desde := fs.String("desde", "", "fecha de inicio AAAA-MM-DD")
	hasta := fs.String("hasta", "", "fecha final AAAA-MM-DD")
	detallado := fs.Bool("detallado", false, "lista cada venta (solo ingresos)")
	out := fs.String("o", "", "archivo PDF de salida")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if err := a.authorize(ctx, authz.ReportRoles...); err != nil {
		return err
	}
	from, err := reports.ParseDate(*desde)
	if err != nil {
		return err
	}
	to, err := reports.ParseDate(*hasta)
	if err != nil {
		return err
	}

	var pdf []byte
	switch kind {
	case "ingresos":
		pdf, err = a.reports.Income(ctx, from, to, *detallado)
	case "metodos", "metodos-pago":
		pdf, err = a.reports.PaymentMethods(ctx, from, to)
	default:
		return fmt.Errorf("%w: reporte desconocido %q", domain.ErrValidation, kind)
	}
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("reporte-%s-%s-%s.pdf", kind, from.Format(entity.SaleDateLayout), to.Format(entity.SaleDateLayout))
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("guardar reporte: %w", err)
	}
	a.console.Printf("Reporte guardado en %s\n", path)
	return nil
}

// serveConsole levanta la API HTTP local con las vistas del dashboard.
func (a *app) serveConsole(ctx context.Context) error {
	if err := a.cashier.Start(ctx); err != nil {
		a.log.Warn().Err(err).Msg("carga inicial de caja")
	}
	defer a.cashier.Stop()

	srv := fiber.New(fiber.Config{
		AppName:      a.cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	srv.Use(recover.New())
	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": a.cfg.App.Name})
	})
	httpRouter.Router(srv, httpRouter.RouterDeps{
		Session: a.session,
		Seller:  a.seller,
		Cashier: a.cashier,
		Reports: a.reports,
		Log:     a.log.Component("consola"),
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.Console.Addr()).Msg("consola HTTP escuchando")
		errCh <- srv.Listen(a.cfg.Console.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	a.log.Info().Msg("señal de apagado recibida, cerrando consola...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("apagado de la consola")
	}
	return nil
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
