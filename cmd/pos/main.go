package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/stylashop-pos/pkg/config"
	"github.com/jhoicas/stylashop-pos/pkg/logger"
)

const usage = `uso: pos <orden> [opciones]

  login     [-u usuario] [-p contraseña] [-token JWT]
  logout
  whoami
  vender    vista del vendedor (VENDEDOR, ADMIN)
  caja      vista de caja (CAJERO, ADMIN)
  reporte   ingresos|metodos -desde AAAA-MM-DD -hasta AAAA-MM-DD [-detallado] [-o archivo.pdf]
  consola   API HTTP local con las vistas del dashboard
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	os.Exit(execute(cfg, log, os.Args[1], os.Args[2:]))
}

// execute corre la orden y devuelve el código de salida; los recursos se
// liberan antes de salir.
func execute(cfg *config.Config, log *logger.Logger, name string, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := wire(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("inicializar cliente")
		return 1
	}
	defer a.close()

	if err := run(ctx, a, name, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		log.Debug().Err(err).Str("orden", name).Msg("orden fallida")
		a.console.Notify(err)
		return 1
	}
	return 0
}

func run(ctx context.Context, a *app, name string, args []string) error {
	switch name {
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		a.console.Printf("Sesión cerrada\n")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "vender":
		return a.sell(ctx)
	case "caja":
		return a.collect(ctx)
	case "reporte":
		return a.report(ctx, args)
	case "consola":
		return a.serveConsole(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return flag.ErrHelp
}
