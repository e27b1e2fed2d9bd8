package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/stylashop-pos/internal/devbackend"
	infrapdf "github.com/jhoicas/stylashop-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/stylashop-pos/pkg/config"
	"github.com/jhoicas/stylashop-pos/pkg/logger"
)

// devSecret firma local cuando JWT_SECRET no está definido fuera de producción.
const devSecret = "stylashop-dev-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	secret := cfg.JWT.Secret
	if secret == "" {
		if cfg.App.Env == "production" {
			log.Fatal().Msg("JWT_SECRET es obligatorio en producción")
		}
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
		secret = devSecret
	}

	srv, err := devbackend.New(devbackend.Config{
		AppName: cfg.App.Name + " (dev)",
		JWT: devbackend.JWTConfig{
			Secret:     secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		Seed: true,
	}, infrapdf.NewMarotoPDFGenerator(cfg.App.Name), log.Component("devbackend"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar backend de desarrollo")
	}

	log.Info().
		Str("addr", cfg.DevBackend.Addr()).
		Str("password", devbackend.SeedPassword).
		Msg("backend de desarrollo con usuarios admin, vendedor y cajero")

	go func() {
		if err := srv.App.Listen(cfg.DevBackend.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.App.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("backend de desarrollo detenido")
}
