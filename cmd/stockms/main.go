package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/hospital-supply-chain/internal/interfaces/http"
	"github.com/jhoicas/hospital-supply-chain/pkg/config"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "stockms",
	})
	log.Info().Str("hospital_id", cfg.App.HospitalID).Msg("iniciando StockMS")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stockRepo := postgres.NewStockRepository(pool)
	eventLogRepo := postgres.NewEventLogRepository(pool)

	eventHandler := httpRouter.NewEventHandler(
		cfg.App.HospitalID, cfg.Monitor.ProductCode,
		stockRepo, eventLogRepo, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      "stockms",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.RegisterStockMS(app, httpRouter.StockMSDeps{
		HospitalID:   cfg.App.HospitalID,
		EventHandler: eventHandler,
	})

	go func() {
		if err := app.Listen(cfg.StockMS.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("StockMS detenido")
}
