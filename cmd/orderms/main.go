package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/hospital-supply-chain/internal/application/orders"
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
		Service: "orderms",
	})
	log.Info().Str("hospital_id", cfg.App.HospitalID).Msg("iniciando OrderMS")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	guard := orders.NewIntakeGuard(cfg.App.HospitalID, txRunner, log)

	soapHandler := httpRouter.NewSOAPHandler(cfg.App.HospitalID, cfg.Monitor.Threshold, cfg.Order, guard, log)
	orderHandler := httpRouter.NewOrderHandler(guard, log)

	app := fiber.New(fiber.Config{
		AppName:      "orderms",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.RegisterOrderMS(app, httpRouter.OrderMSDeps{
		HospitalID:   cfg.App.HospitalID,
		SOAPHandler:  soapHandler,
		OrderHandler: orderHandler,
	})

	go func() {
		if err := app.Listen(cfg.OrderMS.Addr()); err != nil {
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
	log.Info().Msg("OrderMS detenido")
}
