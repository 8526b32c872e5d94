package main

import (
	"context"
	"errors"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-supply-chain/internal/application/monitor"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/events"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/postgres"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/soap"
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
		Service: "monitor",
	})
	log.Info().
		Str("hospital_id", cfg.App.HospitalID).
		Str("product_code", cfg.Monitor.ProductCode).
		Dur("tick_interval", cfg.Monitor.TickInterval).
		Msg("iniciando monitor de stock")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stockRepo := postgres.NewStockRepository(pool)
	consumptionRepo := postgres.NewConsumptionRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	eventLogRepo := postgres.NewEventLogRepository(pool)

	simulator := monitor.NewSimulator(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
	evaluator := monitor.NewEvaluator(
		cfg.App.HospitalID, cfg.Monitor.ProductCode,
		decimal.NewFromFloat(cfg.Monitor.Threshold),
		stockRepo, alertRepo, log,
	)

	dispatcher := soap.NewClient(soap.ClientConfig{
		URL:     cfg.Monitor.SOAPURL,
		Action:  cfg.Monitor.SOAPAction,
		Timeout: cfg.Monitor.SOAPTimeout,
	}, eventLogRepo, log, nil, nil)

	publisher := events.NewPublisher(events.PublisherConfig{
		URL:       cfg.Monitor.EventURL,
		Threshold: cfg.Monitor.Threshold,
		Deadline:  cfg.Monitor.EventTimeout,
	}, eventLogRepo, log, nil)

	coordinator := monitor.NewCoordinator(dispatcher, publisher, cfg.Monitor.MaxAttempts, log)

	loop := monitor.NewLoop(monitor.LoopDeps{
		HospitalID:      cfg.App.HospitalID,
		ProductCode:     cfg.Monitor.ProductCode,
		Interval:        cfg.Monitor.TickInterval,
		Simulator:       simulator,
		StockRepo:       stockRepo,
		ConsumptionRepo: consumptionRepo,
		Evaluator:       evaluator,
		Coordinator:     coordinator,
		Log:             log,
	})

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("loop de monitoreo finalizado con error")
	}
	log.Info().Msg("monitor detenido")
}
