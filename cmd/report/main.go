// Comando report imprime la comparación de latencias de las últimas 24 horas
// entre el canal RPC y el canal de eventos, a partir de la traza de auditoría.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jhoicas/hospital-supply-chain/internal/application/report"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/postgres"
	"github.com/jhoicas/hospital-supply-chain/pkg/config"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

func main() {
	hours := flag.Int("hours", 24, "ventana del reporte en horas")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn", Service: "report"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	svc := report.NewService(postgres.NewEventLogRepository(pool), nil)
	cmp, err := svc.Compare(ctx, *hours)
	if err != nil {
		log.Fatal().Err(err).Msg("calcular métricas")
	}

	fmt.Printf("Reporte de latencias (últimas %d horas)\n\n", *hours)
	printChannel("Canal RPC (SOAP)", cmp.RPC)
	printChannel("Canal de eventos", cmp.Event)

	if cmp.RPC.Latency.P95 > 0 {
		fmt.Printf("Comparación P95: RPC %dms vs eventos %dms (%.2f%%)\n",
			cmp.RPC.Latency.P95, cmp.Event.Latency.P95, cmp.P95ImprovementPct)
	}
}

func printChannel(title string, m *report.ChannelMetrics) {
	fmt.Println(title)
	if m.TotalRequests == 0 {
		fmt.Println("  sin datos en la ventana")
		fmt.Println()
		return
	}
	fmt.Printf("  requests: %d (éxito %.2f%%)\n", m.TotalRequests, m.SuccessRate)
	fmt.Printf("  latencia ms: min=%d avg=%.2f p50=%d p95=%d p99=%d max=%d\n",
		m.Latency.Min, m.Latency.Avg, m.Latency.P50, m.Latency.P95, m.Latency.P99, m.Latency.Max)
	fmt.Printf("  throughput: %.2f req/h, %.2f req/min\n", m.RequestsPerHour, m.RequestsPerMinute)
	fmt.Println()
}
