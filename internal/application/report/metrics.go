// Package report calcula métricas de latencia por canal a partir de la traza
// de auditoría, para comparar la ruta RPC contra la ruta de eventos.
package report

import (
	"context"
	"math"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

// LatencyStats percentiles y extremos de latencia en milisegundos.
type LatencyStats struct {
	Min int64   `json:"min"`
	Max int64   `json:"max"`
	Avg float64 `json:"avg"`
	P50 int64   `json:"p50"`
	P95 int64   `json:"p95"`
	P99 int64   `json:"p99"`
}

// ChannelMetrics métricas agregadas de un canal en una ventana de horas.
type ChannelMetrics struct {
	Channel            string       `json:"channel"`
	PeriodHours        int          `json:"period_hours"`
	TotalRequests      int          `json:"total_requests"`
	SuccessfulRequests int          `json:"successful_requests"`
	FailedRequests     int          `json:"failed_requests"`
	SuccessRate        float64      `json:"success_rate"`
	Latency            LatencyStats `json:"latency"`
	RequestsPerHour    float64      `json:"requests_per_hour"`
	RequestsPerMinute  float64      `json:"requests_per_minute"`
}

// Comparison compara el p95 de ambos canales.
type Comparison struct {
	RPC               *ChannelMetrics `json:"rpc"`
	Event             *ChannelMetrics `json:"event"`
	P95ImprovementPct float64         `json:"p95_improvement_pct"`
}

// Service calcula las métricas leyendo la traza de auditoría.
type Service struct {
	eventRepo repository.EventLogRepository
	now       func() time.Time
}

// NewService construye el servicio de reporte. now se inyecta para tests.
func NewService(eventRepo repository.EventLogRepository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{eventRepo: eventRepo, now: now}
}

// ChannelMetrics agrega las latencias de un canal en la ventana dada.
// Solo las filas SUCCESS aportan a los percentiles; todas cuentan para la
// tasa de éxito.
func (s *Service) ChannelMetrics(ctx context.Context, channel string, hours int) (*ChannelMetrics, error) {
	since := s.now().Add(-time.Duration(hours) * time.Hour)
	records, err := s.eventRepo.ListByChannel(ctx, channel, since)
	if err != nil {
		return nil, err
	}

	m := &ChannelMetrics{Channel: channel, PeriodHours: hours, TotalRequests: len(records)}
	if len(records) == 0 {
		return m, nil
	}

	var latencies []int64
	for _, rec := range records {
		if rec.Status == entity.StatusSuccess && rec.LatencyMs != nil {
			latencies = append(latencies, *rec.LatencyMs)
		}
	}
	m.SuccessfulRequests = len(latencies)
	m.FailedRequests = m.TotalRequests - m.SuccessfulRequests
	m.SuccessRate = round2(float64(m.SuccessfulRequests) / float64(m.TotalRequests) * 100)
	m.RequestsPerHour = round2(float64(m.TotalRequests) / float64(hours))
	m.RequestsPerMinute = round2(float64(m.TotalRequests) / float64(hours*60))

	if len(latencies) == 0 {
		return m, nil
	}

	var sum int64
	min, max := latencies[0], latencies[0]
	for _, l := range latencies {
		sum += l
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	m.Latency = LatencyStats{
		Min: min,
		Max: max,
		Avg: round2(float64(sum) / float64(len(latencies))),
		P50: Percentile(latencies, 50),
		P95: Percentile(latencies, 95),
		P99: Percentile(latencies, 99),
	}
	return m, nil
}

// Compare calcula las métricas de ambos canales y la mejora porcentual del
// p95 del canal de eventos frente al RPC.
func (s *Service) Compare(ctx context.Context, hours int) (*Comparison, error) {
	rpc, err := s.ChannelMetrics(ctx, entity.ChannelRPC, hours)
	if err != nil {
		return nil, err
	}
	event, err := s.ChannelMetrics(ctx, entity.ChannelEvent, hours)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{RPC: rpc, Event: event}
	if rpc.Latency.P95 > 0 {
		cmp.P95ImprovementPct = round2(float64(rpc.Latency.P95-event.Latency.P95) / float64(rpc.Latency.P95) * 100)
	}
	return cmp, nil
}

// Percentile devuelve el valor del percentil dado sobre latencias ya
// ordenadas ascendentemente (índice len*p/100, recortado al último elemento).
func Percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * pct / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
