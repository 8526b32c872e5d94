package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-supply-chain/internal/application/report"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// fakeEventLog sirve registros precargados por canal, ya ordenados por
// latencia como lo hace el repositorio real.
type fakeEventLog struct {
	byChannel map[string][]entity.EventLogRecord
}

func (f *fakeEventLog) Append(_ context.Context, r *entity.EventLogRecord) error {
	if f.byChannel == nil {
		f.byChannel = make(map[string][]entity.EventLogRecord)
	}
	f.byChannel[r.Channel] = append(f.byChannel[r.Channel], *r)
	return nil
}

func (f *fakeEventLog) ListByChannel(_ context.Context, channel string, _ time.Time) ([]entity.EventLogRecord, error) {
	return f.byChannel[channel], nil
}

func registros(channel string, status string, latencias ...int64) []entity.EventLogRecord {
	out := make([]entity.EventLogRecord, 0, len(latencias))
	for _, l := range latencias {
		l := l
		out = append(out, entity.EventLogRecord{
			Channel:   channel,
			Status:    status,
			LatencyMs: &l,
			Timestamp: time.Now(),
		})
	}
	return out
}

// TestPercentile cubre la regla de índice len*pct/100 recortado al último
// elemento, sobre latencias ya ordenadas.
func TestPercentile(t *testing.T) {
	sorted := []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	assert.Equal(t, int64(60), report.Percentile(sorted, 50), "p50 de 10 elementos usa el índice 5")
	assert.Equal(t, int64(100), report.Percentile(sorted, 95), "p95 de 10 elementos se recorta al último")
	assert.Equal(t, int64(100), report.Percentile(sorted, 99))
	assert.Equal(t, int64(10), report.Percentile(sorted, 0))
	assert.Equal(t, int64(0), report.Percentile(nil, 95), "sin datos el percentil es 0")
	assert.Equal(t, int64(7), report.Percentile([]int64{7}, 99), "un solo elemento domina todos los percentiles")
}

// TestChannelMetrics_Agregados verifica conteos, tasa de éxito, extremos y
// percentiles de un canal con éxitos y fallas mezclados.
func TestChannelMetrics_Agregados(t *testing.T) {
	eventLog := &fakeEventLog{byChannel: map[string][]entity.EventLogRecord{}}
	exitos := registros(entity.ChannelRPC, entity.StatusSuccess, 100, 150, 200, 250)
	fallas := registros(entity.ChannelRPC, entity.StatusFailure, 30000)
	eventLog.byChannel[entity.ChannelRPC] = append(exitos, fallas...)

	svc := report.NewService(eventLog, nil)
	m, err := svc.ChannelMetrics(context.Background(), entity.ChannelRPC, 24)

	require.NoError(t, err)
	assert.Equal(t, 5, m.TotalRequests)
	assert.Equal(t, 4, m.SuccessfulRequests)
	assert.Equal(t, 1, m.FailedRequests)
	assert.InDelta(t, 80.0, m.SuccessRate, 0.001)

	assert.Equal(t, int64(100), m.Latency.Min, "las fallas no aportan a los percentiles")
	assert.Equal(t, int64(250), m.Latency.Max)
	assert.InDelta(t, 175.0, m.Latency.Avg, 0.001)
	assert.Equal(t, int64(200), m.Latency.P50)
	assert.Equal(t, int64(250), m.Latency.P95)
}

// TestChannelMetrics_CanalVacio verifica que un canal sin tráfico produce un
// reporte en ceros sin error.
func TestChannelMetrics_CanalVacio(t *testing.T) {
	svc := report.NewService(&fakeEventLog{}, nil)
	m, err := svc.ChannelMetrics(context.Background(), entity.ChannelEvent, 24)

	require.NoError(t, err)
	assert.Equal(t, 0, m.TotalRequests)
	assert.Equal(t, float64(0), m.SuccessRate)
	assert.Equal(t, int64(0), m.Latency.P95)
}

// TestCompare_MejoraPorcentualDelP95 verifica la comparación entre canales:
// un canal de eventos más rápido produce una mejora porcentual positiva.
func TestCompare_MejoraPorcentualDelP95(t *testing.T) {
	eventLog := &fakeEventLog{byChannel: map[string][]entity.EventLogRecord{
		entity.ChannelRPC:   registros(entity.ChannelRPC, entity.StatusSuccess, 100, 200, 300, 400),
		entity.ChannelEvent: registros(entity.ChannelEvent, entity.StatusSuccess, 10, 20, 30, 40),
	}}

	svc := report.NewService(eventLog, nil)
	cmp, err := svc.Compare(context.Background(), 24)

	require.NoError(t, err)
	assert.Equal(t, int64(400), cmp.RPC.Latency.P95)
	assert.Equal(t, int64(40), cmp.Event.Latency.P95)
	assert.InDelta(t, 90.0, cmp.P95ImprovementPct, 0.001,
		"(400-40)/400 = 90% de mejora del canal de eventos")
}

// TestCompare_SinTraficoRPCNoDividePorCero verifica que sin datos del canal
// RPC la mejora queda en 0 en lugar de dividir por cero.
func TestCompare_SinTraficoRPCNoDividePorCero(t *testing.T) {
	eventLog := &fakeEventLog{byChannel: map[string][]entity.EventLogRecord{
		entity.ChannelEvent: registros(entity.ChannelEvent, entity.StatusSuccess, 10, 20),
	}}

	svc := report.NewService(eventLog, nil)
	cmp, err := svc.Compare(context.Background(), 24)

	require.NoError(t, err)
	assert.Equal(t, float64(0), cmp.P95ImprovementPct)
}
