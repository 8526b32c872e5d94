package soap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/soap"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
	"github.com/jhoicas/hospital-supply-chain/pkg/retry"
)

// fakeEventLog acumula los registros de auditoría en memoria.
type fakeEventLog struct {
	records []entity.EventLogRecord
}

func (f *fakeEventLog) Append(_ context.Context, r *entity.EventLogRecord) error {
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeEventLog) ListByChannel(_ context.Context, _ string, _ time.Time) ([]entity.EventLogRecord, error) {
	return f.records, nil
}

// noSleep registra las esperas solicitadas sin dormir.
func noSleep(recorded *[]time.Duration) retry.SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func successEnvelope(t *testing.T) []byte {
	t.Helper()
	raw, err := soap.BuildResponse(entity.ParsedResponse{
		Success:        true,
		Message:        "replenishment order created",
		OrderTriggered: true,
		OrderID:        "ORD-deadbeef00112233",
	})
	require.NoError(t, err)
	return raw
}

func newClient(url string, eventLog *fakeEventLog, sleeps *[]time.Duration) *soap.Client {
	return soap.NewClient(
		soap.ClientConfig{URL: url, Timeout: 2 * time.Second},
		eventLog, logger.Nop(), noSleep(sleeps), nil,
	)
}

// TestDispatch_ExitoAlPrimerIntento verifica el camino feliz: un 200 con
// envelope válido produce éxito en 1 intento, sin esperas, con la respuesta
// parseada y exactamente un registro SUCCESS en la traza.
func TestDispatch_ExitoAlPrimerIntento(t *testing.T) {
	env := successEnvelope(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, soap.ContentTypeXML, r.Header.Get("Content-Type"))
		assert.Equal(t, soap.ActionStockUpdate, r.Header.Get("SOAPAction"))
		w.Header().Set("Content-Type", soap.ContentTypeXML)
		w.Write(env)
	}))
	defer srv.Close()

	eventLog := &fakeEventLog{}
	var sleeps []time.Duration
	result := newClient(srv.URL, eventLog, &sleeps).Dispatch(context.Background(), snapshotDePrueba(), 3)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, sleeps)
	require.NotNil(t, result.ResponsePayload)
	assert.True(t, result.ResponsePayload.OrderTriggered)
	assert.Equal(t, "ORD-deadbeef00112233", result.ResponsePayload.OrderID)

	require.Len(t, eventLog.records, 1, "cada desenlace terminal deja exactamente un registro")
	rec := eventLog.records[0]
	assert.Equal(t, entity.ChannelRPC, rec.Channel)
	assert.Equal(t, entity.DirectionOutgoing, rec.Direction)
	assert.Equal(t, entity.StatusSuccess, rec.Status)
	assert.Equal(t, entity.EventTypeStockUpdateSent, rec.EventType)
}

// TestDispatch_RecuperaTrasDosFallas verifica la agenda de reintentos: dos
// 500 seguidos de un 200 producen éxito con 3 intentos y esperas de 5s y 15s.
func TestDispatch_RecuperaTrasDosFallas(t *testing.T) {
	env := successEnvelope(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(env)
	}))
	defer srv.Close()

	eventLog := &fakeEventLog{}
	var sleeps []time.Duration
	result := newClient(srv.URL, eventLog, &sleeps).Dispatch(context.Background(), snapshotDePrueba(), 3)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, []time.Duration{5 * time.Second, 15 * time.Second}, sleeps,
		"las esperas entre reintentos siguen la agenda 5s/15s")

	require.Len(t, eventLog.records, 1,
		"los intentos intermedios fallidos no dejan registro, solo el desenlace terminal")
	assert.Equal(t, entity.StatusSuccess, eventLog.records[0].Status)
}

// TestDispatch_AgotaReintentos verifica que una falla persistente agota los 3
// intentos y deja exactamente un registro FAILURE con el último error.
func TestDispatch_AgotaReintentos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	eventLog := &fakeEventLog{}
	var sleeps []time.Duration
	result := newClient(srv.URL, eventLog, &sleeps).Dispatch(context.Background(), snapshotDePrueba(), 3)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Contains(t, result.Error, "HTTP 503")
	assert.Len(t, sleeps, 2, "no se duerme tras el intento final")

	require.Len(t, eventLog.records, 1)
	rec := eventLog.records[0]
	assert.Equal(t, entity.StatusFailure, rec.Status)
	assert.Contains(t, rec.ErrorMessage, "HTTP 503")
}

// TestDispatch_RespuestaMalformadaNoReintenta verifica la distinción clave:
// un 200 con body inleíble es una entrega exitosa con falla semántica, en un
// solo intento y sin reintentos.
func TestDispatch_RespuestaMalformadaNoReintenta(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte("esto no es un envelope SOAP"))
	}))
	defer srv.Close()

	eventLog := &fakeEventLog{}
	var sleeps []time.Duration
	result := newClient(srv.URL, eventLog, &sleeps).Dispatch(context.Background(), snapshotDePrueba(), 3)

	assert.True(t, result.Success, "la entrega fue exitosa aunque la respuesta sea inleíble")
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, int32(1), hits.Load(), "un body malformado no dispara reintentos")
	assert.Empty(t, sleeps)

	require.NotNil(t, result.ResponsePayload)
	assert.False(t, result.ResponsePayload.Success, "el contenido parseado refleja la falla semántica")
	assert.Contains(t, result.ResponsePayload.Message, "parse error")
}

// TestDispatch_FallaDeConexion verifica que un destino inalcanzable agota los
// reintentos y reporta el error de transporte.
func TestDispatch_FallaDeConexion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // puerto cerrado a propósito

	eventLog := &fakeEventLog{}
	var sleeps []time.Duration
	result := newClient(srv.URL, eventLog, &sleeps).Dispatch(context.Background(), snapshotDePrueba(), 3)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Contains(t, result.Error, "transporte")
	require.Len(t, eventLog.records, 1)
	assert.Equal(t, entity.StatusFailure, eventLog.records[0].Status)
}
