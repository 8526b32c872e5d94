package soap_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/infrastructure/soap"
)

func snapshotDePrueba() *entity.StockSnapshot {
	return &entity.StockSnapshot{
		HospitalID:            "Hospital-C",
		ProductCode:           "PHYSIO-SALINE-500ML",
		CurrentStockUnits:     180,
		DailyConsumptionUnits: 100,
		DaysOfSupply:          decimal.RequireFromString("1.8"),
	}
}

// ── request ───────────────────────────────────────────────────────────────────

// TestBuildRequest_ParseRequest_RoundTrip verifica que el envelope generado por
// el cliente es legible por el parser del servidor, con daysOfSupply en
// exactamente 2 decimales y timestamp ISO-8601.
func TestBuildRequest_ParseRequest_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	raw, err := soap.BuildRequest(snapshotDePrueba(), at)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<?xml", "el envelope lleva declaración XML")
	assert.Contains(t, string(raw), soap.NsTns, "el envelope declara el namespace del servicio")

	req, err := soap.ParseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "Hospital-C", req.HospitalID)
	assert.Equal(t, "PHYSIO-SALINE-500ML", req.ProductCode)
	assert.Equal(t, 180, req.CurrentStockUnits)
	assert.Equal(t, 100, req.DailyConsumptionUnits)
	assert.Equal(t, "1.80", req.DaysOfSupply, "daysOfSupply viaja con exactamente 2 decimales")
	assert.Equal(t, "2026-03-15T14:30:00Z", req.Timestamp)
}

// TestParseRequest_PrefijoDeNamespaceAjeno verifica que el parser del servidor
// tolera cualquier prefijo de namespace elegido por el cliente.
func TestParseRequest_PrefijoDeNamespaceAjeno(t *testing.T) {
	raw := `<?xml version="1.0"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"
                  xmlns:ns1="` + soap.NsTns + `">
  <soapenv:Body>
    <ns1:StockUpdateRequest>
      <ns1:hospitalId>Hospital-C</ns1:hospitalId>
      <ns1:productCode>PHYSIO-SALINE-500ML</ns1:productCode>
      <ns1:currentStockUnits>95</ns1:currentStockUnits>
      <ns1:dailyConsumptionUnits>100</ns1:dailyConsumptionUnits>
      <ns1:daysOfSupply>0.95</ns1:daysOfSupply>
      <ns1:timestamp>2026-03-15T14:30:00Z</ns1:timestamp>
    </ns1:StockUpdateRequest>
  </soapenv:Body>
</soapenv:Envelope>`

	req, err := soap.ParseRequest([]byte(raw))
	require.NoError(t, err, "el prefijo del namespace no debe importar")
	assert.Equal(t, "Hospital-C", req.HospitalID)
	assert.Equal(t, 95, req.CurrentStockUnits)
	assert.Equal(t, "0.95", req.DaysOfSupply)
}

func TestParseRequest_MalformadoRetornaError(t *testing.T) {
	_, err := soap.ParseRequest([]byte("esto no es XML <<<"))
	assert.Error(t, err)

	_, err = soap.ParseRequest([]byte(""))
	assert.Error(t, err, "un documento vacío no tiene elemento raíz")

	_, err = soap.ParseRequest([]byte(`<?xml version="1.0"?><otro/>`))
	assert.Error(t, err, "un envelope sin StockUpdateRequest es inválido")
}

// ── response ──────────────────────────────────────────────────────────────────

// TestBuildResponse_ParseResponse_RoundTrip verifica el ciclo completo de la
// respuesta con orden disparada.
func TestBuildResponse_ParseResponse_RoundTrip(t *testing.T) {
	raw, err := soap.BuildResponse(entity.ParsedResponse{
		Success:        true,
		Message:        "replenishment order created",
		OrderTriggered: true,
		OrderID:        "ORD-1a2b3c4d5e6f7a8b",
	})
	require.NoError(t, err)

	parsed := soap.ParseResponse(raw)
	assert.True(t, parsed.Success)
	assert.True(t, parsed.OrderTriggered)
	assert.Equal(t, "replenishment order created", parsed.Message)
	assert.Equal(t, "ORD-1a2b3c4d5e6f7a8b", parsed.OrderID)
}

// TestBuildResponse_OmiteOrderIdVacio verifica que sin orden el elemento
// orderId no aparece en el envelope.
func TestBuildResponse_OmiteOrderIdVacio(t *testing.T) {
	raw, err := soap.BuildResponse(entity.ParsedResponse{
		Success: true,
		Message: "stock update acknowledged, no order required",
	})
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "orderId"),
		"sin orden disparada el envelope no lleva orderId")

	parsed := soap.ParseResponse(raw)
	assert.True(t, parsed.Success)
	assert.False(t, parsed.OrderTriggered)
	assert.Empty(t, parsed.OrderID)
}

// TestParseResponse_MalformadoNuncaFalla verifica que una respuesta inleíble
// degrada a un ParsedResponse de falla con mensaje diagnóstico, sin error ni
// pánico.
func TestParseResponse_MalformadoNuncaFalla(t *testing.T) {
	casos := []struct {
		nombre string
		raw    string
	}{
		{"basura", "esto no es XML <<<"},
		{"vacío", ""},
		{"truncado", `<?xml version="1.0"?><soap:Envelope`},
	}
	for _, c := range casos {
		parsed := soap.ParseResponse([]byte(c.raw))
		assert.False(t, parsed.Success, "caso %s: un documento malformado nunca es éxito", c.nombre)
		assert.False(t, parsed.OrderTriggered, "caso %s", c.nombre)
		assert.Contains(t, parsed.Message, "parse error", "caso %s: el mensaje debe ser diagnóstico", c.nombre)
	}
}

// TestParseResponse_ElementosAusentesDegradanACero verifica que un envelope
// válido pero incompleto produce los valores cero de cada campo.
func TestParseResponse_ElementosAusentesDegradanACero(t *testing.T) {
	raw := `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body><otraCosa/></soap:Body>
</soap:Envelope>`

	parsed := soap.ParseResponse([]byte(raw))
	assert.False(t, parsed.Success)
	assert.Empty(t, parsed.Message)
	assert.False(t, parsed.OrderTriggered)
	assert.Empty(t, parsed.OrderID)
}
