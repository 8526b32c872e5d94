package soap

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// Namespaces y acción del servicio de actualización de stock.
const (
	NsSoap = "http://schemas.xmlsoap.org/soap/envelope/"
	NsTns  = "http://hospital-supply-chain.example.com/soap/stock"

	// ActionStockUpdate es el identificador de acción del header SOAPAction.
	ActionStockUpdate = NsTns + "/StockUpdate"

	// ContentTypeXML es el content-type del canal RPC.
	ContentTypeXML = "text/xml; charset=utf-8"
)

// ── Request ───────────────────────────────────────────────────────────────────

// StockUpdateRequest es el cuerpo del request de actualización de stock.
// daysOfSupply viaja como texto con exactamente 2 decimales; timestamp en
// ISO-8601.
type StockUpdateRequest struct {
	HospitalID            string
	ProductCode           string
	CurrentStockUnits     int
	DailyConsumptionUnits int
	DaysOfSupply          string
	Timestamp             string
}

type requestEnvelope struct {
	XMLName   xml.Name    `xml:"soap:Envelope"`
	XmlnsSoap string      `xml:"xmlns:soap,attr"`
	XmlnsTns  string      `xml:"xmlns:tns,attr"`
	Body      requestBody `xml:"soap:Body"`
}

type requestBody struct {
	Request requestContent `xml:"tns:StockUpdateRequest"`
}

type requestContent struct {
	HospitalID            string `xml:"tns:hospitalId"`
	ProductCode           string `xml:"tns:productCode"`
	CurrentStockUnits     string `xml:"tns:currentStockUnits"`
	DailyConsumptionUnits string `xml:"tns:dailyConsumptionUnits"`
	DaysOfSupply          string `xml:"tns:daysOfSupply"`
	Timestamp             string `xml:"tns:timestamp"`
}

// BuildRequest serializa el snapshot en el envelope SOAP del request.
func BuildRequest(snapshot *entity.StockSnapshot, at time.Time) ([]byte, error) {
	env := requestEnvelope{
		XmlnsSoap: NsSoap,
		XmlnsTns:  NsTns,
		Body: requestBody{
			Request: requestContent{
				HospitalID:            snapshot.HospitalID,
				ProductCode:           snapshot.ProductCode,
				CurrentStockUnits:     strconv.Itoa(snapshot.CurrentStockUnits),
				DailyConsumptionUnits: strconv.Itoa(snapshot.DailyConsumptionUnits),
				DaysOfSupply:          snapshot.DaysOfSupply.StringFixed(2),
				Timestamp:             at.Format(time.RFC3339),
			},
		},
	}

	payload, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("soap: serializar request: %w", err)
	}
	return append([]byte(xml.Header), payload...), nil
}

// ParseRequest extrae el contenido del envelope del request (lado servidor),
// tolerante al prefijo de namespace usado por el cliente.
func ParseRequest(raw []byte) (*StockUpdateRequest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("soap: parsear request: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("soap: request sin elemento raíz")
	}
	if findLocal(root, "StockUpdateRequest") == nil {
		return nil, fmt.Errorf("soap: falta StockUpdateRequest en el body")
	}

	current, _ := strconv.Atoi(findText(root, "currentStockUnits"))
	daily, _ := strconv.Atoi(findText(root, "dailyConsumptionUnits"))

	return &StockUpdateRequest{
		HospitalID:            findText(root, "hospitalId"),
		ProductCode:           findText(root, "productCode"),
		CurrentStockUnits:     current,
		DailyConsumptionUnits: daily,
		DaysOfSupply:          findText(root, "daysOfSupply"),
		Timestamp:             findText(root, "timestamp"),
	}, nil
}

// ── Response ──────────────────────────────────────────────────────────────────

type responseEnvelope struct {
	XMLName   xml.Name     `xml:"soap:Envelope"`
	XmlnsSoap string       `xml:"xmlns:soap,attr"`
	XmlnsTns  string       `xml:"xmlns:tns,attr"`
	Body      responseBody `xml:"soap:Body"`
}

type responseBody struct {
	Response responseContent `xml:"tns:StockUpdateResponse"`
}

type responseContent struct {
	Success        string  `xml:"tns:success"`
	Message        string  `xml:"tns:message"`
	OrderTriggered string  `xml:"tns:orderTriggered"`
	OrderID        *string `xml:"tns:orderId,omitempty"`
}

// BuildResponse serializa la respuesta del servicio (lado servidor).
// orderId se omite cuando está vacío.
func BuildResponse(resp entity.ParsedResponse) ([]byte, error) {
	content := responseContent{
		Success:        strconv.FormatBool(resp.Success),
		Message:        resp.Message,
		OrderTriggered: strconv.FormatBool(resp.OrderTriggered),
	}
	if resp.OrderID != "" {
		content.OrderID = &resp.OrderID
	}

	env := responseEnvelope{
		XmlnsSoap: NsSoap,
		XmlnsTns:  NsTns,
		Body:      responseBody{Response: content},
	}
	payload, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("soap: serializar response: %w", err)
	}
	return append([]byte(xml.Header), payload...), nil
}

// ParseResponse extrae {success, message, orderTriggered, orderId} del
// envelope de respuesta. La ausencia de un elemento esperado degrada a
// false/vacío; un documento malformado devuelve un ParsedResponse de falla
// con mensaje diagnóstico. Nunca devuelve error.
func ParseResponse(raw []byte) entity.ParsedResponse {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return entity.ParsedResponse{
			Success:        false,
			Message:        fmt.Sprintf("parse error: %v", err),
			OrderTriggered: false,
		}
	}
	root := doc.Root()
	if root == nil {
		return entity.ParsedResponse{Message: "parse error: documento vacío"}
	}

	return entity.ParsedResponse{
		Success:        strings.EqualFold(findText(root, "success"), "true"),
		Message:        findText(root, "message"),
		OrderTriggered: strings.EqualFold(findText(root, "orderTriggered"), "true"),
		OrderID:        findText(root, "orderId"),
	}
}

// findLocal busca en profundidad el primer elemento cuyo tag local coincida,
// sin importar el prefijo de namespace.
func findLocal(e *etree.Element, tag string) *etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findLocal(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func findText(root *etree.Element, tag string) string {
	if el := findLocal(root, tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
