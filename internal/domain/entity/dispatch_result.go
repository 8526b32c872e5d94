package entity

// ParsedResponse es el contenido extraído de una respuesta SOAP de
// actualización de stock. Ante un documento malformado los campos quedan en
// sus valores cero (success=false, orderTriggered=false, orderId vacío).
type ParsedResponse struct {
	Success        bool
	Message        string
	OrderTriggered bool
	OrderID        string
}

// DispatchResult es el resultado efímero de un envío por cualquiera de los
// dos canales. LatencyMs corresponde al intento final, no al acumulado.
type DispatchResult struct {
	Success         bool
	LatencyMs       int64
	Attempts        int
	Error           string
	ResponsePayload *ParsedResponse
}

// ComparisonSummary compara las latencias de ambos canales tras una ruptura.
// Es solo observacional: no influye en ningún flujo de control.
type ComparisonSummary struct {
	RPCLatencyMs   int64
	RPCSuccess     bool
	EventLatencyMs int64
	EventSuccess   bool
}
