package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-supply-chain/internal/application/dto"
)

// OrderMSDeps dependencias del servicio de pedidos.
type OrderMSDeps struct {
	HospitalID   string
	SOAPHandler  *SOAPHandler
	OrderHandler *OrderHandler
}

// RegisterOrderMS registra las rutas del servicio de pedidos: el endpoint
// SOAP, la ingesta JSON de órdenes y el health check.
func RegisterOrderMS(app *fiber.App, deps OrderMSDeps) {
	app.Post("/StockUpdateService", deps.SOAPHandler.StockUpdate)

	api := app.Group("/api")
	api.Post("/orders/receive", deps.OrderHandler.Receive)

	app.Get("/health", healthHandler("OrderMS", deps.HospitalID))
}

// StockMSDeps dependencias del servicio de stock.
type StockMSDeps struct {
	HospitalID   string
	EventHandler *EventHandler
}

// RegisterStockMS registra las rutas del servicio de stock: la ingesta de
// eventos, la consulta del ledger y el health check.
func RegisterStockMS(app *fiber.App, deps StockMSDeps) {
	api := app.Group("/api")
	api.Post("/events/publish", deps.EventHandler.Publish)
	api.Get("/stock", deps.EventHandler.Stock)

	app.Get("/health", healthHandler("StockMS", deps.HospitalID))
}

func healthHandler(serviceName, hospitalID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:      "UP",
			ServiceName: serviceName,
			HospitalID:  hospitalID,
			Timestamp:   float64(time.Now().UnixNano()) / 1e9,
		})
	}
}
