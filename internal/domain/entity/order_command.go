package entity

import "time"

// Estado inicial de toda orden recibida.
const OrderStatusPending = "PENDING"

// OrderCommand representa una orden de reabastecimiento recibida por el
// sistema de pedidos (tabla orders). CommandID y OrderID son claves únicas
// globales usadas para deduplicación: una violación de unicidad se trata
// como duplicado, no como error.
type OrderCommand struct {
	OrderID               string
	CommandID             string
	HospitalID            string
	ProductCode           string
	OrderQuantity         int
	Priority              string
	Status                string
	EstimatedDeliveryDate time.Time
	WarehouseID           string
	CreatedAt             time.Time
}
