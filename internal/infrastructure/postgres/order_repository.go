package postgres

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo almacén de órdenes sobre PostgreSQL (usable con pool o tx).
// Las columnas order_id y command_id llevan constraint único: la inserción
// concurrente de un comando idéntico falla con 23505 y el guard la absorbe
// como duplicado.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// ExistsByOrderID verifica presencia de una orden por su orderId.
func (r *OrderRepo) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE order_id = $1)`, orderID)
}

// ExistsByCommandID verifica presencia de una orden por su commandId.
func (r *OrderRepo) ExistsByCommandID(ctx context.Context, commandID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE command_id = $1)`, commandID)
}

func (r *OrderRepo) exists(ctx context.Context, query, key string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, domain.NewStoreError("exists order", err)
	}
	return exists, nil
}

// Create inserta la orden con estado PENDING. Una violación de unicidad se
// devuelve como domain.ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, cmd *entity.OrderCommand) error {
	query := `
		INSERT INTO orders
		(order_id, command_id, hospital_id, product_code, order_quantity, priority, order_status, estimated_delivery_date, warehouse_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		cmd.OrderID, cmd.CommandID, cmd.HospitalID, cmd.ProductCode,
		cmd.OrderQuantity, cmd.Priority, cmd.Status, cmd.EstimatedDeliveryDate,
		cmd.WarehouseID, cmd.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.NewStoreError("create order", err)
	}
	return nil
}

// CountByOrderID cuenta filas para un orderId (verificación de idempotencia).
func (r *OrderRepo) CountByOrderID(ctx context.Context, orderID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE order_id = $1`, orderID).Scan(&count)
	if err != nil {
		return 0, domain.NewStoreError("count orders", err)
	}
	return count, nil
}
