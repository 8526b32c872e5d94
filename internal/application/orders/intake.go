package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// IngestResult distingue el alta nueva, el no-op idempotente y el rechazo.
type IngestResult struct {
	Accepted  bool
	Duplicate bool
}

// IntakeGuard deduplica comandos de orden entrantes antes de escribir al
// almacén de órdenes. Es seguro llamarlo repetidamente con un comando
// idéntico: la reentrega de un request tras un timeout del cliente (cuando el
// primer intento sí llegó al servidor) no crea una segunda orden.
type IntakeGuard struct {
	hospitalID string
	tx         TxRunner
	log        *logger.Logger
	now        func() time.Time
}

// NewIntakeGuard construye el guard con la identidad configurada del nodo.
func NewIntakeGuard(hospitalID string, tx TxRunner, log *logger.Logger) *IntakeGuard {
	return &IntakeGuard{hospitalID: hospitalID, tx: tx, log: log, now: time.Now}
}

// Ingest aplica el protocolo de deduplicación, en este orden y gana la
// primera coincidencia:
//
//	(a) orderId ya presente   → {accepted:true, duplicate:true}, sin escritura
//	(b) commandId ya presente → {accepted:true, duplicate:true}, sin escritura
//	(c) inserción con estado PENDING + un EventLogRecord INCOMING
//
// Un hospitalId distinto al del nodo es rechazo duro (accepted:false), no
// duplicado. Toda la secuencia corre en una transacción; una violación de
// unicidad por carrera también se resuelve como duplicado.
// channel indica por cuál ruta llegó el comando (entity.ChannelRPC o
// entity.ChannelEvent) y queda en la traza de auditoría.
func (g *IntakeGuard) Ingest(ctx context.Context, cmd *entity.OrderCommand, channel string) (IngestResult, error) {
	if cmd.HospitalID != g.hospitalID {
		g.log.Warn().
			Str("order_id", cmd.OrderID).
			Str("hospital_id", cmd.HospitalID).
			Msg("comando rechazado: hospital equivocado")
		return IngestResult{Accepted: false}, domain.ErrWrongHospital
	}
	if cmd.OrderID == "" || cmd.CommandID == "" {
		return IngestResult{Accepted: false}, domain.ErrInvalidInput
	}

	var result IngestResult
	err := g.tx.Run(ctx, func(orderRepo repository.OrderRepository, eventRepo repository.EventLogRepository) error {
		if exists, err := orderRepo.ExistsByOrderID(ctx, cmd.OrderID); err != nil {
			return err
		} else if exists {
			result = IngestResult{Accepted: true, Duplicate: true}
			return nil
		}

		if exists, err := orderRepo.ExistsByCommandID(ctx, cmd.CommandID); err != nil {
			return err
		} else if exists {
			result = IngestResult{Accepted: true, Duplicate: true}
			return nil
		}

		cmd.Status = entity.OrderStatusPending
		if cmd.CreatedAt.IsZero() {
			cmd.CreatedAt = g.now()
		}
		if err := orderRepo.Create(ctx, cmd); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Carrera: otro comando idéntico ganó la inserción.
				result = IngestResult{Accepted: true, Duplicate: true}
				return nil
			}
			return err
		}

		payload, _ := json.Marshal(cmd)
		if err := eventRepo.Append(ctx, &entity.EventLogRecord{
			EventType: entity.EventTypeOrderCommandReceived,
			Direction: entity.DirectionIncoming,
			Channel:   channel,
			Payload:   string(payload),
			Status:    entity.StatusSuccess,
			Timestamp: g.now(),
		}); err != nil {
			return err
		}

		result = IngestResult{Accepted: true, Duplicate: false}
		return nil
	})
	if err != nil {
		return IngestResult{}, err
	}

	if result.Duplicate {
		g.log.Info().Str("order_id", cmd.OrderID).Msg("comando duplicado absorbido (no-op idempotente)")
	} else {
		g.log.Info().Str("order_id", cmd.OrderID).Msg("orden registrada")
	}
	return result, nil
}
