package repository

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// AlertRepository define el puerto del registro de alertas (solo inserciones).
type AlertRepository interface {
	Append(ctx context.Context, alert *entity.Alert) error
}
