package repository

import (
	"time"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// AuditFilter filtros del visor del journal de auditoría.
type AuditFilter struct {
	ActionType string
	EntityType string
	Site       string
	Search     string // sobre user_name, entity_id y reason
	From       *time.Time
	To         *time.Time
	Limit      int
}

// AuditRepository puerto del journal append-only de auditoría.
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	List(f AuditFilter) ([]*entity.AuditLog, error)
}
