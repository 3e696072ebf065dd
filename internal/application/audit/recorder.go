// Package audit escribe el journal de auditoría en modo best-effort:
// un fallo al auditar nunca hace fallar la operación de negocio que lo originó.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
)

// Recorder escribe entradas de auditoría.
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Entry describe la operación a auditar. Details se serializa a JSON; si el
// mapa incluye "reason", el motivo también se copia a la columna dedicada.
type Entry struct {
	UserID     string
	UserName   string
	ActionType string
	EntityType string
	EntityID   string
	Site       string
	Reason     string
	Details    map[string]interface{}
}

// Record persiste la entrada. Nunca devuelve error: si la escritura falla se
// registra un warning y la operación de negocio sigue su curso.
func (r *Recorder) Record(e Entry) {
	var details json.RawMessage
	if e.Details != nil {
		if e.Reason != "" {
			e.Details["reason"] = e.Reason
		}
		b, err := json.Marshal(e.Details)
		if err != nil {
			r.log.Warn().Err(err).Str("action", e.ActionType).Msg("auditoría: details no serializable")
		} else {
			details = b
		}
	}
	log := &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     e.UserID,
		UserName:   e.UserName,
		ActionType: e.ActionType,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Site:       e.Site,
		Reason:     e.Reason,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := r.repo.Create(log); err != nil {
		r.log.Warn().Err(err).
			Str("action", e.ActionType).
			Str("entity", e.EntityType).
			Msg("auditoría: escritura fallida (ignorada)")
	}
}
