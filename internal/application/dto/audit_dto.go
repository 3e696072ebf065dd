package dto

import (
	"encoding/json"
	"time"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// AuditListQuery filtros del diario de auditoría.
type AuditListQuery struct {
	DateRangeQuery
	ActionType string `query:"action_type"`
	EntityType string `query:"entity_type"`
	Site       string `query:"site"`
	Search     string `query:"search"`
	Limit      int    `query:"limit"`
}

// AuditLogResponse entrada del diario de auditoría.
type AuditLogResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name"`
	ActionType string          `json:"action_type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Site       string          `json:"site,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToAuditLogResponse mapea la entidad al DTO de salida.
func ToAuditLogResponse(l *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		UserName:   l.UserName,
		ActionType: l.ActionType,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Site:       l.Site,
		Reason:     l.Reason,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt,
	}
}
