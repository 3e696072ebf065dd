package entity

import (
	"encoding/json"
	"time"
)

// Acciones y entidades auditables.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionLogin  = "LOGIN"

	AuditEntityStockMovement = "STOCK_MOVEMENT"
	AuditEntityNeedsRequest  = "NEEDS_REQUEST"
	AuditEntityProduct       = "PRODUCT"
	AuditEntityUser          = "USER"
	AuditEntityCategory      = "CATEGORY"
)

// AuditLog es un registro append-only escrito best-effort después de cada
// operación mutante. Details es un blob JSON estructurado; Reason duplica el
// motivo humano dentro de Details para sobrevivir a esquemas viejos.
type AuditLog struct {
	ID         string
	UserID     string
	UserName   string
	ActionType string
	EntityType string
	EntityID   string
	Site       string
	Reason     string
	Details    json.RawMessage
	CreatedAt  time.Time
}
