package postgres

import (
	"context"
	"fmt"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay Update ni Delete.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador del journal. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste una entrada del journal.
func (r *AuditRepo) Create(l *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, user_name, action_type, entity_type, entity_id, site, reason, details, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10)`
	var details any
	if len(l.Details) > 0 {
		details = []byte(l.Details)
	}
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.UserID, l.UserName, l.ActionType, l.EntityType,
		l.EntityID, l.Site, l.Reason, details, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List devuelve las entradas filtradas, más reciente primero.
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, COALESCE(user_id::text, ''), user_name, action_type, entity_type,
		       entity_id, site, reason, COALESCE(details, 'null'::jsonb), created_at
		FROM audit_logs
		WHERE 1=1`
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.ActionType != "" {
		add("action_type = $%d", f.ActionType)
	}
	if f.EntityType != "" {
		add("entity_type = $%d", f.EntityType)
	}
	if f.Site != "" {
		add("site = $%d", f.Site)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND (user_name ILIKE $%d OR entity_id ILIKE $%d OR reason ILIKE $%d)",
			len(args), len(args), len(args))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var details []byte
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.UserName, &l.ActionType, &l.EntityType,
			&l.EntityID, &l.Site, &l.Reason, &details, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.Details = details
		out = append(out, &l)
	}
	return out, rows.Err()
}
