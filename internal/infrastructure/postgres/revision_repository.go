package postgres

import (
	"context"
	"fmt"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

var _ repository.RevisionRepository = (*RevisionRepo)(nil)

// RevisionRepo implementación del puerto RevisionRepository sobre PostgreSQL (usable con pool o tx).
type RevisionRepo struct {
	q Querier
}

// NewRevisionRepository construye el adaptador de revisiones. Pasar pool o tx (Querier).
func NewRevisionRepository(q Querier) *RevisionRepo {
	return &RevisionRepo{q: q}
}

// Create persiste una revisión de cantidad.
func (r *RevisionRepo) Create(rev *entity.MovementRevision) error {
	query := `
		INSERT INTO movement_revisions (id, movement_id, actor_id, actor_name, old_quantity, new_quantity, stock_before, stock_after, reason, method, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		rev.ID, rev.MovementID, rev.ActorID, rev.ActorName,
		rev.OldQuantity, rev.NewQuantity, rev.StockBefore, rev.StockAfter,
		rev.Reason, rev.Method, rev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

// ListByMovement devuelve las revisiones de un movimiento en orden cronológico.
func (r *RevisionRepo) ListByMovement(movementID string) ([]*entity.MovementRevision, error) {
	query := `
		SELECT id, movement_id, actor_id, COALESCE(actor_name, ''), old_quantity, new_quantity,
		       stock_before, stock_after, reason, method, created_at
		FROM movement_revisions
		WHERE movement_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementRevision
	for rows.Next() {
		var rev entity.MovementRevision
		if err := rows.Scan(
			&rev.ID, &rev.MovementID, &rev.ActorID, &rev.ActorName,
			&rev.OldQuantity, &rev.NewQuantity, &rev.StockBefore, &rev.StockAfter,
			&rev.Reason, &rev.Method, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		out = append(out, &rev)
	}
	return out, rows.Err()
}

// Reassign re-apunta las revisiones de un movimiento reinsertado a su nueva
// identidad. Debe ejecutarse ANTES de borrar el movimiento original.
func (r *RevisionRepo) Reassign(oldMovementID, newMovementID string) error {
	if _, err := r.q.Exec(context.Background(),
		`UPDATE movement_revisions SET movement_id = $2 WHERE movement_id = $1`,
		oldMovementID, newMovementID); err != nil {
		return fmt.Errorf("reassign revisions: %w", err)
	}
	return nil
}
