package repository

import "github.com/nhr-resorts/gestion-api/internal/domain/entity"

// RevisionRepository puerto del registro estructurado de cambios de cantidad.
type RevisionRepository interface {
	Create(revision *entity.MovementRevision) error
	ListByMovement(movementID string) ([]*entity.MovementRevision, error)
	// Reassign re-apunta las revisiones de un movimiento reinsertado a su
	// nueva identidad (repli DELETE+INSERT).
	Reassign(oldMovementID, newMovementID string) error
}
