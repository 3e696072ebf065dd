package inventory

import (
	"context"

	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para los flujos que
// tocan ledger + contador + revisiones a la vez.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		revisionRepo repository.RevisionRepository,
		needsRepo repository.NeedsRepository,
	) error) error
}
