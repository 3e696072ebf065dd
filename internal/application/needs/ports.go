package needs

import (
	"context"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// TicketPDFGenerator genera el bon de sortie imprimible.
type TicketPDFGenerator interface {
	GenerateTicket(ctx context.Context, request *entity.NeedsRequest) ([]byte, error)
}
