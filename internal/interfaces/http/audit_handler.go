package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
)

// AuditHandler expone el diario de auditoría (solo lectura).
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Diario de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action_type  query  string  false  "CREATE | UPDATE | DELETE | LOGIN"
// @Param        entity_type  query  string  false  "PRODUCT | NEEDS_REQUEST | STOCK_MOVEMENT | USER | CATEGORY"
// @Param        site         query  string  false  "abidjan | bassam"
// @Param        search       query  string  false  "busca en usuario, entidad y motivo"
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditListQuery
	if !parseQuery(c, &q) {
		return nil
	}
	out, err := h.uc.List(q)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
