package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
)

// MovementHandler expone el libro de movimientos de stock.
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Historial de movimientos de stock
// @Description  Sin el permiso de historial completo solo se ven los
// @Description  movimientos propios.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        site        query  string  false  "abidjan | bassam"
// @Param        type        query  string  false  "IN | OUT | UPDATE"
// @Param        product_id  query  string  false  "filtro por producto"
// @Param        user_id     query  string  false  "filtro por autor"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if !parseQuery(c, &q) {
		return nil
	}
	out, err := h.uc.List(GetActor(c), q)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Revisions godoc
// @Summary      Historial de correcciones de un movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del movimiento"
// @Success      200  {array}  dto.RevisionResponse
// @Router       /api/movements/{id}/revisions [get]
func (h *MovementHandler) Revisions(c *fiber.Ctx) error {
	out, err := h.uc.Revisions(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
