package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
)

// DashboardHandler expone el resumen operativo.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del día: stock por sitio, alertas y salidas recientes
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(GetActor(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
