package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
)

// PurchaseHandler maneja las entradas por compra.
type PurchaseHandler struct {
	uc        *inventory.PurchaseUseCase
	movements *usecase.MovementUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.PurchaseUseCase, movements *usecase.MovementUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, movements: movements}
}

// Submit godoc
// @Summary      Registrar una compra multi-línea (todo o nada)
// @Description  Cada línea genera un movimiento IN; todas comparten la misma
// @Description  referencia PUR-xxxxxxx.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitPurchaseRequest  true  "sitio, nota y líneas"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitPurchaseRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Submit(c.Context(), GetActor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de compras agrupado por referencia
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        site        query  string  false  "abidjan | bassam"
// @Param        search      query  string  false  "texto libre: referencia, producto, nota"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if !parseQuery(c, &q) {
		return nil
	}
	out, err := h.movements.ListPurchases(GetActor(c), q)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
