package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	appneeds "github.com/nhr-resorts/gestion-api/internal/application/needs"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
)

// NeedsHandler maneja los bons de sortie: creación, historial, anulación,
// corrección de cantidades y ticket PDF.
type NeedsHandler struct {
	uc      *appneeds.UseCase
	editQty *inventory.EditQuantityUseCase
	tickets appneeds.TicketPDFGenerator
}

// NewNeedsHandler construye el handler.
func NewNeedsHandler(uc *appneeds.UseCase, editQty *inventory.EditQuantityUseCase, tickets appneeds.TicketPDFGenerator) *NeedsHandler {
	return &NeedsHandler{uc: uc, editQty: editQty, tickets: tickets}
}

// Submit godoc
// @Summary      Registrar un bon de sortie (todo o nada)
// @Tags         needs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitNeedsRequest  true  "sitio y líneas"
// @Success      201   {object}  dto.NeedsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/needs [post]
func (h *NeedsHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitNeedsRequest
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
// @Summary      Historial de bons de sortie
// @Description  Sin el permiso de historial completo solo se ven los bons
// @Description  propios del día en curso.
// @Tags         needs
// @Security     Bearer
// @Produce      json
// @Param        site        query  string  false  "abidjan | bassam"
// @Param        product_id  query  string  false  "filtro por producto"
// @Param        search      query  string  false  "texto libre: producto o solicitante"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.NeedsResponse
// @Router       /api/needs [get]
func (h *NeedsHandler) List(c *fiber.Ctx) error {
	var q dto.NeedsListQuery
	if !parseQuery(c, &q) {
		return nil
	}
	from, to, err := usecase.ParseDateRange(q.DateRangeQuery)
	if err != nil {
		return domainError(c, err)
	}
	out, err := h.uc.List(GetActor(c), q, from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un bon con sus líneas
// @Tags         needs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del bon"
// @Success      200  {object}  dto.NeedsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/needs/{id} [get]
func (h *NeedsHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetActor(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Anular un bon (restituye el stock)
// @Tags         needs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "UUID del bon"
// @Param        body  body  dto.DeleteNeedsRequest  true  "motivo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/needs/{id} [delete]
func (h *NeedsHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteNeedsRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id"), in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "bon anulado y stock restituido"})
}

// EditQuantity godoc
// @Summary      Corregir la cantidad de una línea de salida
// @Description  Recalcula el stock contra el libro de movimientos. Si la
// @Description  actualización directa es vetada en silencio, repliega a
// @Description  borrar y reinsertar el movimiento en la misma transacción.
// @Tags         needs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        movementId  path  string                  true  "UUID del movimiento OUT"
// @Param        body        body  dto.EditQuantityRequest  true  "nueva cantidad y motivo"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/needs/movements/{movementId}/quantity [patch]
func (h *NeedsHandler) EditQuantity(c *fiber.Ctx) error {
	var in dto.EditQuantityRequest
	if !parseBody(c, &in) {
		return nil
	}
	res, err := h.editQty.Execute(c.Context(), c.Params("movementId"), GetActor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"movement_id": res.MovementID,
		"method":      res.Method,
		"new_stock":   res.NewStock,
	})
}

// Ticket godoc
// @Summary      Descargar el ticket PDF del bon (formato A5)
// @Tags         needs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "UUID del bon"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/needs/{id}/ticket [get]
func (h *NeedsHandler) Ticket(c *fiber.Ctx) error {
	request, err := h.uc.GetEntity(GetActor(c), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	pdf, err := h.tickets.GenerateTicket(c.Context(), request)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="bon-%s.pdf"`, request.ID))
	return c.Send(pdf)
}
