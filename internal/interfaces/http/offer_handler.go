package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/offers"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// OfferHandler maneja las peticiones HTTP de ofertas.
type OfferHandler struct {
	svc *offers.Service
}

// NewOfferHandler construye el handler.
func NewOfferHandler(svc *offers.Service) *OfferHandler {
	return &OfferHandler{svc: svc}
}

// Create godoc
// @Summary      Crear oferta
// @Description  Si la oferta está vigente, descuenta sus productos en la misma operación.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOfferRequest  true  "Datos de la oferta"
// @Success      201   {object}  dto.OfferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/offers [post]
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOfferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener oferta por ID
// @Tags         offers
// @Produce      json
// @Param        id   path  string  true  "ID de la oferta"
// @Success      200  {object}  dto.OfferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/offers/{id} [get]
func (h *OfferHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.svc.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "oferta no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ofertas
// @Tags         offers
// @Produce      json
// @Param        active   query  bool  false  "Filtrar por bandera active"
// @Param        current  query  bool  false  "Solo ofertas vigentes ahora"
// @Param        limit    query  int   false  "Límite"   default(20)
// @Param        offset   query  int   false  "Offset"   default(0)
// @Success      200      {object}  dto.OfferListResponse
// @Router       /api/offers [get]
func (h *OfferHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	var filter repository.OfferListFilter
	if c.Query("active") != "" {
		active := c.QueryBool("active")
		filter.Active = &active
	}
	if c.QueryBool("current") {
		now := time.Now()
		filter.CurrentAt = &now
	}

	out, err := h.svc.List(filter, limit, offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar oferta
// @Description  Reconcilia los precios de los productos afectados por el cambio.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la oferta"
// @Param        body  body  dto.UpdateOfferRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.OfferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/offers/{id} [put]
func (h *OfferHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateOfferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar oferta
// @Description  Restaura los precios de los productos de la oferta antes de eliminarla.
// @Tags         offers
// @Param        id   path  string  true  "ID de la oferta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/offers/{id} [delete]
func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
