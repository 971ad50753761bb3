package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// SliderHandler maneja las peticiones HTTP del carrusel de portada.
type SliderHandler struct {
	uc *usecase.SliderUseCase
}

// NewSliderHandler construye el handler.
func NewSliderHandler(uc *usecase.SliderUseCase) *SliderHandler {
	return &SliderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear diapositiva
// @Tags         sliders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSliderRequest  true  "Datos de la diapositiva"
// @Success      201   {object}  dto.SliderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sliders [post]
func (h *SliderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSliderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListActive godoc
// @Summary      Diapositivas activas del carrusel
// @Tags         sliders
// @Produce      json
// @Success      200  {array}  dto.SliderResponse
// @Router       /api/sliders/active [get]
func (h *SliderHandler) ListActive(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar todas las diapositivas
// @Tags         sliders
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.SliderListResponse
// @Router       /api/sliders [get]
func (h *SliderHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar diapositiva
// @Tags         sliders
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la diapositiva"
// @Param        body  body  dto.UpdateSliderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SliderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sliders/{id} [put]
func (h *SliderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSliderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar diapositiva
// @Tags         sliders
// @Param        id   path  string  true  "ID de la diapositiva"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sliders/{id} [delete]
func (h *SliderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
