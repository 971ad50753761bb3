package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// SubCategoryHandler maneja las peticiones HTTP de subcategorías.
type SubCategoryHandler struct {
	uc *usecase.SubCategoryUseCase
}

// NewSubCategoryHandler construye el handler.
func NewSubCategoryHandler(uc *usecase.SubCategoryUseCase) *SubCategoryHandler {
	return &SubCategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear subcategoría
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSubCategoryRequest  true  "Datos de la subcategoría"
// @Success      201   {object}  dto.SubCategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subcategories [post]
func (h *SubCategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSubCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener subcategoría por ID
// @Tags         subcategories
// @Produce      json
// @Param        id   path  string  true  "ID de la subcategoría"
// @Success      200  {object}  dto.SubCategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subcategories/{id} [get]
func (h *SubCategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Listar subcategorías de una categoría
// @Tags         subcategories
// @Produce      json
// @Param        categoryId  query  string  true   "ID de la categoría"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200         {object}  dto.SubCategoryListResponse
// @Router       /api/subcategories [get]
func (h *SubCategoryHandler) ListByCategory(c *fiber.Ctx) error {
	categoryID := c.Query("categoryId")
	if categoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categoryId es requerido"})
	}
	limit, offset := pagination(c)
	out, err := h.uc.ListByCategory(categoryID, limit, offset)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar subcategoría
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la subcategoría"
// @Param        body  body  dto.UpdateSubCategoryRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SubCategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subcategories/{id} [put]
func (h *SubCategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSubCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar subcategoría
// @Description  Falla con 409 si la subcategoría tiene productos asociados.
// @Tags         subcategories
// @Param        id   path  string  true  "ID de la subcategoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/subcategories/{id} [delete]
func (h *SubCategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
