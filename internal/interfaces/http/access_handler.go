package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/access"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// AccessHandler maneja el flujo de acceso mayorista (OTP + JWT).
type AccessHandler struct {
	uc *access.UseCase
}

// NewAccessHandler construye el handler.
func NewAccessHandler(uc *access.UseCase) *AccessHandler {
	return &AccessHandler{uc: uc}
}

// Request godoc
// @Summary      Solicitar acceso mayorista
// @Description  Genera un código de un solo uso y lo notifica al administrador.
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestAccessRequest  true  "Email del solicitante"
// @Success      202   {object}  dto.RequestAccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/access/request [post]
func (h *AccessHandler) Request(c *fiber.Ctx) error {
	var in dto.RequestAccessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RequestAccess(in, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// Verify godoc
// @Summary      Canjear código por token mayorista
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyOTPRequest  true  "Email y código"
// @Success      200   {object}  dto.VerifyOTPResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/access/verify [post]
func (h *AccessHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.VerifyOTP(in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}
