package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/pkg/jwt"
)

// LocalWholesaleEmail key en c.Locals con el email del cliente mayorista
// verificado.
const LocalWholesaleEmail = "wholesale_email"

// WholesaleMiddleware valida el Bearer Token de acceso mayorista cuando está
// presente. Sin header la request continúa como cliente minorista; un token
// presente pero inválido es 401 (no se degrada en silencio).
func WholesaleMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		email, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalWholesaleEmail, email)
		return c.Next()
	}
}

// HasWholesaleAccess indica si la request viene de un cliente mayorista
// verificado (después del middleware).
func HasWholesaleAccess(c *fiber.Ctx) bool {
	return GetWholesaleEmail(c) != ""
}

// GetWholesaleEmail devuelve el email mayorista del contexto, o vacío.
func GetWholesaleEmail(c *fiber.Ctx) string {
	v := c.Locals(LocalWholesaleEmail)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequireWholesale corta con 401 las rutas exclusivas de mayoristas.
func RequireWholesale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasWholesaleAccess(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "WHOLESALE_REQUIRED", Message: "requiere acceso mayorista verificado"})
		}
		return c.Next()
	}
}
