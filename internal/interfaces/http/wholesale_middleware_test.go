package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/catalogo-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testEmail     = "mayorista@example.com"
	testIssuer    = "catalogo-api-test"
	testExpMin    = 60
)

// buildTestApp arma una app con el middleware mayorista y dos rutas: una
// pública que reporta el estado del acceso y una exclusiva de mayoristas.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Use(apphttp.WholesaleMiddleware(testJWTSecret))
	app.Get("/catalog", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"wholesale": apphttp.HasWholesaleAccess(c),
			"email":     apphttp.GetWholesaleEmail(c),
		})
	})
	app.Get("/wholesale-only", apphttp.RequireWholesale(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func wholesaleToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testEmail, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Sin header la request pasa como cliente minorista: el middleware es opcional.
func TestWholesaleMiddleware_SinTokenContinuaComoMinorista(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/catalog", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["wholesale"])
	assert.Equal(t, "", body["email"])
}

func TestWholesaleMiddleware_TokenValidoCargaEmail(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/catalog", wholesaleToken(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["wholesale"])
	assert.Equal(t, testEmail, body["email"])
}

// Token presente pero inválido: 401, no se degrada en silencio a minorista.
func TestWholesaleMiddleware_TokenInvalidoRetorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/catalog", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWholesaleMiddleware_FormatoIncorrectoRetorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/catalog", "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireWholesale_BloqueaSinToken(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/wholesale-only", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireWholesale_PermiteConToken(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/wholesale-only", wholesaleToken(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWT_SecretIncorrectoRetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmail, testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_TokenExpiradoRetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmail, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err)
}
