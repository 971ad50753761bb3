package http

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// RateLimitConfig límites por IP de origen.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig límites por defecto para los endpoints sensibles
// (solicitud y verificación de OTP).
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 1, BurstSize: 5}
}

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cfg      RateLimitConfig
}

func (rl *ipRateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.BurstSize)
		rl.limiters[ip] = l
		// Tope simple contra crecimiento sin límite del mapa.
		if len(rl.limiters) > 10_000 {
			rl.limiters = map[string]*rate.Limiter{ip: l}
		}
	}
	return l
}

// RateLimitMiddleware limita requests por IP con token bucket.
func RateLimitMiddleware(cfg RateLimitConfig) fiber.Handler {
	rl := &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		cfg:      cfg,
	}
	return func(c *fiber.Ctx) error {
		if !rl.get(c.IP()).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente más tarde"})
		}
		return c.Next()
	}
}
