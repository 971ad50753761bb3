// Package cache implementa el caché del carrusel sobre Redis, con una
// variante Noop cuando Redis no está configurado.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

const (
	slidersActiveKey = "catalogo:sliders:active"
	slidersTTL       = 5 * time.Minute
)

// RedisSliderCache caché del carrusel en Redis. Los errores de Redis se
// loguean y degradan a cache miss: nunca rompen la request.
type RedisSliderCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisSliderCache crea el caché conectado a Redis.
func NewRedisSliderCache(addr, password string, db int, log *logger.Logger) *RedisSliderCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if log == nil {
		log = logger.Nop()
	}
	return &RedisSliderCache{client: client, log: log}
}

// Ping verifica la conexión.
func (c *RedisSliderCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra la conexión.
func (c *RedisSliderCache) Close() error {
	return c.client.Close()
}

// GetActive devuelve la copia cacheada de las diapositivas activas.
func (c *RedisSliderCache) GetActive(ctx context.Context) ([]dto.SliderResponse, bool) {
	val, err := c.client.Get(ctx, slidersActiveKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("caché de sliders no disponible, leyendo de la base")
		return nil, false
	}
	var items []dto.SliderResponse
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		c.log.Warn().Err(err).Msg("entrada de caché de sliders corrupta, descartada")
		return nil, false
	}
	return items, true
}

// SetActive guarda la copia de las diapositivas activas con TTL corto.
func (c *RedisSliderCache) SetActive(ctx context.Context, items []dto.SliderResponse) {
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, slidersActiveKey, payload, slidersTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo escribir el caché de sliders")
	}
}

// Invalidate elimina la copia cacheada tras una mutación.
func (c *RedisSliderCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, slidersActiveKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo invalidar el caché de sliders")
	}
}

// NoopSliderCache caché nulo: siempre miss. Se usa cuando Redis no está
// configurado.
type NoopSliderCache struct{}

// NewNoopSliderCache crea el caché nulo.
func NewNoopSliderCache() *NoopSliderCache { return &NoopSliderCache{} }

// GetActive siempre reporta miss.
func (NoopSliderCache) GetActive(context.Context) ([]dto.SliderResponse, bool) { return nil, false }

// SetActive descarta la copia.
func (NoopSliderCache) SetActive(context.Context, []dto.SliderResponse) {}

// Invalidate no hace nada.
func (NoopSliderCache) Invalidate(context.Context) {}
