package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// SliderCache caché de lectura para el carrusel de portada, el endpoint más
// consultado del sitio público. Las implementaciones tragan sus propios
// errores: un caché caído degrada a leer de la base, nunca rompe la request.
type SliderCache interface {
	GetActive(ctx context.Context) ([]dto.SliderResponse, bool)
	SetActive(ctx context.Context, items []dto.SliderResponse)
	Invalidate(ctx context.Context)
}

// SliderUseCase casos de uso del carrusel. Toda mutación invalida el caché.
type SliderUseCase struct {
	sliders repository.SliderRepository
	cache   SliderCache
}

// NewSliderUseCase crea el caso de uso del carrusel.
func NewSliderUseCase(sliders repository.SliderRepository, cache SliderCache) *SliderUseCase {
	return &SliderUseCase{sliders: sliders, cache: cache}
}

// Create crea una diapositiva.
func (uc *SliderUseCase) Create(ctx context.Context, in dto.CreateSliderRequest) (*dto.SliderResponse, error) {
	if in.Image == "" {
		return nil, fmt.Errorf("%w: image requerida", domain.ErrValidation)
	}
	now := time.Now()
	s := &entity.Slider{
		ID:        uuid.New().String(),
		Image:     in.Image,
		Alt:       in.Alt,
		Active:    in.Active == nil || *in.Active,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.sliders.Create(s); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return toSliderResponse(s), nil
}

// GetByID devuelve una diapositiva.
func (uc *SliderUseCase) GetByID(id string) (*dto.SliderResponse, error) {
	s, err := uc.sliders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: slider %s", domain.ErrNotFound, id)
	}
	return toSliderResponse(s), nil
}

// ListActive devuelve las diapositivas activas en orden, sirviendo del caché
// cuando hay una copia vigente.
func (uc *SliderUseCase) ListActive(ctx context.Context) ([]dto.SliderResponse, error) {
	if items, ok := uc.cache.GetActive(ctx); ok {
		return items, nil
	}
	list, err := uc.sliders.ListActive()
	if err != nil {
		return nil, err
	}
	items := make([]dto.SliderResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSliderResponse(s))
	}
	uc.cache.SetActive(ctx, items)
	return items, nil
}

// List lista todas las diapositivas, activas o no (administración).
func (uc *SliderUseCase) List(limit, offset int) (*dto.SliderListResponse, error) {
	list, total, err := uc.sliders.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SliderResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSliderResponse(s))
	}
	return &dto.SliderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update aplica un parche a la diapositiva.
func (uc *SliderUseCase) Update(ctx context.Context, id string, in dto.UpdateSliderRequest) (*dto.SliderResponse, error) {
	s, err := uc.sliders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: slider %s", domain.ErrNotFound, id)
	}
	if in.Image != nil {
		s.Image = *in.Image
	}
	if in.Alt != nil {
		s.Alt = *in.Alt
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	if in.SortOrder != nil {
		s.SortOrder = *in.SortOrder
	}
	s.UpdatedAt = time.Now()

	if err := uc.sliders.Update(s); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return toSliderResponse(s), nil
}

// Delete elimina una diapositiva.
func (uc *SliderUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.sliders.GetByID(id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: slider %s", domain.ErrNotFound, id)
	}
	if err := uc.sliders.Delete(id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx)
	return nil
}

func toSliderResponse(s *entity.Slider) *dto.SliderResponse {
	return &dto.SliderResponse{
		ID:        s.ID,
		Image:     s.Image,
		Alt:       s.Alt,
		Active:    s.Active,
		SortOrder: s.SortOrder,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
