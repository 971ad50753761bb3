// Package usecase contiene los casos de uso CRUD del catálogo: categorías,
// subcategorías, productos y sliders.
package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/pkg/slug"
)

// CategoryUseCase casos de uso de categorías.
type CategoryUseCase struct {
	categories repository.CategoryRepository
}

// NewCategoryUseCase crea el caso de uso de categorías.
func NewCategoryUseCase(categories repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories}
}

// Create crea una categoría; el código (slug) se deriva del nombre.
func (uc *CategoryUseCase) Create(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
	}
	existing, err := uc.categories.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, in.Name)
	}

	now := time.Now()
	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Code:        slug.Make(in.Name),
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categories.Create(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// GetByID devuelve una categoría.
func (uc *CategoryUseCase) GetByID(id string) (*dto.CategoryResponse, error) {
	cat, err := uc.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return toCategoryResponse(cat), nil
}

// List lista categorías paginadas.
func (uc *CategoryUseCase) List(limit, offset int) (*dto.CategoryListResponse, error) {
	list, total, err := uc.categories.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update aplica un parche a la categoría; renombrar regenera el código.
func (uc *CategoryUseCase) Update(id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}

	if in.Name != nil && *in.Name != cat.Name {
		dup, err := uc.categories.GetByName(*in.Name)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != id {
			return nil, fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, *in.Name)
		}
		cat.Name = *in.Name
		cat.Code = slug.Make(*in.Name)
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	if in.Image != nil {
		cat.Image = *in.Image
	}
	cat.UpdatedAt = time.Now()

	if err := uc.categories.Update(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Delete elimina una categoría sin productos asociados.
func (uc *CategoryUseCase) Delete(id string) error {
	cat, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	count, err := uc.categories.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: la categoría tiene %d productos asociados", domain.ErrConflict, count)
	}
	return uc.categories.Delete(id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		Image:       c.Image,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
