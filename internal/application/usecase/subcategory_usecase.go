package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// SubCategoryUseCase casos de uso de subcategorías.
type SubCategoryUseCase struct {
	subCategories repository.SubCategoryRepository
	categories    repository.CategoryRepository
}

// NewSubCategoryUseCase crea el caso de uso de subcategorías.
func NewSubCategoryUseCase(subCategories repository.SubCategoryRepository, categories repository.CategoryRepository) *SubCategoryUseCase {
	return &SubCategoryUseCase{subCategories: subCategories, categories: categories}
}

// Create crea una subcategoría dentro de una categoría existente. El nombre
// es único dentro de la categoría.
func (uc *SubCategoryUseCase) Create(in dto.CreateSubCategoryRequest) (*dto.SubCategoryResponse, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, fmt.Errorf("%w: name y categoryId requeridos", domain.ErrValidation)
	}
	cat, err := uc.categories.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
	}
	dup, err := uc.subCategories.GetByCategoryAndName(in.CategoryID, in.Name)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, fmt.Errorf("%w: ya existe la subcategoría %q en la categoría", domain.ErrDuplicate, in.Name)
	}

	now := time.Now()
	sub := &entity.SubCategory{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.subCategories.Create(sub); err != nil {
		return nil, err
	}
	return toSubCategoryResponse(sub), nil
}

// GetByID devuelve una subcategoría.
func (uc *SubCategoryUseCase) GetByID(id string) (*dto.SubCategoryResponse, error) {
	sub, err := uc.subCategories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, id)
	}
	return toSubCategoryResponse(sub), nil
}

// ListByCategory lista las subcategorías de una categoría.
func (uc *SubCategoryUseCase) ListByCategory(categoryID string, limit, offset int) (*dto.SubCategoryListResponse, error) {
	list, total, err := uc.subCategories.ListByCategory(categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubCategoryResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSubCategoryResponse(s))
	}
	return &dto.SubCategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update aplica un parche a la subcategoría. Mover de categoría exige que la
// categoría destino exista.
func (uc *SubCategoryUseCase) Update(id string, in dto.UpdateSubCategoryRequest) (*dto.SubCategoryResponse, error) {
	sub, err := uc.subCategories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, id)
	}

	if in.CategoryID != nil && *in.CategoryID != sub.CategoryID {
		cat, err := uc.categories.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, *in.CategoryID)
		}
		sub.CategoryID = *in.CategoryID
	}
	if in.Name != nil && *in.Name != sub.Name {
		dup, err := uc.subCategories.GetByCategoryAndName(sub.CategoryID, *in.Name)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != id {
			return nil, fmt.Errorf("%w: ya existe la subcategoría %q en la categoría", domain.ErrDuplicate, *in.Name)
		}
		sub.Name = *in.Name
	}
	if in.Description != nil {
		sub.Description = *in.Description
	}
	if in.Image != nil {
		sub.Image = *in.Image
	}
	sub.UpdatedAt = time.Now()

	if err := uc.subCategories.Update(sub); err != nil {
		return nil, err
	}
	return toSubCategoryResponse(sub), nil
}

// Delete elimina una subcategoría sin productos asociados.
func (uc *SubCategoryUseCase) Delete(id string) error {
	sub, err := uc.subCategories.GetByID(id)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("%w: subcategoría %s", domain.ErrNotFound, id)
	}
	count, err := uc.subCategories.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: la subcategoría tiene %d productos asociados", domain.ErrConflict, count)
	}
	return uc.subCategories.Delete(id)
}

func toSubCategoryResponse(s *entity.SubCategory) *dto.SubCategoryResponse {
	return &dto.SubCategoryResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CategoryID:  s.CategoryID,
		Image:       s.Image,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
