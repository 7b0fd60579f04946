package usecase

import (
	"errors"
	"log/slog"

	"redunap/internal/modules/category"
)

type CategoryUseCase struct {
	log  *slog.Logger
	repo category.Repo
}

func NewCategoryUseCase(log *slog.Logger, repo category.Repo) *CategoryUseCase {
	return &CategoryUseCase{
		log:  log,
		repo: repo,
	}
}

func (uc *CategoryUseCase) ListCategories() ([]*category.Category, error) {
	cached, err := uc.repo.GetCachedCategoryList()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, category.ErrCacheMiss) {
		uc.log.Warn("category cache read failed", slog.Any("err", err))
	}

	categories, err := uc.repo.ListCategories()
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SaveCategoryListToCache(categories); err != nil {
		uc.log.Warn("failed to cache category list", slog.Any("err", err))
	}

	return categories, nil
}

func (uc *CategoryUseCase) GetCategory(categoryId uint) (*category.Category, error) {
	return uc.repo.GetCategoryById(categoryId)
}

func (uc *CategoryUseCase) CreateCategory(req *category.CreateCategoryRequest) (*category.Category, error) {
	cat := &category.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    true,
	}

	categoryId, err := uc.repo.CreateCategory(cat)
	if err != nil {
		return nil, err
	}
	cat.CategoryId = categoryId

	if err := uc.repo.InvalidateCategoryListCache(); err != nil {
		uc.log.Warn("failed to invalidate category cache", slog.Any("err", err))
	}

	return cat, nil
}

func (uc *CategoryUseCase) UpdateCategory(categoryId uint, req *category.UpdateCategoryRequest) (*category.Category, error) {
	cat, err := uc.repo.GetCategoryById(categoryId)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = req.Description
	}
	if req.Color != nil {
		cat.Color = req.Color
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := uc.repo.UpdateCategory(cat); err != nil {
		return nil, err
	}

	if err := uc.repo.InvalidateCategoryListCache(); err != nil {
		uc.log.Warn("failed to invalidate category cache", slog.Any("err", err))
	}

	return cat, nil
}

func (uc *CategoryUseCase) DeleteCategory(categoryId uint) error {
	if err := uc.repo.DeactivateCategory(categoryId); err != nil {
		return err
	}

	if err := uc.repo.InvalidateCategoryListCache(); err != nil {
		uc.log.Warn("failed to invalidate category cache", slog.Any("err", err))
	}

	return nil
}
