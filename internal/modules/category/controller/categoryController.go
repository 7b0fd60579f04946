package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"redunap/internal/modules/category"
	resp "redunap/pkg/lib/response"
)

type CategoryController struct {
	log      *slog.Logger
	uc       category.UseCase
	validate *validator.Validate
}

func NewCategoryController(log *slog.Logger, uc category.UseCase) *CategoryController {
	return &CategoryController{
		log:      log,
		uc:       uc,
		validate: validator.New(),
	}
}

// ListCategories
// @Summary List active categories
// @Tags category
// @Produce json
// @Success 200 {object} response.SuccessResponse "Category list"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ListCategoriesHandler"))

	categories, err := c.uc.ListCategories()
	if err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, category.ErrInternal.Error())
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, categories)
}

// GetCategory
// @Summary Get a category by ID
// @Tags category
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} response.SuccessResponse "Category"
// @Failure 404 {object} response.ErrorResponse "Category not found"
// @Router /categories/{category_id} [get]
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetCategoryHandler"))

	categoryId, err := strconv.ParseUint(chi.URLParam(r, "category_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	cat, err := c.uc.GetCategory(uint(categoryId))
	if err != nil {
		c.handleCategoryError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, cat)
}

// CreateCategory
// @Summary Create a category (admin/moderator)
// @Tags category
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param category body category.CreateCategoryRequest true "Category details"
// @Success 201 {object} response.SuccessResponse "Created category"
// @Failure 409 {object} response.ErrorResponse "Category name already exists"
// @Router /categories [post]
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "CreateCategoryHandler"))

	var req category.CreateCategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	cat, err := c.uc.CreateCategory(&req)
	if err != nil {
		c.handleCategoryError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, cat)
}

// UpdateCategory
// @Summary Update a category (admin/moderator)
// @Tags category
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param category body category.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse "Updated category"
// @Failure 404 {object} response.ErrorResponse "Category not found"
// @Router /categories/{category_id} [put]
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "UpdateCategoryHandler"))

	categoryId, err := strconv.ParseUint(chi.URLParam(r, "category_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	var req category.UpdateCategoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	cat, err := c.uc.UpdateCategory(uint(categoryId), &req)
	if err != nil {
		c.handleCategoryError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, cat)
}

// DeleteCategory
// @Summary Deactivate a category (admin/moderator)
// @Tags category
// @Security ApiKeyAuth
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} response.Response "Category deactivated"
// @Failure 404 {object} response.ErrorResponse "Category not found"
// @Router /categories/{category_id} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "DeleteCategoryHandler"))

	categoryId, err := strconv.ParseUint(chi.URLParam(r, "category_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := c.uc.DeleteCategory(uint(categoryId)); err != nil {
		c.handleCategoryError(w, r, log, err)
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func (c *CategoryController) handleCategoryError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound):
		resp.SendError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, category.ErrCategoryNameExists):
		resp.SendError(w, r, http.StatusConflict, err.Error())
	default:
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, category.ErrInternal.Error())
	}
}
