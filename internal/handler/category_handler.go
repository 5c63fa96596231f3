package handler

import (
	"net/http"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
	Type string `json:"type" validate:"required,oneof=income expense"`
	Icon string `json:"icon" validate:"max=64"`
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense"
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	txType := domain.TransactionType(c.QueryParam("type"))
	if txType != "" && !txType.Valid() {
		return NewValidationError(c, "Invalid type", []ValidationError{
			{Field: "type", Message: "Must be income or expense"},
		})
	}

	categories := h.categoryService.GetCategories(txType)
	if categories == nil {
		categories = []*domain.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), &domain.CategoryDraft{
		Name: req.Name,
		Type: domain.TransactionType(req.Type),
		Icon: req.Icon,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory godoc
// @Summary Delete a category that no transaction references
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
