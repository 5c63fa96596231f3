package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_Success(t *testing.T) {
	s := newTestServer(t)
	s.load(t)

	rec := s.do(http.MethodPost, "/api/v1/categories", `{"name": "  Groceries ", "type": "expense", "icon": "cart"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[domain.Category](t, rec)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, domain.TransactionTypeExpense, got.Type)
	assert.Equal(t, []string{"category.created"}, s.publisher.Types())

	list := decode[[]domain.Category](t, s.do(http.MethodGet, "/api/v1/categories", ""))
	require.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)
}

func TestCreateCategory_Invalid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"blank name", `{"name": "   ", "type": "expense"}`, "name"},
		{"missing type", `{"name": "Rent"}`, "type"},
		{"unknown type", `{"name": "Rent", "type": "transfer"}`, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/categories", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decode[ProblemDetails](t, rec)
			require.NotEmpty(t, problem.Errors)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
	assert.Empty(t, s.categories.Categories)
}

func TestCreateCategory_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/categories", `{"name": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCategories_FilterByType(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory(foodCategory)
	s.categories.AddCategory(salaryCategory)
	s.load(t)

	rec := s.do(http.MethodGet, "/api/v1/categories?type=income", "")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]domain.Category](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Salary", list[0].Name)

	rec = s.do(http.MethodGet, "/api/v1/categories?type=savings", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCategories_EmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	s.load(t)

	rec := s.do(http.MethodGet, "/api/v1/categories", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDeleteCategory(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory(foodCategory)
	s.categories.AddCategory(salaryCategory)
	s.categories.TransactionCounts[salaryCategory.ID] = 2
	s.load(t)

	rec := s.do(http.MethodDelete, "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/categories/2", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrorTypeConflict, decode[ProblemDetails](t, rec).Type)

	rec = s.do(http.MethodDelete, "/api/v1/categories/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/categories/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
