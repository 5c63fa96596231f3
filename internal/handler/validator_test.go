package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monthRequest struct {
	Month string  `json:"month" validate:"required,yearmonth"`
	Note  *string `json:"note,omitempty" validate:"omitempty,notblank"`
}

func TestRequestValidator_YearMonth(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(&monthRequest{Month: "2024-02"}))

	err := v.Validate(&monthRequest{Month: "2024-2"})
	require.Error(t, err)
	errs := validationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "month", errs[0].Field)
	assert.Equal(t, "must be a month in YYYY-MM format", errs[0].Message)
}

func TestRequestValidator_NotBlank(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(&monthRequest{Month: "2024-02", Note: ptr("lunch")}))

	errs := validationErrors(v.Validate(&monthRequest{Month: "2024-02", Note: ptr("   ")}))
	require.Len(t, errs, 1)
	assert.Equal(t, "note", errs[0].Field)
	assert.Equal(t, "must not be blank", errs[0].Message)
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, validationErrors(assert.AnError))
}
