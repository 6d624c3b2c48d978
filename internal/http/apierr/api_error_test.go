package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should map not found", func(t *testing.T) {
		res := apierr.New(fmt.Errorf("get product: %w", apperr.ProductNotFoundErr))

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundCode, res.Code)
		assert.Equal(t, "product not found", res.Message)
	})

	t.Run("Should map constraint violation to bad request without leaking cause", func(t *testing.T) {
		res := apierr.New(apperr.ProductConflictErr.WrapParent(errors.New("duplicate key")))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apperr.ProductConflictCode, res.Code)
		assert.NotContains(t, res.Message, "duplicate key")
	})

	t.Run("Should carry underlying message on store failure", func(t *testing.T) {
		res := apierr.New(apperr.StoreErr.WrapParent(errors.New("connection refused")))

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, apperr.StoreFailureCode, res.Code)
		assert.Equal(t, "store operation failed: connection refused", res.Message)
	})

	t.Run("Should map validation errors with details", func(t *testing.T) {
		type input struct {
			Rating *float64 `form:"rating" validate:"omitempty,lte=5"`
		}
		verr := validator.MustNewDefaultValidator().Validate(input{Rating: ptr.New(7.0)})
		require.Error(t, verr)

		res := apierr.New(fmt.Errorf("validate: %w", verr))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "rating", res.Details[0].Field)
		assert.Equal(t, "must be less than or equal to 5", res.Details[0].Message)
	})

	t.Run("Should map oversized body", func(t *testing.T) {
		res := apierr.New(fmt.Errorf("parse form: %w", &http.MaxBytesError{Limit: 10}))

		assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
	})

	t.Run("Should map unknown error to internal server error", func(t *testing.T) {
		res := apierr.New(errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, "boom", res.Message)
	})
}
