package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should format without parent", func(t *testing.T) {
		assert.Equal(t, "Status=NOT_FOUND, Code=PRODUCT_NOT_FOUND, Msg=product not found", notFound.Error())
	})

	t.Run("Should keep identity when message is replaced", func(t *testing.T) {
		err := notFound.WithMsg("product 42 not found")

		assert.Equal(t, "product 42 not found", err.Msg())
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, "product not found", notFound.Msg())
	})

	t.Run("Should expose parent through errors.Is", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("get product: %w", notFound.WrapParent(cause))

		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, notFound)
	})

	t.Run("Should be extracted with errors.As", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", notFound)

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.Equal(t, "product not found", zErr.Msg())
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewNotFound("USER_NOT_FOUND", "user not found")
		assert.NotErrorIs(t, notFound, other)
	})

	t.Run("Should keep predefined error when wrapping nil", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
	})
}
