package ptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

func TestNonZero(t *testing.T) {
	assert.Nil(t, ptr.NonZero(""))
	assert.Nil(t, ptr.NonZero(0.0))
	assert.Equal(t, ptr.New("banana"), ptr.NonZero("banana"))
}
