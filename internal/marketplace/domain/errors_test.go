package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ErrOutOfStock.Withf("product %s", "p1"))

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.False(t, errors.Is(err, ErrEmptyCart))
	assert.Equal(t, "checkout: quantity exceeds available stock: product p1", err.Error())

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindBusinessRule, kind)
	assert.Equal(t, "BUSINESS_RULE", kind.String())
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	assert.ErrorIs(t, NewNotFound("order", "o1"), ErrNotFound)
	assert.EqualError(t, NewNotFound("order", "o1"), `order "o1" not found`)

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}
