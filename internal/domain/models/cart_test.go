package models_test

import (
	"testing"

	"github.com/linemk/levelup-shop/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestCart_AddRespectsMaxQuantity(t *testing.T) {
	c := models.NewCart()

	assert.True(t, c.Add(1, models.MaxItemQuantity-1))
	assert.True(t, c.Add(1, 1))
	assert.False(t, c.Add(1, 1))
	assert.Equal(t, models.MaxItemQuantity, c.Items[1])

	assert.False(t, c.Add(2, models.MaxItemQuantity+1))
	assert.False(t, c.Add(2, 0))
	_, ok := c.Items[2]
	assert.False(t, ok)
}

func TestCart_Subtract(t *testing.T) {
	c := models.NewCart()
	c.Add(1, 5)
	c.Add(2, 1)

	c.Subtract(1, 3)
	assert.Equal(t, 2, c.Items[1])

	c.Subtract(2, 4)
	_, ok := c.Items[2]
	assert.False(t, ok)

	c.Subtract(3, 1)
	c.Subtract(1, 0)
	assert.Equal(t, map[int]int{1: 2}, c.Items)
}
