package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddarthanreddy/ministore/internal/models"
)

func newProduct(name, price string) *models.Product {
	return &models.Product{
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	s := newTestStore(t)

	p := newProduct("Mug", "12.50")
	p.ImageURL = "mug.jpg"
	require.NoError(t, s.CreateProduct(p))
	require.NotZero(t, p.ID)

	got, err := s.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
	assert.Equal(t, "test product", got.Description)
	assert.Equal(t, "12.50", got.Price.StringFixed(2))
	assert.Equal(t, "mug.jpg", got.ImageURL)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetProductNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProduct(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first := newProduct("First", "1.00")
	second := newProduct("Second", "2.00")
	third := newProduct("Third", "3.00")
	require.NoError(t, s.CreateProduct(first))
	require.NoError(t, s.CreateProduct(second))
	require.NoError(t, s.CreateProduct(third))

	products, err := s.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Third", products[0].Name)
	assert.Equal(t, "Second", products[1].Name)
	assert.Equal(t, "First", products[2].Name)
}

func TestUpdateProduct(t *testing.T) {
	s := newTestStore(t)

	p := newProduct("Mug", "12.50")
	require.NoError(t, s.CreateProduct(p))

	before, err := s.GetProduct(p.ID)
	require.NoError(t, err)

	p.Name = "Fancy Mug"
	p.Price = decimal.RequireFromString("20.00")
	require.NoError(t, s.UpdateProduct(p))

	after, err := s.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fancy Mug", after.Name)
	assert.Equal(t, "20.00", after.Price.StringFixed(2))
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, before.ImageURL, after.ImageURL)
}

func TestUpdateProductNotFound(t *testing.T) {
	s := newTestStore(t)

	p := newProduct("Ghost", "1.00")
	p.ID = 99
	assert.ErrorIs(t, s.UpdateProduct(p), ErrNotFound)
	assert.ErrorIs(t, s.UpdateProductImage(99, "x.jpg"), ErrNotFound)
}

func TestUpdateProductImage(t *testing.T) {
	s := newTestStore(t)

	p := newProduct("Mug", "12.50")
	require.NoError(t, s.CreateProduct(p))
	require.NoError(t, s.UpdateProductImage(p.ID, "new.jpg"))

	got, err := s.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.jpg", got.ImageURL)
}

func TestDeleteProduct(t *testing.T) {
	s := newTestStore(t)

	p := newProduct("Mug", "12.50")
	require.NoError(t, s.CreateProduct(p))
	require.NoError(t, s.DeleteProduct(p.ID))

	_, err := s.GetProduct(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteProduct(p.ID), ErrNotFound)
}
