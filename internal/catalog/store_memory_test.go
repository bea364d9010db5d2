package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	cats, products, err := LoadSeed()
	require.NoError(t, err)

	assert.NotEmpty(t, cats)
	assert.GreaterOrEqual(t, len(products), 5)

	for _, p := range products {
		assert.NotEmpty(t, p.Name, p.ID)
		assert.NotEmpty(t, p.SpecGroups, p.ID)
		assert.Positive(t, p.Price, p.ID)
	}
}

func TestParseSeed_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not yaml", "products: [::"},
		{"missing id", "categories: [{slug: a}]\nproducts: [{name: x, category: a}]"},
		{"duplicate id", "categories: [{slug: a}]\nproducts: [{id: p, category: a}, {id: p, category: a}]"},
		{"unknown category", "categories: [{slug: a}]\nproducts: [{id: p, category: b}]"},
		{"duplicate slug", "categories: [{slug: a}]\nproducts: [{id: p, slug: s, category: a}, {id: q, slug: s, category: a}]"},
		{"slug is another id", "categories: [{slug: a}]\nproducts: [{id: p, category: a}, {id: q, slug: p, category: a}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseSeed([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrBadSeed)
		})
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStoreWith(
		[]Category{{Slug: "air-conditioners", Name: "Air conditioners"}},
		[]Product{
			{ID: "p2", Slug: "second", Name: "Second"},
			{ID: "p1", Slug: "first", Name: "First"},
		},
	)

	list, err := s.ListSortedByID(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)

	p, ok, err := s.Get(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Second", p.Name)

	p, ok, err = s.Get(ctx, "first")
	require.NoError(t, err)
	assert.True(t, ok, "lookup by slug")
	assert.Equal(t, "p1", p.ID)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}
