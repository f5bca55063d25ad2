package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Search(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	idx, err := NewIndex(c)
	require.NoError(t, err)

	results, err := idx.Search("base64", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	names := make([]string, 0, len(results))
	for _, e := range results {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "From Base64")
	assert.Contains(t, names, "To Base64")
	assert.LessOrEqual(t, len(results), 5)
}

func TestIndex_SearchResolvesBackToCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	idx, err := NewIndex(c)
	require.NoError(t, err)

	results, err := idx.Search("hash", 0)
	require.NoError(t, err)
	for _, e := range results {
		got, ok := c.Resolve(e.Name)
		require.True(t, ok, "search hit %q is not a catalog entry", e.Name)
		assert.Same(t, got.Descriptor, e.Descriptor)
	}
}

func TestIndex_SkipsCollisions(t *testing.T) {
	c, err := New([]Entry{
		{Name: "To Hex", Descriptor: &Descriptor{Description: "hex encoding"}},
		{Name: "to-hex", Descriptor: &Descriptor{Description: "hex encoding again"}},
	})
	require.NoError(t, err)

	idx, err := NewIndex(c)
	require.NoError(t, err)

	results, err := idx.Search("hex", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "To Hex", results[0].Name)
}
