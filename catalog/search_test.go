package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	c, _, err := LoadWorks(strings.NewReader(worksCSV))
	require.NoError(t, err)

	assert.Nil(t, Search(c, "du", 10), "queries shorter than 3 characters return nothing")

	got := Search(c, "SCIENCE", 10)
	require.Len(t, got, 2)
	assert.Equal(t, "Dune", got[0].Title, "more ratings first")
	assert.Equal(t, "Hyperion", got[1].Title)

	got = Search(c, "herbert", 10)
	require.Len(t, got, 1)
	assert.Equal(t, "101", got[0].ID)

	idx := NewIndex(c)
	assert.Len(t, idx.Search("science", 1), 1)
	assert.Empty(t, idx.Search("zzz", 0))
}
