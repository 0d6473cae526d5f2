package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/bookrec/core"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, "work_id,rating\n1,5\n")
	}))
	defer srv.Close()

	ctx := context.Background()
	body, err := Open(ctx, srv.URL+"/reviews.csv")
	require.NoError(t, err)
	defer body.Close()
	reviews, _, err := LoadReviews(body)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/missing.csv")
	assert.True(t, core.IsUnavailable(err))
	assert.ErrorContains(t, err, "404")
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "works.csv")
	require.NoError(t, os.WriteFile(path, []byte(worksCSV), 0o644))

	f, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer f.Close()
	c, _, err := LoadWorks(f)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, core.IsNotFound(err))
}
