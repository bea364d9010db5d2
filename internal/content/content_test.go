package content

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	posts := lib.Posts("")
	require.NotEmpty(t, posts)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].PublishedAt.After(posts[i-1].PublishedAt), "newest first")
	}
	for _, p := range posts {
		assert.Empty(t, p.Body, "list omits bodies")
	}

	full, ok := lib.Post(posts[0].Slug)
	require.True(t, ok)
	assert.NotEmpty(t, full.Body)

	assert.NotEmpty(t, lib.Contacts().Email)
}

func TestLibrary_Filters(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	for _, p := range lib.Posts("heat-pumps") {
		assert.Contains(t, p.Tags, "heat-pumps")
	}
	assert.Empty(t, lib.Posts("no-such-tag"))

	delivery := lib.FAQ("Delivery")
	require.NotEmpty(t, delivery)
	for _, q := range delivery {
		assert.Equal(t, "delivery", q.Topic)
	}
	assert.Greater(t, len(lib.FAQ("")), len(delivery))

	_, ok := lib.Post("missing")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	_, err := parse([]byte("posts: [{title: x}]"))
	assert.ErrorIs(t, err, ErrBadSeed)

	_, err = parse([]byte("posts: [{slug: a}, {slug: a}]"))
	assert.ErrorIs(t, err, ErrBadSeed)

	_, err = parse([]byte("posts: ["))
	assert.ErrorIs(t, err, ErrBadSeed)
}

func TestServer(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	r := chi.NewRouter()
	(&Server{Library: lib}).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?tag=guides", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/"+posts[0].Slug, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/faq", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}
