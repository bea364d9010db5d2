package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ClimaStore/internal/catalog"
	"ClimaStore/pkg/kit"
)

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := catalog.NewMemStore()
	require.NoError(t, err)

	s := &catalog.Server{Store: store, Log: zap.NewNop()}
	h := catalog.NewHandler(s, kit.HTTPDeps{Log: zap.NewNop(), Service: "catalog"})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestCatalog_ListProducts(t *testing.T) {
	ts := newCatalogTS(t)

	var page catalog.Page
	resp := getJSON(t, ts.URL+"/products?category=air-conditioners&sort=price_asc", &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotEmpty(t, page.Items)
	assert.Equal(t, page.Total, len(page.Items))
	for i := 1; i < len(page.Items); i++ {
		assert.LessOrEqual(t, page.Items[i-1].Price, page.Items[i].Price)
	}
	for _, it := range page.Items {
		assert.Equal(t, "air-conditioners", it.Category)
	}
}

func TestCatalog_ListProducts_BadFilter(t *testing.T) {
	ts := newCatalogTS(t)

	resp := getJSON(t, ts.URL+"/products?sort=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalog_GetProduct(t *testing.T) {
	ts := newCatalogTS(t)

	var got struct {
		catalog.Product
		Meta catalog.Meta `json:"meta"`
	}
	resp := getJSON(t, ts.URL+"/products/ac-001", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "ac-001", got.ID)
	assert.Equal(t, "/products/"+got.Slug, got.Meta.Canonical)

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/products/ac-001", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)

	cached, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer cached.Body.Close()
	assert.Equal(t, http.StatusNotModified, cached.StatusCode)
}

func TestCatalog_GetProduct_NotFound(t *testing.T) {
	ts := newCatalogTS(t)

	resp := getJSON(t, ts.URL+"/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalog_CategoriesBrandsSuggest(t *testing.T) {
	ts := newCatalogTS(t)

	var cats []catalog.Category
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/categories", &cats).StatusCode)
	assert.NotEmpty(t, cats)

	var brands []string
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/brands", &brands).StatusCode)
	assert.Contains(t, brands, "Daikin")

	var sugg []catalog.Summary
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/search/suggest?q=daikin&limit=1", &sugg).StatusCode)
	require.Len(t, sugg, 1)
	assert.Equal(t, "Daikin", sugg[0].Brand)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/search/suggest?q=x&limit=0", nil).StatusCode)
}

func TestCatalog_Health(t *testing.T) {
	ts := newCatalogTS(t)

	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", nil).StatusCode)
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/readyz", nil).StatusCode)
}
