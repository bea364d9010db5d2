package comparison_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ClimaStore/internal/catalog"
	"ClimaStore/internal/comparison"
	"ClimaStore/internal/visitor"
	"ClimaStore/pkg/kit"
)

type comparisonView struct {
	Items      []comparison.Product `json:"items"`
	Count      int                  `json:"count"`
	MaxItems   int                  `json:"max_items"`
	CanAddMore bool                 `json:"can_add_more"`
	Table      comparison.Table     `json:"table"`
	Added      bool                 `json:"added"`
	Evicted    string               `json:"evicted"`
}

func newTS(t *testing.T) *httptest.Server {
	t.Helper()
	return newTSWith(t, comparison.NewMemoryStorage())
}

func newTSWith(t *testing.T, storage comparison.Storage) *httptest.Server {
	t.Helper()

	store, err := catalog.NewMemStore()
	require.NoError(t, err)

	manager := comparison.NewManager(storage)
	cs := &catalog.Server{Store: store, Log: zap.NewNop(), Checks: []catalog.ReadyCheck{manager.Ping}}
	cmp := &comparison.Server{
		Manager:  manager,
		Products: store,
		Log:      zap.NewNop(),
	}

	ts := httptest.NewServer(catalog.NewHandler(cs, kit.HTTPDeps{Log: zap.NewNop(), Service: "catalog"}, cmp))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, vid string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if vid != "" {
		req.Header.Set(visitor.Header, vid)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeView(t *testing.T, raw []byte) comparisonView {
	t.Helper()
	var v comparisonView
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func viewIDs(v comparisonView) []string {
	out := []string{}
	for _, p := range v.Items {
		out = append(out, p.ID)
	}
	return out
}

func TestComparisonAPI_RequiresVisitor(t *testing.T) {
	ts := newTS(t)

	resp, _ := do(t, http.MethodGet, ts.URL+"/comparison", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/comparison", "v_not-a-uuid", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestComparisonAPI_Flow(t *testing.T) {
	ts := newTS(t)
	vid := visitor.NewID()

	for _, id := range []string{"ac-001", "ac-002", "ac-003", "ac-004"} {
		resp, raw := do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"product_id": id})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		assert.True(t, decodeView(t, raw).Added)
	}

	resp, raw := do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"product_id": "ac-005"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView(t, raw)
	assert.Equal(t, "ac-001", v.Evicted)
	assert.Equal(t, []string{"ac-002", "ac-003", "ac-004", "ac-005"}, viewIDs(v))
	assert.Equal(t, comparison.MaxItems, v.Count)
	assert.False(t, v.CanAddMore)
	assert.Len(t, v.Table.Products, 4)
	assert.NotEmpty(t, v.Table.Rows)

	resp, raw = do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"product_id": "ac-005"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeView(t, raw).Added)

	resp, raw = do(t, http.MethodGet, ts.URL+"/comparison/ac-003", vid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"ac-003","present":true,"count":4,"can_add_more":false}`, string(raw))

	resp, raw = do(t, http.MethodDelete, ts.URL+"/comparison/ac-003", vid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"ac-002", "ac-004", "ac-005"}, viewIDs(decodeView(t, raw)))

	resp, raw = do(t, http.MethodGet, ts.URL+"/comparison/ac-003", vid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"present":false`)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/comparison", vid, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = do(t, http.MethodGet, ts.URL+"/comparison", vid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeView(t, raw)
	assert.Equal(t, 0, v.Count)
	assert.True(t, v.CanAddMore)
}

func TestComparisonAPI_VisitorsAreIsolated(t *testing.T) {
	ts := newTS(t)
	a, b := visitor.NewID(), visitor.NewID()

	resp, _ := do(t, http.MethodPost, ts.URL+"/comparison", a, map[string]string{"product_id": "ac-001"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := do(t, http.MethodGet, ts.URL+"/comparison", b, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decodeView(t, raw).Count)
}

func TestComparisonAPI_AddErrors(t *testing.T) {
	ts := newTS(t)
	vid := visitor.NewID()

	resp, _ := do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"product_id": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"unknown": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComparisonAPI_QuickView(t *testing.T) {
	ts := newTS(t)
	vid := visitor.NewID()

	var qv struct {
		Product         catalog.Product `json:"product"`
		InComparison    bool            `json:"in_comparison"`
		CanAddMore      bool            `json:"can_add_more"`
		ComparisonCount int             `json:"comparison_count"`
	}

	resp, raw := do(t, http.MethodGet, ts.URL+"/products/ac-002/quick-view", vid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &qv))
	assert.Equal(t, "ac-002", qv.Product.ID)
	assert.False(t, qv.InComparison)
	assert.True(t, qv.CanAddMore)

	resp, _ = do(t, http.MethodPost, ts.URL+"/comparison", vid, map[string]string{"product_id": "ac-002"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = do(t, http.MethodGet, ts.URL+"/products/ac-002/quick-view", vid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &qv))
	assert.True(t, qv.InComparison)
	assert.Equal(t, 1, qv.ComparisonCount)

	resp, _ = do(t, http.MethodGet, ts.URL+"/products/nope/quick-view", vid, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/products/ac-002", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "product page does not need a visitor")
}
