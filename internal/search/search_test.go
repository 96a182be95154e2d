package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ES, *fakeES) {
	t.Helper()
	f := &fakeES{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := New(Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return es, f
}

func (f *fakeES) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func TestSearch_ParsesHitIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	es, f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":7},"hits":[{"_id":"`+a.String()+`"},{"_id":"not-a-uuid"},{"_id":"`+b.String()+`"}]}}`)
	})

	total, ids, err := es.Search(context.Background(), "aqua", 10, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	req := f.last()
	assert.Equal(t, "/products/_search", req.Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.EqualValues(t, 10, body["from"])
	assert.EqualValues(t, 5, body["size"])
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "aqua", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestSearch_ErrorStatus(t *testing.T) {
	es, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, _, err := es.Search(context.Background(), "aqua", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "es search")
}

func TestIndexAndDeleteProduct(t *testing.T) {
	es, f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})
	ctx := context.Background()

	p := &models.Product{ID: uuid.New(), Name: "Bottle", Description: "Water", Price: decimal.RequireFromString("5"), Features: []string{"BPA Free"}, InStock: true}
	require.NoError(t, es.IndexProduct(ctx, p))

	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), req.Path)
	assert.True(t, strings.Contains(req.Body, `"price":"5.00"`))

	require.NoError(t, es.DeleteProduct(ctx, p.ID))
	assert.Equal(t, http.MethodDelete, f.last().Method)
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	es, f := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})

	require.NoError(t, es.EnsureIndex(context.Background()))
	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products", req.Path)
	assert.Contains(t, req.Body, `"mappings"`)
}
