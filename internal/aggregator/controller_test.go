package aggregator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookfinder/be/internal/book"
	"bookfinder/be/internal/search"
)

func newAggregatorRouter(adapters ...search.SourceAdapter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewController(NewService(adapters, time.Second, nil)).RegisterRoutes(router)
	return router
}

func TestController_MultiSearch(t *testing.T) {
	catalog := &stubAdapter{source: book.SourceCatalog, result: &search.Result{TotalFound: 3, Records: []book.Record{rec(book.SourceCatalog, "Kindred", "Octavia E. Butler", 40)}}}
	commercial := &stubAdapter{source: book.SourceCommercial, result: &search.Result{TotalFound: 9}}
	router := newAggregatorRouter(catalog, commercial)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/multi-search?q=kindred&limit=0&offset=-4&sources=openlibrary,bogus", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, DefaultLimit, catalog.params.Limit)
	assert.Equal(t, 0, catalog.params.Offset)
	assert.Empty(t, commercial.params.Query)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["num_found"])
	assert.Equal(t, "kindred", body["search_query"])
	assert.Nil(t, body["external_suggestions"])
	assert.Contains(t, body["sources"], "openlibrary")
	assert.NotContains(t, body["sources"], "google")

	docs := body["docs"].([]any)
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "openlibrary", doc["search_source"])
	assert.Equal(t, "https://www.amazon.com/s?k=Kindred%20Octavia%20E.%20Butler&i=stripbooks", doc["amazon_search"])
}

func TestController_MultiSearchValidation(t *testing.T) {
	router := newAggregatorRouter()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "missing query", target: "/api/multi-search", want: "Search query is required"},
		{name: "no known source", target: "/api/multi-search?q=dune&sources=amazon", want: "At least one valid source is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, w.Body.String())
		})
	}
}
