package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/book"
	"bookfinder/be/internal/metrics"
)

const (
	passthroughDefaultLimit = 8
	commercialDefaultLimit  = 20
)

// RawSearcher returns a source's native search envelope.
type RawSearcher interface {
	SearchRaw(ctx context.Context, params Params, expanded bool) (json.RawMessage, error)
}

type Controller struct {
	catalog       RawSearcher
	commercial    SourceAdapter
	sourceTimeout time.Duration
	metrics       *metrics.Metrics
}

// NewController serves the single-source endpoints. Each upstream call is
// bounded by sourceTimeout when it is positive; m may be nil.
func NewController(catalog RawSearcher, commercial SourceAdapter, sourceTimeout time.Duration, m *metrics.Metrics) *Controller {
	return &Controller{catalog: catalog, commercial: commercial, sourceTimeout: sourceTimeout, metrics: m}
}

// Search proxies the catalog search and returns its JSON untouched.
func (c *Controller) Search(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		apperr.Respond(ctx, apperr.Validation("Search query is required"), "")
		return
	}

	params := Params{
		Query:  query,
		Limit:  PositiveInt(ctx.Query("limit"), passthroughDefaultLimit),
		Offset: NonNegativeInt(ctx.Query("offset"), 0),
	}
	expanded, _ := strconv.ParseBool(ctx.Query("expanded"))

	callCtx, cancel := c.sourceContext(ctx.Request.Context())
	defer cancel()
	start := time.Now()
	body, err := c.catalog.SearchRaw(callCtx, params, expanded)
	c.observe(book.SourceCatalog, start, err)
	if err != nil {
		slog.Error("catalog search failed", "query", query, "error", err)
		apperr.Respond(ctx, apperr.Upstream("Failed to search books", err), "")
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GoogleBooks returns commercial results in the common record shape.
func (c *Controller) GoogleBooks(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		apperr.Respond(ctx, apperr.Validation("Search query is required"), "")
		return
	}

	params := Params{
		Query:  query,
		Limit:  PositiveInt(ctx.Query("limit"), commercialDefaultLimit),
		Offset: NonNegativeInt(ctx.Query("offset"), 0),
	}
	callCtx, cancel := c.sourceContext(ctx.Request.Context())
	defer cancel()
	start := time.Now()
	res, err := c.commercial.Search(callCtx, params)
	c.observe(c.commercial.Source(), start, err)
	if err != nil {
		slog.Error("commercial search failed", "query", query, "error", err)
		apperr.Respond(ctx, apperr.Upstream("Failed to search Google Books", err), "")
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) sourceContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.sourceTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.sourceTimeout)
}

func (c *Controller) observe(source book.Source, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveFailure(string(source), string(AsAdapterError(source, err).Kind), elapsed)
		return
	}
	c.metrics.ObserveSuccess(string(source), elapsed)
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/search", c.Search)
	router.GET("/api/google-books", c.GoogleBooks)
}

// PositiveInt parses raw, returning def when it is missing, malformed or not > 0.
func PositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// NonNegativeInt parses raw, returning def when it is missing, malformed or < 0.
func NonNegativeInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def
	}
	return n
}
