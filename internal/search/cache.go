package search

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"bookfinder/be/internal/book"
)

// CachedAdapter memoizes successful results of another adapter for a fixed TTL.
// Failures are never cached.
type CachedAdapter struct {
	next  SourceAdapter
	cache *expirable.LRU[string, *Result]
}

func NewCachedAdapter(next SourceAdapter, size int, ttl time.Duration) *CachedAdapter {
	return &CachedAdapter{
		next:  next,
		cache: expirable.NewLRU[string, *Result](size, nil, ttl),
	}
}

func (a *CachedAdapter) Source() book.Source {
	return a.next.Source()
}

func (a *CachedAdapter) Search(ctx context.Context, params Params) (*Result, error) {
	key := fmt.Sprintf("%s|%d|%d", params.Query, params.Limit, params.Offset)
	if res, ok := a.cache.Get(key); ok {
		return res.clone(), nil
	}

	res, err := a.next.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	a.cache.Add(key, res.clone())
	return res, nil
}

// clone copies the record slice so callers may decorate records in place.
func (r *Result) clone() *Result {
	records := make([]book.Record, len(r.Records))
	copy(records, r.Records)
	return &Result{TotalFound: r.TotalFound, Start: r.Start, Records: records}
}
