package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/book"
	"bookfinder/be/internal/metrics"
	"bookfinder/be/internal/search"
)

// Service fans a query out to every requested source and merges the answers.
type Service struct {
	adapters      map[book.Source]search.SourceAdapter
	sourceTimeout time.Duration
	metrics       *metrics.Metrics
}

// NewService builds an aggregator over adapters. A zero sourceTimeout leaves
// each call bounded only by the caller's context.
func NewService(adapters []search.SourceAdapter, sourceTimeout time.Duration, m *metrics.Metrics) *Service {
	byName := make(map[book.Source]search.SourceAdapter, len(adapters))
	for _, adapter := range adapters {
		byName[adapter.Source()] = adapter
	}
	return &Service{adapters: byName, sourceTimeout: sourceTimeout, metrics: m}
}

type outcome struct {
	source book.Source
	result *search.Result
	err    *search.AdapterError
}

func (s *Service) MultiSearch(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperr.Validation("Search query is required")
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	if len(req.Sources) == 0 {
		return nil, apperr.Validation("At least one valid source is required")
	}

	params := search.Params{Query: query, Limit: req.Limit, Offset: req.Offset}
	outcomes := s.fanOut(ctx, params, req.Sources)

	statuses := orderedmap.New[book.Source, SourceStatus]()
	totalFound := 0
	var succeeded []outcome
	var succeededNames []string
	for _, o := range outcomes {
		if o.err != nil {
			statuses.Set(o.source, SourceStatus{Status: StatusError, Error: o.err.Message})
			continue
		}
		found := o.result.TotalFound
		if found == 0 {
			found = len(o.result.Records)
		}
		if found > totalFound {
			totalFound = found
		}
		statuses.Set(o.source, SourceStatus{Found: found, Status: StatusSuccess})
		succeeded = append(succeeded, o)
		succeededNames = append(succeededNames, string(o.source))
	}

	records := merge(succeeded)
	rank(records)

	resp := &Response{
		TotalFound: totalFound,
		Start:      req.Offset,
		Records:    records,
		Sources:    statuses,
		Query:      query,
	}
	if len(records) == 0 {
		resp.Message = noResultsMessage
		resp.ExternalSuggestions = book.NewSuggestions(query)
	} else {
		resp.Message = fmt.Sprintf("Found %d books from %s", len(records), strings.Join(succeededNames, " + "))
	}
	return resp, nil
}

// fanOut queries every source concurrently and waits for all of them.
// Results keep the order of sources.
func (s *Service) fanOut(ctx context.Context, params search.Params, sources []book.Source) []outcome {
	outcomes := make([]outcome, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		outcomes[i].source = source
		adapter, ok := s.adapters[source]
		if !ok {
			outcomes[i].err = &search.AdapterError{Source: source, Kind: search.ErrKindOther, Message: "source not configured"}
			continue
		}

		wg.Add(1)
		go func(i int, adapter search.SourceAdapter) {
			defer wg.Done()
			outcomes[i].result, outcomes[i].err = s.call(ctx, adapter, params)
		}(i, adapter)
	}
	wg.Wait()

	return outcomes
}

func (s *Service) call(ctx context.Context, adapter search.SourceAdapter, params search.Params) (*search.Result, *search.AdapterError) {
	if s.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sourceTimeout)
		defer cancel()
	}

	source := adapter.Source()
	start := time.Now()
	res, err := adapter.Search(ctx, params)
	elapsed := time.Since(start)
	if err == nil && res == nil {
		err = fmt.Errorf("empty result")
	}
	if err != nil {
		adapterErr := search.AsAdapterError(source, err)
		s.metrics.ObserveFailure(string(source), string(adapterErr.Kind), elapsed)
		slog.Warn("source search failed",
			"source", source,
			"kind", adapterErr.Kind,
			"duration", elapsed,
			"error", adapterErr.Message,
		)
		return nil, adapterErr
	}

	s.metrics.ObserveSuccess(string(source), elapsed)
	return res, nil
}

// merge concatenates successful results, higher-weight sources first, keeping
// the first record seen for every merge key.
func merge(outcomes []outcome) []book.Record {
	ordered := make([]outcome, len(outcomes))
	copy(ordered, outcomes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].source.Weight() > ordered[j].source.Weight()
	})

	seen := make(map[string]struct{})
	records := make([]book.Record, 0)
	for _, o := range ordered {
		for _, r := range o.result.Records {
			key := r.MergeKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if r.Source == "" {
				r.Source = o.source
			}
			r.Decorate()
			records = append(records, r)
		}
	}
	return records
}

// rank orders records by source weight, then popularity, then average rating.
func rank(records []book.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		if wa, wb := a.SearchSource.Weight(), b.SearchSource.Weight(); wa != wb {
			return wa > wb
		}
		if pa, pb := a.Popularity(), b.Popularity(); pa != pb {
			return pa > pb
		}
		return a.Rating() > b.Rating()
	})
}

// ParseSources maps the sources query value onto known sources. Empty or
// "all" selects every source; unknown names are skipped.
func ParseSources(raw string) []book.Source {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return []book.Source{book.SourceCatalog, book.SourceCommercial}
	}

	var sources []book.Source
	for _, name := range strings.Split(raw, ",") {
		source, ok := book.ParseSource(name)
		if !ok || slices.Contains(sources, source) {
			continue
		}
		sources = append(sources, source)
	}
	return sources
}
