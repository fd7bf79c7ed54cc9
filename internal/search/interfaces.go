package search

import (
	"context"

	"bookfinder/be/internal/book"
)

const (
	catalogMaxLimit    = 100
	commercialMaxLimit = 40
)

// SourceAdapter searches one external book source and maps its answer onto
// book.Record. Failures are always returned as *AdapterError.
type SourceAdapter interface {
	Source() book.Source
	Search(ctx context.Context, params Params) (*Result, error)
}

// Params is a search request. Query is validated by the caller.
type Params struct {
	Query  string
	Limit  int
	Offset int
}

// Result is one source's answer.
type Result struct {
	TotalFound int           `json:"num_found"`
	Start      int           `json:"start"`
	Records    []book.Record `json:"docs"`
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
