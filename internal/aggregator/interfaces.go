package aggregator

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"bookfinder/be/internal/book"
)

const (
	DefaultLimit = 20

	StatusSuccess = "success"
	StatusError   = "error"

	noResultsMessage = "No books found. Try different keywords or check the Gemini AI chat for personalized recommendations!"
)

// Request is one multi-source search. Sources lists the adapters to query in
// report order.
type Request struct {
	Query   string
	Limit   int
	Offset  int
	Sources []book.Source
}

// SourceStatus is the per-source outcome reported to clients.
type SourceStatus struct {
	Found  int    `json:"found"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Response is the aggregated search envelope.
type Response struct {
	TotalFound          int                                               `json:"num_found"`
	Start               int                                               `json:"start"`
	Records             []book.Record                                     `json:"docs"`
	Sources             *orderedmap.OrderedMap[book.Source, SourceStatus] `json:"sources"`
	Query               string                                            `json:"search_query"`
	Message             string                                            `json:"message"`
	ExternalSuggestions *book.Suggestions                                 `json:"external_suggestions"`
}
