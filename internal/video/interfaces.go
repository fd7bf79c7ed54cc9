package video

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"

	DefaultUserAgent = "Mozilla/5.0 (compatible; BookBot/1.0)"
)

type ExtractRequest struct {
	URL string `json:"url"`
}

// Candidate is a book-like mention found in a video page. Author is nil when
// the pattern that matched does not capture one.
type Candidate struct {
	Title      string  `json:"title"`
	Author     *string `json:"author"`
	Confidence string  `json:"confidence"`
}

// Result is either a list of candidates with the source url, or an empty list
// with generic search suggestions.
type Result struct {
	Books       []Candidate `json:"books"`
	URL         string      `json:"url,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Message     string      `json:"message"`
}
