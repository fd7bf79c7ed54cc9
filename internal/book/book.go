package book

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// Source identifies the adapter that produced a Record.
type Source string

const (
	SourceCatalog    Source = "openlibrary"
	SourceCommercial Source = "google"
)

// Weight is the source priority used for ranking and duplicate survival.
func (s Source) Weight() int {
	switch s {
	case SourceCommercial:
		return 2
	case SourceCatalog:
		return 1
	default:
		return 0
	}
}

// ParseSource maps a query-string source name onto a known Source.
func ParseSource(name string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(name))) {
	case SourceCatalog:
		return SourceCatalog, true
	case SourceCommercial:
		return SourceCommercial, true
	}
	return "", false
}

// BuyLinks holds commerce data only the commercial source provides.
type BuyLinks struct {
	GooglePlay  *string `json:"google_play"`
	RetailPrice *string `json:"retail_price"`
}

// Record is the common book shape produced by every adapter. JSON names follow the
// catalog's search doc so a record can be posted back to the note exporter as is.
type Record struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Authors          []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	EditionCount     *int     `json:"edition_count,omitempty"`
	CoverID          *int     `json:"cover_i,omitempty"`
	CoverURL         *string  `json:"cover_url"`
	PageCount        *int     `json:"number_of_pages_median"`
	ISBNs            []string `json:"isbn"`
	Subjects         []string `json:"subject"`
	Publishers       []string `json:"publisher"`
	Languages        []string `json:"language"`
	People           []string `json:"person,omitempty"`

	RatingsCount    *float64 `json:"ratings_count"`
	AverageRating   *float64 `json:"ratings_average"`
	ReadingLogCount *int     `json:"readinglog_count,omitempty"`

	EbookAccess       string   `json:"ebook_access,omitempty"`
	HasFulltext       *bool    `json:"has_fulltext,omitempty"`
	InternetArchiveID []string `json:"ia,omitempty"`

	Source Source `json:"source"`

	GoogleBooksID string    `json:"google_books_id,omitempty"`
	Description   *string   `json:"description,omitempty"`
	BuyLinks      *BuyLinks `json:"buy_links,omitempty"`
	PreviewLink   *string   `json:"preview_link,omitempty"`
	InfoLink      *string   `json:"info_link,omitempty"`

	SearchSource    Source `json:"search_source,omitempty"`
	AmazonSearch    string `json:"amazon_search,omitempty"`
	GoodreadsSearch string `json:"goodreads_search,omitempty"`
	AudibleSearch   string `json:"audible_search,omitempty"`
}

// Normalize applies the record defaults: a title, at least one author and
// non-nil list fields.
func (r *Record) Normalize() {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = UnknownTitle
	}
	if len(r.Authors) == 0 {
		r.Authors = []string{UnknownAuthor}
	}
	if r.ISBNs == nil {
		r.ISBNs = []string{}
	}
	if r.Subjects == nil {
		r.Subjects = []string{}
	}
	if r.Publishers == nil {
		r.Publishers = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
}

// FirstAuthor returns the first author or an empty string.
func (r *Record) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	return r.Authors[0]
}

// MergeKey identifies the same work across sources.
func (r *Record) MergeKey() string {
	return strings.ToLower(r.Title) + "_" + strings.ToLower(r.FirstAuthor())
}

// Popularity is ratings count when present, else average rating, else 0.
func (r *Record) Popularity() float64 {
	if r.RatingsCount != nil && *r.RatingsCount > 0 {
		return *r.RatingsCount
	}
	return r.Rating()
}

// Rating returns the average rating or 0.
func (r *Record) Rating() float64 {
	if r.AverageRating != nil {
		return *r.AverageRating
	}
	return 0
}

// HasEbookAccess reports whether the catalog lists any form of digital access.
func (r *Record) HasEbookAccess() bool {
	return r.EbookAccess != "" && r.EbookAccess != "no_ebook"
}

// Decorate stamps the derived aggregation fields onto the record.
func (r *Record) Decorate() {
	r.SearchSource = r.Source
	term := r.Title + " " + r.FirstAuthor()
	r.AmazonSearch = AmazonSearchURL(term)
	r.GoodreadsSearch = GoodreadsSearchURL(term)
	r.AudibleSearch = AudibleSearchURL(term)
}

// CatalogCoverURL builds the cover image location for a catalog cover id.
func CatalogCoverURL(coverID int) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", coverID)
}

// encode query-escapes s with spaces as %20.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func AmazonSearchURL(term string) string {
	return "https://www.amazon.com/s?k=" + encode(term) + "&i=stripbooks"
}

func GoodreadsSearchURL(term string) string {
	return "https://www.goodreads.com/search?q=" + encode(term)
}

func AudibleSearchURL(term string) string {
	return "https://www.audible.com/search?keywords=" + encode(term)
}

// Suggestions routes a user off-platform when no source returned anything.
type Suggestions struct {
	AmazonAuthor    string `json:"amazon_author"`
	GoodreadsAuthor string `json:"goodreads_author"`
	AmazonGeneral   string `json:"amazon_general"`
}

func NewSuggestions(query string) *Suggestions {
	q := encode(query)
	return &Suggestions{
		AmazonAuthor:    "https://www.amazon.com/s?k=" + q + "&i=stripbooks&rh=p_27%3A" + q,
		GoodreadsAuthor: "https://www.goodreads.com/search?q=" + q + "&search_type=books&search%5Bfield%5D=author",
		AmazonGeneral:   "https://www.amazon.com/s?k=" + q + "&i=stripbooks",
	}
}
