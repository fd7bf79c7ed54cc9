package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"bookfinder/be/internal/book"
)

const DefaultOpenLibraryURL = "https://openlibrary.org"

// expandedFields is the projection requested whenever full records are needed.
var expandedFields = []string{
	"key", "title", "author_name", "first_publish_year", "edition_count", "cover_i",
	"number_of_pages_median", "isbn", "subject", "publisher", "language", "person",
	"ratings_count", "ratings_average", "readinglog_count", "ebook_access", "has_fulltext", "ia",
}

// OpenLibraryAdapter searches the OpenLibrary catalog.
type OpenLibraryAdapter struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewOpenLibraryAdapter(httpClient *http.Client, baseURL, userAgent string) *OpenLibraryAdapter {
	if baseURL == "" {
		baseURL = DefaultOpenLibraryURL
	}
	return &OpenLibraryAdapter{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

func (a *OpenLibraryAdapter) Source() book.Source {
	return book.SourceCatalog
}

// Search runs an expanded catalog search and maps the docs.
func (a *OpenLibraryAdapter) Search(ctx context.Context, params Params) (*Result, error) {
	body, err := a.SearchRaw(ctx, params, true)
	if err != nil {
		return nil, err
	}

	var res openLibrarySearchResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, decodeError(book.SourceCatalog, err)
	}

	records := make([]book.Record, 0, len(res.Docs))
	for i := range res.Docs {
		records = append(records, res.Docs[i].toRecord())
	}
	return &Result{TotalFound: res.NumFound, Start: params.Offset, Records: records}, nil
}

// SearchRaw returns the catalog's own JSON envelope untouched.
func (a *OpenLibraryAdapter) SearchRaw(ctx context.Context, params Params, expanded bool) (json.RawMessage, error) {
	body, err := fetch(ctx, a.httpClient, book.SourceCatalog, a.searchURL(params, expanded), a.userAgent)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, decodeError(book.SourceCatalog, fmt.Errorf("invalid JSON payload"))
	}
	return body, nil
}

func (a *OpenLibraryAdapter) searchURL(params Params, expanded bool) string {
	values := url.Values{}
	values.Set("q", shapeCatalogQuery(params.Query))
	values.Set("limit", strconv.Itoa(clampLimit(params.Limit, catalogMaxLimit)))
	if params.Offset > 0 {
		values.Set("offset", strconv.Itoa(params.Offset))
	}
	if expanded {
		values.Set("fields", strings.Join(expandedFields, ","))
	}
	return a.baseURL + "/search.json?" + values.Encode()
}

// shapeCatalogQuery widens probable author names ("Octavia Butler") to also
// match the author field.
func shapeCatalogQuery(query string) string {
	query = strings.TrimSpace(query)
	if !looksLikeAuthor(query) {
		return query
	}
	return fmt.Sprintf("%s OR author:\"%s\"", query, query)
}

func looksLikeAuthor(query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}
	for _, token := range tokens {
		r, _ := utf8.DecodeRuneInString(token)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

type openLibrarySearchResult struct {
	NumFound int              `json:"numFound"`
	Start    int              `json:"start"`
	Docs     []openLibraryDoc `json:"docs"`
}

type openLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	EditionCount     *int     `json:"edition_count"`
	CoverI           *int     `json:"cover_i"`
	PagesMedian      *int     `json:"number_of_pages_median"`
	ISBN             []string `json:"isbn"`
	Subject          []string `json:"subject"`
	Publisher        []string `json:"publisher"`
	Language         []string `json:"language"`
	Person           []string `json:"person"`
	RatingsCount     *float64 `json:"ratings_count"`
	RatingsAverage   *float64 `json:"ratings_average"`
	ReadingLogCount  *int     `json:"readinglog_count"`
	EbookAccess      string   `json:"ebook_access"`
	HasFulltext      *bool    `json:"has_fulltext"`
	IA               []string `json:"ia"`
}

func (d *openLibraryDoc) toRecord() book.Record {
	r := book.Record{
		Key:               d.Key,
		Title:             d.Title,
		Authors:           d.AuthorName,
		FirstPublishYear:  d.FirstPublishYear,
		EditionCount:      d.EditionCount,
		CoverID:           d.CoverI,
		ISBNs:             d.ISBN,
		Subjects:          d.Subject,
		Publishers:        d.Publisher,
		Languages:         d.Language,
		People:            d.Person,
		RatingsCount:      d.RatingsCount,
		AverageRating:     d.RatingsAverage,
		ReadingLogCount:   d.ReadingLogCount,
		EbookAccess:       d.EbookAccess,
		HasFulltext:       d.HasFulltext,
		InternetArchiveID: d.IA,
		Source:            book.SourceCatalog,
	}
	if d.PagesMedian != nil && *d.PagesMedian > 0 {
		r.PageCount = d.PagesMedian
	}
	if d.CoverI != nil && *d.CoverI > 0 {
		cover := book.CatalogCoverURL(*d.CoverI)
		r.CoverURL = &cover
	}
	r.Normalize()
	return r
}
