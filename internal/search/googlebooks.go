package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookfinder/be/internal/book"
)

const DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1"

// GoogleBooksAdapter searches the Google Books volumes API.
type GoogleBooksAdapter struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewGoogleBooksAdapter(httpClient *http.Client, baseURL, apiKey string) *GoogleBooksAdapter {
	if baseURL == "" {
		baseURL = DefaultGoogleBooksURL
	}
	return &GoogleBooksAdapter{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (a *GoogleBooksAdapter) Source() book.Source {
	return book.SourceCommercial
}

func (a *GoogleBooksAdapter) Search(ctx context.Context, params Params) (*Result, error) {
	body, err := fetch(ctx, a.httpClient, book.SourceCommercial, a.volumesURL(params), "")
	if err != nil {
		return nil, err
	}

	var res volumesResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, decodeError(book.SourceCommercial, err)
	}

	records := make([]book.Record, 0, len(res.Items))
	for i := range res.Items {
		records = append(records, res.Items[i].toRecord())
	}
	return &Result{TotalFound: res.TotalItems, Start: params.Offset, Records: records}, nil
}

func (a *GoogleBooksAdapter) volumesURL(params Params) string {
	values := url.Values{}
	values.Set("q", params.Query)
	values.Set("maxResults", strconv.Itoa(clampLimit(params.Limit, commercialMaxLimit)))
	values.Set("startIndex", strconv.Itoa(params.Offset))
	if a.apiKey != "" {
		values.Set("key", a.apiKey)
	}
	return a.baseURL + "/volumes?" + values.Encode()
}

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
	SaleInfo   saleInfo   `json:"saleInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	Language            string   `json:"language"`
	PageCount           int      `json:"pageCount"`
	PrintedPageCount    int      `json:"printedPageCount"`
	Categories          []string `json:"categories"`
	AverageRating       *float64 `json:"averageRating"`
	RatingsCount        *float64 `json:"ratingsCount"`
	PreviewLink         string   `json:"previewLink"`
	InfoLink            string   `json:"infoLink"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks *struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type saleInfo struct {
	BuyLink     string `json:"buyLink"`
	RetailPrice *struct {
		Amount       float64 `json:"amount"`
		CurrencyCode string  `json:"currencyCode"`
	} `json:"retailPrice"`
}

func (item *volumeItem) toRecord() book.Record {
	info := item.VolumeInfo
	r := book.Record{
		Key:           "/works/GB_" + item.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Subjects:      info.Categories,
		RatingsCount:  info.RatingsCount,
		AverageRating: info.AverageRating,
		Source:        book.SourceCommercial,
		GoogleBooksID: item.ID,
		Description:   optional(info.Description),
		PreviewLink:   optional(info.PreviewLink),
		InfoLink:      optional(info.InfoLink),
		BuyLinks: &book.BuyLinks{
			GooglePlay:  optional(item.SaleInfo.BuyLink),
			RetailPrice: retailPrice(item.SaleInfo),
		},
	}

	r.FirstPublishYear = publishedYear(info.PublishedDate)
	if info.Publisher != "" {
		r.Publishers = []string{info.Publisher}
	}
	if info.Language != "" {
		r.Languages = []string{info.Language}
	} else {
		r.Languages = []string{"en"}
	}
	for _, id := range info.IndustryIdentifiers {
		r.ISBNs = append(r.ISBNs, id.Identifier)
	}
	// Only the first page count the volume carries is used.
	if info.PageCount > 0 {
		pages := info.PageCount
		r.PageCount = &pages
	} else if info.PrintedPageCount > 0 {
		pages := info.PrintedPageCount
		r.PageCount = &pages
	}
	if info.ImageLinks != nil && info.ImageLinks.Thumbnail != "" {
		cover := secureURL(info.ImageLinks.Thumbnail)
		r.CoverURL = &cover
	}

	r.Normalize()
	return r
}

func publishedYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

func retailPrice(s saleInfo) *string {
	if s.RetailPrice == nil {
		return nil
	}
	price := fmt.Sprintf("$%s %s", strconv.FormatFloat(s.RetailPrice.Amount, 'f', -1, 64), s.RetailPrice.CurrencyCode)
	return &price
}

func secureURL(raw string) string {
	if strings.HasPrefix(raw, "http://") {
		return "https://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
