package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/book"
	"bookfinder/be/internal/classifier"
)

// Notion rejects rich text blocks longer than this.
const maxRichText = 2000

// Exporter writes books as pages of a Notion reading-list database.
type Exporter struct {
	pages      PageCreator
	databaseID string
	now        func() time.Time
}

// NewExporter returns an exporter for databaseID. A nil pages collaborator
// means Notion is not configured and every export fails with a configuration
// error.
func NewExporter(pages PageCreator, databaseID string) *Exporter {
	return &Exporter{pages: pages, databaseID: databaseID, now: time.Now}
}

// Export classifies rec and creates its page, returning the page id.
func (e *Exporter) Export(ctx context.Context, rec book.Record) (string, error) {
	if e.pages == nil || e.databaseID == "" {
		return "", apperr.Configuration("Notion integration not configured")
	}

	rec.Normalize()
	class := classifier.ClassifyWithSignals(rec.Subjects, rec.Title, classifier.Signals{
		EbookAccess: rec.EbookAccess,
		ArchiveIDs:  rec.InternetArchiveID,
		People:      rec.People,
	})

	page, err := e.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(e.databaseID),
		},
		Properties: BuildProperties(rec, class, e.now().UTC()),
	})
	if err != nil {
		return "", apperr.Upstream("Failed to add book to Notion", err)
	}

	slog.Info("book exported", "title", rec.Title, "page_id", page.ID.String(), "genres", class.Genres)
	return page.ID.String(), nil
}

// BuildProperties maps a record and its classification onto the reading-list
// database columns. Optional columns are only set when the record has data.
func BuildProperties(rec book.Record, class classifier.Result, today time.Time) notionapi.Properties {
	genres := make([]notionapi.Option, 0, len(class.Genres))
	for _, g := range class.Genres {
		genres = append(genres, notionapi.Option{Name: g})
	}

	props := notionapi.Properties{
		"Title":               notionapi.TitleProperty{Title: richText(rec.Title)},
		"Author":              notionapi.RichTextProperty{RichText: richText(strings.Join(rec.Authors, ", "))},
		"Status":              notionapi.SelectProperty{Select: notionapi.Option{Name: StatusToRead}},
		"Genre":               notionapi.MultiSelectProperty{MultiSelect: genres},
		"Date Added":          NewDateOnlyProperty(today),
		"Part of Series":      notionapi.SelectProperty{Select: notionapi.Option{Name: yesNo(class.PartOfSeries)}},
		"Audiobook Available": notionapi.SelectProperty{Select: notionapi.Option{Name: yesNo(class.AudiobookAvailable)}},
		"Audiobook Link":      notionapi.URLProperty{URL: audiobookLink(rec)},
	}

	if rec.PageCount != nil && *rec.PageCount > 0 {
		props["Pages"] = notionapi.NumberProperty{Number: float64(*rec.PageCount)}
	}
	if link := buyLink(rec); link != "" {
		props["Link to Buy"] = notionapi.URLProperty{URL: link}
	}
	if summary := Summary(rec); summary != "" {
		props["Summary"] = notionapi.RichTextProperty{RichText: richText(summary)}
	}
	if cover := coverURL(rec); cover != "" {
		props["Cover"] = notionapi.FilesProperty{Files: []notionapi.File{{
			Name:     rec.Title + " Cover",
			Type:     notionapi.FileTypeExternal,
			External: &notionapi.FileObject{URL: cover},
		}}}
	}
	return props
}

// Summary renders whichever catalog facts the record carries as sentences.
func Summary(rec book.Record) string {
	var parts []string
	if rec.FirstPublishYear != nil {
		parts = append(parts, fmt.Sprintf("First published in %d.", *rec.FirstPublishYear))
	}
	if rec.EditionCount != nil && *rec.EditionCount > 0 {
		parts = append(parts, fmt.Sprintf("%d editions available.", *rec.EditionCount))
	}
	if len(rec.Publishers) > 0 {
		parts = append(parts, fmt.Sprintf("Published by %s.", rec.Publishers[0]))
	}
	if len(rec.Languages) > 0 {
		parts = append(parts, fmt.Sprintf("Language: %s.", strings.Join(rec.Languages, ", ")))
	}
	if rec.RatingsCount != nil && *rec.RatingsCount > 0 {
		parts = append(parts, fmt.Sprintf("Rated by %.0f readers.", *rec.RatingsCount))
	}
	if rec.ReadingLogCount != nil && *rec.ReadingLogCount > 0 {
		parts = append(parts, fmt.Sprintf("On %d reading logs.", *rec.ReadingLogCount))
	}
	if rec.HasEbookAccess() {
		parts = append(parts, fmt.Sprintf("Ebook access: %s.", rec.EbookAccess))
	}
	if rec.HasFulltext != nil && *rec.HasFulltext {
		parts = append(parts, "Full text available.")
	}
	if len(rec.InternetArchiveID) > 0 {
		parts = append(parts, fmt.Sprintf("Internet Archive ID: %s.", rec.InternetArchiveID[0]))
	}
	return strings.Join(parts, " ")
}

func buyLink(rec book.Record) string {
	if strings.HasPrefix(rec.Key, "/works/GB_") || rec.Source == book.SourceCommercial {
		if rec.InfoLink != nil {
			return *rec.InfoLink
		}
		return ""
	}
	if rec.Key != "" {
		return "https://openlibrary.org" + rec.Key
	}
	return ""
}

func audiobookLink(rec book.Record) string {
	if len(rec.InternetArchiveID) > 0 && rec.InternetArchiveID[0] != "" {
		return "https://archive.org/details/" + rec.InternetArchiveID[0]
	}
	return book.AudibleSearchURL(rec.Title + " " + rec.FirstAuthor())
}

func coverURL(rec book.Record) string {
	if rec.CoverURL != nil && *rec.CoverURL != "" {
		return *rec.CoverURL
	}
	if rec.CoverID != nil && *rec.CoverID > 0 {
		return book.CatalogCoverURL(*rec.CoverID)
	}
	return ""
}

func richText(content string) []notionapi.RichText {
	if runes := []rune(content); len(runes) > maxRichText {
		content = string(runes[:maxRichText])
	}
	return []notionapi.RichText{{Text: &notionapi.Text{Content: content}}}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// DateOnlyProperty is a Notion date property without a time component.
// notionapi.Date always encodes a full timestamp.
type DateOnlyProperty struct {
	Date DateOnlyValue `json:"date"`
}

type DateOnlyValue struct {
	Start string `json:"start"`
}

// NewDateOnlyProperty holds the UTC calendar date of t.
func NewDateOnlyProperty(t time.Time) DateOnlyProperty {
	return DateOnlyProperty{Date: DateOnlyValue{Start: t.UTC().Format(time.DateOnly)}}
}

func (p DateOnlyProperty) GetID() string {
	return ""
}

func (p DateOnlyProperty) GetType() notionapi.PropertyType {
	return notionapi.PropertyTypeDate
}
