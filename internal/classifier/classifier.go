// Package classifier tags a book with genres, series membership and audiobook
// availability from its free-text subjects and title. The rules are heuristic
// and order sensitive: the first rule matching a subject decides its genre.
package classifier

import (
	"regexp"
	"strings"
)

const (
	maxSubjects = 15

	GenreFiction        = "Fiction"
	GenreNonFiction     = "Non-Fiction"
	GenreMystery        = "Mystery"
	GenreScienceFiction = "Science Fiction"
	GenreFantasy        = "Fantasy"
	GenreBiography      = "Biography"
	GenreSelfHelp       = "Self-Help"
	GenreBusiness       = "Business"
	GenreMemoir         = "Memoir"
)

type genreRule struct {
	genre   string
	matches func(subject string) bool
}

func containsAny(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}

// genreRules is evaluated top to bottom. "science fiction" therefore lands in
// Fiction; only "sci-fi" style subjects reach Science Fiction.
var genreRules = []genreRule{
	{GenreFiction, func(s string) bool {
		return strings.Contains(s, "fiction") && !containsAny("non-fiction", "nonfiction")(s)
	}},
	{GenreNonFiction, containsAny("non-fiction", "nonfiction", "biography", "history")},
	{GenreMystery, containsAny("mystery", "detective", "crime")},
	{GenreScienceFiction, containsAny("science fiction", "science-fiction", "sci-fi")},
	{GenreFantasy, containsAny("fantasy", "magic")},
	{GenreBiography, containsAny("biography", "biographical")},
	{GenreSelfHelp, containsAny("self-help", "self help", "personal development", "personal-development")},
	{GenreBusiness, containsAny("business", "entrepreneurship", "management")},
	{GenreMemoir, containsAny("memoir", "autobiography")},
}

var (
	seriesSubject    = containsAny("series", "book 1", "volume", "trilogy", "saga")
	seriesTitleWords = containsAny("series", "trilogy", "saga", "volume")
	numberedPart     = regexp.MustCompile(`(?i)\b(book|part)\s+\d+`)
	audioSubject     = containsAny("audiobook", "audio book", "narration")
)

// Signals are optional record fields that feed the audiobook and default
// genre heuristics.
type Signals struct {
	EbookAccess string
	ArchiveIDs  []string
	People      []string
}

// Result is the classification of one book. Genres is never empty.
type Result struct {
	Genres             []string `json:"genres"`
	PartOfSeries       bool     `json:"part_of_series"`
	AudiobookAvailable bool     `json:"audiobook_available"`
}

// Classify tags a book from subjects and title alone.
func Classify(subjects []string, title string) Result {
	return ClassifyWithSignals(subjects, title, Signals{})
}

func ClassifyWithSignals(subjects []string, title string, signals Signals) Result {
	if len(subjects) > maxSubjects {
		subjects = subjects[:maxSubjects]
	}

	var res Result
	seen := make(map[string]bool)
	mentionsBiography := false
	for _, subject := range subjects {
		lower := strings.ToLower(subject)

		for _, rule := range genreRules {
			if rule.matches(lower) {
				if !seen[rule.genre] {
					seen[rule.genre] = true
					res.Genres = append(res.Genres, rule.genre)
				}
				break
			}
		}

		if strings.Contains(lower, "biography") {
			mentionsBiography = true
		}
		if seriesSubject(lower) {
			res.PartOfSeries = true
		}
		if audioSubject(lower) {
			res.AudiobookAvailable = true
		}
	}

	if isSeriesTitle(title) {
		res.PartOfSeries = true
	}
	if hasDigitalAccess(signals) {
		res.AudiobookAvailable = true
	}

	if len(res.Genres) == 0 {
		if mentionsBiography || len(signals.People) > 0 {
			res.Genres = []string{GenreBiography}
		} else {
			res.Genres = []string{GenreFiction}
		}
	}
	return res
}

func isSeriesTitle(title string) bool {
	if strings.Contains(title, "#") || strings.Contains(title, "Book ") {
		return true
	}
	return seriesTitleWords(strings.ToLower(title)) || numberedPart.MatchString(title)
}

// hasDigitalAccess is a weak audiobook proxy: any catalog ebook access or an
// archive identifier.
func hasDigitalAccess(s Signals) bool {
	if s.EbookAccess != "" && s.EbookAccess != "no_ebook" {
		return true
	}
	return len(s.ArchiveIDs) > 0
}
