package video

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"

	"bookfinder/be/internal/apperr"
)

const (
	maxCandidates  = 5
	maxSuggestions = 3
)

var (
	videoURL  = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:tiktok\.com|vm\.tiktok\.com)`)
	hasScheme = regexp.MustCompile(`(?i)^https?://`)

	// mentionPatterns run in order over the page text; earlier patterns claim a
	// title first.
	mentionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"([^"]+)"\s+by\s+([^,\n.!?]+)`),
		regexp.MustCompile(`([A-Z][a-zA-Z\s]+)\s+by\s+([A-Z][a-zA-Z\s]+)`),
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`(?i)Book\s+\d+[:\s]+([^,\n.!?]+)`),
		regexp.MustCompile(`(?i)#book([a-zA-Z\s]+)`),
	}

	suggestionTerms = []string{"book", "read", "author", "novel", "series", "romance", "fantasy", "mystery"}
	fallbackTerms   = []string{"book recommendations", "book review", "book haul"}
)

// Extractor pulls book mentions out of short-video pages.
type Extractor struct {
	base *colly.Collector
}

func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	base := colly.NewCollector(colly.UserAgent(userAgent))
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	if timeout > 0 {
		base.SetRequestTimeout(timeout)
	}
	return &Extractor{base: base}
}

// Collector exposes the shared collector so callers can swap its transport.
func (e *Extractor) Collector() *colly.Collector {
	return e.base
}

// Extract fetches rawURL and scans its title and description. Fetch failures
// are not errors: they produce a suggestion-only result.
func (e *Extractor) Extract(rawURL string) (*Result, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	content, err := e.fetchContent(target)
	if err != nil {
		slog.Warn("video page fetch failed", "url", target, "error", err)
		return &Result{
			Books:       []Candidate{},
			Suggestions: fallbackTerms,
			Message:     "Couldn't parse the TikTok automatically. Try searching for 'book recommendations' or describe what you saw in the video!",
		}, nil
	}

	candidates := FindCandidates(content)
	if len(candidates) == 0 {
		return &Result{
			Books:       []Candidate{},
			Suggestions: Suggestions(content),
			Message:     "No specific books found, but try these search terms based on the video content!",
		}, nil
	}

	plural := "s"
	if len(candidates) == 1 {
		plural = ""
	}
	found := len(candidates)
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return &Result{
		Books:   candidates,
		URL:     rawURL,
		Message: fmt.Sprintf("Found %d potential book%s from this TikTok!", found, plural),
	}, nil
}

// NormalizeURL validates a video URL and adds https:// when no scheme is given.
// The host must belong to the video site, not merely mention it.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", apperr.Validation("TikTok URL is required")
	}
	invalid := apperr.Validation("Please provide a valid TikTok URL")
	if !videoURL.MatchString(rawURL) {
		return "", invalid
	}
	if !hasScheme.MatchString(rawURL) {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", invalid
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "tiktok.com" && !strings.HasSuffix(host, ".tiktok.com") {
		return "", invalid
	}
	return parsed.String(), nil
}

func (e *Extractor) fetchContent(target string) (string, error) {
	c := e.base.Clone()

	var title, description string
	var fetchErr error
	c.OnHTML("title", func(h *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(h.Text)
		}
	})
	c.OnHTML("meta[name]", func(h *colly.HTMLElement) {
		if description == "" && strings.EqualFold(h.Attr("name"), "description") {
			description = strings.TrimSpace(h.Attr("content"))
		}
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(target); err != nil {
		return "", err
	}
	c.Wait()
	if fetchErr != nil {
		return "", fetchErr
	}

	parts := make([]string, 0, 2)
	for _, p := range []string{title, description} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " "), nil
}

// FindCandidates runs every mention pattern over content and returns the
// distinct titles in discovery order.
func FindCandidates(content string) []Candidate {
	candidates := make([]Candidate, 0)
	seen := make(map[string]bool)
	for _, pattern := range mentionPatterns {
		for _, m := range pattern.FindAllStringSubmatch(content, -1) {
			title := strings.TrimSpace(m[1])
			if n := utf8.RuneCountInString(title); n <= 3 || n >= 100 {
				continue
			}
			key := strings.ToLower(title)
			if seen[key] {
				continue
			}
			seen[key] = true

			c := Candidate{Title: title, Confidence: ConfidenceMedium}
			if len(m) > 2 {
				if author := strings.TrimSpace(m[2]); author != "" {
					c.Author = &author
					c.Confidence = ConfidenceHigh
				}
			}
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Suggestions lists up to three generic search terms that appear in content.
func Suggestions(content string) []string {
	lower := strings.ToLower(content)
	suggestions := make([]string, 0, maxSuggestions)
	for _, term := range suggestionTerms {
		if len(suggestions) == maxSuggestions {
			break
		}
		if strings.Contains(lower, term) {
			suggestions = append(suggestions, term)
		}
	}
	return suggestions
}
