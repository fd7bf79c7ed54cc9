package video

import (
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookfinder/be/internal/apperr"
)

const videoPage = `<html><head>
<title>Fourth Wing review | TikTok</title>
<meta name="description" content="My thoughts on &quot;Fourth Wing&quot; by Rebecca Yarros, plus Book 2: Iron Flame #booktok">
</head><body></body></html>`

func newMockedExtractor(t *testing.T) (*Extractor, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	extractor := NewExtractor(time.Second, "")
	extractor.Collector().WithTransport(transport)
	return extractor, transport
}

func htmlResponder(status int, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(status, body)
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
		resp.Request = req
		return resp, nil
	}
}

func TestExtractor_Extract(t *testing.T) {
	extractor, transport := newMockedExtractor(t)
	transport.RegisterResponder(http.MethodGet, "https://www.tiktok.com/@reader/video/1", htmlResponder(http.StatusOK, videoPage))

	res, err := extractor.Extract("www.tiktok.com/@reader/video/1")
	require.NoError(t, err)

	require.NotEmpty(t, res.Books)
	first := res.Books[0]
	assert.Equal(t, "Fourth Wing", first.Title)
	require.NotNil(t, first.Author)
	assert.Equal(t, "Rebecca Yarros", *first.Author)
	assert.Equal(t, ConfidenceHigh, first.Confidence)
	assert.Equal(t, "www.tiktok.com/@reader/video/1", res.URL)
	assert.Empty(t, res.Suggestions)
	assert.Contains(t, res.Message, "potential book")

	var titles []string
	for _, b := range res.Books {
		titles = append(titles, b.Title)
	}
	assert.Equal(t, []string{"Fourth Wing", "Iron Flame #booktok"}, titles)
	assert.LessOrEqual(t, len(res.Books), maxCandidates)
}

func TestExtractor_NoMentions(t *testing.T) {
	extractor, transport := newMockedExtractor(t)
	transport.RegisterResponder(http.MethodGet, "https://vm.tiktok.com/abc",
		htmlResponder(http.StatusOK, `<html><head><title>my fantasy romance mystery read</title></head></html>`))

	res, err := extractor.Extract("https://vm.tiktok.com/abc")
	require.NoError(t, err)

	assert.NotNil(t, res.Books)
	assert.Empty(t, res.Books)
	assert.Equal(t, []string{"read", "romance", "fantasy"}, res.Suggestions)
	assert.Empty(t, res.URL)
}

func TestExtractor_FetchFailure(t *testing.T) {
	extractor, transport := newMockedExtractor(t)
	transport.RegisterResponder(http.MethodGet, "https://www.tiktok.com/@gone", htmlResponder(http.StatusNotFound, "gone"))

	res, err := extractor.Extract("https://www.tiktok.com/@gone")
	require.NoError(t, err)
	assert.Empty(t, res.Books)
	assert.Equal(t, []string{"book recommendations", "book review", "book haul"}, res.Suggestions)
	assert.Contains(t, res.Message, "Couldn't parse the TikTok automatically")
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "full url", raw: "https://www.tiktok.com/@a/video/1", want: "https://www.tiktok.com/@a/video/1"},
		{name: "schemeless short link", raw: "vm.tiktok.com/ZMabc/", want: "https://vm.tiktok.com/ZMabc/"},
		{name: "empty", raw: "  ", wantErr: "TikTok URL is required"},
		{name: "other site", raw: "https://youtube.com/watch?v=1", wantErr: "Please provide a valid TikTok URL"},
		{name: "mention in query", raw: "https://evil.test/?next=tiktok.com", wantErr: "Please provide a valid TikTok URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				assert.Equal(t, tt.wantErr, apperr.Message(err, ""))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindCandidates(t *testing.T) {
	t.Run("quoted title by author", func(t *testing.T) {
		got := FindCandidates(`loved "Project Hail Mary" by Andy Weir!`)
		require.NotEmpty(t, got)
		assert.Equal(t, "Project Hail Mary", got[0].Title)
		assert.Equal(t, "Andy Weir", *got[0].Author)
	})

	t.Run("short and duplicate titles dropped", func(t *testing.T) {
		got := FindCandidates(`"It" and "Dune" and "DUNE" and "Dune"`)
		require.Len(t, got, 1)
		assert.Equal(t, "Dune", got[0].Title)
		assert.Nil(t, got[0].Author)
		assert.Equal(t, ConfidenceMedium, got[0].Confidence)
	})

	t.Run("hashtag", func(t *testing.T) {
		got := FindCandidates("#bookishthoughts and #booktok")
		require.Len(t, got, 1)
		assert.Equal(t, "ishthoughts and", got[0].Title)
	})

	t.Run("nothing", func(t *testing.T) {
		got := FindCandidates("dance challenge")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
