package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/jomei/notionapi"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"bookfinder/be/internal/aggregator"
	"bookfinder/be/internal/chatbot"
	"bookfinder/be/internal/config"
	"bookfinder/be/internal/llm"
	"bookfinder/be/internal/metrics"
	"bookfinder/be/internal/notes"
	"bookfinder/be/internal/search"
	"bookfinder/be/internal/server"
	"bookfinder/be/internal/video"
)

// sources holds the two book adapters. catalog is kept unwrapped for the raw
// passthrough endpoint.
type sources struct {
	catalog    *search.OpenLibraryAdapter
	commercial search.SourceAdapter
	adapters   []search.SourceAdapter
}

func newSources(cfg config.SearchConfig, client *http.Client) sources {
	catalog := search.NewOpenLibraryAdapter(client, cfg.OpenLibraryURL, cfg.UserAgent)
	var catalogAdapter search.SourceAdapter = catalog
	var commercial search.SourceAdapter = search.NewGoogleBooksAdapter(client, cfg.GoogleBooksURL, cfg.GoogleBooksAPIKey)

	if cfg.CacheTTL > 0 {
		catalogAdapter = search.NewCachedAdapter(catalogAdapter, cfg.CacheSize, cfg.CacheTTL)
		commercial = search.NewCachedAdapter(commercial, cfg.CacheSize, cfg.CacheTTL)
	}

	return sources{
		catalog:    catalog,
		commercial: commercial,
		adapters:   []search.SourceAdapter{catalogAdapter, commercial},
	}
}

// newChatProvider returns the configured AI provider, or nil when its API key
// is missing. The returned closer is never nil.
func newChatProvider(ctx context.Context, cfg *config.Config) (llm.AIProvider, func(), error) {
	noop := func() {}

	switch cfg.Chat.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			slog.Warn("OpenAI API key not configured; chat disabled")
			return nil, noop, nil
		}
		return llm.NewOpenAIProvider(openai.NewClient(cfg.OpenAI.APIKey)), noop, nil
	case config.ProviderGemini, "":
		if cfg.GeminiAI.APIKey == "" {
			slog.Warn("Gemini API key not configured; chat disabled")
			return nil, noop, nil
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAI.APIKey))
		if err != nil {
			return nil, noop, fmt.Errorf("create gemini client: %w", err)
		}
		return llm.NewGeminiAIProvider(client), func() {
			if err := client.Close(); err != nil {
				slog.Error("Failed to close gemini client", "err", err)
			}
		}, nil
	default:
		return nil, noop, fmt.Errorf("unknown chat provider %q", cfg.Chat.Provider)
	}
}

// newPageCreator returns the Notion page service, or nil when the integration
// is not configured.
func newPageCreator(cfg config.NotionConfig) notes.PageCreator {
	if cfg.Token == "" || cfg.DatabaseID == "" {
		slog.Warn("Notion integration not configured; add-book disabled")
		return nil
	}
	return notionapi.NewClient(notionapi.Token(cfg.Token)).Page
}

// newHandler wires every feature into one gin engine.
func newHandler(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	httpClient := &http.Client{}
	src := newSources(cfg.Search, httpClient)
	m := metrics.New()

	provider, closeProvider, err := newChatProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	aggregatorService := aggregator.NewService(src.adapters, cfg.Search.SourceTimeout, m)
	exporter := notes.NewExporter(newPageCreator(cfg.Notion), cfg.Notion.DatabaseID)
	chatService := chatbot.NewChatService(provider, chatbot.Options{
		Model:           cfg.Chat.Model,
		MaxHistoryTurns: cfg.Chat.MaxHistoryTurns,
		MaxMessageChars: cfg.Chat.MaxMessageChars,
	})
	extractor := video.NewExtractor(cfg.Video.Timeout, cfg.Video.UserAgent)

	router := server.NewRouter(cfg.CORS, m.Registry,
		search.NewController(src.catalog, src.commercial, cfg.Search.SourceTimeout, m),
		aggregator.NewController(aggregatorService),
		notes.NewController(exporter),
		chatbot.NewChatController(chatService),
		video.NewController(extractor),
	)
	return router, closeProvider, nil
}
