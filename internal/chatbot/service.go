package chatbot

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/llm"
)

const (
	PersonaPrompt = `You are a personal book recommendation AI assistant, specializing in "Good Vibes Only" book discoveries. You help find amazing books based on preferences, moods, genres, and specific requests.

Your personality:
- Enthusiastic about books with positive energy
- Great at understanding reading moods and preferences
- Knowledgeable about diverse genres and authors
- Always provide specific book titles and authors
- Include brief reasons why each book matches the request
- Focus on books that bring good vibes and positive energy

When recommending books:
1. Always include specific titles and authors
2. Briefly explain why each book fits their request
3. Mix popular and lesser-known gems
4. Consider diversity in authors and perspectives
5. Match the energy they're looking for

Keep responses concise but enthusiastic. End with: "Want me to help you search for any of these in the book finder?"`

	FallbackResponse = "I'm having trouble connecting right now, but I'd love to help you find books! Try searching for specific authors, genres like 'cozy mystery' or 'fantasy romance', or describe the vibe you're going for like 'beach read' or 'emotional page-turner'!"

	emptyResponse = "Sorry, I had trouble generating a response. Try asking about specific genres or authors!"

	maxExtractedBooks      = 5
	DefaultMaxHistoryTurns = 10
	DefaultMaxMessageChars = 4000
)

var bookMention = regexp.MustCompile(`"([^"]+)"\s+by\s+([^,.\n!?]+)`)

// generationConfig matches the sampling the assistant was tuned with.
var generationConfig = llm.GenerationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 1024,
}

type Options struct {
	Model           string
	MaxHistoryTurns int
	MaxMessageChars int
}

// ChatService answers book questions through an AI provider.
type ChatService struct {
	aiProvider llm.AIProvider
	opts       Options
	now        func() time.Time
}

// NewChatService creates a chat service. A nil provider means no API key was
// configured; every call then fails with a configuration error.
func NewChatService(aiProvider llm.AIProvider, opts Options) *ChatService {
	if opts.MaxHistoryTurns <= 0 {
		opts.MaxHistoryTurns = DefaultMaxHistoryTurns
	}
	if opts.MaxMessageChars <= 0 {
		opts.MaxMessageChars = DefaultMaxMessageChars
	}
	return &ChatService{aiProvider: aiProvider, opts: opts, now: time.Now}
}

func (cs *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperr.Validation("Message is required")
	}
	if cs.aiProvider == nil {
		return nil, apperr.Configuration("Gemini API key not configured")
	}

	reply, err := cs.aiProvider.Complete(ctx, llm.CompletionRequest{
		Messages: cs.buildMessages(req),
		Model:    cs.opts.Model,
		Config:   generationConfig,
	})
	if err != nil {
		slog.Error("chat completion failed", "error", err)
		return nil, apperr.Upstream("AI assistant temporarily unavailable", err)
	}

	text := strings.TrimSpace(reply.Content)
	if text == "" {
		text = emptyResponse
	}
	return &ChatResponse{
		Response:       text,
		ExtractedBooks: ExtractBooks(text),
		ConversationID: cs.now().UnixMilli(),
	}, nil
}

// buildMessages keeps the newest MaxHistoryTurns turns and truncates every
// message to MaxMessageChars.
func (cs *ChatService) buildMessages(req ChatRequest) []llm.Message {
	history := req.ConversationHistory
	if len(history) > cs.opts.MaxHistoryTurns {
		history = history[len(history)-cs.opts.MaxHistoryTurns:]
	}

	messages := make([]llm.Message, 0, 2+2*len(history))
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: PersonaPrompt})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: cs.truncate(turn.Human)})
		if turn.Assistant != "" {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: cs.truncate(turn.Assistant)})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: cs.truncate(req.Message)})
	return messages
}

func (cs *ChatService) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= cs.opts.MaxMessageChars {
		return s
	}
	return string(runes[:cs.opts.MaxMessageChars])
}

// ExtractBooks pulls up to five `"Title" by Author` mentions out of text.
func ExtractBooks(text string) []ExtractedBook {
	books := make([]ExtractedBook, 0)
	for _, m := range bookMention.FindAllStringSubmatch(text, maxExtractedBooks) {
		title, author := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if title == "" || author == "" {
			continue
		}
		books = append(books, ExtractedBook{Title: title, Author: author})
	}
	return books
}
