package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/llm"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Message, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(llm.Message), args.Error(1)
}

func TestExtractBooks(t *testing.T) {
	text := `You'll love "The House in the Cerulean Sea" by TJ Klune, a warm hug of a book!
Also try "Beach Read" by Emily Henry. "Legends & Lattes" by Travis Baldree
and "Anxious People" by Fredrik Backman, then "Circe" by Madeline Miller!
Finally "Piranesi" by Susanna Clarke.`

	books := ExtractBooks(text)
	require.Len(t, books, 5)
	assert.Equal(t, ExtractedBook{Title: "The House in the Cerulean Sea", Author: "TJ Klune"}, books[0])
	assert.Equal(t, ExtractedBook{Title: "Beach Read", Author: "Emily Henry"}, books[1])
	assert.Equal(t, ExtractedBook{Title: "Legends & Lattes", Author: "Travis Baldree"}, books[2])
	assert.Equal(t, ExtractedBook{Title: "Anxious People", Author: "Fredrik Backman"}, books[3])
	assert.Equal(t, ExtractedBook{Title: "Circe", Author: "Madeline Miller"}, books[4])

	assert.NotNil(t, ExtractBooks("no titles here"))
	assert.Empty(t, ExtractBooks("no titles here"))
}

func TestChatService_Chat(t *testing.T) {
	provider := new(mockProvider)
	svc := NewChatService(provider, Options{Model: "gemini-test"})
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	var got llm.CompletionRequest
	provider.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.CompletionRequest) }).
		Return(llm.Message{Role: llm.RoleAssistant, Content: `Try "Circe" by Madeline Miller.`}, nil)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message: "something mythic",
		ConversationHistory: []Turn{
			{Human: "hi", Assistant: "Hello, reader!"},
			{Human: "are you there?"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `Try "Circe" by Madeline Miller.`, resp.Response)
	assert.Equal(t, []ExtractedBook{{Title: "Circe", Author: "Madeline Miller"}}, resp.ExtractedBooks)
	assert.Equal(t, int64(1700000000123), resp.ConversationID)

	assert.Equal(t, "gemini-test", got.Model)
	assert.Equal(t, generationConfig, got.Config)
	require.Len(t, got.Messages, 5)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: PersonaPrompt}, got.Messages[0])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hi"}, got.Messages[1])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "Hello, reader!"}, got.Messages[2])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "are you there?"}, got.Messages[3])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "something mythic"}, got.Messages[4])
}

func TestChatService_BoundsHistory(t *testing.T) {
	svc := NewChatService(new(mockProvider), Options{MaxHistoryTurns: 2, MaxMessageChars: 5})

	messages := svc.buildMessages(ChatRequest{
		Message: "current question",
		ConversationHistory: []Turn{
			{Human: "oldest"},
			{Human: "middle", Assistant: "reply one"},
			{Human: "newest"},
		},
	})

	require.Len(t, messages, 5)
	assert.Equal(t, "middl", messages[1].Content)
	assert.Equal(t, "reply", messages[2].Content)
	assert.Equal(t, "newes", messages[3].Content)
	assert.Equal(t, "curre", messages[4].Content)
}

func TestChatService_EmptyReplyUsesFallbackText(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return(llm.Message{Content: "  "}, nil)

	resp, err := NewChatService(provider, Options{}).Chat(context.Background(), ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Response, "Sorry, I had trouble"))
	assert.Empty(t, resp.ExtractedBooks)
}

func TestChatService_Errors(t *testing.T) {
	t.Run("missing message", func(t *testing.T) {
		_, err := NewChatService(new(mockProvider), Options{}).Chat(context.Background(), ChatRequest{Message: " "})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewChatService(nil, Options{}).Chat(context.Background(), ChatRequest{Message: "hi"})
		assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
		assert.Equal(t, "Gemini API key not configured", apperr.Message(err, ""))
	})

	t.Run("provider failure", func(t *testing.T) {
		provider := new(mockProvider)
		provider.On("Complete", mock.Anything, mock.Anything).Return(llm.Message{}, errors.New("quota exceeded"))

		_, err := NewChatService(provider, Options{}).Chat(context.Background(), ChatRequest{Message: "hi"})
		assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
		assert.ErrorContains(t, err, "quota exceeded")
	})
}
