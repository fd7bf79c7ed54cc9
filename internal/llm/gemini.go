package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const (
	DefaultGeminiModel = "gemini-1.5-flash-latest"

	geminiRoleUser  = "user"
	geminiRoleModel = "model"
)

type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiAIProvider(client *genai.Client) *GeminiProvider {
	return &GeminiProvider{client: client}
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (Message, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := p.client.GenerativeModel(modelName)
	applyGenerationConfig(model, req.Config)

	system, history, last, err := splitConversation(req.Messages)
	if err != nil {
		return Message{}, err
	}
	model.SystemInstruction = system

	chat := model.StartChat()
	chat.History = history
	res, err := chat.SendMessage(ctx, last...)
	if err != nil {
		return Message{}, err
	}

	return Message{Role: RoleAssistant, Content: responseText(res)}, nil
}

func applyGenerationConfig(model *genai.GenerativeModel, cfg GenerationConfig) {
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}
	if cfg.TopK > 0 {
		model.SetTopK(cfg.TopK)
	}
	if cfg.TopP > 0 {
		model.SetTopP(cfg.TopP)
	}
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
}

// -----------------Private Helper Functions-----------------

// splitConversation maps messages onto Gemini's chat shape: system messages
// become the system instruction, the final user message is sent and
// everything in between becomes history.
func splitConversation(messages []Message) (*genai.Content, []*genai.Content, []genai.Part, error) {
	var system *genai.Content
	var turns []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.Text(msg.Content))
		case RoleAssistant:
			turns = append(turns, &genai.Content{Role: geminiRoleModel, Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			turns = append(turns, &genai.Content{Role: geminiRoleUser, Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	if len(turns) == 0 || turns[len(turns)-1].Role != geminiRoleUser {
		return nil, nil, nil, errors.New("conversation must end with a user message")
	}
	last := turns[len(turns)-1]
	return system, turns[:len(turns)-1], last.Parts, nil
}

func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
