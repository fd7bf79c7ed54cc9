package chatbot

// Turn is one earlier exchange. Assistant may be empty when the reply was lost.
type Turn struct {
	Human     string `json:"human"`
	Assistant string `json:"assistant,omitempty"`
}

type ChatRequest struct {
	Message             string `json:"message"`
	ConversationHistory []Turn `json:"conversation_history"`
}

type ExtractedBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type ChatResponse struct {
	Response       string          `json:"response"`
	ExtractedBooks []ExtractedBook `json:"extracted_books"`
	ConversationID int64           `json:"conversation_id"`
}
