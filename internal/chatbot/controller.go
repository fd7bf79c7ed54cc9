package chatbot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookfinder/be/internal/apperr"
)

type ChatController struct {
	chatService *ChatService
}

func NewChatController(chatService *ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Chat handles POST /api/gemini-chat.
func (cc *ChatController) Chat(ctx *gin.Context) {
	var request ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apperr.Respond(ctx, apperr.Validation("Message is required"), "")
		return
	}

	resp, err := cc.chatService.Chat(ctx.Request.Context(), request)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUpstream {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":             apperr.Message(err, ""),
				"fallback_response": FallbackResponse,
			})
			return
		}
		ctx.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err, "AI assistant temporarily unavailable")})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (cc *ChatController) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/gemini-chat", cc.Chat)
}
