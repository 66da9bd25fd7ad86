// Package handler はchatbotフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"courtier_backend/internal/feature/chatbot/transport/http/dto"
	httpx "courtier_backend/internal/platform/http"
)

// ChatbotUsecase はFAQチャットボットのユースケースを定義します。
type ChatbotUsecase interface {
	Ask(ctx context.Context, question string) (string, error)
}

// ChatbotHandler はチャットボットのHTTPリクエストを処理します。
type ChatbotHandler struct {
	uc ChatbotUsecase
}

// NewChatbotHandler はChatbotHandlerの新しいインスタンスを生成します。
func NewChatbotHandler(uc ChatbotUsecase) *ChatbotHandler {
	return &ChatbotHandler{uc: uc}
}

// Ask はPOST /user/chatbotを処理します。
func (h *ChatbotHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	answer, err := h.uc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Chatbot answered successfully", dto.AskResponse{Answer: answer})
}
