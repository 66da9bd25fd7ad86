package di

import (
	"context"
	"fmt"

	"courtier_backend/internal/feature/chatbot/adapters/gemini"
	"courtier_backend/internal/feature/chatbot/adapters/openai"
	"courtier_backend/internal/feature/chatbot/usecase"
	"courtier_backend/internal/platform/config"
	httpx "courtier_backend/internal/platform/http"
)

// NewChatProvider creates the chat-completion client selected by CHAT_PROVIDER.
func NewChatProvider(ctx context.Context, cfg config.Chat) (usecase.Completer, error) {
	httpClient := httpx.NewHTTPClient(cfg.Timeout)

	switch cfg.Provider {
	case "openai":
		return openai.NewClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case "gemini":
		client, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", cfg.Provider)
	}
}
