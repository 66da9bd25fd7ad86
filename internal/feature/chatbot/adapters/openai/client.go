// Package openai はOpenAI互換の chat/completions エンドポイントを呼び出すクライアントを提供します。
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"courtier_backend/internal/feature/chatbot/domain"
	"courtier_backend/internal/feature/chatbot/usecase"
)

const (
	temperature = 0.8
	maxTokens   = 75
)

// Client はOpenAI互換APIのチャット補完クライアントです。
type Client struct {
	sdk   openaisdk.Client
	model string
}

// ClientがCompleterを実装していることをコンパイル時に検証します。
var _ usecase.Completer = (*Client)(nil)

// NewClient はClientの新しいインスタンスを生成します。
// baseURL は chat/completions の手前まで(例: https://api.openai.com/v1/)を指定します。
// リトライはレートリミッタと二重にならないよう無効化しています。
func NewClient(httpClient *http.Client, baseURL, apiKey, model string) *Client {
	sdk := openaisdk.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &Client{sdk: sdk, model: model}
}

// Complete はメッセージを送信し、最初の選択肢の本文を返します。
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    toParams(messages),
		Temperature: openaisdk.Float(temperature),
		MaxTokens:   openaisdk.Int(maxTokens),
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("completion API returned %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toParams(messages []domain.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}
