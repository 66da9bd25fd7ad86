// Package gemini はGoogle Gemini APIを使用したチャット補完クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"courtier_backend/internal/feature/chatbot/domain"
	"courtier_backend/internal/feature/chatbot/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	temperature     = 0.8
	maxOutputTokens = 75
)

// Client はGoogle Gemini APIで回答を生成します。
type Client struct {
	client *genai.Client
	model  string
}

// ClientがCompleterを実装していることをコンパイル時に検証します。
var _ usecase.Completer = (*Client)(nil)

// Options configures NewClient. BaseURL is only set to point the client at a test server.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient はAPIキー認証でClientの新しいインスタンスを生成します。
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Complete はsystemメッセージをシステム指示に、それ以外を会話内容に変換して回答を生成します。
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	system, contents := toContents(messages)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini response has no text")
	}
	return text, nil
}

// toContents splits messages into the system instruction and the conversation.
func toContents(messages []domain.Message) (*genai.Content, []*genai.Content) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}
