package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"courtier_backend/internal/feature/chatbot/domain"
	"courtier_backend/internal/platform/apperr"
)

// Completer はチャット補完APIを抽象化します。OpenAI互換エンドポイントとGeminiの実装があります。
type Completer interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

// Limiter は外部API呼び出しの頻度を制限します。
type Limiter interface {
	Wait(ctx context.Context) error
}

// chatbotUsecase は不動産FAQチャットボットを実装します。
type chatbotUsecase struct {
	provider Completer
	limiter  Limiter
	preamble []domain.Message
}

// NewChatbotUsecase はchatbotUsecaseの新しいインスタンスを生成します。
// 固定の前提知識メッセージはここで一度だけ組み立てます。
func NewChatbotUsecase(provider Completer, limiter Limiter) (*chatbotUsecase, error) {
	msgs, err := contextMessages()
	if err != nil {
		return nil, err
	}
	return &chatbotUsecase{provider: provider, limiter: limiter, preamble: msgs}, nil
}

// Ask は質問に前提知識と回答ルールを付けてプロバイダーに送り、回答テキストを返します。
// プロバイダーの失敗はすべて "Error asking question" の上流エラーになります。
func (u *chatbotUsecase) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if err := u.limiter.Wait(ctx); err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, askFailedMessage, err)
	}

	msgs := make([]domain.Message, 0, len(u.preamble)+1)
	msgs = append(msgs, u.preamble...)
	msgs = append(msgs, domain.Message{Role: domain.RoleUser, Content: question + "\n\n" + answerRules})

	answer, err := u.provider.Complete(ctx, msgs)
	if err != nil {
		slog.Error("chat completion failed", "error", err)
		return "", apperr.Wrap(apperr.KindUpstream, askFailedMessage, err)
	}
	return answer, nil
}

// contextMessages renders the fixed knowledge as "key: <json>" system messages.
func contextMessages() ([]domain.Message, error) {
	entries := []struct {
		key   string
		value any
	}{
		{"generalInfo", generalInfo},
		{"faq", faq},
		{"courtierXpertInfo", companyInfo},
	}
	msgs := make([]domain.Message, 0, len(entries))
	for _, e := range entries {
		b, err := json.Marshal(e.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", e.key, err)
		}
		msgs = append(msgs, domain.Message{Role: domain.RoleSystem, Content: e.key + ": " + string(b)})
	}
	return msgs, nil
}
