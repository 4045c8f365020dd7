package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
	"github.com/healytics/healytics-client/internal/observability/metrics"
)

// ChatSession holds one conversation with the assistant. The user's
// message is appended before the backend answers, and every turn yields
// exactly one assistant entry: the reply on success, a readable failure
// message otherwise. The transcript never loses what the user typed.
type ChatSession struct {
	api     ports.ChatAPI
	log     *slog.Logger
	metrics *metrics.ClientMetrics

	mu         sync.Mutex
	transcript []domain.ChatMessage
	inFlight   bool
}

func NewChatSession(api ports.ChatAPI, log *slog.Logger, m *metrics.ClientMetrics) *ChatSession {
	if log == nil {
		log = slog.Default()
	}
	return &ChatSession{
		api:     api,
		log:     log,
		metrics: m,
	}
}

// Send runs one turn to completion. A second call while a turn is in
// flight is rejected without touching the transcript.
func (c *ChatSession) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.WrapError(domain.ErrValidation, "chat turn",
			domain.ErrorInfo{Message: "message must not be empty", Origin: domain.OriginValidation})
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.WrapError(domain.ErrIllegalState, "chat turn",
			fmt.Errorf("a turn is already in flight"))
	}
	c.inFlight = true
	c.transcript = append(c.transcript, domain.ChatMessage{Sender: domain.SenderUser, Text: text})
	c.mu.Unlock()

	reply, err := c.api.Send(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		info := domain.ErrorInfoFrom(err)
		c.transcript = append(c.transcript, domain.ChatMessage{Sender: domain.SenderAssistant, Text: info.Message})
		c.metrics.RecordChatTurn(serviceName, "failed")
		c.log.Warn("chat_turn_failed", "origin", string(info.Origin))
		return err
	}
	c.transcript = append(c.transcript, domain.ChatMessage{Sender: domain.SenderAssistant, Text: reply})
	c.metrics.RecordChatTurn(serviceName, "succeeded")
	return nil
}

func (c *ChatSession) Transcript() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *ChatSession) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}
