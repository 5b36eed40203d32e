package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Notifier sends alert messages to the operator.
type Notifier interface {
	Alert(ctx context.Context, text string) error
}

// TelegramNotifier posts alerts to a Telegram chat through the bot API.
type TelegramNotifier struct {
	token  string
	chatID string
	http   *http.Client
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		chatID: chatID,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Alert sends one message. Delivery failures are returned to the caller;
// the engine logs them and moves on rather than blocking the scan loop.
func (n *TelegramNotifier) Alert(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}

// NopNotifier discards alerts; used when Telegram is not configured.
type NopNotifier struct{}

func (NopNotifier) Alert(context.Context, string) error { return nil }
