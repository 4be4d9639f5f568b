package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/whatsapp"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org/bot"
	telegramTimeout    = 10 * time.Second
)

// TelegramNotifier posts the admin message of each booking to a Telegram chat
type TelegramNotifier struct {
	botToken   string
	chatID     string
	adminPhone string
	baseURL    string
	httpClient *http.Client
}

// NewTelegramNotifier creates a notifier for the bot token and chat ID
func NewTelegramNotifier(botToken, chatID, adminPhone string) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	return &TelegramNotifier{
		botToken:   botToken,
		chatID:     chatID,
		adminPhone: adminPhone,
		baseURL:    telegramAPIBaseURL,
		httpClient: &http.Client{
			Timeout: telegramTimeout,
		},
	}, nil
}

// Notify sends the admin message followed by the WhatsApp link that opens it
func (n *TelegramNotifier) Notify(ctx context.Context, b *booking.Booking) error {
	submitted := b.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	msg := booking.AdminMessage(b, submitted)
	text := msg + "\n\n" + whatsapp.Link(n.adminPhone, msg)

	if err := n.sendMessage(ctx, text); err != nil {
		return fmt.Errorf("telegram notification for %s: %w", b.ID, err)
	}
	return nil
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s%s/sendMessage", n.baseURL, n.botToken)

	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}
