package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rustyeddy/tsxledger/run"
)

const webhookTimeout = 10 * time.Second

// Webhook posts the report summary to a chat webhook. Discord and Slack
// payload shapes are both supported, picked by URL.
type Webhook struct {
	url     string
	botName string
	http    *http.Client
}

func NewWebhook(url, botName string) *Webhook {
	if botName == "" {
		botName = "tsxledger"
	}
	return &Webhook{
		url:     url,
		botName: botName,
		http:    &http.Client{Timeout: webhookTimeout},
	}
}

func (w *Webhook) Notify(ctx context.Context, report *run.Report) error {
	msg := fmt.Sprintf("[%s] %s", strings.ToUpper(string(report.Outcome)), report.Summary())

	body, err := json.Marshal(w.payload(msg))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *Webhook) payload(msg string) map[string]string {
	if strings.Contains(w.url, "discord") {
		return map[string]string{
			"content":  msg,
			"username": w.botName,
		}
	}
	// Slack-compatible default.
	return map[string]string{"text": msg}
}
