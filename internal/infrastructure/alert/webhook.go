// Package alert delivers batch failure notifications to a chat webhook.
package alert

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/eplhub/crawler/internal/platform/logging"
)

// WebhookNotifier posts a single text message per exhausted job. An empty
// URL disables delivery entirely.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

func NewWebhookNotifier(url string, timeout time.Duration, logger *logging.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type webhookMessage struct {
	Text string `json:"text"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, job string, attempts int, cause error) error {
	if n.url == "" {
		n.logger.InfoContext(ctx, "alert webhook not configured, skipping", "job", job)
		return nil
	}

	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}
	message := webhookMessage{Text: fmt.Sprintf("%s attempts=%d error=%s", job, attempts, reason)}

	body, err := sonic.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert webhook status %d", resp.StatusCode)
	}
	n.logger.InfoContext(ctx, "failure alert delivered", "job", job, "attempts", attempts)
	return nil
}
