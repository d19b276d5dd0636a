package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SlackSender delivers digests through an incoming webhook, addressed to
// the user's Slack ID.
type SlackSender struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSlackSender(webhookURL string, timeout time.Duration, logger *zap.Logger) *SlackSender {
	return &SlackSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type slackPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func (s *SlackSender) Send(ctx context.Context, digest Digest) error {
	if digest.Profile.SlackUserID == "" {
		return errMissingTarget("slack user id", digest.Profile.Username)
	}

	payload := slackPayload{
		Channel: digest.Profile.SlackUserID,
		Text:    fmt.Sprintf("<@%s>\n%s", digest.Profile.SlackUserID, FormatSlackText(digest)),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("slack webhook error",
			zap.String("username", digest.Profile.Username),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("slack webhook status %d", resp.StatusCode)
	}

	s.logger.Info("slack alert sent",
		zap.String("username", digest.Profile.Username),
		zap.Int("opportunities", len(digest.Opportunities)),
	)

	return nil
}
