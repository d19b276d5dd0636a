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

// EmailSender delivers digests through an HTTP mail API: a single JSON
// POST per message, authorized by bearer token.
type EmailSender struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewEmailSender(apiURL, apiKey, from string, timeout time.Duration, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		apiURL:     apiURL,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type emailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (s *EmailSender) Send(ctx context.Context, digest Digest) error {
	if digest.Profile.Email == "" {
		return errMissingTarget("email address", digest.Profile.Username)
	}

	payload := emailPayload{
		From:    s.from,
		To:      digest.Profile.Email,
		Subject: FormatSubject(digest),
		Text:    FormatBody(digest),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("mail API error",
			zap.String("username", digest.Profile.Username),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("mail API status %d", resp.StatusCode)
	}

	s.logger.Info("email alert sent",
		zap.String("username", digest.Profile.Username),
		zap.Int("opportunities", len(digest.Opportunities)),
	)

	return nil
}
