package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const resendEndpoint = "https://api.resend.com/emails"

// Resend sends messages through the Resend HTTP API.
type Resend struct {
	APIKey   string
	From     string
	Endpoint string
	Client   *http.Client
	log      *zap.Logger
}

func NewResend(apiKey, from string, log *zap.Logger) *Resend {
	return &Resend{
		APIKey:   apiKey,
		From:     from,
		Endpoint: resendEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	if r.APIKey == "" {
		return errors.New("resend: api key is not set")
	}
	if r.From == "" {
		return errors.New("resend: from address is not set")
	}
	if len(msg.To) == 0 {
		return nil
	}

	body, err := json.Marshal(resendRequest{From: r.From, To: msg.To, Subject: msg.Subject, Text: msg.Text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("resend: %s: %s", resp.Status, bytes.TrimSpace(respBody))
	}
	if r.log != nil {
		r.log.Info("email accepted", zap.Int("to_count", len(msg.To)), zap.String("subject", msg.Subject))
	}
	return nil
}
