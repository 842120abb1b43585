package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"identity-service/pkg/utils"
)

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html"`
	Text    string    `json:"text"`
}

// MailtrapClient delivers through the Mailtrap transactional-email API.
type MailtrapClient struct {
	cfg    utils.MailtrapConfig
	client *http.Client
}

func NewMailtrapClient(cfg utils.MailtrapConfig) *MailtrapClient {
	return &MailtrapClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (m *MailtrapClient) Send(ctx context.Context, toEmail, fullName, subject, body string) error {
	payload := sendRequest{
		From: address{
			Email: m.cfg.SenderEmail,
			Name:  m.cfg.SenderName,
		},
		To:      []address{{Email: toEmail, Name: fullName}},
		Subject: subject,
		HTML:    body,
		Text:    body,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mailtrap payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build mailtrap request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send via mailtrap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailtrap returned %d: %s", resp.StatusCode, detail)
	}

	return nil
}
