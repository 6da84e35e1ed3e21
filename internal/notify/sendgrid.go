// Package notify delivers best-effort user notifications.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the SendGrid v3 API root.
const DefaultBaseURL = "https://api.sendgrid.com/v3"

// SendGridGateway sends plain-text mail through the SendGrid v3 API.
// It implements app.NotificationGateway.
type SendGridGateway struct {
	apiKey  string
	from    string
	baseURL string
	http    *http.Client
}

func NewSendGridGateway(apiKey, from, baseURL string, timeout time.Duration) *SendGridGateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &SendGridGateway{
		apiKey:  apiKey,
		from:    from,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type mailAddress struct {
	Email string `json:"email"`
}

type personalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             mailAddress       `json:"from"`
	ReplyTo          *mailAddress      `json:"reply_to,omitempty"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

// Send posts one message and treats anything but 202 Accepted as a failure.
func (g *SendGridGateway) Send(ctx context.Context, to, subject, body, replyTo string) error {
	payload := mailPayload{
		Personalizations: []personalization{{To: []mailAddress{{Email: to}}}},
		From:             mailAddress{Email: g.from},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/plain", Value: body}},
	}
	if replyTo != "" {
		payload.ReplyTo = &mailAddress{Email: replyTo}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/mail/send", bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}
