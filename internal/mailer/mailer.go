package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
)

// Client posts messages to a JSON mail API (Resend-compatible).
type Client struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

// APIError carries the provider's response on a non-2xx status.
type APIError struct {
	Status int
	Body   json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mail provider responded %d: %s", e.Status, string(e.Body))
}

func New(endpoint, apiKey, from string) *Client {
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		apiKey:     apiKey,
		from:       from,
		httpClient: http.DefaultClient,
	}
}

type message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send returns the provider's JSON response body.
func (c *Client) Send(ctx context.Context, to, subject, html string) (json.RawMessage, error) {
	payload, err := json.Marshal(message{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: body}
	}
	return body, nil
}

const RecoverySubject = "Recuperación de Llave - ResiDate"

var recoveryTemplate = template.Must(template.New("recovery").Parse(`
<div style="font-family: serif; color: #001f3f; padding: 20px;">
    <h1 style="color: #c5a059;">ResiDate</h1>
    <p>Hola,</p>
    <p>Has solicitado recuperar tu llave de acceso para <strong>ResiDate</strong>.</p>
    <p>Tu llave de recuperación es: <span style="background: #f4f1ea; padding: 5px 10px; border-radius: 4px; font-weight: bold;">{{.Key}}</span></p>
    <p>Por favor, cámbiala en los ajustes una vez hayas iniciado sesión por seguridad.</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
    <p style="font-size: 12px; color: #666;">© 2026 ResiDate - Timeless Experiences</p>
</div>
`))

func RecoveryHTML(key string) (string, error) {
	var buf bytes.Buffer
	if err := recoveryTemplate.Execute(&buf, struct{ Key string }{key}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendRecovery sends the fixed recovery message with key.
func (c *Client) SendRecovery(ctx context.Context, to, key string) (json.RawMessage, error) {
	html, err := RecoveryHTML(key)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, to, RecoverySubject, html)
}
