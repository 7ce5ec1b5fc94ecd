// Пакет resend — HTTP-клиент Resend API для отправки email-уведомлений.
// Одна операция: отправка HTML-письма списку получателей.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// defaultBaseURL — endpoint Resend API.
const defaultBaseURL = "https://api.resend.com"

// fromName — отображаемое имя отправителя.
const fromName = "Ink Bug Merch"

// ErrNoAPIKey — не задан API-ключ Resend.
var ErrNoAPIKey = errors.New("MI_RESEND_API_KEY не задан, отправка писем невозможна")

// Message — письмо для отправки.
type Message struct {
	// To — получатели
	To []string
	// Subject — тема письма
	Subject string
	// HTML — тело письма
	HTML string
	// From — адрес отправителя (пустой — адрес из конфигурации клиента)
	From string
}

// Client — HTTP-клиент Resend API.
type Client struct {
	baseURL     string
	apiKey      string
	defaultFrom string

	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент Resend API.
// apiKey — ключ API (пустая строка допустима, Send вернёт ErrNoAPIKey).
// defaultFrom — адрес отправителя по умолчанию.
func New(apiKey, defaultFrom string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		defaultFrom: defaultFrom,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger.With(slog.String("component", "resend_client")),
	}
}

// NewWithBaseURL создаёт клиент с нестандартным endpoint (для тестов).
func NewWithBaseURL(baseURL, apiKey, defaultFrom string, logger *slog.Logger) *Client {
	c := New(apiKey, defaultFrom, logger)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// sendRequest — тело запроса POST /emails.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
}

// errorResponse — тело ответа Resend при ошибке.
type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// formatFrom добавляет отображаемое имя к адресу отправителя,
// если адрес ещё не содержит имени.
func formatFrom(email string) string {
	if strings.Contains(email, "<") {
		return email
	}
	return fmt.Sprintf("%s <%s>", fromName, email)
}

// Send отправляет HTML-письмо всем получателям одним вызовом API.
// Ошибка содержит сообщение провайдера.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if len(msg.To) == 0 {
		return errors.New("не указаны получатели письма")
	}

	from := msg.From
	if from == "" {
		from = c.defaultFrom
	}

	payload, err := json.Marshal(sendRequest{
		From:    formatFrom(from),
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("сериализация письма: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("создание запроса Send: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к Resend API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp errorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Message != "" {
			return fmt.Errorf("Resend вернул статус %d: %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("Resend вернул статус %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("Письмо отправлено",
		slog.Int("recipients", len(msg.To)),
		slog.String("subject", msg.Subject),
	)

	return nil
}
