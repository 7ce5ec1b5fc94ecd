// Пакет bunny — HTTP-клиент загрузки файлов в Bunny Storage.
// Один blocking PUT на файл, авторизация заголовком AccessKey,
// публичные ссылки строятся через настроенный CDN-хост.
package bunny

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured — не заданы обязательные параметры Bunny Storage.
// Отсутствие конфигурации — ошибка момента загрузки, а не старта сервиса:
// форма без файлов макетов должна работать и без настроенного хранилища.
var ErrNotConfigured = errors.New(
	"не заданы параметры Bunny Storage: MI_BUNNY_STORAGE_REGION, MI_BUNNY_STORAGE_ZONE, MI_BUNNY_STORAGE_PASSWORD, MI_BUNNY_CDN_HOST")

// Config — параметры подключения к Bunny Storage.
type Config struct {
	// Region — регион storage zone ("", "de" или "storage" — основной хост)
	Region string
	// Zone — имя storage zone
	Zone string
	// Password — AccessKey storage zone
	Password string
	// CDNHost — публичный хост pull zone (без схемы)
	CDNHost string
}

// Client — HTTP-клиент Bunny Storage.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент Bunny Storage.
// timeout — таймаут одного PUT (из конфигурации MI_UPLOAD_TIMEOUT).
func New(cfg Config, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "bunny_client")),
	}
}

// NewWithEndpoint создаёт клиент с нестандартным storage endpoint (для тестов).
func NewWithEndpoint(endpoint string, cfg Config, timeout time.Duration, logger *slog.Logger) *Client {
	c := New(cfg, timeout, logger)
	c.endpoint = strings.TrimRight(endpoint, "/")
	return c
}

// BaseURL возвращает базовый URL storage endpoint для региона.
// Пустой регион, "de" и "storage" обслуживаются основным хостом,
// остальные регионы — региональным поддоменом.
func (c *Client) BaseURL() string {
	if c.endpoint != "" {
		return c.endpoint
	}
	region := c.cfg.Region
	if region == "" || region == "de" || region == "storage" {
		return "https://storage.bunnycdn.com"
	}
	return fmt.Sprintf("https://%s.storage.bunnycdn.com", region)
}

// Upload выполняет PUT файла в Bunny Storage и возвращает публичный CDN-URL.
// path — путь внутри zone без имени файла (например, "artwork/<id>"),
// может быть пустым. contentType — заявленный MIME-тип файла.
func (c *Client) Upload(ctx context.Context, path, fileName, contentType string, body io.Reader) (string, error) {
	if c.cfg.Region == "" || c.cfg.Zone == "" || c.cfg.Password == "" || c.cfg.CDNHost == "" {
		return "", ErrNotConfigured
	}

	uploadURL := fmt.Sprintf("%s/%s/%s", c.BaseURL(), c.cfg.Zone, fileName)
	cdnPath := fileName
	if path != "" {
		uploadURL = fmt.Sprintf("%s/%s/%s/%s", c.BaseURL(), c.cfg.Zone, path, fileName)
		cdnPath = path + "/" + fileName
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("создание запроса Upload: %w", err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("AccessKey", c.cfg.Password)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос Upload к Bunny Storage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Bunny Storage вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	publicURL := fmt.Sprintf("https://%s/%s", c.cfg.CDNHost, cdnPath)

	c.logger.Debug("Файл загружен в Bunny Storage",
		slog.String("file", cdnPath),
		slog.String("url", publicURL),
	)

	return publicURL, nil
}
