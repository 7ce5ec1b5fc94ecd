package bunny

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testConfig возвращает полную конфигурацию Bunny Storage.
func testConfig() Config {
	return Config{
		Region:   "ny",
		Zone:     "merch-zone",
		Password: "access-key-secret",
		CDNHost:  "cdn.example.com",
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		region   string
		expected string
	}{
		{"", "https://storage.bunnycdn.com"},
		{"de", "https://storage.bunnycdn.com"},
		{"storage", "https://storage.bunnycdn.com"},
		{"ny", "https://ny.storage.bunnycdn.com"},
		{"la", "https://la.storage.bunnycdn.com"},
	}

	for _, tt := range tests {
		cfg := testConfig()
		cfg.Region = tt.region
		c := New(cfg, time.Minute, testLogger())
		if got := c.BaseURL(); got != tt.expected {
			t.Errorf("BaseURL() для региона %q = %q, ожидается %q", tt.region, got, tt.expected)
		}
	}
}

func TestUpload(t *testing.T) {
	var gotPath, gotAccessKey, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("метод = %s, ожидается PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotAccessKey = r.Header.Get("AccessKey")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	c := NewWithEndpoint(srv.URL, testConfig(), time.Minute, testLogger())

	url, err := c.Upload(context.Background(), "artwork/entry-1", "logo-0.png", "image/png", strings.NewReader("png-data"))
	if err != nil {
		t.Fatalf("Upload вернул ошибку: %v", err)
	}

	if gotPath != "/merch-zone/artwork/entry-1/logo-0.png" {
		t.Errorf("путь = %q, ожидается /merch-zone/artwork/entry-1/logo-0.png", gotPath)
	}
	if gotAccessKey != "access-key-secret" {
		t.Errorf("AccessKey = %q", gotAccessKey)
	}
	if gotContentType != "image/png" {
		t.Errorf("Content-Type = %q, ожидается image/png", gotContentType)
	}
	if string(gotBody) != "png-data" {
		t.Errorf("тело = %q, ожидается png-data", gotBody)
	}
	if url != "https://cdn.example.com/artwork/entry-1/logo-0.png" {
		t.Errorf("URL = %q", url)
	}
}

func TestUpload_EmptyPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	c := NewWithEndpoint(srv.URL, testConfig(), time.Minute, testLogger())

	url, err := c.Upload(context.Background(), "", "logo.png", "image/png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload вернул ошибку: %v", err)
	}
	if gotPath != "/merch-zone/logo.png" {
		t.Errorf("путь = %q, ожидается /merch-zone/logo.png", gotPath)
	}
	if url != "https://cdn.example.com/logo.png" {
		t.Errorf("URL = %q", url)
	}
}

func TestUpload_DefaultContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	c := NewWithEndpoint(srv.URL, testConfig(), time.Minute, testLogger())

	if _, err := c.Upload(context.Background(), "", "logo.bin", "", strings.NewReader("x")); err != nil {
		t.Fatalf("Upload вернул ошибку: %v", err)
	}
	if gotContentType != "application/octet-stream" {
		t.Errorf("Content-Type = %q, ожидается application/octet-stream", gotContentType)
	}
}

func TestUpload_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Message":"Unauthorized"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewWithEndpoint(srv.URL, testConfig(), time.Minute, testLogger())

	_, err := c.Upload(context.Background(), "artwork/x", "logo.png", "image/png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("ожидалась ошибка при статусе 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("ошибка не содержит статус: %v", err)
	}
}

func TestUpload_NotConfigured(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"нет региона", func(c *Config) { c.Region = "" }},
		{"нет zone", func(c *Config) { c.Zone = "" }},
		{"нет пароля", func(c *Config) { c.Password = "" }},
		{"нет CDN-хоста", func(c *Config) { c.CDNHost = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mod(&cfg)
			c := New(cfg, time.Minute, testLogger())

			_, err := c.Upload(context.Background(), "artwork/x", "logo.png", "image/png", strings.NewReader("x"))
			if !errors.Is(err, ErrNotConfigured) {
				t.Errorf("ожидается ErrNotConfigured, получено %v", err)
			}
		})
	}
}
