// Пакет config — загрузка и валидация конфигурации модуля приёма заказов
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации модуля приёма заказов.
type Config struct {
	// Порт HTTP-сервера
	Port int

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Пользователь базы данных
	DBUser string
	// Пароль пользователя базы данных
	DBPassword string
	// Режим SSL (disable, require, verify-full)
	DBSSLMode string

	// --- Приём файлов макетов ---

	// Максимальный размер одного файла макета в байтах
	MaxFileSize int64

	// --- Bunny Storage ---

	// Регион Bunny Storage (пустая строка, "de" или "storage" — основной хост)
	BunnyStorageRegion string
	// Имя storage zone
	BunnyStorageZone string
	// AccessKey storage zone
	BunnyStoragePassword string
	// Публичный CDN-хост загруженных файлов
	BunnyCDNHost string
	// Таймаут HTTP-запросов загрузки в Bunny Storage
	UploadTimeout time.Duration

	// --- Resend (email-уведомления) ---

	// API-ключ Resend (пустая строка — уведомления отключены)
	ResendAPIKey string
	// Адрес отправителя
	ResendFrom string
	// Список адресов администраторов для уведомлений
	AdminEmails []string

	// --- Логирование ---

	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP-сервер ---

	// Таймаут чтения запроса. Должен покрывать загрузку файлов до MaxFileSize.
	HTTPReadTimeout time.Duration
	// Таймаут записи ответа
	HTTPWriteTimeout time.Duration
	// Таймаут idle-соединений
	HTTPIdleTimeout time.Duration
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration

	// --- topologymetrics ---

	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// MI_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("MI_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("MI_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("MI_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// --- PostgreSQL ---

	// MI_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("MI_DB_HOST")
	if err != nil {
		return nil, err
	}

	// MI_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("MI_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("MI_DB_PORT: %w", err)
	}

	// MI_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("MI_DB_NAME")
	if err != nil {
		return nil, err
	}

	// MI_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("MI_DB_USER")
	if err != nil {
		return nil, err
	}

	// MI_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("MI_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// MI_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("MI_DB_SSL_MODE", "disable")

	// --- Приём файлов ---

	// MI_MAX_FILE_SIZE — максимальный размер файла (по умолчанию 100 MB)
	cfg.MaxFileSize, err = getEnvInt64("MI_MAX_FILE_SIZE", 104857600)
	if err != nil {
		return nil, fmt.Errorf("MI_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MI_MAX_FILE_SIZE: значение должно быть положительным")
	}

	// --- Bunny Storage ---
	// Все четыре параметра опциональны при старте: их отсутствие —
	// ошибка конфигурации в момент загрузки файла, а не запуска сервиса.

	cfg.BunnyStorageRegion = getEnvDefault("MI_BUNNY_STORAGE_REGION", "")
	cfg.BunnyStorageZone = getEnvDefault("MI_BUNNY_STORAGE_ZONE", "")
	cfg.BunnyStoragePassword = getEnvDefault("MI_BUNNY_STORAGE_PASSWORD", "")
	cfg.BunnyCDNHost = getEnvDefault("MI_BUNNY_CDN_HOST", "")

	// MI_UPLOAD_TIMEOUT — таймаут загрузки одного файла (по умолчанию 2m)
	cfg.UploadTimeout, err = getEnvDuration("MI_UPLOAD_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MI_UPLOAD_TIMEOUT: %w", err)
	}

	// --- Resend ---

	// MI_RESEND_API_KEY — пустая строка отключает уведомления
	cfg.ResendAPIKey = getEnvDefault("MI_RESEND_API_KEY", "")

	// MI_RESEND_FROM — адрес отправителя (по умолчанию placeholder Resend)
	cfg.ResendFrom = getEnvDefault("MI_RESEND_FROM", "onboarding@resend.dev")

	// MI_ADMIN_EMAIL — список получателей через запятую
	cfg.AdminEmails = parseCSV(getEnvDefault("MI_ADMIN_EMAIL", ""))

	// --- Логирование ---

	// MI_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("MI_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("MI_LOG_LEVEL: %w", err)
	}

	// MI_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("MI_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MI_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP-сервер ---

	// MI_HTTP_READ_TIMEOUT — таймаут чтения запроса (по умолчанию 120s,
	// тело submit может содержать файлы до MaxFileSize)
	cfg.HTTPReadTimeout, err = getEnvDuration("MI_HTTP_READ_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MI_HTTP_READ_TIMEOUT: %w", err)
	}

	// MI_HTTP_WRITE_TIMEOUT — таймаут записи ответа (по умолчанию 300s,
	// ответ на submit ждёт последовательную загрузку всех файлов в Bunny)
	cfg.HTTPWriteTimeout, err = getEnvDuration("MI_HTTP_WRITE_TIMEOUT", 300*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MI_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// MI_HTTP_IDLE_TIMEOUT — таймаут idle-соединений (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("MI_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MI_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// MI_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("MI_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MI_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- topologymetrics ---

	// MI_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию "merch-intake")
	cfg.DephealthGroup = getEnvDefault("MI_DEPHEALTH_GROUP", "merch-intake")

	// MI_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("MI_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MI_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для лейблов topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 2m, 1h)", val)
	}
	return d, nil
}

// parseCSV разбирает строку со списком значений через запятую.
// Значения обрезаются, пустые элементы отбрасываются.
func parseCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
