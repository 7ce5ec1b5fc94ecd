package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/juuujuuu9/ink-bug-merch/internal/config"
	"github.com/juuujuuu9/ink-bug-merch/internal/database"
	"github.com/juuujuuu9/ink-bug-merch/internal/domain/model"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
// Возвращает pgxpool.Pool с автоматической очисткой.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("merch_test"),
		postgres.WithUsername("merch"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	// Настраиваем env для config.Load()
	os.Setenv("MI_DB_HOST", host)
	os.Setenv("MI_DB_PORT", port.Port())
	os.Setenv("MI_DB_NAME", "merch_test")
	os.Setenv("MI_DB_USER", "merch")
	os.Setenv("MI_DB_PASSWORD", "test-password")
	os.Setenv("MI_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Применяем миграции
	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	// Подключаемся
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// testEntry возвращает заполненную заявку для вставки.
func testEntry() *model.Entry {
	due := "2026-09-15"
	ink := 3.0
	return &model.Entry{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Phone:          "+1 555 0100",
		Email:          "ada@example.com",
		Shipping:       "pickup",
		ProjectName:    "Tour merch",
		Rush:           "no",
		DueDate:        &due,
		ApparelType:    "t-shirt",
		Blanks:         "provided",
		TotalItems:     24,
		PrintLocations: "front",
		InkColors:      &ink,
		ArtworkStatus:  model.ArtworkPending,
	}
}

func TestEntryInsertAndGet(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(pool)

	e := testEntry()
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("Insert() ошибка: %v", err)
	}
	if e.ID == "" {
		t.Fatal("ID не заполнен после Insert")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt не заполнен после Insert")
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.FirstName != "Ada" || got.LastName != "Lovelace" {
		t.Errorf("имя = %s %s, хотели Ada Lovelace", got.FirstName, got.LastName)
	}
	if got.TotalItems != 24 {
		t.Errorf("TotalItems = %d, хотели 24", got.TotalItems)
	}
	if got.DueDate == nil || *got.DueDate != "2026-09-15" {
		t.Errorf("DueDate = %v, хотели 2026-09-15", got.DueDate)
	}
	if got.SizeBreakdown != nil {
		t.Errorf("SizeBreakdown = %v, хотели nil", *got.SizeBreakdown)
	}
	if got.InkColors == nil || *got.InkColors != 3.0 {
		t.Errorf("InkColors = %v, хотели 3", got.InkColors)
	}
	if got.ArtworkStatus != model.ArtworkPending {
		t.Errorf("ArtworkStatus = %s, хотели pending", got.ArtworkStatus)
	}
	if len(got.ArtworkURLs) != 0 {
		t.Errorf("ArtworkURLs = %v, хотели пусто", got.ArtworkURLs)
	}
}

func TestEntryAttachArtworkURLs(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(pool)

	e := testEntry()
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("Insert() ошибка: %v", err)
	}

	urls := []string{
		"https://cdn.example.com/artwork/" + e.ID + "/logo-0.png",
		"https://cdn.example.com/artwork/" + e.ID + "/back-1.png",
	}
	if err := repo.AttachArtworkURLs(ctx, e.ID, urls); err != nil {
		t.Fatalf("AttachArtworkURLs() ошибка: %v", err)
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if len(got.ArtworkURLs) != 2 || got.ArtworkURLs[0] != urls[0] || got.ArtworkURLs[1] != urls[1] {
		t.Errorf("ArtworkURLs = %v, хотели %v", got.ArtworkURLs, urls)
	}
	if got.ArtworkStatus != model.ArtworkComplete {
		t.Errorf("ArtworkStatus = %s, хотели complete", got.ArtworkStatus)
	}
}

func TestEntryAttachArtworkURLs_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(pool)

	err := repo.AttachArtworkURLs(ctx, uuid.New().String(), []string{"https://cdn.example.com/x.png"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидается ErrNotFound, получено %v", err)
	}
}

func TestEntryGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(pool)

	_, err := repo.GetByID(ctx, uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидается ErrNotFound, получено %v", err)
	}
}
