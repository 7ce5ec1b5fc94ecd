// Точка входа модуля приёма заказов на мерч.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт клиенты Bunny Storage и Resend, сервисный слой и HTTP handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/juuujuuu9/ink-bug-merch/internal/api/handlers"
	"github.com/juuujuuu9/ink-bug-merch/internal/bunny"
	"github.com/juuujuuu9/ink-bug-merch/internal/config"
	"github.com/juuujuuu9/ink-bug-merch/internal/database"
	"github.com/juuujuuu9/ink-bug-merch/internal/repository"
	"github.com/juuujuuu9/ink-bug-merch/internal/resend"
	"github.com/juuujuuu9/ink-bug-merch/internal/server"
	"github.com/juuujuuu9/ink-bug-merch/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Модуль приёма заказов запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if len(cfg.AdminEmails) == 0 {
		logger.Warn("MI_ADMIN_EMAIL не задана, email-уведомления отключены")
	}
	if cfg.ResendAPIKey == "" {
		logger.Warn("MI_RESEND_API_KEY не задан, отправка писем невозможна")
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиенты внешних сервисов
	bunnyClient := bunny.New(bunny.Config{
		Region:   cfg.BunnyStorageRegion,
		Zone:     cfg.BunnyStorageZone,
		Password: cfg.BunnyStoragePassword,
		CDNHost:  cfg.BunnyCDNHost,
	}, cfg.UploadTimeout, logger)

	resendClient := resend.New(cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// 6. Repository и сервисный слой
	entryRepo := repository.NewEntryRepository(pool)
	notifySvc := service.NewNotifyService(resendClient, cfg.AdminEmails, logger)
	submitSvc := service.NewSubmitService(entryRepo, bunnyClient, notifySvc, logger)

	// 7. HTTP handlers
	pgChecker := database.NewReadinessChecker(pool)
	submitHandler := handlers.NewSubmitHandler(submitSvc, cfg.MaxFileSize, logger)
	healthHandler := handlers.NewHealthHandler(pgChecker)
	sitemapHandler := handlers.NewSitemapHandler()

	// 8. topologymetrics — мониторинг зависимостей
	// Ошибки инициализации некритичны: сервис работает и без мониторинга.
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "merch-intake",
		Group:         cfg.DephealthGroup,
		PGConnURL:     cfg.DatabaseURL(),
		StorageURL:    bunnyClient.BaseURL(),
		MailURL:       "https://api.resend.com",
		CheckInterval: cfg.DephealthCheckInterval,
	}, pgDB, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, submitHandler, healthHandler, sitemapHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Модуль приёма заказов остановлен")
}
