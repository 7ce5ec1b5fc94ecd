// Пакет service — бизнес-логика модуля приёма заказов.
// submit.go — pipeline обработки заявки: вставка записи, загрузка макетов,
// прикрепление ссылок, уведомление администраторов.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/juuujuuu9/ink-bug-merch/internal/api/middleware"
	"github.com/juuujuuu9/ink-bug-merch/internal/domain/model"
	"github.com/juuujuuu9/ink-bug-merch/internal/repository"
)

// Сообщения пользователю формы при ошибках pipeline.
// Детали ошибок остаются в логах сервера.
const (
	msgSaveFailed   = "Failed to save submission. Please try again."
	msgUploadFailed = "Failed to upload artwork. Please try again."
)

// Uploader — загрузка одного файла в объектное хранилище.
// Реализуется bunny.Client.
type Uploader interface {
	// Upload выполняет PUT файла и возвращает публичный URL.
	Upload(ctx context.Context, path, fileName, contentType string, body io.Reader) (string, error)
}

// SubmitService — pipeline обработки провалидированной заявки.
type SubmitService struct {
	repo     repository.EntryRepository
	uploader Uploader
	notifier *NotifyService
	logger   *slog.Logger
}

// NewSubmitService создаёт pipeline обработки заявок.
func NewSubmitService(
	repo repository.EntryRepository,
	uploader Uploader,
	notifier *NotifyService,
	logger *slog.Logger,
) *SubmitService {
	return &SubmitService{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "submit_service")),
	}
}

// Submit обрабатывает заявку строго последовательно:
//
//  1. INSERT записи (идентификатор нужен для путей в хранилище)
//  2. Последовательная загрузка файлов макетов; первая ошибка терминальна
//  3. UPDATE записи со ссылками на макеты
//  4. Best-effort уведомление администраторов
//
// При ошибке загрузки запись сохраняется без ссылок (artwork_status
// остаётся pending) — данные заявки ценнее строгой атомарности.
// Уже загруженные объекты не удаляются.
func (s *SubmitService) Submit(ctx context.Context, req *model.SubmissionRequest) *SubmitError {
	// 1. Вставка записи
	entry := req.Entry()
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error("Ошибка вставки заявки", slog.String("error", err.Error()))
		middleware.SubmissionsTotal.WithLabelValues("save_failed").Inc()
		return &SubmitError{StatusCode: 500, Message: msgSaveFailed}
	}

	// 2. Последовательная загрузка макетов
	if len(req.Files) > 0 {
		path := "artwork/" + entry.ID

		artifacts := make([]model.ArtifactReference, 0, len(req.Files))
		for i, file := range req.Files {
			ref, err := s.uploadFile(ctx, path, i, file)
			if err != nil {
				s.logger.Error("Ошибка загрузки макета",
					slog.String("entry_id", entry.ID),
					slog.String("file", file.Name),
					slog.Int("index", i),
					slog.String("error", err.Error()),
				)
				middleware.SubmissionsTotal.WithLabelValues("upload_failed").Inc()
				return &SubmitError{StatusCode: 500, Message: msgUploadFailed}
			}
			artifacts = append(artifacts, ref)
		}

		artworkURLs := make([]string, len(artifacts))
		for i, a := range artifacts {
			artworkURLs[i] = a.URL
		}

		// 3. Прикрепление ссылок одним UPDATE
		if err := s.repo.AttachArtworkURLs(ctx, entry.ID, artworkURLs); err != nil {
			s.logger.Error("Ошибка прикрепления ссылок на макеты",
				slog.String("entry_id", entry.ID),
				slog.String("error", err.Error()),
			)
			middleware.SubmissionsTotal.WithLabelValues("save_failed").Inc()
			return &SubmitError{StatusCode: 500, Message: msgSaveFailed}
		}
		entry.ArtworkURLs = artworkURLs
		entry.ArtworkStatus = model.ArtworkComplete
	}

	// 4. Уведомление: любая ошибка логируется и не влияет на ответ
	s.notifier.Notify(ctx, entry)

	middleware.SubmissionsTotal.WithLabelValues("accepted").Inc()

	s.logger.Info("Заявка принята",
		slog.String("entry_id", entry.ID),
		slog.String("project", entry.ProjectName),
		slog.Int("total_items", entry.TotalItems),
		slog.Int("artwork_files", len(entry.ArtworkURLs)),
	)

	return nil
}

// uploadFile открывает содержимое одного макета, выполняет PUT в хранилище
// и возвращает ссылку на загруженный объект.
func (s *SubmitService) uploadFile(ctx context.Context, path string, index int, file model.ArtworkFile) (model.ArtifactReference, error) {
	rc, err := file.Open()
	if err != nil {
		return model.ArtifactReference{}, fmt.Errorf("открытие файла %s: %w", file.Name, err)
	}
	defer rc.Close()

	objectName := artworkObjectName(file.Name, index)
	url, err := s.uploader.Upload(ctx, path, objectName, file.ContentType, rc)
	if err != nil {
		return model.ArtifactReference{}, err
	}

	return model.ArtifactReference{FileName: objectName, URL: url}, nil
}
