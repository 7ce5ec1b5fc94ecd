// Пакет handlers — HTTP-обработчики модуля приёма заказов.
// submit.go — приём multipart-формы заявки.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/juuujuuu9/ink-bug-merch/internal/api/errors"
	"github.com/juuujuuu9/ink-bug-merch/internal/api/middleware"
	"github.com/juuujuuu9/ink-bug-merch/internal/service"
)

// maxFormMemory — порог размера формы в памяти, остальное уходит
// во временные файлы multipart reader-а.
const maxFormMemory = 32 << 20

// SubmitHandler — обработчик POST /api/submit.
type SubmitHandler struct {
	svc         *service.SubmitService
	maxFileSize int64
	logger      *slog.Logger
}

// NewSubmitHandler создаёт обработчик приёма заявок.
// maxFileSize — лимит размера одного файла макета в байтах.
func NewSubmitHandler(svc *service.SubmitService, maxFileSize int64, logger *slog.Logger) *SubmitHandler {
	return &SubmitHandler{
		svc:         svc,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("component", "submit_handler")),
	}
}

// Submit обрабатывает POST /api/submit.
// Успех — 200 {"ok":true}; ошибки валидации — 400, ошибки pipeline — 500.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		middleware.SubmissionsTotal.WithLabelValues("rejected").Inc()
		errors.ValidationError(w, "Content-Type must be multipart/form-data")
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.logger.Warn("Ошибка разбора multipart-формы", slog.String("error", err.Error()))
		middleware.SubmissionsTotal.WithLabelValues("rejected").Inc()
		errors.ValidationError(w, "Invalid form data")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	req, parseErr := service.ParseSubmission(r.MultipartForm, h.maxFileSize)
	if parseErr != nil {
		h.logger.Warn("Заявка отклонена валидацией", slog.String("reason", parseErr.Message))
		middleware.SubmissionsTotal.WithLabelValues("rejected").Inc()
		errors.ValidationError(w, parseErr.Message)
		return
	}

	if submitErr := h.svc.Submit(r.Context(), req); submitErr != nil {
		errors.InternalError(w, submitErr.Message)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
