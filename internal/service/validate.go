// validate.go — разбор multipart-формы в типизированную заявку.
// Единственная точка валидации: дальше по pipeline заявка считается корректной.
package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/juuujuuu9/ink-bug-merch/internal/domain/model"
)

// requiredFields — обязательные поля формы в порядке проверки.
// Имена совпадают с ключами multipart-формы (camelCase).
var requiredFields = []string{
	"firstName",
	"lastName",
	"phone",
	"email",
	"shipping",
	"projectName",
	"rush",
	"apparelType",
	"blanks",
	"totalItems",
	"printLocations",
}

// acceptedExtensions — расширения файлов макетов (без точки, lowercase).
var acceptedExtensions = map[string]bool{
	"ai":   true,
	"jpg":  true,
	"jpeg": true,
	"pdf":  true,
	"psd":  true,
	"png":  true,
}

// acceptedContentTypes — заявленные MIME-типы файлов макетов.
// Файл принимается, если подошло расширение ИЛИ MIME-тип.
var acceptedContentTypes = map[string]bool{
	"application/pdf":           true,
	"image/jpeg":                true,
	"image/png":                 true,
	"image/vnd.adobe.photoshop": true,
	"application/postscript":    true,
}

// SubmitError — ошибка обработки заявки с HTTP-кодом.
type SubmitError struct {
	StatusCode int
	Message    string
}

func (e *SubmitError) Error() string {
	return e.Message
}

// validationError — 400 с сообщением для пользователя формы.
func validationError(message string) *SubmitError {
	return &SubmitError{StatusCode: 400, Message: message}
}

// ParseSubmission разбирает multipart-форму в SubmissionRequest.
// Возвращает 400-ошибку при нарушении любого правила валидации.
// Файлы нулевого размера молча отбрасываются.
func ParseSubmission(form *multipart.Form, maxFileSize int64) (*model.SubmissionRequest, *SubmitError) {
	// Обязательные поля: после trim строка должна быть непустой
	for _, key := range requiredFields {
		if strings.TrimSpace(formValue(form, key)) == "" {
			return nil, validationError(fmt.Sprintf("Missing or empty: %s", key))
		}
	}

	// totalItems — целое число >= 1 ("1.5" и "abc" отклоняются)
	totalItems, err := strconv.Atoi(strings.TrimSpace(formValue(form, "totalItems")))
	if err != nil || totalItems < 1 {
		return nil, validationError("totalItems must be an integer >= 1")
	}

	// Опциональные числовые поля: парсятся только при непустом значении
	inkColors, parseErr := optionalNumber(form, "inkColors")
	if parseErr != nil {
		return nil, parseErr
	}
	inkColorsAdditional, parseErr := optionalNumber(form, "inkColorsAdditional")
	if parseErr != nil {
		return nil, parseErr
	}

	// Файлы макетов: лимит размера и политика типов
	files, fileErr := parseArtworkFiles(form, maxFileSize)
	if fileErr != nil {
		return nil, fileErr
	}

	req := &model.SubmissionRequest{
		FirstName:           strings.TrimSpace(formValue(form, "firstName")),
		LastName:            strings.TrimSpace(formValue(form, "lastName")),
		Phone:               strings.TrimSpace(formValue(form, "phone")),
		Email:               strings.TrimSpace(formValue(form, "email")),
		Shipping:            strings.TrimSpace(formValue(form, "shipping")),
		ProjectName:         strings.TrimSpace(formValue(form, "projectName")),
		Rush:                strings.TrimSpace(formValue(form, "rush")),
		DueDate:             optionalString(form, "dueDate"),
		ApparelType:         strings.TrimSpace(formValue(form, "apparelType")),
		Blanks:              strings.TrimSpace(formValue(form, "blanks")),
		TotalItems:          totalItems,
		SizeBreakdown:       optionalString(form, "sizeBreakdown"),
		BrandStyle:          optionalString(form, "brandStyle"),
		GarmentColor:        optionalString(form, "garmentColor"),
		InkType:             optionalString(form, "inkType"),
		PrintLocations:      strings.TrimSpace(formValue(form, "printLocations")),
		Location1:           optionalString(form, "location1"),
		InkColors:           inkColors,
		InkColorsAdditional: inkColorsAdditional,
		Files:               files,
	}

	return req, nil
}

// parseArtworkFiles отбирает файлы поля artwork: отбрасывает пустые,
// отклоняет превышающие лимит и не прошедшие политику типов.
func parseArtworkFiles(form *multipart.Form, maxFileSize int64) ([]model.ArtworkFile, *SubmitError) {
	headers := form.File["artwork"]
	if len(headers) == 0 {
		return nil, nil
	}

	files := make([]model.ArtworkFile, 0, len(headers))
	for _, fh := range headers {
		// Пустые файлы (незаполненный file input) молча отбрасываются
		if fh.Size == 0 {
			continue
		}

		if fh.Size > maxFileSize {
			return nil, validationError(fmt.Sprintf("File too large: %s (max %d MB)", fh.Filename, maxFileSize/(1<<20)))
		}

		contentType := detectContentType(fh.Header.Get("Content-Type"))
		if !acceptedArtworkFile(fh.Filename, contentType) {
			return nil, validationError(fmt.Sprintf("Invalid file type: %s (accepted: ai, jpg, jpeg, pdf, psd, png)", fh.Filename))
		}

		files = append(files, model.ArtworkFile{
			Name:        fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	return files, nil
}

// acceptedArtworkFile проверяет политику приёма файла:
// достаточно совпадения расширения ИЛИ заявленного MIME-типа.
func acceptedArtworkFile(name, contentType string) bool {
	ext := ""
	if idx := strings.LastIndex(name, "."); idx != -1 {
		ext = strings.ToLower(name[idx+1:])
	}
	return acceptedExtensions[ext] || acceptedContentTypes[contentType]
}

// formValue возвращает первое значение поля формы или пустую строку.
func formValue(form *multipart.Form, key string) string {
	vals := form.Value[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// optionalString возвращает указатель на обрезанное значение поля
// или nil, если поле отсутствует либо пустое.
func optionalString(form *multipart.Form, key string) *string {
	v := strings.TrimSpace(formValue(form, key))
	if v == "" {
		return nil
	}
	return &v
}

// optionalNumber парсит опциональное числовое поле.
// Отсутствие или пустая строка — nil; непарсящееся значение — 400.
func optionalNumber(form *multipart.Form, key string) (*float64, *SubmitError) {
	v := strings.TrimSpace(formValue(form, key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, validationError(fmt.Sprintf("%s must be a number", key))
	}
	return &n, nil
}

// detectContentType нормализует заявленный Content-Type multipart part.
// Пустое значение — application/octet-stream, параметры (charset) отбрасываются.
func detectContentType(contentType string) string {
	if contentType == "" {
		return "application/octet-stream"
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType
}
