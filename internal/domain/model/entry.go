// Пакет model — доменные модели модуля приёма заказов.
// entry.go — заявка на изготовление мерча и связанные с ней типы.
package model

import (
	"io"
	"time"
)

// ArtworkStatus — статус загрузки макетов заявки.
// Делает явным частичное состояние "запись есть, макеты не прикреплены":
// при ошибке загрузки запись остаётся в статусе pending.
type ArtworkStatus string

const (
	// ArtworkNone — заявка без файлов макетов.
	ArtworkNone ArtworkStatus = "none"
	// ArtworkPending — запись создана, загрузка макетов не завершена.
	ArtworkPending ArtworkStatus = "pending"
	// ArtworkComplete — все макеты загружены, ссылки прикреплены.
	ArtworkComplete ArtworkStatus = "complete"
)

// Entry — долговременная запись одной заявки (таблица entries).
// Идентификатор генерируется базой данных при вставке.
type Entry struct {
	ID                  string
	FirstName           string
	LastName            string
	Phone               string
	Email               string
	Shipping            string
	ProjectName         string
	Rush                string
	DueDate             *string
	ApparelType         string
	Blanks              string
	TotalItems          int
	SizeBreakdown       *string
	BrandStyle          *string
	GarmentColor        *string
	InkType             *string
	PrintLocations      string
	Location1           *string
	InkColors           *float64
	InkColorsAdditional *float64
	ArtworkStatus       ArtworkStatus
	ArtworkURLs         []string
	CreatedAt           time.Time
}

// SubmissionRequest — распарсенная и провалидированная форма заявки.
// Существует только в рамках обработки одного запроса.
type SubmissionRequest struct {
	FirstName           string
	LastName            string
	Phone               string
	Email               string
	Shipping            string
	ProjectName         string
	Rush                string
	DueDate             *string
	ApparelType         string
	Blanks              string
	TotalItems          int
	SizeBreakdown       *string
	BrandStyle          *string
	GarmentColor        *string
	InkType             *string
	PrintLocations      string
	Location1           *string
	InkColors           *float64
	InkColorsAdditional *float64
	// Files — принятые файлы макетов (пустые файлы отброшены при парсинге).
	Files []ArtworkFile
}

// Entry строит доменную запись из провалидированной формы.
// Статус макетов определяется наличием файлов.
func (r *SubmissionRequest) Entry() *Entry {
	status := ArtworkNone
	if len(r.Files) > 0 {
		status = ArtworkPending
	}
	return &Entry{
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Phone:               r.Phone,
		Email:               r.Email,
		Shipping:            r.Shipping,
		ProjectName:         r.ProjectName,
		Rush:                r.Rush,
		DueDate:             r.DueDate,
		ApparelType:         r.ApparelType,
		Blanks:              r.Blanks,
		TotalItems:          r.TotalItems,
		SizeBreakdown:       r.SizeBreakdown,
		BrandStyle:          r.BrandStyle,
		GarmentColor:        r.GarmentColor,
		InkType:             r.InkType,
		PrintLocations:      r.PrintLocations,
		Location1:           r.Location1,
		InkColors:           r.InkColors,
		InkColorsAdditional: r.InkColorsAdditional,
		ArtworkStatus:       status,
	}
}

// ArtworkFile — принятый файл макета из multipart-формы.
// Open откладывает чтение содержимого до момента загрузки в хранилище.
type ArtworkFile struct {
	// Name — оригинальное имя файла
	Name string
	// ContentType — заявленный MIME-тип
	ContentType string
	// Size — размер файла в байтах
	Size int64
	// Open открывает содержимое файла для чтения
	Open func() (io.ReadCloser, error)
}

// ArtifactReference — успешно загруженный макет.
type ArtifactReference struct {
	// FileName — имя объекта в хранилище (с индексом и расширением)
	FileName string
	// URL — публичный CDN-адрес
	URL string
}
