// artwork.go — построение имён объектов макетов в хранилище.
package service

import (
	"fmt"
	"strings"
	"time"
)

// maxFileNameLen — лимит длины санитизированного базового имени.
const maxFileNameLen = 200

// illegalFileNameChars — символы, недопустимые в сегментах пути хранилища и URL.
const illegalFileNameChars = `/\:*?"<>|`

// sanitizeFileName удаляет недопустимые символы и обрезает имя до 200 символов.
// Если после санитизации не осталось ничего — имя-заглушка с таймстемпом.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(illegalFileNameChars, r) {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if runes := []rune(cleaned); len(runes) > maxFileNameLen {
		cleaned = string(runes[:maxFileNameLen])
	}
	if cleaned == "" {
		return fmt.Sprintf("file-%d", time.Now().UnixMilli())
	}
	return cleaned
}

// artworkObjectName строит имя объекта в хранилище:
// <санитизированное базовое имя>-<индекс>.<оригинальное расширение>.
// Файл без расширения получает "bin", пустое базовое имя — "file".
func artworkObjectName(originalName string, index int) string {
	ext := "bin"
	base := originalName
	if idx := strings.LastIndex(originalName, "."); idx != -1 {
		ext = originalName[idx+1:]
		base = originalName[:idx]
	}
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%d.%s", sanitizeFileName(base), index, ext)
}
