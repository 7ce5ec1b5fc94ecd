package service

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"обычное имя", "logo final", "logo final"},
		{"недопустимые символы удаляются", `a/b\c:d*e?f"g<h>i|j`, "abcdefghij"},
		{"unicode сохраняется", "логотип", "логотип"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFileName(tt.input); got != tt.expected {
				t.Errorf("sanitizeFileName(%q) = %q, ожидается %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFileName_Truncation(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := sanitizeFileName(long)
	if len([]rune(got)) != 200 {
		t.Errorf("длина = %d, ожидается 200", len([]rune(got)))
	}
}

func TestSanitizeFileName_Fallback(t *testing.T) {
	// Имя целиком из недопустимых символов — заглушка с таймстемпом
	got := sanitizeFileName(`///\\\`)
	if !strings.HasPrefix(got, "file-") {
		t.Errorf("sanitizeFileName = %q, ожидается префикс file-", got)
	}
}

func TestArtworkObjectName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		index    int
		expected string
	}{
		{"обычное имя", "logo.png", 0, "logo-0.png"},
		{"индекс в имени", "design.ai", 2, "design-2.ai"},
		{"несколько точек", "final.v2.pdf", 1, "final.v2-1.pdf"},
		{"без расширения", "artwork", 0, "artwork-0.bin"},
		{"пустое базовое имя", ".psd", 0, "file-0.psd"},
		{"символы в базовом имени", "a/b.png", 0, "ab-0.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artworkObjectName(tt.input, tt.index); got != tt.expected {
				t.Errorf("artworkObjectName(%q, %d) = %q, ожидается %q", tt.input, tt.index, got, tt.expected)
			}
		})
	}
}
