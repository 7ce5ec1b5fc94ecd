package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSitemap(t *testing.T) {
	h := NewSitemapHandler()

	req := httptest.NewRequest(http.MethodGet, "http://merch.example.com/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	h.Sitemap(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Content-Type = %q, ожидается application/xml", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`) {
		t.Errorf("нет корневого элемента urlset:\n%s", body)
	}
	if !strings.Contains(body, "<loc>http://merch.example.com/</loc>") {
		t.Errorf("нет URL главной страницы:\n%s", body)
	}
}

func TestSitemap_ForwardedProto(t *testing.T) {
	h := NewSitemapHandler()

	req := httptest.NewRequest(http.MethodGet, "http://merch.example.com/sitemap.xml", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.Sitemap(rec, req)

	if !strings.Contains(rec.Body.String(), "<loc>https://merch.example.com/</loc>") {
		t.Errorf("origin должен учитывать X-Forwarded-Proto:\n%s", rec.Body.String())
	}
}
