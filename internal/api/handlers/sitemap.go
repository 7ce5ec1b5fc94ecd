// sitemap.go — генерация sitemap.xml по origin входящего запроса.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
)

// sitemapPages — публичные страницы сайта, попадающие в sitemap.
var sitemapPages = []string{"/"}

// SitemapHandler — обработчик GET /sitemap.xml.
type SitemapHandler struct{}

// NewSitemapHandler создаёт обработчик sitemap.
func NewSitemapHandler() *SitemapHandler {
	return &SitemapHandler{}
}

// Sitemap обрабатывает GET /sitemap.xml.
// Origin берётся из запроса, чтобы sitemap работал на любом домене
// без дополнительной конфигурации.
func (h *SitemapHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	origin := requestOrigin(r)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, page := range sitemapPages {
		fmt.Fprintf(&b, "  <url><loc>%s%s</loc></url>\n", origin, page)
	}
	b.WriteString("</urlset>\n")

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// requestOrigin восстанавливает origin запроса с учётом reverse proxy.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
