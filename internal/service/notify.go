// notify.go — best-effort email-уведомление администраторов о новой заявке.
package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/juuujuuu9/ink-bug-merch/internal/domain/model"
	"github.com/juuujuuu9/ink-bug-merch/internal/resend"
)

// MailSender — отправка одного письма. Реализуется resend.Client.
type MailSender interface {
	Send(ctx context.Context, msg resend.Message) error
}

// NotifyService — уведомление администраторов о принятых заявках.
// Любая ошибка отправки логируется и глотается: заявка уже сохранена,
// и ответ пользователю от письма не зависит.
type NotifyService struct {
	sender     MailSender
	recipients []string
	logger     *slog.Logger
}

// NewNotifyService создаёт сервис уведомлений.
// Пустой список получателей полностью отключает отправку.
func NewNotifyService(sender MailSender, recipients []string, logger *slog.Logger) *NotifyService {
	return &NotifyService{
		sender:     sender,
		recipients: recipients,
		logger:     logger.With(slog.String("component", "notify_service")),
	}
}

// Notify отправляет администраторам письмо о новой заявке.
func (n *NotifyService) Notify(ctx context.Context, entry *model.Entry) {
	if len(n.recipients) == 0 {
		return
	}

	msg := resend.Message{
		To:      n.recipients,
		Subject: fmt.Sprintf("New Quote Request: %s (%s %s)", entry.ProjectName, entry.FirstName, entry.LastName),
		HTML:    renderNotification(entry),
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("Ошибка отправки уведомления администраторам",
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	n.logger.Info("Уведомление о заявке отправлено",
		slog.String("entry_id", entry.ID),
		slog.Int("recipients", len(n.recipients)),
	)
}

// renderNotification собирает HTML-тело письма.
// Все значения из формы экранируются.
func renderNotification(entry *model.Entry) string {
	var b strings.Builder

	b.WriteString("<h2>New Quote Request</h2>")
	writeRow(&b, "Project", entry.ProjectName)
	writeRow(&b, "Customer", entry.FirstName+" "+entry.LastName)
	fmt.Fprintf(&b, "<p><strong>Email:</strong> <a href=\"mailto:%s\">%s</a></p>",
		html.EscapeString(entry.Email), html.EscapeString(entry.Email))
	writeRow(&b, "Phone", entry.Phone)
	writeRow(&b, "Shipping", entry.Shipping)
	writeRow(&b, "Rush", entry.Rush)
	if entry.DueDate != nil {
		writeRow(&b, "Due date", *entry.DueDate)
	}
	writeRow(&b, "Apparel", entry.ApparelType+" | "+entry.Blanks)
	writeRow(&b, "Total items", fmt.Sprintf("%d", entry.TotalItems))
	writeRow(&b, "Print locations", entry.PrintLocations)

	if len(entry.ArtworkURLs) > 0 {
		// Текст ссылки — имя объекта в хранилище (последний сегмент URL)
		links := make([]string, 0, len(entry.ArtworkURLs))
		for _, url := range entry.ArtworkURLs {
			name := url
			if idx := strings.LastIndex(url, "/"); idx != -1 {
				name = url[idx+1:]
			}
			links = append(links, fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), html.EscapeString(name)))
		}
		b.WriteString("<p><strong>Artwork:</strong><br/>" + strings.Join(links, "<br/>") + "</p>")
	}

	return b.String()
}

// writeRow добавляет в письмо одну строку "метка: значение".
func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<p><strong>%s:</strong> %s</p>", label, html.EscapeString(value))
}
