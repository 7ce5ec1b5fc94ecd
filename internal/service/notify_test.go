package service

import (
	"context"
	"strings"
	"testing"

	"github.com/juuujuuu9/ink-bug-merch/internal/domain/model"
)

func TestNotify_Subject(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, []string{"admin@example.com"}, testLogger())

	svc.Notify(context.Background(), &model.Entry{
		ID:          "entry-1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		ProjectName: "Tour merch",
		Email:       "ada@example.com",
	})

	if len(sender.sent) != 1 {
		t.Fatalf("писем = %d, ожидается 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "New Quote Request: Tour merch (Ada Lovelace)" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0] != "admin@example.com" {
		t.Errorf("To = %v", msg.To)
	}
}

func TestNotify_BodyContent(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, []string{"admin@example.com"}, testLogger())

	due := "2026-09-15"
	svc.Notify(context.Background(), &model.Entry{
		ID:             "entry-1",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Phone:          "+1 555 0100",
		Email:          "ada@example.com",
		Shipping:       "pickup",
		ProjectName:    "Tour merch",
		Rush:           "yes",
		DueDate:        &due,
		ApparelType:    "t-shirt",
		Blanks:         "provided",
		TotalItems:     24,
		PrintLocations: "front",
		ArtworkURLs: []string{
			"https://cdn.test/artwork/entry-1/logo-0.png",
			"https://cdn.test/artwork/entry-1/back-1.png",
		},
	})

	html := sender.sent[0].HTML
	for _, fragment := range []string{
		"Tour merch",
		"Ada Lovelace",
		`<a href="mailto:ada@example.com">`,
		"2026-09-15",
		"t-shirt | provided",
		"Total items:</strong> 24</p>",
		`<a href="https://cdn.test/artwork/entry-1/logo-0.png">logo-0.png</a>`,
		`<a href="https://cdn.test/artwork/entry-1/back-1.png">back-1.png</a>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("в письме нет фрагмента %q:\n%s", fragment, html)
		}
	}
}

func TestNotify_EscapesUserInput(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotifyService(sender, []string{"admin@example.com"}, testLogger())

	svc.Notify(context.Background(), &model.Entry{
		ID:          "entry-1",
		FirstName:   "<script>alert(1)</script>",
		LastName:    "X",
		ProjectName: "A & B",
		Email:       "x@example.com",
	})

	html := sender.sent[0].HTML
	if strings.Contains(html, "<script>") {
		t.Error("HTML-теги пользователя должны экранироваться")
	}
	if !strings.Contains(html, "A &amp; B") {
		t.Errorf("амперсанд должен экранироваться:\n%s", html)
	}
}
