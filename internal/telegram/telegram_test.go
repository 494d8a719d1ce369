package telegram

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/taskpay-bot/taskpay/internal/transport"
)

func TestExtractMedia(t *testing.T) {
	msg := &models.Message{}
	if extractMedia(msg) != nil {
		t.Fatalf("media from bare message")
	}

	msg.Photo = []models.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	m := extractMedia(msg)
	if m == nil || m.Kind != transport.MediaImage || m.Ref != "large" {
		t.Fatalf("photo media = %+v, want largest size", m)
	}

	msg = &models.Message{Video: &models.Video{FileID: "vid"}}
	m = extractMedia(msg)
	if m == nil || m.Kind != transport.MediaVideo || m.Ref != "vid" {
		t.Fatalf("video media = %+v", m)
	}
}

func TestSplitMessageShort(t *testing.T) {
	parts := splitMessage("hello", 10)
	if len(parts) != 1 || parts[0] != "hello" {
		t.Fatalf("parts = %v", parts)
	}
}

func TestSplitMessageBreaksOnNewline(t *testing.T) {
	text := strings.Repeat("line one\n", 5)
	parts := splitMessage(strings.TrimRight(text, "\n"), 20)
	if len(parts) < 2 {
		t.Fatalf("expected split, got %v", parts)
	}
	for _, p := range parts {
		if len([]rune(p)) > 20 {
			t.Fatalf("part exceeds limit: %q", p)
		}
		if strings.HasPrefix(p, "\n") {
			t.Fatalf("part starts with newline: %q", p)
		}
	}
	if strings.Join(parts, "\n") != strings.TrimRight(text, "\n") {
		t.Fatalf("content lost across parts: %v", parts)
	}
}
