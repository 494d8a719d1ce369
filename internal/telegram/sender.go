package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/taskpay-bot/taskpay/internal/config"
	"github.com/taskpay-bot/taskpay/internal/transport"
)

// Sender delivers dispatcher output through the Telegram API. Highlighted
// participants are already rendered as @handles in the message text, so
// HighlightIDs need no separate entity markup here.
type Sender struct {
	bot *bot.Bot
}

func NewSender(b *bot.Bot) *Sender {
	return &Sender{bot: b}
}

func (s *Sender) Send(ctx context.Context, out transport.Outbound) error {
	chatID, err := strconv.ParseInt(out.ConversationID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse conversation id %q: %w", out.ConversationID, err)
	}

	if out.Media != nil {
		return s.sendMedia(ctx, chatID, out)
	}

	for _, part := range splitMessage(out.Text, config.MaxTelegramMessageLen) {
		_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		})
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// sendMedia re-sends an attachment by its file ID with the text as caption.
func (s *Sender) sendMedia(ctx context.Context, chatID int64, out transport.Outbound) error {
	switch out.Media.Kind {
	case transport.MediaVideo:
		_, err := s.bot.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:  chatID,
			Video:   &models.InputFileString{Data: out.Media.Ref},
			Caption: out.Text,
		})
		if err != nil {
			return fmt.Errorf("send video: %w", err)
		}
	default:
		_, err := s.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: out.Media.Ref},
			Caption: out.Text,
		})
		if err != nil {
			return fmt.Errorf("send photo: %w", err)
		}
	}
	return nil
}

// splitMessage chunks text at the Telegram length limit, breaking on
// newlines where possible.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndexByte(string(runes[:limit]), '\n'); i > 0 {
			cut = len([]rune(string(runes[:limit])[:i]))
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
