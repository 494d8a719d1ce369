// Package telegram is the concrete transport adapter: it maps Telegram
// updates onto the transport event shapes the dispatcher consumes and
// executes its outbound sends. Chat and user IDs cross the boundary as
// decimal strings; the core never sees Telegram types.
package telegram

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/taskpay-bot/taskpay/internal/dispatcher"
	"github.com/taskpay-bot/taskpay/internal/transport"
)

type Adapter struct {
	dispatcher *dispatcher.Dispatcher
}

func NewAdapter(d *dispatcher.Dispatcher) *Adapter {
	return &Adapter{dispatcher: d}
}

// HandleUpdate is registered as the bot's default handler. Non-message
// updates are ignored.
func (a *Adapter) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if len(msg.NewChatMembers) > 0 {
		join := transport.Join{ConversationID: formatID(msg.Chat.ID)}
		for _, m := range msg.NewChatMembers {
			if m.IsBot {
				continue
			}
			join.JoinedIDs = append(join.JoinedIDs, formatID(m.ID))
		}
		if len(join.JoinedIDs) > 0 {
			a.dispatcher.HandleJoin(ctx, join)
		}
		return
	}

	ev := transport.Event{
		SenderID:       formatID(msg.From.ID),
		ConversationID: formatID(msg.Chat.ID),
		Text:           msg.Text,
		Media:          extractMedia(msg),
	}
	if ev.Text == "" {
		// media submissions carry the command in the caption
		ev.Text = msg.Caption
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		ev.ReplyTo = formatID(msg.ReplyToMessage.From.ID)
	}

	a.dispatcher.Dispatch(ctx, ev)
}

func extractMedia(msg *models.Message) *transport.Media {
	if len(msg.Photo) > 0 {
		// largest size last
		return &transport.Media{Kind: transport.MediaImage, Ref: msg.Photo[len(msg.Photo)-1].FileID}
	}
	if msg.Video != nil {
		return &transport.Media{Kind: transport.MediaVideo, Ref: msg.Video.FileID}
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
