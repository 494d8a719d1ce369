// Package dispatcher routes inbound chat events to ledger operations. The
// command set is a closed table: each entry pairs a handler with the
// structural guards (channel, reply-to, media, arg count) checked before
// the handler runs. State-dependent guards (account set, balance floor)
// live in the services.
package dispatcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taskpay-bot/taskpay/internal/config"
	"github.com/taskpay-bot/taskpay/internal/repository"
	"github.com/taskpay-bot/taskpay/internal/service"
	"github.com/taskpay-bot/taskpay/internal/transport"
)

type channelGuard int

const (
	anyChannel channelGuard = iota
	resultsChannel
	withdrawChannel
)

type handlerFunc func(ctx context.Context, ev transport.Event, args []string) error

type command struct {
	handler    handlerFunc
	channel    channelGuard
	needsReply bool
	needsMedia bool
	minArgs    int

	// guard-failure replies; empty means silent drop
	mediaWarn string
	argWarn   string
}

// FetchMediaFunc resolves an attachment ref to its raw bytes. Used only for
// best-effort archiving of submissions into the scratch dir.
type FetchMediaFunc func(ctx context.Context, ref string) ([]byte, error)

// Dispatcher interprets commands and drives the ledger. All event
// processing is serialized through mu: the stores assume no concurrent
// mutation, and the transport may deliver updates from multiple goroutines.
type Dispatcher struct {
	mu sync.Mutex

	cfg         *config.Config
	store       repository.Store
	users       *service.UserService
	accrual     *service.AccrualService
	withdrawals *service.WithdrawalService
	preview     *service.PreviewService
	scratch     *repository.Scratch
	sender      transport.Sender
	fetchMedia  FetchMediaFunc

	// Now is the clock used for calendar dates; overridable in tests.
	Now func() time.Time

	commands map[string]command
}

// Deps contains all dependencies required to construct a Dispatcher.
// Preview, Scratch and FetchMedia are optional.
type Deps struct {
	Cfg         *config.Config
	Store       repository.Store
	Users       *service.UserService
	Accrual     *service.AccrualService
	Withdrawals *service.WithdrawalService
	Preview     *service.PreviewService
	Scratch     *repository.Scratch
	Sender      transport.Sender
	FetchMedia  FetchMediaFunc
}

func New(deps Deps) *Dispatcher {
	d := &Dispatcher{
		cfg:         deps.Cfg,
		store:       deps.Store,
		users:       deps.Users,
		accrual:     deps.Accrual,
		withdrawals: deps.Withdrawals,
		preview:     deps.Preview,
		scratch:     deps.Scratch,
		sender:      deps.Sender,
		fetchMedia:  deps.FetchMedia,
		Now:         time.Now,
	}

	d.commands = map[string]command{
		"work":      {handler: d.handleWork},
		"balance":   {handler: d.handleBalance},
		"account":   {handler: d.handleAccount, minArgs: 1, argWarn: msgAccountFormat},
		"withdraw":  {handler: d.handleWithdraw},
		"task":      {handler: d.handleTask, channel: resultsChannel, minArgs: 2},
		"done":      {handler: d.handleDone, needsMedia: true, mediaWarn: msgAttachMedia},
		"g":         {handler: d.handleApprove, needsReply: true, minArgs: 1},
		"reject":    {handler: d.handleReject, needsReply: true, minArgs: 1},
		"wap":       {handler: d.handleSettle, channel: withdrawChannel, needsReply: true},
		"cleartemp": {handler: d.handleClearTemp},
	}

	return d
}

// Dispatch processes one inbound message to completion. Ordinary chat
// traffic (no recognized prefix) and unknown command names are ignored;
// no failure here may prevent processing of the next event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev transport.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	text := strings.TrimSpace(ev.Text)
	if text == "" || !strings.ContainsRune(d.cfg.CommandPrefixes, rune(text[0])) {
		return
	}

	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	cmd, ok := d.commands[name]
	if !ok {
		slog.Debug("unknown command ignored", "command", name, "sender", ev.SenderID)
		return
	}

	if !d.channelAllowed(cmd.channel, ev.ConversationID) {
		return
	}
	if cmd.needsReply && ev.ReplyTo == "" {
		return
	}
	if cmd.needsMedia && ev.Media == nil {
		d.send(ctx, transport.Outbound{ConversationID: ev.ConversationID, Text: cmd.mediaWarn})
		return
	}
	if len(args) < cmd.minArgs {
		if cmd.argWarn != "" {
			d.send(ctx, transport.Outbound{ConversationID: ev.ConversationID, Text: cmd.argWarn})
		}
		return
	}

	if err := cmd.handler(ctx, ev, args); err != nil {
		slog.Error("command failed", "command", name, "sender", ev.SenderID, "error", err)
	}
}

// HandleJoin registers participants added to the submissions channel and
// welcomes them. Joins elsewhere are ignored.
func (d *Dispatcher) HandleJoin(ctx context.Context, join transport.Join) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if join.ConversationID != d.cfg.SubmissionsChatID {
		return
	}

	for _, id := range join.JoinedIDs {
		if _, _, err := d.users.FindOrCreate(ctx, id); err != nil {
			slog.Error("register joined user", "user", id, "error", err)
			continue
		}
		d.send(ctx, transport.Outbound{
			ConversationID: join.ConversationID,
			Text:           welcomeText(handle(id)),
			HighlightIDs:   []string{id},
		})
	}
}

func (d *Dispatcher) channelAllowed(guard channelGuard, conversationID string) bool {
	switch guard {
	case resultsChannel:
		return conversationID == d.cfg.ResultsChatID
	case withdrawChannel:
		return conversationID == d.cfg.WithdrawChatID
	default:
		return true
	}
}

// send delivers an outbound message, logging failures. Delivery is
// fire-and-forget: the ledger mutation preceding it is already durable.
func (d *Dispatcher) send(ctx context.Context, out transport.Outbound) {
	if err := d.sender.Send(ctx, out); err != nil {
		slog.Error("send failed", "conversation", out.ConversationID, "error", err)
	}
}

// handle turns an opaque sender identity into a short display handle,
// trimming any transport domain suffix.
func handle(id string) string {
	if i := strings.IndexByte(id, '@'); i > 0 {
		return id[:i]
	}
	return id
}
