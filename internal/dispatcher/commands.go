package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskpay-bot/taskpay/internal/config"
	"github.com/taskpay-bot/taskpay/internal/domain"
	"github.com/taskpay-bot/taskpay/internal/transport"
)

func (d *Dispatcher) handleWork(ctx context.Context, ev transport.Event, _ []string) error {
	d.send(ctx, transport.Outbound{
		ConversationID: ev.ConversationID,
		Text:           helpText(d.accrual.Amount(), d.cfg.MaxCreditDays, d.withdrawals.Minimum()),
	})
	return nil
}

func (d *Dispatcher) handleBalance(ctx context.Context, ev transport.Event, _ []string) error {
	u := d.store.User(ev.SenderID)
	d.send(ctx, transport.Outbound{
		ConversationID: ev.ConversationID,
		Text:           balanceText(u.Balance, len(u.CompletedTasks)),
		HighlightIDs:   []string{ev.SenderID},
	})
	return nil
}

func (d *Dispatcher) handleAccount(ctx context.Context, ev transport.Event, args []string) error {
	if err := d.users.SetAccount(ctx, ev.SenderID, strings.Join(args, " ")); err != nil {
		return err
	}
	d.send(ctx, transport.Outbound{
		ConversationID: ev.ConversationID,
		Text:           msgAccountSaved,
		HighlightIDs:   []string{ev.SenderID},
	})
	return nil
}

func (d *Dispatcher) handleWithdraw(ctx context.Context, ev transport.Event, _ []string) error {
	req, err := d.withdrawals.Request(ev.SenderID)
	switch {
	case errors.Is(err, domain.ErrAccountNotSet):
		d.send(ctx, transport.Outbound{
			ConversationID: ev.ConversationID,
			Text:           msgNoAccount,
			HighlightIDs:   []string{ev.SenderID},
		})
		return nil
	case errors.Is(err, domain.ErrBelowMinimum):
		d.send(ctx, transport.Outbound{
			ConversationID: ev.ConversationID,
			Text:           belowMinimumText(d.withdrawals.Minimum()),
			HighlightIDs:   []string{ev.SenderID},
		})
		return nil
	case err != nil:
		return err
	}

	d.send(ctx, transport.Outbound{
		ConversationID: d.cfg.WithdrawChatID,
		Text:           withdrawNoticeText(req.Ref, handle(req.UserID), req.Account, req.Amount),
	})
	d.send(ctx, transport.Outbound{
		ConversationID: ev.ConversationID,
		Text:           msgRequested,
		HighlightIDs:   []string{ev.SenderID},
	})
	return nil
}

func (d *Dispatcher) handleTask(ctx context.Context, ev transport.Event, args []string) error {
	task := &domain.Task{ID: args[1], URL: args[0], Created: domain.DateOf(d.Now())}
	d.store.PutTask(task)
	if err := d.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush task: %w", err)
	}

	title := ""
	if d.preview != nil {
		pctx, cancel := context.WithTimeout(ctx, config.PreviewTimeout)
		t, err := d.preview.PageTitle(pctx, task.URL)
		cancel()
		if err != nil {
			slog.Debug("task title lookup failed", "task", task.ID, "error", err)
		} else {
			title = t
		}
	}

	d.send(ctx, transport.Outbound{
		ConversationID: d.cfg.ResultsChatID,
		Text:           taskAnnounceText(task.ID, task.URL, title),
	})
	return nil
}

func (d *Dispatcher) handleDone(ctx context.Context, ev transport.Event, _ []string) error {
	d.archiveSubmission(ctx, ev)

	d.send(ctx, transport.Outbound{
		ConversationID: d.cfg.ResultsChatID,
		Text:           submissionText(handle(ev.SenderID)),
		Media:          ev.Media,
		HighlightIDs:   []string{ev.SenderID},
	})
	return nil
}

// archiveSubmission copies the submission attachment into the scratch dir.
// Best-effort only: the review message is sent regardless.
func (d *Dispatcher) archiveSubmission(ctx context.Context, ev transport.Event) {
	if d.fetchMedia == nil || d.scratch == nil {
		return
	}

	fctx, cancel := context.WithTimeout(ctx, config.MediaFetchTimeout)
	defer cancel()

	data, err := d.fetchMedia(fctx, ev.Media.Ref)
	if err != nil {
		slog.Warn("archive submission media", "sender", ev.SenderID, "error", err)
		return
	}

	ext := ".jpg"
	if ev.Media.Kind == transport.MediaVideo {
		ext = ".mp4"
	}
	name := fmt.Sprintf("%s-%d%s", handle(ev.SenderID), d.Now().UnixNano(), ext)
	if _, err := d.scratch.Save(name, data); err != nil {
		slog.Warn("archive submission media", "sender", ev.SenderID, "error", err)
	}
}

func (d *Dispatcher) handleApprove(ctx context.Context, ev transport.Event, args []string) error {
	taskID := args[0]
	u, err := d.accrual.Credit(ctx, ev.ReplyTo, taskID, domain.DateOf(d.Now()))
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return nil
	case errors.Is(err, domain.ErrAlreadyCredited), errors.Is(err, domain.ErrCapReached):
		d.send(ctx, transport.Outbound{
			ConversationID: ev.ConversationID,
			Text:           creditGuardText(d.cfg.MaxCreditDays),
			HighlightIDs:   []string{ev.ReplyTo},
		})
		return nil
	case err != nil:
		return err
	}

	d.send(ctx, transport.Outbound{
		ConversationID: d.cfg.ResultsChatID,
		Text:           creditedText(handle(u.ID), d.accrual.Amount(), taskID),
		HighlightIDs:   []string{u.ID},
	})
	return nil
}

func (d *Dispatcher) handleReject(ctx context.Context, ev transport.Event, args []string) error {
	taskID := args[0]
	if err := d.accrual.Reject(ev.ReplyTo, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil
		}
		return err
	}

	d.send(ctx, transport.Outbound{
		ConversationID: d.cfg.ResultsChatID,
		Text:           rejectedText(handle(ev.ReplyTo), taskID),
		HighlightIDs:   []string{ev.ReplyTo},
	})
	return nil
}

func (d *Dispatcher) handleSettle(ctx context.Context, ev transport.Event, _ []string) error {
	_, err := d.withdrawals.Settle(ctx, ev.ReplyTo)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	d.send(ctx, transport.Outbound{
		ConversationID: d.cfg.ResultsChatID,
		Text:           settledText(handle(ev.ReplyTo)),
		HighlightIDs:   []string{ev.ReplyTo},
	})
	return nil
}

func (d *Dispatcher) handleClearTemp(ctx context.Context, ev transport.Event, _ []string) error {
	if d.scratch != nil {
		if err := d.scratch.Clear(); err != nil {
			return err
		}
	}
	d.send(ctx, transport.Outbound{
		ConversationID: ev.ConversationID,
		Text:           msgTempCleared,
	})
	return nil
}
