package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taskpay-bot/taskpay/internal/domain"
	"github.com/taskpay-bot/taskpay/internal/repository"
)

// AccrualService applies the task-completion rules: at most one credit per
// task per calendar day, at most maxDays credited days per task, a fixed
// payout per credit. Everything is derived from stored history, never from
// wall-clock rate limiting.
type AccrualService struct {
	store   repository.Store
	amount  decimal.Decimal
	maxDays int
}

func NewAccrualService(store repository.Store, amount decimal.Decimal, maxDays int) *AccrualService {
	return &AccrualService{store: store, amount: amount, maxDays: maxDays}
}

// Credit grants userID one day's payout for taskID on date. The store is
// flushed before returning, so a nil error means the credit is durable.
// Guard failures (domain.ErrAlreadyCredited, domain.ErrCapReached,
// domain.ErrTaskNotFound) leave the ledger untouched.
func (s *AccrualService) Credit(ctx context.Context, userID, taskID, date string) (*domain.User, error) {
	if _, err := s.store.Task(taskID); err != nil {
		return nil, err
	}

	u := s.store.User(userID)
	if u.CreditedOn(taskID, date) {
		return nil, domain.ErrAlreadyCredited
	}
	if u.CreditDays(taskID) >= s.maxDays {
		return nil, domain.ErrCapReached
	}

	u.TaskHistory[taskID] = append(u.TaskHistory[taskID], date)
	u.CompletedTasks = append(u.CompletedTasks, taskID)
	u.Balance = u.Balance.Add(s.amount)
	s.store.PutUser(u)

	if err := s.store.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush credit: %w", err)
	}
	return u, nil
}

// Reject is a pure notification decision: rejection carries no penalty and
// does not block a later credit for the same task. It only validates that
// the referenced task exists.
func (s *AccrualService) Reject(userID, taskID string) error {
	if _, err := s.store.Task(taskID); err != nil {
		return err
	}
	return nil
}

// Amount returns the per-credit payout.
func (s *AccrualService) Amount() decimal.Decimal {
	return s.amount
}
