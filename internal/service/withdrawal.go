package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskpay-bot/taskpay/internal/domain"
	"github.com/taskpay-bot/taskpay/internal/repository"
)

// WithdrawalRequest is the transient notification payload for an eligible
// withdrawal. It is never stored: the lifecycle is resolved through the
// operators' reply, and Ref exists only so duplicate notifications for the
// same outstanding balance can be told apart by hand.
type WithdrawalRequest struct {
	Ref     string
	UserID  string
	Account string
	Amount  decimal.Decimal
}

// WithdrawalService carries the withdrawal guards and settlement.
type WithdrawalService struct {
	store repository.Store
	min   decimal.Decimal
}

func NewWithdrawalService(store repository.Store, min decimal.Decimal) *WithdrawalService {
	return &WithdrawalService{store: store, min: min}
}

// Request validates the withdrawal guards and builds the notification
// payload. No ledger state changes here: repeated requests for the same
// balance are possible by design.
func (s *WithdrawalService) Request(userID string) (*WithdrawalRequest, error) {
	u := s.store.User(userID)
	if u.Account == "" {
		return nil, domain.ErrAccountNotSet
	}
	if u.Balance.LessThan(s.min) {
		return nil, domain.ErrBelowMinimum
	}
	return &WithdrawalRequest{
		Ref:     uuid.NewString(),
		UserID:  userID,
		Account: u.Account,
		Amount:  u.Balance,
	}, nil
}

// Settle zeroes the user's balance once the payout has been made manually.
// The requested amount is not stored, so whatever the balance is at
// settlement time is what gets zeroed.
func (s *WithdrawalService) Settle(ctx context.Context, userID string) (decimal.Decimal, error) {
	if !s.store.HasUser(userID) {
		return decimal.Zero, domain.ErrUserNotFound
	}

	u := s.store.User(userID)
	paid := u.Balance
	u.Balance = decimal.Zero
	s.store.PutUser(u)

	if err := s.store.Flush(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("flush settlement: %w", err)
	}
	return paid, nil
}

// Minimum returns the withdrawal floor.
func (s *WithdrawalService) Minimum() decimal.Decimal {
	return s.min
}
