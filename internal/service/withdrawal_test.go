package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/taskpay-bot/taskpay/internal/domain"
	"github.com/taskpay-bot/taskpay/internal/repository"
	"github.com/taskpay-bot/taskpay/internal/service"
)

func newWithdrawalEnv(t *testing.T) (*service.WithdrawalService, repository.Store) {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return service.NewWithdrawalService(store, decimal.NewFromInt(50)), store
}

func TestRequestRequiresAccount(t *testing.T) {
	withdrawals, store := newWithdrawalEnv(t)

	u := store.User("u1")
	u.Balance = decimal.NewFromInt(100)
	store.PutUser(u)

	if _, err := withdrawals.Request("u1"); !errors.Is(err, domain.ErrAccountNotSet) {
		t.Fatalf("err = %v, want ErrAccountNotSet", err)
	}
}

func TestRequestBalanceFloor(t *testing.T) {
	withdrawals, store := newWithdrawalEnv(t)

	u := store.User("u1")
	u.Account = "Jazzcash Ali 03001234567"
	u.Balance = decimal.NewFromInt(49)
	store.PutUser(u)

	if _, err := withdrawals.Request("u1"); !errors.Is(err, domain.ErrBelowMinimum) {
		t.Fatalf("balance 49: err = %v, want ErrBelowMinimum", err)
	}

	u.Balance = decimal.NewFromInt(50)
	store.PutUser(u)

	req, err := withdrawals.Request("u1")
	if err != nil {
		t.Fatalf("balance 50: %v", err)
	}
	if req.Ref == "" {
		t.Fatalf("request ref empty")
	}
	if !req.Amount.Equal(decimal.NewFromInt(50)) || req.Account != u.Account {
		t.Fatalf("request payload = %+v", req)
	}
}

func TestRepeatedRequestsAreNotDeduplicated(t *testing.T) {
	withdrawals, store := newWithdrawalEnv(t)

	u := store.User("u1")
	u.Account = "easypaisa 0311"
	u.Balance = decimal.NewFromInt(80)
	store.PutUser(u)

	first, err := withdrawals.Request("u1")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := withdrawals.Request("u1")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if first.Ref == second.Ref {
		t.Fatalf("refs should differ per notification")
	}
}

func TestSettleZeroesOnlyTarget(t *testing.T) {
	withdrawals, store := newWithdrawalEnv(t)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2"} {
		u := store.User(id)
		u.Balance = decimal.NewFromInt(60)
		store.PutUser(u)
	}

	paid, err := withdrawals.Settle(ctx, "u1")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !paid.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("paid = %s, want 60", paid)
	}
	if !store.User("u1").Balance.IsZero() {
		t.Fatalf("target balance not zeroed")
	}
	if !store.User("u2").Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("other user's balance touched")
	}
}

func TestSettleUnknownUser(t *testing.T) {
	withdrawals, _ := newWithdrawalEnv(t)
	if _, err := withdrawals.Settle(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

// Settlement zeroes whatever the balance is at settlement time, not the
// amount originally requested.
func TestSettleUsesCurrentBalance(t *testing.T) {
	withdrawals, store := newWithdrawalEnv(t)
	ctx := context.Background()

	u := store.User("u1")
	u.Account = "bank 1"
	u.Balance = decimal.NewFromInt(50)
	store.PutUser(u)

	if _, err := withdrawals.Request("u1"); err != nil {
		t.Fatalf("request: %v", err)
	}

	// balance moves between request and settlement
	u.Balance = decimal.NewFromInt(52)
	store.PutUser(u)

	paid, err := withdrawals.Settle(ctx, "u1")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !paid.Equal(decimal.NewFromInt(52)) {
		t.Fatalf("paid = %s, want current balance 52", paid)
	}
}
