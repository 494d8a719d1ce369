package service

import (
	"context"
	"fmt"

	"github.com/taskpay-bot/taskpay/internal/domain"
	"github.com/taskpay-bot/taskpay/internal/repository"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// FindOrCreate returns the user record for id, creating a zeroed one on
// first sight. A newly created record is flushed immediately.
func (s *UserService) FindOrCreate(ctx context.Context, id string) (*domain.User, bool, error) {
	created := !s.store.HasUser(id)
	u := s.store.User(id)
	if created {
		s.store.PutUser(u)
		if err := s.store.Flush(ctx); err != nil {
			return nil, false, fmt.Errorf("flush new user: %w", err)
		}
	}
	return u, created, nil
}

// SetAccount stores the free-text payout destination for id.
func (s *UserService) SetAccount(ctx context.Context, id, account string) error {
	u := s.store.User(id)
	u.Account = account
	s.store.PutUser(u)
	if err := s.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush account: %w", err)
	}
	return nil
}
