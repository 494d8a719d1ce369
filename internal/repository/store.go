// Package repository holds the ledger record stores. Both backends keep the
// working set in memory and persist it as a whole snapshot on Flush; there
// is no partial-key write. Stores are not safe for concurrent use — the
// dispatcher serializes every event before touching them.
package repository

import (
	"context"

	"github.com/taskpay-bot/taskpay/internal/domain"
)

// Store is the keyed ledger store for User and Task records.
//
// User is get-or-create: an unknown id yields a zeroed record that becomes
// durable on the next Flush. Task returns domain.ErrTaskNotFound for
// unknown ids. Callers mutate the returned records, register them with
// PutUser/PutTask, and Flush before any outbound send that depends on the
// mutation.
type Store interface {
	User(id string) *domain.User
	HasUser(id string) bool
	PutUser(u *domain.User)
	Task(id string) (*domain.Task, error)
	PutTask(t *domain.Task)
	Flush(ctx context.Context) error
}
