package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/taskpay-bot/taskpay/internal/domain"
)

// PostgresStore keeps the ledger in memory like FileStore but durably
// backs it with Postgres. Records touched via PutUser/PutTask are marked
// dirty and written back in a single transaction on Flush, so a flush is
// all-or-nothing the same way the file snapshot is.
type PostgresStore struct {
	pool       *pgxpool.Pool
	users      map[string]*domain.User
	tasks      map[string]*domain.Task
	dirtyUsers map[string]struct{}
	dirtyTasks map[string]struct{}
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{
		pool:       pool,
		users:      map[string]*domain.User{},
		tasks:      map[string]*domain.Task{},
		dirtyUsers: map[string]struct{}{},
		dirtyTasks: map[string]struct{}{},
	}

	rows, err := pool.Query(ctx, `SELECT id, balance::text, account, completed_tasks, task_history FROM users`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			u       domain.User
			balance string
			history []byte
		)
		if err := rows.Scan(&u.ID, &balance, &u.Account, &u.CompletedTasks, &history); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("parse balance for %s: %w", u.ID, err)
		}
		u.TaskHistory = map[string][]string{}
		if len(history) > 0 {
			if err := json.Unmarshal(history, &u.TaskHistory); err != nil {
				return nil, fmt.Errorf("parse task history for %s: %w", u.ID, err)
			}
		}
		if u.CompletedTasks == nil {
			u.CompletedTasks = []string{}
		}
		s.users[u.ID] = &u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	taskRows, err := pool.Query(ctx, `SELECT id, url, created FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var t domain.Task
		if err := taskRows.Scan(&t.ID, &t.URL, &t.Created); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		s.tasks[t.ID] = &t
	}
	if err := taskRows.Err(); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) User(id string) *domain.User {
	u, ok := s.users[id]
	if !ok {
		u = domain.NewUser(id)
		s.users[id] = u
		s.dirtyUsers[id] = struct{}{}
	}
	return u
}

func (s *PostgresStore) HasUser(id string) bool {
	_, ok := s.users[id]
	return ok
}

func (s *PostgresStore) PutUser(u *domain.User) {
	s.users[u.ID] = u
	s.dirtyUsers[u.ID] = struct{}{}
}

func (s *PostgresStore) Task(id string) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (s *PostgresStore) PutTask(t *domain.Task) {
	s.tasks[t.ID] = t
	s.dirtyTasks[t.ID] = struct{}{}
}

func (s *PostgresStore) Flush(ctx context.Context) error {
	if len(s.dirtyUsers) == 0 && len(s.dirtyTasks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for id := range s.dirtyUsers {
		u := s.users[id]
		history, err := json.Marshal(u.TaskHistory)
		if err != nil {
			return fmt.Errorf("marshal task history for %s: %w", id, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO users (id, balance, account, completed_tasks, task_history, updated_at)
			VALUES ($1, $2::numeric, $3, $4, $5, now())
			ON CONFLICT (id) DO UPDATE SET
				balance = EXCLUDED.balance,
				account = EXCLUDED.account,
				completed_tasks = EXCLUDED.completed_tasks,
				task_history = EXCLUDED.task_history,
				updated_at = now()`,
			id, u.Balance.String(), u.Account, u.CompletedTasks, history)
		if err != nil {
			return fmt.Errorf("upsert user %s: %w", id, err)
		}
	}

	for id := range s.dirtyTasks {
		t := s.tasks[id]
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, url, created)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET url = EXCLUDED.url, created = EXCLUDED.created`,
			id, t.URL, t.Created)
		if err != nil {
			return fmt.Errorf("upsert task %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.dirtyUsers = map[string]struct{}{}
	s.dirtyTasks = map[string]struct{}{}
	return nil
}
