package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/taskpay-bot/taskpay/internal/domain"
)

const (
	usersFile = "users.json"
	tasksFile = "tasks.json"
)

// FileStore persists the ledger as two JSON documents under a data
// directory, rewritten whole on every Flush. Writes go through a temp file
// and rename so a crash never leaves a truncated snapshot behind.
type FileStore struct {
	usersPath string
	tasksPath string
	users     map[string]*domain.User
	tasks     map[string]*domain.Task
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{
		usersPath: filepath.Join(dir, usersFile),
		tasksPath: filepath.Join(dir, tasksFile),
		users:     map[string]*domain.User{},
		tasks:     map[string]*domain.Task{},
	}

	if err := readJSON(s.usersPath, &s.users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for id, u := range s.users {
		u.ID = id
		if u.TaskHistory == nil {
			u.TaskHistory = map[string][]string{}
		}
		if u.CompletedTasks == nil {
			u.CompletedTasks = []string{}
		}
	}

	if err := readJSON(s.tasksPath, &s.tasks); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	for id, t := range s.tasks {
		t.ID = id
	}

	return s, nil
}

func (s *FileStore) User(id string) *domain.User {
	u, ok := s.users[id]
	if !ok {
		u = domain.NewUser(id)
		s.users[id] = u
	}
	return u
}

func (s *FileStore) HasUser(id string) bool {
	_, ok := s.users[id]
	return ok
}

func (s *FileStore) PutUser(u *domain.User) {
	s.users[u.ID] = u
}

func (s *FileStore) Task(id string) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (s *FileStore) PutTask(t *domain.Task) {
	s.tasks[t.ID] = t
}

func (s *FileStore) Flush(_ context.Context) error {
	if err := writeJSON(s.usersPath, s.users); err != nil {
		return fmt.Errorf("flush users: %w", err)
	}
	if err := writeJSON(s.tasksPath, s.tasks); err != nil {
		return fmt.Errorf("flush tasks: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
