package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/taskpay-bot/taskpay/internal/domain"
	"github.com/taskpay-bot/taskpay/internal/repository"
)

func TestFileStoreGetOrCreateDefaults(t *testing.T) {
	store, err := repository.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if store.HasUser("u1") {
		t.Fatalf("unexpected user before first access")
	}
	u := store.User("u1")
	if !u.Balance.IsZero() {
		t.Fatalf("new user balance = %s, want 0", u.Balance)
	}
	if len(u.CompletedTasks) != 0 || u.Account != "" || len(u.TaskHistory) != 0 {
		t.Fatalf("new user not zeroed: %+v", u)
	}
	if !store.HasUser("u1") {
		t.Fatalf("user not registered after access")
	}
}

func TestFileStoreTaskNotFound(t *testing.T) {
	store, err := repository.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Task("missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Task(missing) err = %v, want ErrTaskNotFound", err)
	}
}

func TestFileStoreFlushRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := repository.NewFileStore(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	u := store.User("u1")
	u.Balance = decimal.NewFromInt(6)
	u.Account = "Jazzcash Ali 03001234567"
	u.CompletedTasks = []string{"T1", "T1", "T2"}
	u.TaskHistory = map[string][]string{
		"T1": {"2025-03-09", "2025-03-10"},
		"T2": {"2025-03-10"},
	}
	store.PutUser(u)
	store.PutTask(&domain.Task{ID: "T1", URL: "https://x/y", Created: "2025-03-09"})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	for _, name := range []string{"users.json", "tasks.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("snapshot %s missing: %v", name, err)
		}
	}

	reopened, err := repository.NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	got := reopened.User("u1")
	if !got.Balance.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("reloaded balance = %s, want 6", got.Balance)
	}
	if got.Account != u.Account {
		t.Fatalf("reloaded account = %q", got.Account)
	}
	if len(got.CompletedTasks) != 3 || got.CompletedTasks[2] != "T2" {
		t.Fatalf("reloaded completed tasks = %v", got.CompletedTasks)
	}
	if got.CreditDays("T1") != 2 || !got.CreditedOn("T1", "2025-03-10") {
		t.Fatalf("reloaded task history = %v", got.TaskHistory)
	}

	task, err := reopened.Task("T1")
	if err != nil {
		t.Fatalf("reloaded task: %v", err)
	}
	if task.URL != "https://x/y" || task.Created != "2025-03-09" {
		t.Fatalf("reloaded task = %+v", task)
	}
}

func TestFileStoreTaskOverwrite(t *testing.T) {
	store, err := repository.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	store.PutTask(&domain.Task{ID: "T1", URL: "https://old", Created: "2025-03-09"})
	store.PutTask(&domain.Task{ID: "T1", URL: "https://new", Created: "2025-03-10"})

	task, err := store.Task("T1")
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if task.URL != "https://new" {
		t.Fatalf("task url = %q, want overwrite", task.URL)
	}
}
