package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scratch is the transient media folder. Submission attachments are copied
// here best-effort; nothing durable lives in it and the cleartemp command
// empties it wholesale.
type Scratch struct {
	dir string
}

func NewScratch(dir string) (*Scratch, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

func (s *Scratch) Save(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save scratch file: %w", err)
	}
	return path, nil
}

// Clear removes everything inside the scratch dir, keeping the dir itself.
func (s *Scratch) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read scratch dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}
