// Package storage provides the durable token/theme store adapters backing
// ports.TokenStore.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileStore keeps the token and theme in a single JSON state file. Writes go
// through a temp file and rename so a crash never leaves a torn state file.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu sync.Mutex
}

type fileState struct {
	Token string `json:"token,omitempty"`
	Theme string `json:"theme,omitempty"`
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

func (s *FileStore) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.Token, nil
}

func (s *FileStore) SetToken(_ context.Context, token string) error {
	return s.update(func(st *fileState) { st.Token = token })
}

func (s *FileStore) ClearToken(_ context.Context) error {
	return s.update(func(st *fileState) { st.Token = "" })
}

func (s *FileStore) Theme(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.Theme, nil
}

func (s *FileStore) SetTheme(_ context.Context, theme string) error {
	return s.update(func(st *fileState) { st.Theme = theme })
}

func (s *FileStore) update(mutate func(*fileState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	mutate(&st)
	return s.save(st)
}

// load reads the state file; a missing file is an empty state, not an error.
func (s *FileStore) load() (fileState, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, fmt.Errorf("read state file: %w", err)
	}

	var st fileState
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt state file only holds a cached token; start over
		// rather than locking the user out.
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt state file, resetting")
		return fileState{}, nil
	}
	return st, nil
}

func (s *FileStore) save(st fileState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod state file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
