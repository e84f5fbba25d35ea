package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	apperrors "tg-control-bot/internal/common/errors"
	"tg-control-bot/internal/domain/accounts"
)

// AccountStore keeps both handle lists in memory and rewrites the whole JSON
// file after every change.
type AccountStore struct {
	path string

	mu    sync.RWMutex
	lists accounts.Lists
}

// OpenAccountStore creates the file with empty lists when it does not exist
// and loads it. An unreadable or corrupt file loads as empty lists.
func OpenAccountStore(path string) (*AccountStore, error) {
	s := &AccountStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(accounts.Lists{}); err != nil {
			return nil, err
		}
	}
	s.lists = s.load()
	return s, nil
}

func (s *AccountStore) load() accounts.Lists {
	var lists accounts.Lists
	b, err := os.ReadFile(s.path)
	if err != nil {
		return accounts.Lists{}
	}
	if err := json.Unmarshal(b, &lists); err != nil {
		return accounts.Lists{}
	}
	return lists
}

// List returns a copy of the handles of the given kind in insertion order.
func (s *AccountStore) List(kind accounts.Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(*s.slot(&s.lists, kind))
}

// Snapshot returns a copy of both lists.
func (s *AccountStore) Snapshot() accounts.Lists {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return accounts.Lists{
		Instagram: slices.Clone(s.lists.Instagram),
		Telegram:  slices.Clone(s.lists.Telegram),
	}
}

// Add appends handle unless it is empty or already present.
func (s *AccountStore) Add(kind accounts.Kind, handle string) (bool, error) {
	if handle == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	list := s.slot(&next, kind)
	if slices.Contains(*list, handle) {
		return false, nil
	}
	*list = append(*list, handle)
	if err := s.write(next); err != nil {
		return false, err
	}
	s.lists = next
	return true, nil
}

// Remove deletes every occurrence of handle. A missing handle is a no-op and
// the file is not touched.
func (s *AccountStore) Remove(kind accounts.Kind, handle string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	list := s.slot(&next, kind)
	if !slices.Contains(*list, handle) {
		return false, nil
	}
	*list = slices.DeleteFunc(*list, func(v string) bool { return v == handle })
	if err := s.write(next); err != nil {
		return false, err
	}
	s.lists = next
	return true, nil
}

func (s *AccountStore) copyLocked() accounts.Lists {
	return accounts.Lists{
		Instagram: slices.Clone(s.lists.Instagram),
		Telegram:  slices.Clone(s.lists.Telegram),
	}
}

func (s *AccountStore) slot(l *accounts.Lists, kind accounts.Kind) *[]string {
	if kind == accounts.KindTelegram {
		return &l.Telegram
	}
	return &l.Instagram
}

func (s *AccountStore) write(l accounts.Lists) error {
	b, err := MarshalLists(l)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewStorageError("create accounts dir", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return apperrors.NewStorageError("write accounts", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.NewStorageError("replace accounts", err)
	}
	return nil
}

// MarshalLists renders the document with 2-space indentation, non-ASCII kept
// as is and empty lists written as [] rather than null.
func MarshalLists(l accounts.Lists) ([]byte, error) {
	if l.Instagram == nil {
		l.Instagram = []string{}
	}
	if l.Telegram == nil {
		l.Telegram = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
