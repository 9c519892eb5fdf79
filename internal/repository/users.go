package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"shopassist/internal/model"
)

var (
	// ErrUserNotFound is returned when no user has the given email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("user already exists with this email")
)

// UserStore keeps users in a single JSON file. Every mutation is a
// read-modify-write under one mutex, written via a temp file and rename.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore returns a store backed by path. The file is created on first write.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Path returns the backing file.
func (s *UserStore) Path() string {
	return s.path
}

// List returns every user.
func (s *UserStore) List() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// FindByEmail looks a user up by email, case-insensitively.
func (s *UserStore) FindByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	if i := indexByEmail(users, email); i >= 0 {
		return &users[i], nil
	}
	return nil, ErrUserNotFound
}

// FindByID looks a user up by id.
func (s *UserStore) FindByID(id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// Create appends user, rejecting duplicate emails.
func (s *UserStore) Create(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if indexByEmail(users, user.Email) >= 0 {
		return ErrUserExists
	}
	return s.save(append(users, user))
}

// UpdatePassword replaces the stored hash for email.
func (s *UserStore) UpdatePassword(email, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	i := indexByEmail(users, email)
	if i < 0 {
		return ErrUserNotFound
	}
	users[i].Password = hash
	return s.save(users)
}

// SeedIfEmpty writes defaults when the store has no users. It reports
// whether anything was written.
func (s *UserStore) SeedIfEmpty(defaults []model.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}
	return true, s.save(defaults)
}

func (s *UserStore) load() ([]model.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []model.User{}, nil
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", s.path, err)
	}
	return users, nil
}

func (s *UserStore) save(users []model.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp users file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}

func indexByEmail(users []model.User, email string) int {
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return i
		}
	}
	return -1
}
