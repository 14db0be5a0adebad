package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is a mutex-guarded in-memory Storage implementation for
// tests and local development. It mirrors the durable store's semantics,
// including unique email/username enforcement and the compare-and-swap
// refresh-token rotation. Not suitable for production: state dies with the
// process.
type MemoryStorage struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{users: make(map[uuid.UUID]*User)}
}

func (m *MemoryStorage) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return ErrUserAlreadyExists
		}
	}

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MemoryStorage) FindUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MemoryStorage) FindUserByEmail(_ context.Context, email string) (*User, error) {
	return m.findBy(func(u *User) bool { return u.Email == email })
}

func (m *MemoryStorage) FindUserByEmailOrUsername(_ context.Context, email, username string) (*User, error) {
	return m.findBy(func(u *User) bool { return u.Email == email || u.Username == username })
}

func (m *MemoryStorage) FindUserByVerificationDigest(_ context.Context, digest string) (*User, error) {
	return m.findBy(func(u *User) bool {
		return u.EmailVerificationDigest != "" && u.EmailVerificationDigest == digest
	})
}

func (m *MemoryStorage) FindUserByResetDigest(_ context.Context, digest string) (*User, error) {
	return m.findBy(func(u *User) bool {
		return u.PasswordResetDigest != "" && u.PasswordResetDigest == digest
	})
}

func (m *MemoryStorage) Save(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}

	user.UpdatedAt = time.Now()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MemoryStorage) UpdatePassword(_ context.Context, id uuid.UUID, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}

	u.PasswordHash = hash
	u.PasswordResetDigest = ""
	u.PasswordResetExpiry = time.Time{}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStorage) ReplaceRefreshToken(_ context.Context, id uuid.UUID, current, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if u.RefreshToken != current {
		return ErrRefreshTokenMismatch
	}

	u.RefreshToken = next
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStorage) ClearRefreshToken(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		u.RefreshToken = ""
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MemoryStorage) findBy(match func(*User) bool) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

// Compile-time interface assertion
var _ Storage = (*MemoryStorage)(nil)
