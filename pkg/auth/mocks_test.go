package auth_test

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/authforge/authforge/pkg/auth"
)

// MockStorage is a testify mock of auth.Storage for error-path tests; flow
// tests use auth.MemoryStorage instead.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) FindUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*auth.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) FindUserByVerificationDigest(ctx context.Context, digest string) (*auth.User, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) FindUserByResetDigest(ctx context.Context, digest string) (*auth.User, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) Save(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockStorage) ReplaceRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	args := m.Called(ctx, id, current, next)
	return args.Error(0)
}

func (m *MockStorage) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingMailer captures outbound links so tests can extract the one-time
// token plaintext the same way a user clicking the email would.
type recordingMailer struct {
	mu                sync.Mutex
	verificationLinks []string
	resetLinks        []string
	failWith          error
}

func (m *recordingMailer) SendEmailVerification(_ context.Context, _, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.verificationLinks = append(m.verificationLinks, link)
	return nil
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func (m *recordingMailer) lastVerificationToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.verificationLinks) == 0 {
		return ""
	}
	return lastPathSegment(m.verificationLinks[len(m.verificationLinks)-1])
}

func (m *recordingMailer) lastResetToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resetLinks) == 0 {
		return ""
	}
	return lastPathSegment(m.resetLinks[len(m.resetLinks)-1])
}

func lastPathSegment(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}
