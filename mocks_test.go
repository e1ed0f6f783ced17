package authfile_test

import (
	"context"
	"database/sql"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lockplane/authfile"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUsers covers the user repository surface the services exercise. The
// embedded interface satisfies the rest; calling an unmocked method panics,
// which is exactly what a test wants.
type MockUsers struct {
	mock.Mock
	authfile.Users
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*authfile.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*authfile.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*authfile.User, error) {
	args := m.Called(ctx, tx, identifier)
	user, _ := args.Get(0).(*authfile.User)
	return user, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *authfile.User, criteria ...repository.InsertCriteria) (*authfile.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*authfile.User)
	return user, args.Error(1)
}

func (m *MockUsers) TrackAttemptedLogin(ctx context.Context, user *authfile.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *authfile.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokens covers the single-use token repository surface.
type MockTokens struct {
	mock.Mock
	authfile.SingleUseTokens
}

func (m *MockTokens) Redeem(ctx context.Context, raw string, purpose authfile.TokenPurpose) (*authfile.SingleUseToken, error) {
	args := m.Called(ctx, raw, purpose)
	token, _ := args.Get(0).(*authfile.SingleUseToken)
	return token, args.Error(1)
}

func (m *MockTokens) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*authfile.SingleUseToken, error) {
	args := m.Called(ctx, identifier)
	token, _ := args.Get(0).(*authfile.SingleUseToken)
	return token, args.Error(1)
}

func (m *MockTokens) SupersedeTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose authfile.TokenPurpose) error {
	args := m.Called(ctx, tx, userID, purpose)
	return args.Error(0)
}

func (m *MockTokens) CreateTx(ctx context.Context, tx bun.IDB, record *authfile.SingleUseToken, criteria ...repository.InsertCriteria) (*authfile.SingleUseToken, error) {
	args := m.Called(ctx, tx, record)
	token, _ := args.Get(0).(*authfile.SingleUseToken)
	return token, args.Error(1)
}

// MockRepoManager hands out the mock repositories and runs transaction
// bodies inline against a zero-value tx.
type MockRepoManager struct {
	authfile.RepositoryManager
	users  *MockUsers
	tokens *MockTokens
}

func NewMockRepoManager() *MockRepoManager {
	return &MockRepoManager{
		users:  &MockUsers{},
		tokens: &MockTokens{},
	}
}

func (m *MockRepoManager) Users() authfile.Users { return m.users }

func (m *MockRepoManager) Tokens() authfile.SingleUseTokens { return m.tokens }

func (m *MockRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

// MockRegistry implements authfile.RevocationRegistry.
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Record(ctx context.Context, subjectID, fingerprint string, ttl time.Duration) error {
	args := m.Called(ctx, subjectID, fingerprint, ttl)
	return args.Error(0)
}

func (m *MockRegistry) Verify(ctx context.Context, subjectID, fingerprint string) (bool, error) {
	args := m.Called(ctx, subjectID, fingerprint)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistry) Delete(ctx context.Context, subjectID, fingerprint string) error {
	args := m.Called(ctx, subjectID, fingerprint)
	return args.Error(0)
}

func (m *MockRegistry) DeleteAll(ctx context.Context, subjectID string) error {
	args := m.Called(ctx, subjectID)
	return args.Error(0)
}

// memoryRegistry is a map-backed registry for tests that care about the
// recorded state rather than the call pattern.
type memoryRegistry struct {
	records map[string]bool
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{records: map[string]bool{}}
}

func (r *memoryRegistry) key(subjectID, fingerprint string) string {
	return subjectID + ":" + fingerprint
}

func (r *memoryRegistry) Record(_ context.Context, subjectID, fingerprint string, _ time.Duration) error {
	r.records[r.key(subjectID, fingerprint)] = true
	return nil
}

func (r *memoryRegistry) Verify(_ context.Context, subjectID, fingerprint string) (bool, error) {
	return r.records[r.key(subjectID, fingerprint)], nil
}

func (r *memoryRegistry) Delete(_ context.Context, subjectID, fingerprint string) error {
	delete(r.records, r.key(subjectID, fingerprint))
	return nil
}

func (r *memoryRegistry) DeleteAll(_ context.Context, subjectID string) error {
	for key := range r.records {
		if len(key) > len(subjectID) && key[:len(subjectID)+1] == subjectID+":" {
			delete(r.records, key)
		}
	}
	return nil
}

// MockMailer records outgoing messages.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
