package authfile

import (
	"context"
	"time"
)

// TokenPair is the product of a successful login or refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionManager orchestrates login, refresh, and logout-everywhere,
// binding issued refresh tokens to the revocation registry.
type SessionManager struct {
	repo     RepositoryManager
	tokens   TokenService
	registry RevocationRegistry
	logger   Logger
}

// NewSessionManager wires the manager from injected collaborators; it holds
// no state beyond the handles.
func NewSessionManager(repo RepositoryManager, tokens TokenService, registry RevocationRegistry) *SessionManager {
	return &SessionManager{
		repo:     repo,
		tokens:   tokens,
		registry: registry,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the manager.
func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Login verifies the password and issues an access+refresh pair, recording
// the refresh token's fingerprint in the registry with a matching expiry.
// Unknown identifier, wrong password, and inactive account all return the
// same ErrInvalidCredentials so callers cannot enumerate accounts.
func (m *SessionManager) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := m.repo.Users().GetByIdentifier(ctx, identifier)
	if err != nil {
		m.logger.Debug("login lookup failed for identifier %s", identifier)
		// Unknown identifiers still pay the bcrypt compare, keeping this
		// branch indistinguishable from a wrong password by response time.
		compareDummyPassword(password)
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if trackErr := m.repo.Users().TrackAttemptedLogin(ctx, user); trackErr != nil {
			m.logger.Warn("failed to track login attempt: %v", trackErr)
		}
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		m.logger.Debug("login blocked for inactive account %s", user.ID)
		return nil, ErrInvalidCredentials
	}

	pair, err := m.issuePair(ctx, user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}

	if err := m.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		m.logger.Warn("failed to track successful login: %v", err)
	}

	return pair, nil
}

// Refresh rotates a refresh token: the presented token must be structurally
// valid, of kind refresh, and still present in the registry. The old record
// is deleted before the new pair is issued, so each refresh token is good
// for exactly one rotation.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := m.tokens.Validate(refreshToken, KindRefresh)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	subjectID := claims.UserID()
	fingerprint := TokenFingerprint(refreshToken)

	live, err := m.registry.Verify(ctx, subjectID, fingerprint)
	if err != nil {
		m.logger.Error("revocation registry verify failed: %v", err)
		return nil, err
	}
	if !live {
		m.logger.Debug("refresh token not in registry for subject %s", subjectID)
		return nil, ErrTokenInvalid
	}

	// Guard against tokens that outlive their account.
	user, err := m.repo.Users().GetByIdentifier(ctx, subjectID)
	if err != nil || !user.Active {
		return nil, ErrTokenInvalid
	}

	if err := m.registry.Delete(ctx, subjectID, fingerprint); err != nil {
		m.logger.Error("failed to supersede revocation record: %v", err)
		return nil, err
	}

	return m.issuePair(ctx, subjectID, user.Role)
}

// RevokeAll deletes every revocation record for the subject. Outstanding
// refresh tokens stay structurally valid but are no longer honored.
func (m *SessionManager) RevokeAll(ctx context.Context, subjectID string) error {
	return m.registry.DeleteAll(ctx, subjectID)
}

func (m *SessionManager) issuePair(ctx context.Context, subjectID, role string) (*TokenPair, error) {
	access, accessExpiry, err := m.tokens.Issue(subjectID, role, KindAccess)
	if err != nil {
		return nil, err
	}

	refresh, refreshExpiry, err := m.tokens.Issue(subjectID, role, KindRefresh)
	if err != nil {
		return nil, err
	}

	ttl := time.Until(refreshExpiry)
	if err := m.registry.Record(ctx, subjectID, TokenFingerprint(refresh), ttl); err != nil {
		m.logger.Error("failed to record refresh token: %v", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    accessExpiry,
	}, nil
}
