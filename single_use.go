package authfile

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TokenStore mints and redeems single-use verification and reset tokens.
type TokenStore struct {
	repo   RepositoryManager
	logger Logger
}

// NewTokenStore creates a store backed by the given repositories.
func NewTokenStore(repo RepositoryManager) *TokenStore {
	return &TokenStore{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the store.
func (s *TokenStore) WithLogger(logger Logger) *TokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Mint invalidates any live token of the same purpose for the subject and
// creates a fresh one, so only the newest emailed link is ever redeemable.
func (s *TokenStore) Mint(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) (*SingleUseToken, error) {
	token := NewSingleUseToken(userID, purpose)

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.Tokens().SupersedeTx(ctx, tx, userID, purpose); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to supersede prior tokens")
		}

		created, err := s.repo.Tokens().CreateTx(ctx, tx, token)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create single use token")
		}

		token = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint single use token")
	}

	return token, nil
}

// Redeem consumes a token in a single atomic check-and-set and returns the
// owning subject id. Unknown, wrong-purpose, expired, and already-consumed
// values all fail; at most one of two concurrent calls can succeed.
func (s *TokenStore) Redeem(ctx context.Context, raw string, purpose TokenPurpose) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	token, err := s.repo.Tokens().Redeem(ctx, raw, purpose)
	if err == nil {
		return token.UserID, nil
	}

	if !repository.IsRecordNotFound(err) {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to redeem single use token")
	}

	// The check-and-set rejected the value. Distinguish "already consumed"
	// from the rest for diagnostics only; both collapse outward.
	if existing, lookupErr := s.repo.Tokens().GetByIdentifier(ctx, raw); lookupErr == nil {
		if existing.Purpose == purpose && existing.Used {
			s.logger.Debug("single use token replayed for purpose %s", purpose)
			return uuid.Nil, ErrTokenConsumed
		}
	}

	return uuid.Nil, ErrTokenInvalid
}
