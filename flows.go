package authfile

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Flows drives the email-verification and password-reset state machines on
// top of the single-use token store. Each token moves issued -> consumed or
// ages out; there is no path back for the same token, a re-mint is a new one.
type Flows struct {
	repo     RepositoryManager
	store    *TokenStore
	sessions *SessionManager
	mailer   Mailer
	baseURL  string
	logger   Logger
}

// NewFlows wires the controller from injected collaborators.
func NewFlows(repo RepositoryManager, store *TokenStore, sessions *SessionManager, mailer Mailer, baseURL string) *Flows {
	return &Flows{
		repo:     repo,
		store:    store,
		sessions: sessions,
		mailer:   mailer,
		baseURL:  baseURL,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the controller.
func (f *Flows) WithLogger(logger Logger) *Flows {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// StartEmailVerification mints a verification token and hands the link to
// the mail collaborator. Re-invoking supersedes the previous link, so the
// operation is idempotent at the subject level. A delivery failure is logged
// and never rolls back the minted token.
func (f *Flows) StartEmailVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := f.repo.Users().GetByIdentifier(ctx, userID.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user for verification")
	}

	token, err := f.store.Mint(ctx, user.ID, PurposeEmailVerification)
	if err != nil {
		return err
	}

	f.deliver(ctx, user.Email, "Verify your email",
		fmt.Sprintf("Follow this link to verify your account: %s/verify-email/%s", f.baseURL, token.Token))

	return nil
}

// CompleteEmailVerification redeems a verification token and flips the
// owner's verified flag. Expired, replayed, and unknown values all yield
// false with no distinguishing detail.
func (f *Flows) CompleteEmailVerification(ctx context.Context, raw string) (bool, error) {
	userID, err := f.store.Redeem(ctx, raw, PurposeEmailVerification)
	if err != nil {
		if IsTokenInvalid(err) {
			return false, nil
		}
		return false, err
	}

	if err := f.repo.Users().MarkEmailVerified(ctx, userID); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark email verified")
	}

	return true, nil
}

// ResendVerification supersedes the previous link and sends a fresh one.
// Unknown and already-verified addresses return success without sending, so
// the response shape never reveals which addresses have accounts.
func (f *Flows) ResendVerification(ctx context.Context, email string) error {
	user, err := f.repo.Users().GetByIdentifier(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}

	if user.EmailValidated {
		return nil
	}

	return f.StartEmailVerification(ctx, user.ID)
}

// StartPasswordReset mints and mails a reset link when the email matches an
// account. When it does not, the call still succeeds: the externally
// observable response is identical whether or not the address exists.
func (f *Flows) StartPasswordReset(ctx context.Context, email string) error {
	user, err := f.repo.Users().GetByIdentifier(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}

	token, err := f.store.Mint(ctx, user.ID, PurposePasswordReset)
	if err != nil {
		return err
	}

	f.deliver(ctx, user.Email, "Reset your password",
		fmt.Sprintf("Follow this link to reset your password: %s/reset-password/%s", f.baseURL, token.Token))

	return nil
}

// CompletePasswordReset redeems a reset token, replaces the credential, and
// closes every existing session for the subject. Invalid tokens yield false
// with no distinguishing detail.
func (f *Flows) CompletePasswordReset(ctx context.Context, raw, newPassword string) (bool, error) {
	userID, err := f.store.Redeem(ctx, raw, PurposePasswordReset)
	if err != nil {
		if IsTokenInvalid(err) {
			return false, nil
		}
		return false, err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := f.repo.Users().ResetPassword(ctx, userID, hash); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
	}

	// A credential change closes all sessions. The reset itself already
	// landed, so a registry failure here is logged rather than unwound.
	if err := f.sessions.RevokeAll(ctx, userID.String()); err != nil {
		f.logger.Warn("failed to revoke sessions after password reset: %v", err)
	}

	return true, nil
}

// ChangePassword verifies the current credential, replaces it, and revokes
// all sessions for the subject.
func (f *Flows) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := f.repo.Users().GetByIdentifier(ctx, userID.String())
	if err != nil {
		return ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(current, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := f.repo.Users().ResetPassword(ctx, user.ID, hash); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
	}

	if err := f.sessions.RevokeAll(ctx, user.ID.String()); err != nil {
		f.logger.Warn("failed to revoke sessions after password change: %v", err)
	}

	return nil
}

func (f *Flows) deliver(ctx context.Context, to, subject, body string) {
	if err := f.mailer.Send(ctx, to, subject, body); err != nil {
		f.logger.Error("email delivery failed: %v", err)
	}
}
