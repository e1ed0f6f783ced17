package authfile

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes exposed to API clients. Credential and token failures collapse
// into a small set so the outward message never distinguishes why a
// credential was rejected.
const (
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeTokenInvalid      = "TOKEN_INVALID"
	TextCodeTokenConsumed     = "TOKEN_CONSUMED"
	TextCodeDuplicateIdentity = "DUPLICATE_IDENTITY"
	TextCodeStorageFailure    = "STORAGE_UNAVAILABLE"
	TextCodeEmptyPassword     = "EMPTY_PASSWORD"
)

// ErrInvalidCredentials is returned for unknown subject, wrong password, and
// inactive account alike. Callers must not be able to tell these apart.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenInvalid is the single outward signal for expired, malformed,
// wrong-kind, and revoked tokens.
var ErrTokenInvalid = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeTokenInvalid)

// ErrTokenConsumed marks a single-use token that was already redeemed. It is
// kept distinct for diagnostics; surface layers collapse it into
// ErrTokenInvalid before responding.
var ErrTokenConsumed = goerrors.New("token has already been used", goerrors.CategoryConflict).
	WithTextCode(TextCodeTokenConsumed)

// ErrDuplicateIdentity reports an email or username collision during
// registration. Safe to reveal: registering inherently confirms existence.
var ErrDuplicateIdentity = goerrors.New("email or username already registered", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict).
	WithTextCode(TextCodeDuplicateIdentity)

// ErrStorageUnavailable wraps collaborator failures (persistence, registry)
// as a retryable service error with a generic client message.
var ErrStorageUnavailable = goerrors.New("storage backend unavailable", goerrors.CategoryExternal).
	WithTextCode(TextCodeStorageFailure)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenInvalid reports whether err collapses to the uniform token-invalid
// outcome, including the internally distinct consumed case.
func IsTokenInvalid(err error) bool {
	if err == nil {
		return false
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}

	return rich.TextCode == TextCodeTokenInvalid || rich.TextCode == TextCodeTokenConsumed
}

// IsInvalidCredentials reports whether err is the enumeration-safe login
// failure.
func IsInvalidCredentials(err error) bool {
	if err == nil {
		return false
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}

	return rich.TextCode == TextCodeInvalidCreds
}
