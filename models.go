package authfile

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleMember is the standard role assigned at registration
	RoleMember UserRole = "member"
	// RoleAdmin is the elevated role
	RoleAdmin UserRole = "admin"
)

// User is the user model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	FullName       string     `bun:"full_name" json:"full_name,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Active         bool       `bun:"is_active" json:"is_active,omitempty"`
	EmailValidated bool       `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// TokenPurpose scopes a single-use token to the flow that minted it.
type TokenPurpose = string

const (
	// PurposeEmailVerification tokens live 24h
	PurposeEmailVerification TokenPurpose = "email_verification"
	// PurposePasswordReset tokens live 1h: the reset window is deliberately
	// shorter because redeeming one grants credential replacement.
	PurposePasswordReset TokenPurpose = "password_reset"
)

// TTLForPurpose returns the configured lifetime for a token purpose.
func TTLForPurpose(purpose TokenPurpose) time.Duration {
	if purpose == PurposePasswordReset {
		return time.Hour
	}
	return 24 * time.Hour
}

// SingleUseToken is the server-side record of a verification or reset link.
// Once Used flips to true it never flips back; a re-mint is a new row.
type SingleUseToken struct {
	bun.BaseModel `bun:"table:single_use_tokens,alias:sut"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token         string     `bun:"token,notnull,unique" json:"-"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Purpose       string     `bun:"purpose,notnull" json:"purpose,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	Used          bool       `bun:"used,notnull,default:false" json:"used,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// IsValid reports whether the token can still be redeemed.
func (t *SingleUseToken) IsValid() bool {
	return !t.Used && time.Now().Before(t.ExpiresAt)
}

// NewSingleUseToken builds an unsaved token row with a fresh opaque value
// and a purpose-dependent expiry.
func NewSingleUseToken(userID uuid.UUID, purpose TokenPurpose) *SingleUseToken {
	return &SingleUseToken{
		ID:        uuid.New(),
		Token:     generateOpaqueToken(),
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(TTLForPurpose(purpose)),
	}
}

// generateOpaqueToken returns 32 bytes of entropy as a URL-safe string.
func generateOpaqueToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; an error here means
		// the process cannot safely mint credentials at all.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// File is the metadata row for an object stored in one of the configured
// storage backends. Content lives in the backend under Key.
type File struct {
	bun.BaseModel `bun:"table:files,alias:fil"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Key           string     `bun:"storage_key,notnull,unique" json:"storage_key,omitempty"`
	Name          string     `bun:"file_name,notnull" json:"file_name,omitempty"`
	Size          int64      `bun:"file_size" json:"file_size,omitempty"`
	ContentType   string     `bun:"content_type" json:"content_type,omitempty"`
	Backend       string     `bun:"backend,notnull" json:"backend,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
