package authfile

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SupersedeTokensSQL invalidates every live token of one purpose for a
// subject, so re-minting leaves only the newest link redeemable.
var SupersedeTokensSQL = `UPDATE "single_use_tokens" AS "sut"
SET
	"used" = TRUE
WHERE
	"sut"."user_id" = ?
AND "sut"."purpose" = ?
AND "sut"."used" = FALSE
RETURNING *;`

// RedeemTokenSQL is the atomic check-and-set for redemption. The consumed
// flag is read and written in one statement so two racing redemptions of the
// same value cannot both observe success.
var RedeemTokenSQL = `UPDATE "single_use_tokens" AS "sut"
SET
	"used" = TRUE
WHERE
	"sut"."token" = ?
AND "sut"."purpose" = ?
AND "sut"."used" = FALSE
AND "sut"."expires_at" > CURRENT_TIMESTAMP
RETURNING *;`

type SingleUseTokens interface {
	repository.Repository[*SingleUseToken]

	Supersede(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) error
	SupersedeTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose) error
	Redeem(ctx context.Context, raw string, purpose TokenPurpose) (*SingleUseToken, error)
	RedeemTx(ctx context.Context, tx bun.IDB, raw string, purpose TokenPurpose) (*SingleUseToken, error)
}

type singleUseTokens struct {
	repository.Repository[*SingleUseToken]
	db *bun.DB
}

var (
	_ SingleUseTokens                        = (*singleUseTokens)(nil)
	_ repository.Repository[*SingleUseToken] = (*singleUseTokens)(nil)
)

func NewSingleUseTokensRepository(db *bun.DB) SingleUseTokens {
	repo := repository.NewRepository[*SingleUseToken](db, repository.ModelHandlers[*SingleUseToken]{
		NewRecord: func() *SingleUseToken { return &SingleUseToken{} },
		GetID: func(t *SingleUseToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *SingleUseToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &singleUseTokens{
		Repository: repo,
		db:         db,
	}
}

func (r *singleUseTokens) Supersede(ctx context.Context, userID uuid.UUID, purpose TokenPurpose) error {
	return r.SupersedeTx(ctx, r.db, userID, purpose)
}

func (r *singleUseTokens) SupersedeTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, purpose TokenPurpose) error {
	// Zero rows is fine: there may be nothing live to supersede.
	_, err := r.Repository.RawTx(ctx, tx, SupersedeTokensSQL, userID.String(), purpose)
	return err
}

func (r *singleUseTokens) Redeem(ctx context.Context, raw string, purpose TokenPurpose) (*SingleUseToken, error) {
	return r.RedeemTx(ctx, r.db, raw, purpose)
}

func (r *singleUseTokens) RedeemTx(ctx context.Context, tx bun.IDB, raw string, purpose TokenPurpose) (*SingleUseToken, error) {
	res, err := r.Repository.RawTx(ctx, tx, RedeemTokenSQL, raw, purpose)
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"purpose": purpose,
			})
	}

	return res[0], nil
}
