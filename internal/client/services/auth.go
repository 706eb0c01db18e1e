// Package services contains the application services behind the shell:
// session handling, identity, profile, dashboard statistics, lookups and
// exports. Services talk to the backend through client.Client and keep
// local state in the SQLite session store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/protodesk/internal/common"
	"github.com/dmitrijs2005/protodesk/internal/cryptox"
	"github.com/dmitrijs2005/protodesk/internal/dbx"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/dmitrijs2005/protodesk/internal/validation"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no saved session")
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// AuthService manages the bearer token.
//
// Contract:
//   - Login: exchange credentials for a token, install it on the client and
//     persist it sealed in the local store.
//   - Restore: reinstall a previously persisted token if it has not expired.
//   - Logout: drop the token from the client and wipe it locally.
//   - ChangePassword: validate and forward a password change.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) error
	Restore(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, pc models.PasswordChange) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	secret []byte
	logger logging.Logger
	now    func() time.Time
}

// NewAuthService binds the service to the API client and the local store.
// secret is mixed into the key that seals the stored token.
func NewAuthService(c client.Client, db *sql.DB, secret []byte, logger logging.Logger) AuthService {
	return &authService{client: c, db: db, secret: secret, logger: logger, now: time.Now}
}

func (a *authService) metadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	if err := validation.Struct(creds); err != nil {
		return err
	}

	tokens, err := a.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	a.client.SetToken(tokens.Access)

	if err := a.saveToken(ctx, tokens.Access); err != nil {
		// The session still works for this run.
		a.logger.Warn(ctx, "failed to persist session", "error", err.Error())
	}

	a.logger.Info(ctx, "logged in", "email", creds.Email)
	return nil
}

func (a *authService) Restore(ctx context.Context) error {
	repo := a.metadataRepo()

	sealed, err := repo.Get(ctx, common.MetaKeySessionToken)
	if err != nil {
		return err
	}
	nonce, err := repo.Get(ctx, common.MetaKeySessionNonce)
	if err != nil {
		return err
	}
	salt, err := repo.Get(ctx, common.MetaKeyInstallSalt)
	if err != nil {
		return err
	}
	if sealed == nil || nonce == nil || salt == nil {
		return ErrNoSession
	}

	key := cryptox.DeriveKey(a.secret, salt)
	defer common.WipeByteArray(key)

	raw, err := cryptox.Open(key, sealed, nonce)
	if err != nil {
		a.logger.Warn(ctx, "stored session cannot be opened, discarding", "error", err.Error())
		a.discardSession(ctx, repo)
		return ErrNoSession
	}
	token := string(raw)

	if err := a.checkExpiry(token); err != nil {
		a.discardSession(ctx, repo)
		return err
	}

	a.client.SetToken(token)
	a.logger.Info(ctx, "session restored")
	return nil
}

// discardSession drops a stored session that can no longer be used. A
// failure leaves stale rows behind, which the next login overwrites.
func (a *authService) discardSession(ctx context.Context, repo metadata.Repository) {
	if err := repo.DeletePrefix(ctx, sessionPrefix); err != nil {
		a.logger.Warn(ctx, "failed to discard stored session", "error", err.Error())
	}
}

// checkExpiry reads the exp claim without verifying the signature; the
// backend remains the authority on validity.
func (a *authService) checkExpiry(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if exp != nil && !exp.After(a.now()) {
		return fmt.Errorf("%w: %w", ErrSessionExpired, common.ErrTokenExpired)
	}
	return nil
}

const sessionPrefix = "session."

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	if err := a.metadataRepo().DeletePrefix(ctx, sessionPrefix); err != nil {
		return fmt.Errorf("failed to wipe session: %w", err)
	}
	a.logger.Info(ctx, "logged out")
	return nil
}

func (a *authService) ChangePassword(ctx context.Context, pc models.PasswordChange) error {
	if err := validation.Struct(pc); err != nil {
		return err
	}
	return a.client.ChangePassword(ctx, pc)
}

// saveToken seals the token with a key derived from the secret and a
// per-install salt, and stores it in one transaction.
func (a *authService) saveToken(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, a.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		salt, err := repo.Get(ctx, common.MetaKeyInstallSalt)
		if err != nil {
			return err
		}
		if salt == nil {
			salt = common.GenerateRandByteArray(cryptox.SaltSize)
			if err := repo.Set(ctx, common.MetaKeyInstallSalt, salt); err != nil {
				return err
			}
		}

		key := cryptox.DeriveKey(a.secret, salt)
		defer common.WipeByteArray(key)

		sealed, nonce, err := cryptox.Seal(key, []byte(token))
		if err != nil {
			return err
		}
		if err := repo.Set(ctx, common.MetaKeySessionToken, sealed); err != nil {
			return err
		}
		return repo.Set(ctx, common.MetaKeySessionNonce, nonce)
	})
}
