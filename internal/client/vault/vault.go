// Package vault owns the lifecycle of the session credential and the cached
// profile inside the secure store.
//
// The token and the profile are always written and deleted together. Reads
// never fail: a store fault or an undecodable profile is reported as absent,
// which callers treat as logged out.
//
// After Clear the vault reads as empty until the next Save, even when the
// store refused the delete.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/campus/internal/client/models"
	"github.com/dmitrijs2005/campus/internal/client/securestore"
	"github.com/dmitrijs2005/campus/internal/common"
	"github.com/dmitrijs2005/campus/internal/logging"
)

const (
	TokenKey   = "auth_token"
	ProfileKey = "user_profile"
)

type Vault struct {
	store securestore.Store
	log   logging.Logger

	mu      sync.Mutex
	cleared bool
}

func New(store securestore.Store, log logging.Logger) *Vault {
	return &Vault{store: store, log: log.With("component", "vault")}
}

// Save persists token and profile, overwriting previous values.
//
// With a Batcher store both values are written atomically. Otherwise the
// token is written first; if the profile write fails the error is returned
// and the caller must retry Save with both values.
func (v *Vault) Save(ctx context.Context, token string, profile models.Profile) error {
	if token == "" {
		return common.ErrEmptyToken
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	if err := v.write(ctx, token, data); err != nil {
		return err
	}
	v.setCleared(false)
	return nil
}

func (v *Vault) write(ctx context.Context, token string, profile []byte) error {
	if b, ok := v.store.(securestore.Batcher); ok {
		if err := b.SetAll(ctx, map[string][]byte{TokenKey: []byte(token), ProfileKey: profile}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}

	if err := v.store.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := v.store.Set(ctx, ProfileKey, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Clear deletes both entries. Absent entries are not an error.
//
// When the delete fails the token is overwritten with an empty value so a
// later start does not restore it; the leftover profile is removed by the
// next Restore. The error is still returned.
func (v *Vault) Clear(ctx context.Context) error {
	v.setCleared(true)

	err := v.remove(ctx)
	if err == nil {
		return nil
	}
	if berr := v.store.Set(ctx, TokenKey, nil); berr != nil {
		return errors.Join(err, fmt.Errorf("blank token: %w", berr))
	}
	v.log.Warn(ctx, "session entries not deleted, token blanked", "error", err)
	return err
}

func (v *Vault) remove(ctx context.Context) error {
	if b, ok := v.store.(securestore.Batcher); ok {
		if err := b.DeleteAll(ctx, TokenKey, ProfileKey); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	var errs []error
	if err := v.store.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("delete token: %w", err))
	}
	if err := v.store.Delete(ctx, ProfileKey); err != nil {
		errs = append(errs, fmt.Errorf("delete profile: %w", err))
	}
	return errors.Join(errs...)
}

// ReadToken returns the stored credential, or false when there is none.
func (v *Vault) ReadToken(ctx context.Context) (string, bool) {
	if v.isCleared() {
		return "", false
	}
	raw, ok := v.read(ctx, TokenKey)
	if !ok || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

// ReadProfile returns the cached profile, or false when there is none. A
// profile without a RUT counts as none.
func (v *Vault) ReadProfile(ctx context.Context) (*models.Profile, bool) {
	if v.isCleared() {
		return nil, false
	}
	raw, ok := v.read(ctx, ProfileKey)
	if !ok {
		return nil, false
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		v.log.Warn(ctx, "cached profile is unreadable", "error", err)
		return nil, false
	}
	if p.Rut == "" {
		v.log.Warn(ctx, "cached profile has no rut")
		return nil, false
	}
	return &p, true
}

func (v *Vault) setCleared(c bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cleared = c
}

func (v *Vault) isCleared() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cleared
}

func (v *Vault) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := v.store.Get(ctx, key)
	if err == nil {
		return raw, true
	}
	if !errors.Is(err, common.ErrNotFound) {
		v.log.Warn(ctx, "secure store read failed", "key", key, "error", err)
	}
	return nil, false
}
