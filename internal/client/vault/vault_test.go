package vault

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/campus/internal/client/models"
	"github.com/dmitrijs2005/campus/internal/client/securestore"
	"github.com/dmitrijs2005/campus/internal/common"
	"github.com/dmitrijs2005/campus/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainStore is a Store without Batcher support, with per-key fault injection.
type plainStore struct {
	data   map[string][]byte
	getErr map[string]error
	setErr map[string]error
	delErr map[string]error
}

func newPlainStore() *plainStore {
	return &plainStore{
		data:   map[string][]byte{},
		getErr: map[string]error{},
		setErr: map[string]error{},
		delErr: map[string]error{},
	}
}

func (s *plainStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := s.getErr[key]; err != nil {
		return nil, err
	}
	v, ok := s.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

func (s *plainStore) Set(_ context.Context, key string, value []byte) error {
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *plainStore) Delete(_ context.Context, key string) error {
	if err := s.delErr[key]; err != nil {
		return err
	}
	delete(s.data, key)
	return nil
}

var testProfile = models.Profile{
	Rut:       "1-9",
	FirstName: "Ana",
	LastName:  "Rojas",
	Email:     "ana@duoc.cl",
	Roles:     []string{"alumno"},
}

func stores(t *testing.T) map[string]securestore.Store {
	t.Helper()
	sqlite, err := securestore.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "v.db"), []byte("pw"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]securestore.Store{
		"memory": securestore.NewMemoryStore(),
		"plain":  newPlainStore(),
		"sqlite": sqlite,
	}
}

func TestVault_SaveThenRead_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v := New(store, logging.NewNop())
			ctx := context.Background()

			require.NoError(t, v.Save(ctx, "abc", testProfile))

			tok, ok := v.ReadToken(ctx)
			require.True(t, ok)
			assert.Equal(t, "abc", tok)

			p, ok := v.ReadProfile(ctx)
			require.True(t, ok)
			if diff := cmp.Diff(testProfile, *p); diff != "" {
				t.Fatalf("profile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVault_SaveOverwrites(t *testing.T) {
	v := New(securestore.NewMemoryStore(), logging.NewNop())
	ctx := context.Background()

	require.NoError(t, v.Save(ctx, "first", testProfile))
	other := testProfile
	other.Rut = "12345678-5"
	require.NoError(t, v.Save(ctx, "second", other))

	tok, _ := v.ReadToken(ctx)
	p, _ := v.ReadProfile(ctx)
	assert.Equal(t, "second", tok)
	assert.Equal(t, "12345678-5", p.Rut)
}

func TestVault_ClearTwice_LeavesAbsent(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v := New(store, logging.NewNop())
			ctx := context.Background()
			require.NoError(t, v.Save(ctx, "abc", testProfile))

			for i := 0; i < 2; i++ {
				require.NoError(t, v.Clear(ctx))

				_, ok := v.ReadToken(ctx)
				assert.False(t, ok)
				_, ok = v.ReadProfile(ctx)
				assert.False(t, ok)
			}
		})
	}
}

func TestVault_SaveRejectsEmptyToken(t *testing.T) {
	v := New(securestore.NewMemoryStore(), logging.NewNop())

	err := v.Save(context.Background(), "", testProfile)
	require.ErrorIs(t, err, common.ErrEmptyToken)
}

func TestVault_PartialWriteIsSurfaced(t *testing.T) {
	store := newPlainStore()
	store.setErr[ProfileKey] = errors.New("keychain locked")
	v := New(store, logging.NewNop())

	err := v.Save(context.Background(), "abc", testProfile)
	require.ErrorContains(t, err, "save profile")
	require.ErrorContains(t, err, "keychain locked")
}

func TestVault_ReadFaultsAreAbsent(t *testing.T) {
	store := newPlainStore()
	v := New(store, logging.NewNop())
	ctx := context.Background()
	require.NoError(t, v.Save(ctx, "abc", testProfile))

	store.getErr[TokenKey] = errors.New("io")
	store.getErr[ProfileKey] = errors.New("io")

	_, ok := v.ReadToken(ctx)
	assert.False(t, ok)
	_, ok = v.ReadProfile(ctx)
	assert.False(t, ok)
}

func TestVault_CorruptProfileIsAbsent(t *testing.T) {
	store := newPlainStore()
	store.data[ProfileKey] = []byte("{not json")
	v := New(store, logging.NewNop())

	_, ok := v.ReadProfile(context.Background())
	assert.False(t, ok)
}

func TestVault_ClearAttemptsBothDeletes(t *testing.T) {
	store := newPlainStore()
	v := New(store, logging.NewNop())
	ctx := context.Background()
	require.NoError(t, v.Save(ctx, "abc", testProfile))

	store.delErr[TokenKey] = errors.New("busy")

	err := v.Clear(ctx)
	require.ErrorContains(t, err, "delete token")
	_, ok := v.ReadProfile(ctx)
	assert.False(t, ok, "profile delete must still run")
}

func TestVault_FailedClearStillHidesCredential(t *testing.T) {
	store := newPlainStore()
	v := New(store, logging.NewNop())
	ctx := context.Background()
	require.NoError(t, v.Save(ctx, "abc", testProfile))

	store.delErr[TokenKey] = errors.New("busy")
	store.delErr[ProfileKey] = errors.New("busy")

	require.Error(t, v.Clear(ctx))
	_, ok := v.ReadToken(ctx)
	assert.False(t, ok)
	_, ok = v.ReadProfile(ctx)
	assert.False(t, ok)

	// a new process over the same store sees no credential either
	restarted := New(store, logging.NewNop())
	_, ok = restarted.ReadToken(ctx)
	assert.False(t, ok)

	require.NoError(t, v.Save(ctx, "def", testProfile))
	tok, ok := v.ReadToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "def", tok)
}

func TestVault_ProfileWithoutRutIsAbsent(t *testing.T) {
	for _, raw := range []string{`null`, `{}`, `{"nombres":"Ana"}`} {
		t.Run(raw, func(t *testing.T) {
			store := newPlainStore()
			store.data[ProfileKey] = []byte(raw)
			v := New(store, logging.NewNop())

			_, ok := v.ReadProfile(context.Background())
			assert.False(t, ok)
		})
	}
}
