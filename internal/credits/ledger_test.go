package credits

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gonggu-app/gonggu/pkg/store"
)

func load(t *testing.T, st store.Store) *Ledger {
	t.Helper()
	l, err := Load(context.Background(), st, zaptest.NewLogger(t))
	require.NoError(t, err)
	return l
}

func TestLoad_Default(t *testing.T) {
	l := load(t, store.NewMemory())
	assert.Equal(t, DefaultCredits, l.Credits())
	assert.Empty(t, l.Revealed())
}

func TestLoad_Saved(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, StoreKey, `{"credits":2,"revealedContacts":["7","3"]}`))

	l := load(t, st)
	assert.Equal(t, 2, l.Credits())
	assert.Equal(t, []string{"7", "3"}, l.Revealed())
}

func TestLoad_Corrupt(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, StoreKey, "{not json"))

	l := load(t, st)
	assert.Equal(t, DefaultCredits, l.Credits())
	assert.Empty(t, l.Revealed())
}

func TestSpend(t *testing.T) {
	ctx := context.Background()
	l := load(t, store.NewMemory())

	ok, err := l.Spend(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, DefaultCredits-1, l.Credits())
	assert.True(t, l.IsRevealed("42"))

	ok, err = l.Spend(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok, "second spend on the same id")
	assert.Equal(t, DefaultCredits-1, l.Credits())
	assert.Equal(t, []string{"42"}, l.Revealed())
}

func TestSpend_NoBalance(t *testing.T) {
	ctx := context.Background()
	l := load(t, store.NewMemory())

	for i := range DefaultCredits {
		ok, err := l.Spend(ctx, strconv.Itoa(i))
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, 0, l.Credits())

	ok, err := l.Spend(ctx, "extra")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, l.IsRevealed("extra"))
	assert.Len(t, l.Revealed(), DefaultCredits)
}

func TestSpend_NegativeBalance(t *testing.T) {
	ctx := context.Background()
	l := load(t, store.NewMemory())
	require.NoError(t, l.Grant(ctx, -10))
	assert.Equal(t, -5, l.Credits())

	ok, err := l.Spend(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	l := load(t, store.NewMemory())
	_, err := l.Spend(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, l.Grant(ctx, 3))

	require.NoError(t, l.Reset(ctx))
	assert.Equal(t, DefaultCredits, l.Credits())
	assert.Empty(t, l.Revealed())
	assert.False(t, l.IsRevealed("a"))
}

func TestPersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	l := load(t, st)
	_, err := l.Spend(ctx, "9")
	require.NoError(t, err)
	require.NoError(t, l.Grant(ctx, 2))

	again := load(t, st)
	assert.Equal(t, State{Credits: 6, RevealedContacts: []string{"9"}}, again.State())

	raw, err := st.Get(ctx, StoreKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"credits":6,"revealedContacts":["9"]}`, raw)
}

func TestRevealedIsACopy(t *testing.T) {
	ctx := context.Background()
	l := load(t, store.NewMemory())
	_, err := l.Spend(ctx, "x")
	require.NoError(t, err)

	got := l.Revealed()
	got[0] = "mutated"
	assert.True(t, l.IsRevealed("x"))
}

type failingStore struct {
	store.Store
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestPersistFailure(t *testing.T) {
	ctx := context.Background()
	l := load(t, failingStore{store.NewMemory()})

	ok, err := l.Spend(ctx, "1")
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrPersist)
	assert.True(t, l.IsRevealed("1"), "in-memory change is kept")
	assert.Equal(t, DefaultCredits-1, l.Credits())

	assert.ErrorIs(t, l.Grant(ctx, 1), ErrPersist)
	assert.ErrorIs(t, l.Reset(ctx), ErrPersist)
}

type brokenStore struct {
	store.Store
}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestLoad_StoreError(t *testing.T) {
	_, err := Load(context.Background(), brokenStore{store.NewMemory()}, nil)
	assert.Error(t, err)
}

func TestLoad_NilStore(t *testing.T) {
	l, err := Load(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoStore)
	assert.Nil(t, l)
}

func TestSpend_Concurrent(t *testing.T) {
	ctx := context.Background()
	l := load(t, store.NewMemory())

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Spend(ctx, strconv.Itoa(i%8))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, DefaultCredits, won)
	assert.Equal(t, 0, l.Credits())
	assert.Len(t, l.Revealed(), DefaultCredits)
}
