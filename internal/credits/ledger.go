// Package credits tracks the contact-reveal credits of the roommate matching
// board. Each credit unlocks one contact, and a contact stays unlocked.
package credits

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/gonggu-app/gonggu/pkg/store"
)

const (
	// StoreKey is where the ledger state lives.
	StoreKey = "roommate_credits"

	// DefaultCredits is the balance of a fresh or reset ledger.
	DefaultCredits = 5
)

// ErrPersist wraps a failed write of the ledger state. The in-memory change
// has already been applied when it is returned.
var ErrPersist = errors.New("persist credits")

// ErrNoStore is returned by Load when no store is given.
var ErrNoStore = errors.New("credits: store is required")

// State is the persisted ledger record.
type State struct {
	Credits          int      `json:"credits"`
	RevealedContacts []string `json:"revealedContacts"`
}

func defaultState() State {
	return State{Credits: DefaultCredits, RevealedContacts: []string{}}
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	state State
	store store.Store
	log   *zap.Logger
}

// Load reads the ledger from st. A missing record gives the default state,
// and so does a corrupt one, after logging it. st must not be nil.
func Load(ctx context.Context, st store.Store, log *zap.Logger) (*Ledger, error) {
	if st == nil {
		return nil, ErrNoStore
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{state: defaultState(), store: st, log: log}

	var saved State
	found, err := store.GetJSON(ctx, st, StoreKey, &saved)
	switch {
	case err != nil && !errors.Is(err, store.ErrMalformed):
		return nil, fmt.Errorf("load credits: %w", err)
	case err != nil:
		log.Warn("credits record is corrupt, using defaults", zap.Error(err))
	case found:
		if saved.RevealedContacts == nil {
			saved.RevealedContacts = []string{}
		}
		l.state = saved
	}
	return l, nil
}

// Spend unlocks id for one credit. It reports false, and changes nothing,
// when the balance is not positive or id is already unlocked.
func (l *Ledger) Spend(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Credits <= 0 || slices.Contains(l.state.RevealedContacts, id) {
		return false, nil
	}
	l.state.Credits--
	l.state.RevealedContacts = append(l.state.RevealedContacts, id)
	l.log.Info("contact revealed", zap.String("id", id), zap.Int("credits", l.state.Credits))
	return true, l.persist(ctx)
}

// IsRevealed reports whether id has been unlocked.
func (l *Ledger) IsRevealed(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.state.RevealedContacts, id)
}

// Reset restores the default balance and forgets every unlocked contact.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = defaultState()
	return l.persist(ctx)
}

// Grant adds amount to the balance. Negative amounts are applied as-is.
func (l *Ledger) Grant(ctx context.Context, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Credits += amount
	return l.persist(ctx)
}

func (l *Ledger) Credits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Credits
}

// Revealed returns the unlocked ids in unlock order.
func (l *Ledger) Revealed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.state.RevealedContacts)
}

func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		Credits:          l.state.Credits,
		RevealedContacts: slices.Clone(l.state.RevealedContacts),
	}
}

// persist writes the current state. Callers hold l.mu.
func (l *Ledger) persist(ctx context.Context) error {
	if err := store.SetJSON(ctx, l.store, StoreKey, l.state); err != nil {
		l.log.Warn("save credits", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
