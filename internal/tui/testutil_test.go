package tui

import (
	"context"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/gonggu-app/gonggu/internal/credits"
	"github.com/gonggu-app/gonggu/internal/fakeapi"
	"github.com/gonggu-app/gonggu/pkg/client"
	"github.com/gonggu-app/gonggu/pkg/store"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, update func(tea.KeyMsg), text string) {
	t.Helper()
	for _, r := range text {
		update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func newTestLedger(t *testing.T) *credits.Ledger {
	t.Helper()
	l, err := credits.Load(context.Background(), store.NewMemory(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("credits.Load: %v", err)
	}
	return l
}

// newTestBackend starts a fake API with a logged-in guest and one seeded room.
func newTestBackend(t *testing.T) (*fakeapi.Server, *client.Client, string) {
	t.Helper()
	api := fakeapi.New()
	api.AddUser("host", fakeapi.User{ID: 1, Name: fakeapi.Ptr("호스트")})
	api.AddUser("guest", fakeapi.User{ID: 2, Nickname: fakeapi.Ptr("게스트")})
	roomID := api.Seed(fakeapi.RoomSeed{
		RestaurantName:     "교촌치킨",
		Category:           "chicken",
		MinimumOrderAmount: 20000,
		DeliveryFee:        4000,
		Creator:            "host",
	})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	st := store.NewMemory()
	if err := st.Set(context.Background(), client.TokenKey, "guest"); err != nil {
		t.Fatal(err)
	}
	return api, client.New(srv.URL, st, client.WithLogger(zaptest.NewLogger(t))), roomID
}
