package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gonggu-app/gonggu/pkg/domain"
)

func newTestApp(t *testing.T) App {
	a := NewApp(nil, newTestLedger(t), "v0.1.0")
	a.width = 80
	a.height = 30
	return a
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewRoom},
		{"3", viewCreate},
		{"n", viewCreate},
		{"4", viewCredits},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			app := newTestApp(t)
			model, _ := app.Update(runeKey(tc.key))
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, a.view)
			}
		})
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a := newTestApp(t)
	_, cmd := a.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q'")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg from 'q'")
	}
}

func TestAppQNotFiredWhenEditing(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(runeKey("n"))
	a = model.(App)

	model, cmd := a.Update(runeKey("q"))
	a = model.(App)
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("'q' in the create form must not quit")
		}
	}
	if a.create.fields[fieldRestaurant] != "q" {
		t.Errorf("expected 'q' typed into restaurant field, got %q", a.create.fields[fieldRestaurant])
	}
}

func TestAppEscFromCreateReturnsToRooms(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(runeKey("n"))
	a = model.(App)
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.view != viewRooms {
		t.Errorf("expected rooms view after esc, got %d", a.view)
	}
}

func TestAppIsEditing(t *testing.T) {
	a := newTestApp(t)
	if a.isEditing() {
		t.Error("rooms view should not be editing")
	}

	a.view = viewCreate
	if !a.isEditing() {
		t.Error("create view should always be editing")
	}

	a.view = viewRoom
	a.room.mode = roomChat
	if !a.isEditing() {
		t.Error("room chat mode should be editing")
	}
	a.room.mode = roomNav
	if a.isEditing() {
		t.Error("room nav mode should not be editing")
	}

	a.view = viewCredits
	a.credits.editing = true
	if !a.isEditing() {
		t.Error("credits input should be editing")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(runeKey("?"))
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("expected help overlay after '?'")
	}
	if !strings.Contains(a.View(), "G O N G G U") {
		t.Error("expected help title in view")
	}

	// Tab keys are swallowed while help is open.
	model, _ = a.Update(runeKey("4"))
	a = model.(App)
	if a.view != viewRooms {
		t.Errorf("tab switch leaked through help overlay, view=%d", a.view)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.helpOpen {
		t.Error("expected help closed after esc")
	}
}

func TestAppViewRendersTabBar(t *testing.T) {
	a := newTestApp(t)
	view := a.View()
	for _, tab := range []string{"Rooms", "Room", "New", "Credits"} {
		if !strings.Contains(view, tab) {
			t.Errorf("expected tab %q in view", tab)
		}
	}
	if !strings.Contains(view, "5 credits") {
		t.Errorf("expected credit balance in header, got:\n%s", view)
	}
	if !strings.Contains(view, "v0.1.0") {
		t.Errorf("expected version in header, got:\n%s", view)
	}
}

func TestAppViewFitsTerminal(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	a = model.(App)

	rooms := make([]domain.Room, 40)
	for i := range rooms {
		rooms[i] = domain.Room{ID: string(rune('a' + i%26)), RestaurantName: "room", CategoryID: "pizza"}
	}
	model, _ = a.Update(roomsLoadedMsg{rooms: rooms})
	a = model.(App)

	if lines := strings.Count(a.View(), "\n") + 1; lines > 20 {
		t.Errorf("view has %d lines, want <= 20", lines)
	}
}

func TestAppShimmerFrameIncrements(t *testing.T) {
	a := newTestApp(t)
	model, cmd := a.Update(shimmerTickMsg{})
	a = model.(App)
	if a.frame != 1 {
		t.Errorf("frame = %d, want 1", a.frame)
	}
	if cmd == nil {
		t.Error("expected next shimmer tick")
	}
}

func TestAppOpenRoomSwitchesView(t *testing.T) {
	_, c, roomID := newTestBackend(t)
	a := NewApp(c, newTestLedger(t), "dev")

	model, cmd := a.Update(openRoomMsg{id: roomID})
	a = model.(App)
	if a.view != viewRoom {
		t.Fatalf("view = %d, want room", a.view)
	}
	if cmd == nil {
		t.Fatal("expected room load command")
	}

	model, _ = a.Update(cmd())
	a = model.(App)
	if a.room.room == nil || a.room.room.RestaurantName != "교촌치킨" {
		t.Fatalf("room not loaded: %+v", a.room.room)
	}

	// Room results keep flowing while another tab is shown.
	model, _ = a.Update(runeKey("1"))
	a = model.(App)
	model, _ = a.Update(roomMessagesMsg{id: roomID, messages: []domain.ChatMessage{{ID: "m1", Content: "hi"}}})
	a = model.(App)
	if len(a.room.messages) != 1 {
		t.Errorf("room messages not routed while on rooms tab")
	}
}

func TestAppCreatedRoomOpens(t *testing.T) {
	a := newTestApp(t)
	model, cmd := a.Update(roomCreatedMsg{room: &domain.Room{ID: "new"}})
	a = model.(App)
	if a.view != viewRoom || a.room.roomID != "new" {
		t.Errorf("view=%d roomID=%q, want room view on new", a.view, a.room.roomID)
	}
	if cmd == nil {
		t.Error("expected load command for the new room")
	}
}

func TestAppCloseRoomReturnsToList(t *testing.T) {
	a := newTestApp(t)
	a.view = viewRoom
	model, cmd := a.Update(closeRoomMsg{})
	a = model.(App)
	if a.view != viewRooms {
		t.Errorf("view = %d, want rooms", a.view)
	}
	if cmd == nil {
		t.Error("expected rooms reload")
	}
}
