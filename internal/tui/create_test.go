package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gonggu-app/gonggu/pkg/domain"
)

func TestCreateFieldNavigation(t *testing.T) {
	m := newCreateModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldCategory {
		t.Fatalf("focus = %d, want category", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldDescription {
		t.Errorf("shift+tab should wrap to the last field, got %d", m.focus)
	}
}

func TestCreateCategoryCycle(t *testing.T) {
	m := newCreateModel(nil)
	m.focus = fieldCategory
	m, _ = m.Update(runeKey("h"))
	if got := m.category(); got != domain.Categories[len(domain.Categories)-1].ID {
		t.Errorf("h from first should wrap, got %q", got)
	}
	m, _ = m.Update(runeKey("l"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.category(); got != domain.Categories[1].ID {
		t.Errorf("category = %q, want %q", got, domain.Categories[1].ID)
	}
	if m.fields[fieldCategory] != "" {
		t.Error("category keys must not be typed as text")
	}
}

func TestCreateRequiresRestaurant(t *testing.T) {
	m := newCreateModel(nil)
	m.focus = fieldFee
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("submit without a name should not send")
	}
	if m.focus != fieldRestaurant || !strings.Contains(m.View(), "restaurant is required") {
		t.Errorf("focus=%d view=%q", m.focus, m.View())
	}
}

func TestCreateSubmitOpensRoom(t *testing.T) {
	api, c, _ := newTestBackend(t)
	m := newCreateModel(c)
	update := func(k tea.KeyMsg) { m, _ = m.Update(k) }

	typeText(t, update, "맘스터치")
	update(tea.KeyMsg{Type: tea.KeyEnter})
	for m.category() != "burger" {
		update(runeKey("l"))
	}
	update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(t, update, "15,000")
	if m.fields[fieldMinimum] != "15000" {
		t.Fatalf("minimum = %q", m.fields[fieldMinimum])
	}
	if !strings.Contains(m.View(), "15,000원") {
		t.Error("amount hint missing")
	}
	update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(t, update, "3000")
	update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(t, update, "정문 앞")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.submitted {
		t.Fatal("enter on the last field should submit")
	}
	if _, again := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); again != nil {
		t.Error("double submit while in flight")
	}

	msg := cmd().(roomCreatedMsg)
	if msg.err != nil {
		t.Fatalf("create: %v", msg.err)
	}
	if msg.room.RestaurantName != "맘스터치" || msg.room.CategoryID != "burger" ||
		msg.room.MinOrderAmount != 15000 || msg.room.DeliveryFee != 3000 {
		t.Errorf("room = %+v", msg.room)
	}
	if api.Hits("POST /delivery-room") != 1 {
		t.Error("expected one create request")
	}

	m, _ = m.Update(msg)
	if m.submitted || m.fields[fieldRestaurant] != "" || m.focus != fieldRestaurant {
		t.Error("form should reset after success")
	}
}

func TestCreateFailureKeepsForm(t *testing.T) {
	m := newCreateModel(nil)
	m.fields[fieldRestaurant] = "bbq"
	m.submitted = true
	m, _ = m.Update(roomCreatedMsg{err: errors.New("HTTP 500")})
	if m.submitted || m.fields[fieldRestaurant] != "bbq" {
		t.Error("failed create should keep input and allow retry")
	}
	if !strings.Contains(m.View(), "failed to open room: HTTP 500") {
		t.Errorf("view = %q", m.View())
	}
}

func TestParseAmount(t *testing.T) {
	if n, err := parseAmount(""); err != nil || n != 0 {
		t.Errorf("empty = %d, %v", n, err)
	}
	if n, err := parseAmount("4500"); err != nil || n != 4500 {
		t.Errorf("4500 = %d, %v", n, err)
	}
	if _, err := parseAmount("99999999999999999999"); err == nil {
		t.Error("overflow should fail")
	}
}
