package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gonggu-app/gonggu/internal/credits"
)

// -- messages --

type creditsChangedMsg struct {
	action   string
	id       string
	revealed bool
	err      error
}

// -- model --

type creditsModel struct {
	ledger   *credits.Ledger
	input    string
	editing  bool
	cursorOn bool
	status   string
	width    int
	height   int
}

func newCreditsModel(l *credits.Ledger) creditsModel {
	return creditsModel{ledger: l}
}

func (m creditsModel) spend(id string) tea.Cmd {
	l := m.ledger
	return func() tea.Msg {
		ok, err := l.Spend(context.Background(), id)
		return creditsChangedMsg{action: "reveal", id: id, revealed: ok, err: err}
	}
}

func (m creditsModel) grant(amount int) tea.Cmd {
	l := m.ledger
	return func() tea.Msg {
		return creditsChangedMsg{action: "grant", err: l.Grant(context.Background(), amount)}
	}
}

func (m creditsModel) reset() tea.Cmd {
	l := m.ledger
	return func() tea.Msg {
		return creditsChangedMsg{action: "reset", err: l.Reset(context.Background())}
	}
}

func (m creditsModel) Update(msg tea.Msg) (creditsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case creditsChangedMsg:
		switch {
		case msg.err != nil:
			// The ledger keeps the change in memory even when saving fails.
			m.status = msg.action + " not saved: " + msg.err.Error()
		case msg.action == "reveal" && !msg.revealed:
			if m.ledger.IsRevealed(msg.id) {
				m.status = msg.id + " is already revealed"
			} else {
				m.status = "not enough credits"
			}
		case msg.action == "reveal":
			m.status = "revealed " + msg.id
		default:
			m.status = msg.action + " done"
		}

	case cursorBlinkMsg:
		if m.editing {
			m.cursorOn = !m.cursorOn
			return m, cursorBlinkCmd()
		}

	case tea.KeyMsg:
		m.cursorOn = true
		if m.editing {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "s", "enter":
			m.editing = true
			m.input = ""
			return m, cursorBlinkCmd()
		case "+":
			return m, m.grant(1)
		case "R":
			return m, m.reset()
		}
	}
	return m, nil
}

func (m creditsModel) updateInput(msg tea.KeyMsg) (creditsModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.editing = false
	case "enter":
		id := strings.TrimSpace(m.input)
		m.editing = false
		m.input = ""
		if id == "" {
			return m, nil
		}
		return m, m.spend(id)
	default:
		m.input = editRune(m.input, inputKey(msg))
	}
	return m, nil
}

func (m creditsModel) View() string {
	var b strings.Builder
	if m.ledger == nil {
		return b.String()
	}
	st := m.ledger.State()

	balance := okStyle
	if st.Credits <= 0 {
		balance = errStyle
	}
	b.WriteString(" " + sectionHeaderStyle.Render("roommate contacts") + "\n\n")
	fmt.Fprintf(&b, " %s %s\n\n", balance.Bold(true).Render(fmt.Sprintf("%d", st.Credits)), dimStyle.Render("credits left · one credit reveals one contact"))

	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("revealed (%d)", len(st.RevealedContacts))) + "\n")
	if len(st.RevealedContacts) == 0 {
		b.WriteString("   " + dimStyle.Render("nothing revealed yet") + "\n")
	}
	for _, id := range st.RevealedContacts {
		b.WriteString("   " + goldStyle.Render("•") + " " + normalStyle.Render(id) + "\n")
	}
	b.WriteByte('\n')

	if m.editing {
		b.WriteString(renderInput("reveal", m.input, "card id", true, m.cursorOn) + "\n")
	}
	if m.status != "" {
		b.WriteString(" " + dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m creditsModel) helpKeys() string {
	if m.editing {
		return helpEntry("enter", "reveal") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("s", "reveal") + "  " + helpEntry("+", "grant") + "  " + helpEntry("R", "reset") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
