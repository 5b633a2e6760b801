package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gonggu-app/gonggu/pkg/client"
	"github.com/gonggu-app/gonggu/pkg/domain"
)

// -- messages --

type roomsLoadedMsg struct {
	category  string
	rooms     []domain.Room
	joined    map[string]bool
	joinedErr error // local joined set unreadable
	err       error
}

// openRoomMsg asks the app to switch to the room view.
type openRoomMsg struct {
	id string
}

// -- model --

type roomsModel struct {
	client   *client.Client
	rooms    []domain.Room
	joined   map[string]bool
	cursor   int
	category string // "" = all
	catCycle int    // index into categoryOrder
	err      string
	warn     string
	loading  bool
	width    int
	height   int
}

// categoryOrder is the cycle order for category filtering.
var categoryOrder = func() []string {
	order := []string{""}
	for _, c := range domain.Categories {
		order = append(order, c.ID)
	}
	return order
}()

func newRoomsModel(c *client.Client) roomsModel {
	return roomsModel{client: c, loading: true}
}

func (m roomsModel) Init() tea.Cmd {
	return m.loadRooms()
}

func (m roomsModel) loadRooms() tea.Cmd {
	c := m.client
	category := m.category
	return func() tea.Msg {
		ctx := context.Background()
		rooms, err := c.ListRooms(ctx, category)
		if err != nil {
			return roomsLoadedMsg{category: category, err: err}
		}
		// An unreadable joined set still lists rooms, with no joined marks.
		joined, jerr := c.JoinedRooms(ctx)
		return roomsLoadedMsg{category: category, rooms: rooms, joined: joined, joinedErr: jerr}
	}
}

func (m roomsModel) Update(msg tea.Msg) (roomsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case roomsLoadedMsg:
		if msg.category != m.category {
			return m, nil // stale filter
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.rooms = msg.rooms
		m.joined = msg.joined
		m.err = ""
		m.warn = ""
		if msg.joinedErr != nil {
			m.warn = "joined rooms unavailable: " + msg.joinedErr.Error()
		}
		if m.cursor >= len(m.rooms) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m roomsModel) handleKey(msg tea.KeyMsg) (roomsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.rooms)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "c":
		m.catCycle = (m.catCycle + 1) % len(categoryOrder)
		m.category = categoryOrder[m.catCycle]
		m.cursor = 0
		m.loading = true
		return m, m.loadRooms()
	case "C":
		m.catCycle = (m.catCycle - 1 + len(categoryOrder)) % len(categoryOrder)
		m.category = categoryOrder[m.catCycle]
		m.cursor = 0
		m.loading = true
		return m, m.loadRooms()
	case "enter":
		if m.cursor < len(m.rooms) {
			id := m.rooms[m.cursor].ID
			return m, func() tea.Msg { return openRoomMsg{id: id} }
		}
	case "r":
		m.loading = true
		return m, m.loadRooms()
	}
	return m, nil
}

func (m roomsModel) View() string {
	var b strings.Builder

	filter := dimStyle.Render("all categories")
	if m.category != "" {
		filter = CategoryStyle(m.category).Render(domain.CategoryLabel(m.category))
	}
	b.WriteString(" " + filter + "\n")

	if m.loading && len(m.rooms) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if m.warn != "" {
		b.WriteString(" " + errStyle.Render(m.warn) + "\n")
	}
	if len(m.rooms) == 0 {
		b.WriteString("\n " + dimStyle.Render("no open rooms here · press n to open one") + "\n")
		return b.String()
	}

	for i, r := range m.rooms {
		cursor := " "
		name := normalStyle.Render(fmt.Sprintf("%-18s", truncStr(r.RestaurantName, 18)))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(fmt.Sprintf("%-18s", truncStr(r.RestaurantName, 18)))
		}

		cat := CategoryStyle(r.CategoryID).Render(fmt.Sprintf("%-6s", domain.CategoryLabel(r.CategoryID)))
		total := r.OrderTotal()
		progress := progressStyle(total, r.MinOrderAmount).Render(
			fmt.Sprintf("%s/%s", formatWon(total), formatWon(r.MinOrderAmount)))
		people := metaStyle.Render(fmt.Sprintf("%d명", len(r.Participants)))
		share := dimStyle.Render("배달비 " + formatWon(r.FeeShare()))

		row := fmt.Sprintf(" %s %s  %s  %s  %s  %s", cursor, name, cat, progress, people, share)
		if m.joined[r.ID] {
			row += " " + okStyle.Render("✓ joined")
		}
		b.WriteString(row + "\n")
	}

	b.WriteString("\n " + dimStyle.Render("c cycle category · enter open · n new room") + "\n")
	return b.String()
}

func (m roomsModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("c", "category") + "  " + helpEntry("n", "new") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
