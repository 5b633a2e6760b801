package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gonggu-app/gonggu/internal/credits"
	"github.com/gonggu-app/gonggu/pkg/client"
)

type view int

const (
	viewRooms view = iota
	viewRoom
	viewCreate
	viewCredits
)

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	version  string
	view     view
	rooms    roomsModel
	room     roomModel
	create   createModel
	credits  creditsModel
	helpOpen bool
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, l *credits.Ledger, version string) App {
	return App{
		client:  c,
		version: version,
		rooms:   newRoomsModel(c),
		room:    newRoomModel(c),
		create:  newCreateModel(c),
		credits: newCreditsModel(l),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.rooms.Init(), shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.rooms, _ = a.rooms.Update(bodyMsg)
		a.room, _ = a.room.Update(bodyMsg)
		a.create, _ = a.create.Update(bodyMsg)
		a.credits, _ = a.credits.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	// Async results go to their owner whatever view is showing.
	case roomsLoadedMsg:
		var cmd tea.Cmd
		a.rooms, cmd = a.rooms.Update(msg)
		return a, cmd
	case roomLoadedMsg, roomMessagesMsg, roomPollTickMsg, roomActionMsg:
		var cmd tea.Cmd
		a.room, cmd = a.room.Update(msg)
		return a, cmd
	case creditsChangedMsg:
		var cmd tea.Cmd
		a.credits, cmd = a.credits.Update(msg)
		return a, cmd

	case openRoomMsg:
		var cmd tea.Cmd
		a.view = viewRoom
		a.room, cmd = a.room.open(msg.id)
		return a, cmd

	case closeRoomMsg:
		a.view = viewRooms
		return a, a.rooms.loadRooms()

	case roomCreatedMsg:
		a.create, _ = a.create.Update(msg)
		if msg.err != nil || msg.room == nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.view = viewRoom
		a.room, cmd = a.room.open(msg.room.ID)
		return a, cmd

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				if a.view != viewRooms {
					a.view = viewRooms
					return a, a.rooms.loadRooms()
				}
				return a, nil
			case "2":
				a.view = viewRoom
				return a, nil
			case "3", "n":
				a.view = viewCreate
				return a, nil
			case "4":
				a.view = viewCredits
				return a, nil
			}
		} else if msg.String() == "esc" && a.view == viewCreate {
			a.view = viewRooms
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewRooms:
		a.rooms, cmd = a.rooms.Update(msg)
	case viewRoom:
		a.room, cmd = a.room.Update(msg)
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
	case viewCredits:
		a.credits, cmd = a.credits.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewCreate:
		return true
	case viewRoom:
		return a.room.mode != roomNav
	case viewCredits:
		return a.credits.editing
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	sub := []string{}
	if a.credits.ledger != nil {
		sub = append(sub, fmt.Sprintf("%d credits", a.credits.ledger.Credits()))
	}
	if a.version != "" {
		sub = append(sub, a.version)
	}
	header += "\n" + center(metaStyle.Render(strings.Join(sub, " · ")), a.width)

	tabs := []struct {
		key  string
		name string
		v    view
	}{
		{"1", "Rooms", viewRooms},
		{"2", "Room", viewRoom},
		{"3", "New", viewCreate},
		{"4", "Credits", viewCredits},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		tabBar.WriteString(padCenter(label, colWidth))
	}

	var body, help string
	switch a.view {
	case viewRooms:
		body = a.rooms.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.rooms.helpKeys()
	case viewRoom:
		body = a.room.View()
		help = " " + a.room.helpKeys()
	case viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("h/l", "category") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
	case viewCredits:
		body = a.credits.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.credits.helpKeys()
	}

	if a.helpOpen {
		body = helpView()
		help = " " + helpEntry("esc", "close")
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}

// center left-pads s so it sits in the middle of width columns.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// padCenter centers s in a column of exactly width cells when it fits.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	left := max((width-w)/2, 0)
	right := max(width-w-left, 0)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
