package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gonggu-app/gonggu/pkg/client"
	"github.com/gonggu-app/gonggu/pkg/domain"
)

type createField int

const (
	fieldRestaurant createField = iota
	fieldCategory
	fieldMinimum
	fieldFee
	fieldDescription
	numFields
)

var fieldLabels = [numFields]string{"restaurant", "category", "minimum order", "delivery fee", "description"}

type createModel struct {
	client    *client.Client
	fields    [numFields]string
	catIdx    int
	focus     createField
	statusMsg string
	submitted bool
}

type roomCreatedMsg struct {
	room *domain.Room
	err  error
}

func newCreateModel(c *client.Client) createModel {
	return createModel{client: c}
}

func (m createModel) Init() tea.Cmd {
	return nil
}

func (m createModel) category() string {
	return domain.Categories[m.catIdx].ID
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case roomCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "failed to open room: " + msg.err.Error()
			return m, nil
		}
		m.statusMsg = ""
		m.fields = [numFields]string{}
		m.catIdx = 0
		m.focus = fieldRestaurant
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m createModel) updateKeys(msg tea.KeyMsg) (createModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.statusMsg = ""

	switch key := msg.String(); key {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFields) % numFields
	case "enter":
		if m.focus == numFields-1 {
			return m.submit()
		}
		m.focus++
	default:
		switch m.focus {
		case fieldCategory:
			n := len(domain.Categories)
			switch key {
			case "l", "right", " ":
				m.catIdx = (m.catIdx + 1) % n
			case "h", "left":
				m.catIdx = (m.catIdx - 1 + n) % n
			}
		case fieldMinimum, fieldFee:
			m.fields[m.focus] = editDigits(m.fields[m.focus], inputKey(msg))
		default:
			m.fields[m.focus] = editRune(m.fields[m.focus], inputKey(msg))
		}
	}
	return m, nil
}

func (m createModel) submit() (createModel, tea.Cmd) {
	name := strings.TrimSpace(m.fields[fieldRestaurant])
	if name == "" {
		m.statusMsg = "restaurant is required"
		m.focus = fieldRestaurant
		return m, nil
	}
	minimum, err := parseAmount(m.fields[fieldMinimum])
	if err != nil {
		m.statusMsg = "minimum order must be a number"
		m.focus = fieldMinimum
		return m, nil
	}
	fee, err := parseAmount(m.fields[fieldFee])
	if err != nil {
		m.statusMsg = "delivery fee must be a number"
		m.focus = fieldFee
		return m, nil
	}

	m.submitted = true
	req := client.CreateRoomRequest{
		RestaurantName:     name,
		Category:           m.category(),
		MinimumOrderAmount: minimum,
		DeliveryFee:        fee,
		Description:        strings.TrimSpace(m.fields[fieldDescription]),
	}
	c := m.client
	return m, func() tea.Msg {
		room, err := c.CreateRoom(context.Background(), req)
		return roomCreatedMsg{room: room, err: err}
	}
}

// parseAmount treats an empty field as zero.
func parseAmount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (m createModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("open a delivery room") + "\n\n")
	for i := createField(0); i < numFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-14s", fieldLabels[i]))

		var value, hint string
		switch i {
		case fieldCategory:
			c := domain.Categories[m.catIdx]
			value = CategoryStyle(c.ID).Render(c.Emoji + " " + c.Label)
			hint = dimStyle.Render("(h/l to cycle)")
		case fieldMinimum, fieldFee:
			value = m.fields[i]
			if n, err := parseAmount(value); err == nil && value != "" {
				hint = dimStyle.Render(formatWon(n))
			} else if i != m.focus {
				value = inputPlaceholderStyle.Render("0")
			}
		default:
			value = m.fields[i]
		}
		if i == m.focus && i != fieldCategory {
			value += accentStyle.Render("█")
		}
		if hint != "" {
			value += "  " + hint
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, label, value)
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("opening room..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errStyle.Render(m.statusMsg))
	}
	return b.String()
}
