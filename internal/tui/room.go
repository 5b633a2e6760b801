package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/gonggu-app/gonggu/internal/browser"
	"github.com/gonggu-app/gonggu/pkg/client"
	"github.com/gonggu-app/gonggu/pkg/domain"
)

// roomPollInterval is how often the open room polls for new chat messages.
const roomPollInterval = 5 * time.Second

// Swapped in tests.
var (
	copyToClipboard = clipboard.WriteAll
	openBrowser     = browser.Open
)

// roomMode is what the keyboard is currently driving.
type roomMode int

const (
	roomNav roomMode = iota
	roomChat
	roomOrder
	roomLink
)

type orderField int

const (
	orderDetailsField orderField = iota
	orderAmountField
)

// -- messages --

type roomLoadedMsg struct {
	id       string
	room     *domain.Room
	messages []domain.ChatMessage
	joined   bool
	err      error
}

type roomMessagesMsg struct {
	id       string
	messages []domain.ChatMessage
	err      error
}

type roomPollTickMsg struct {
	gen int
}

// roomActionMsg reports the result of a mutation on the open room.
type roomActionMsg struct {
	id     string
	action string
	err    error
}

// closeRoomMsg asks the app to return to the room list.
type closeRoomMsg struct{}

// -- model --

type roomModel struct {
	client   *client.Client
	roomID   string
	room     *domain.Room
	messages []domain.ChatMessage
	joined   bool
	loading  bool
	err      string
	status   string
	width    int
	height   int

	mode     roomMode
	cursorOn bool

	chatInput string

	orderFocus   orderField
	orderDetails string
	orderAmount  string

	linkInput string

	// pollGen invalidates poll ticks from a previously opened room.
	pollGen int
	polling bool
}

func newRoomModel(c *client.Client) roomModel {
	return roomModel{client: c}
}

// open resets the model for roomID and starts loading it.
func (m roomModel) open(roomID string) (roomModel, tea.Cmd) {
	gen := m.pollGen + 1
	m = roomModel{
		client:  m.client,
		roomID:  roomID,
		loading: true,
		width:   m.width,
		height:  m.height,
		pollGen: gen,
	}
	return m, m.loadRoom()
}

func (m roomModel) loadRoom() tea.Cmd {
	c := m.client
	id := m.roomID
	return func() tea.Msg {
		var (
			room *domain.Room
			msgs []domain.ChatMessage
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			r, err := c.GetRoom(ctx, id)
			room = r
			return err
		})
		g.Go(func() error {
			ms, err := c.GetMessages(ctx, id)
			msgs = ms
			return err
		})
		if err := g.Wait(); err != nil {
			return roomLoadedMsg{id: id, err: err}
		}
		joined, _ := c.HasJoined(context.Background(), id) //nolint:errcheck // advisory
		return roomLoadedMsg{id: id, room: room, messages: msgs, joined: joined}
	}
}

func (m roomModel) loadMessages() tea.Cmd {
	c := m.client
	id := m.roomID
	return func() tea.Msg {
		msgs, err := c.GetMessages(context.Background(), id)
		return roomMessagesMsg{id: id, messages: msgs, err: err}
	}
}

func (m roomModel) pollCmd() tea.Cmd {
	gen := m.pollGen
	return tea.Tick(roomPollInterval, func(time.Time) tea.Msg {
		return roomPollTickMsg{gen: gen}
	})
}

// action runs fn against the open room and reports it as a roomActionMsg.
func (m roomModel) action(name string, fn func(ctx context.Context, c *client.Client, id string) error) tea.Cmd {
	c := m.client
	id := m.roomID
	return func() tea.Msg {
		return roomActionMsg{id: id, action: name, err: fn(context.Background(), c, id)}
	}
}

func (m roomModel) Update(msg tea.Msg) (roomModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case roomLoadedMsg:
		if msg.id != m.roomID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.room = msg.room
		m.messages = msg.messages
		m.joined = msg.joined
		if !m.polling {
			m.polling = true
			return m, m.pollCmd()
		}

	case roomPollTickMsg:
		if msg.gen != m.pollGen || m.roomID == "" {
			return m, nil
		}
		return m, m.loadMessages()

	case roomMessagesMsg:
		if msg.id != m.roomID {
			return m, nil
		}
		if msg.err == nil {
			m.messages = msg.messages
		}
		return m, m.pollCmd()

	case roomActionMsg:
		if msg.id != m.roomID {
			return m, nil
		}
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.action + " done"
		if msg.action == "send" {
			return m, m.loadMessages()
		}
		return m, m.loadRoom()

	case cursorBlinkMsg:
		if m.mode != roomNav {
			m.cursorOn = !m.cursorOn
			return m, cursorBlinkCmd()
		}

	case tea.KeyMsg:
		m.cursorOn = true
		switch m.mode {
		case roomChat:
			return m.updateChat(msg)
		case roomOrder:
			return m.updateOrder(msg)
		case roomLink:
			return m.updateLink(msg)
		default:
			return m.updateNav(msg)
		}
	}
	return m, nil
}

func (m roomModel) updateNav(msg tea.KeyMsg) (roomModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pollGen++
		m.polling = false
		return m, func() tea.Msg { return closeRoomMsg{} }
	case "i", "enter":
		m.mode = roomChat
		return m, cursorBlinkCmd()
	case "J":
		m.status = "joining..."
		return m, m.action("join", func(ctx context.Context, c *client.Client, id string) error {
			return c.JoinRoom(ctx, id, client.JoinOptions{})
		})
	case "x":
		m.status = "leaving..."
		return m, m.action("leave", func(ctx context.Context, c *client.Client, id string) error {
			return c.LeaveRoom(ctx, id)
		})
	case "o":
		if m.room == nil {
			return m, nil
		}
		m.mode = roomOrder
		m.orderFocus = orderDetailsField
		m.orderDetails, m.orderAmount = "", ""
		if p := m.myParticipant(); p != nil {
			m.orderDetails = p.OrderDetails
			if p.Amount > 0 {
				m.orderAmount = strconv.Itoa(p.Amount)
			}
		}
		return m, cursorBlinkCmd()
	case "l":
		if m.room == nil {
			return m, nil
		}
		m.mode = roomLink
		m.linkInput = m.room.OrderLink
		return m, cursorBlinkCmd()
	case "y":
		if m.room == nil || m.room.OrderLink == "" {
			m.status = "no order link yet"
			return m, nil
		}
		if err := copyToClipboard(m.room.OrderLink); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "link copied"
		}
	case "b":
		if m.room == nil || m.room.OrderLink == "" {
			m.status = "no order link yet"
			return m, nil
		}
		if err := openBrowser(m.room.OrderLink); err != nil {
			m.status = "open failed: " + err.Error()
		} else {
			m.status = "opened in browser"
		}
	case "r":
		m.loading = true
		return m, m.loadRoom()
	}
	return m, nil
}

func (m roomModel) updateChat(msg tea.KeyMsg) (roomModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.mode = roomNav
	case "enter":
		body := strings.TrimSpace(m.chatInput)
		if body == "" {
			return m, nil
		}
		m.chatInput = ""
		return m, m.action("send", func(ctx context.Context, c *client.Client, id string) error {
			return c.SendMessage(ctx, id, body)
		})
	default:
		m.chatInput = editRune(m.chatInput, inputKey(msg))
	}
	return m, nil
}

func (m roomModel) updateOrder(msg tea.KeyMsg) (roomModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.mode = roomNav
	case "tab", "shift+tab", "up", "down":
		m.orderFocus = 1 - m.orderFocus
	case "enter":
		if m.orderFocus == orderDetailsField {
			m.orderFocus = orderAmountField
			return m, nil
		}
		return m.submitOrder()
	default:
		if m.orderFocus == orderAmountField {
			m.orderAmount = editDigits(m.orderAmount, inputKey(msg))
		} else {
			m.orderDetails = editRune(m.orderDetails, inputKey(msg))
		}
	}
	return m, nil
}

// submitOrder updates the caller's order, joining with it first when this
// device has not joined the room.
func (m roomModel) submitOrder() (roomModel, tea.Cmd) {
	details := strings.TrimSpace(m.orderDetails)
	amount := 0
	if m.orderAmount != "" {
		n, err := strconv.Atoi(m.orderAmount)
		if err != nil {
			m.status = "amount must be a number"
			return m, nil
		}
		amount = n
	}
	m.mode = roomNav
	m.status = "saving order..."

	if !m.joined {
		return m, m.action("join", func(ctx context.Context, c *client.Client, id string) error {
			return c.JoinRoom(ctx, id, client.JoinOptions{OrderDetails: &details, Amount: &amount})
		})
	}
	return m, m.action("order", func(ctx context.Context, c *client.Client, id string) error {
		return c.UpdateOrderDetails(ctx, id, details, amount)
	})
}

func (m roomModel) updateLink(msg tea.KeyMsg) (roomModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.mode = roomNav
	case "enter":
		link := strings.TrimSpace(m.linkInput)
		if link != "" {
			if err := browser.Validate(link); err != nil {
				m.status = "link must start with http:// or https://"
				return m, nil
			}
		}
		m.mode = roomNav
		m.status = "saving link..."
		return m, m.action("link", func(ctx context.Context, c *client.Client, id string) error {
			return c.UpdateRoomLink(ctx, id, link)
		})
	default:
		m.linkInput = editRune(m.linkInput, inputKey(msg))
	}
	return m, nil
}

// myParticipant guesses the caller's entry. The API does not say who the
// caller is, so only a single non-creator participant is unambiguous.
func (m roomModel) myParticipant() *domain.Participant {
	if m.room == nil || !m.joined {
		return nil
	}
	var mine *domain.Participant
	for i := range m.room.Participants {
		p := &m.room.Participants[i]
		if p.UserID == m.room.CreatedBy {
			continue
		}
		if mine != nil {
			return nil
		}
		mine = p
	}
	return mine
}

func (m roomModel) View() string {
	var b strings.Builder

	if m.roomID == "" {
		b.WriteString("\n " + dimStyle.Render("no room open · pick one from the list with enter") + "\n")
		return b.String()
	}
	if m.loading && m.room == nil {
		b.WriteString(" " + dimStyle.Render("loading room...") + "\n")
		return b.String()
	}
	if m.err != "" && m.room == nil {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		b.WriteString(" " + dimStyle.Render("esc back · r retry") + "\n")
		return b.String()
	}
	if m.room == nil {
		return b.String()
	}
	r := m.room

	title := selectedStyle.Render(r.RestaurantName) + "  " + CategoryStyle(r.CategoryID).Render(domain.CategoryLabel(r.CategoryID))
	if m.joined {
		title += "  " + okStyle.Render("✓ joined")
	}
	b.WriteString(" " + title + "\n")
	if r.Description != "" {
		b.WriteString(" " + dimStyle.Render(truncStr(r.Description, max(m.width-2, 10))) + "\n")
	}

	total := r.OrderTotal()
	progress := progressStyle(total, r.MinOrderAmount).Render(formatWon(total) + " / " + formatWon(r.MinOrderAmount))
	remaining := okStyle.Render("minimum reached")
	if rem := r.Remaining(); rem > 0 {
		remaining = dimStyle.Render(formatWon(rem) + " to go")
	}
	fmt.Fprintf(&b, " %s  %s\n", progress, remaining)
	fmt.Fprintf(&b, " %s\n", metaStyle.Render(fmt.Sprintf("배달비 %s · 1인당 %s", formatWon(r.DeliveryFee), formatWon(r.FeeShare()))))

	link := inputPlaceholderStyle.Render("no order link · press l to set")
	if r.OrderLink != "" {
		link = accentStyle.Render(r.OrderLink)
	}
	b.WriteString(" " + link + "\n")

	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("participants (%d)", len(r.Participants))) + "\n")
	for _, p := range r.Participants {
		name := normalStyle.Render(fmt.Sprintf("%-10s", truncStr(p.Name, 10)))
		if p.UserID != "" && p.UserID == r.CreatedBy {
			name = goldStyle.Render(fmt.Sprintf("%-10s", truncStr(p.Name, 10)))
		}
		row := "   " + name + "  " + dimStyle.Render(formatWon(p.Amount))
		if p.OrderDetails != "" {
			row += "  " + metaStyle.Render(truncStr(p.OrderDetails, 30))
		}
		if p.IsPaid {
			row += "  " + okStyle.Render("paid")
		}
		b.WriteString(row + "\n")
	}

	sep := strings.Repeat("─", max(m.width-2, 4))
	b.WriteString(" " + metaStyle.Render(sep) + "\n")

	header := strings.Count(b.String(), "\n")
	chatHeight := m.height - header - 2 // input + status
	if chatHeight < 2 {
		chatHeight = 2
	}
	b.WriteString(m.viewChat(chatHeight))

	switch m.mode {
	case roomOrder:
		b.WriteString(renderInput("menu", m.orderDetails, "what are you ordering?", m.orderFocus == orderDetailsField, m.cursorOn))
		b.WriteString("  ")
		b.WriteString(renderInput("amount", m.orderAmount, "0", m.orderFocus == orderAmountField, m.cursorOn))
	case roomLink:
		b.WriteString(renderInput("link", m.linkInput, "https://...", true, m.cursorOn))
	default:
		b.WriteString(renderInput("you", m.chatInput, "type a message...", m.mode == roomChat, m.cursorOn))
	}
	b.WriteByte('\n')

	if m.status != "" {
		b.WriteString(" " + dimStyle.Render(m.status))
	}
	return b.String()
}

func (m roomModel) viewChat(height int) string {
	var b strings.Builder
	if len(m.messages) == 0 {
		padLines(height-1, &b)
		b.WriteString(" " + dimStyle.Render("no messages yet") + "\n")
		return b.String()
	}

	var lines []string
	for _, msg := range m.messages {
		lines = append(lines, strings.Split(m.renderMessage(msg), "\n")...)
	}
	if start := len(lines) - height; start > 0 {
		lines = lines[start:]
	}
	padLines(height-len(lines), &b)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m roomModel) renderMessage(msg domain.ChatMessage) string {
	timePart := metaStyle.Render(fmt.Sprintf("%8s", formatChatTime(msg.Timestamp)))
	namePart := chatNameStyle.Render(truncStr(msg.SenderName, 10))

	bodyWidth := m.width - 26
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	wrapped := lipgloss.NewStyle().Width(bodyWidth).Render(msg.Content)
	lines := strings.Split(wrapped, "\n")

	result := " " + timePart + "  " + namePart + chatSepStyle.Render(" · ") + chatTextStyle.Render(lines[0])
	indent := strings.Repeat(" ", 15)
	for _, line := range lines[1:] {
		result += "\n" + indent + chatTextStyle.Render(line)
	}
	return result
}

func (m roomModel) helpKeys() string {
	switch m.mode {
	case roomChat:
		return helpEntry("enter", "send") + "  " + helpEntry("esc", "nav")
	case roomOrder:
		return helpEntry("tab", "field") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	case roomLink:
		return helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("i", "chat") + "  " + helpEntry("J/x", "join/leave") + "  " + helpEntry("o", "order") + "  " + helpEntry("l", "link") + "  " + helpEntry("y/b", "copy/open") + "  " + helpEntry("esc", "back")
}
