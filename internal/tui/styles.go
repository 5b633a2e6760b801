package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the GONGGU logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "G O N G G U" as a wave of warm light running
// from deep amber (#4a2a10) to bright tangerine (#ffa94d).
func renderShimmerLogo(frame int) string {
	const text = "GONGGU"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0 + math.Sin(t*0.023)*2.0

		b := math.Pow(math.Sin(phase)*0.5+0.5, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		color := fmt.Sprintf("#%02X%02X%02X",
			clampByte(74+b*(255-74)),
			clampByte(42+b*(169-42)),
			clampByte(16+b*(77-16)),
		)
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff922b"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	chatNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffa94d")).
			Bold(true)

	chatSelfNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e4e4ec"))

	chatTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	chatSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#404858"))

	categoryColors = map[string]lipgloss.Color{
		"korean":   lipgloss.Color("#e06060"),
		"chinese":  lipgloss.Color("#f0944a"),
		"japanese": lipgloss.Color("#60a0e0"),
		"western":  lipgloss.Color("#b080d0"),
		"chicken":  lipgloss.Color("#d4a844"),
		"pizza":    lipgloss.Color("#f87171"),
		"burger":   lipgloss.Color("#fbbf24"),
		"snack":    lipgloss.Color("#c084e0"),
		"dessert":  lipgloss.Color("#f9a8d4"),
		"etc":      lipgloss.Color("#8890a0"),
	}
)

// CategoryStyle returns a bold style colored for the given category id.
func CategoryStyle(id string) lipgloss.Style {
	if c, ok := categoryColors[id]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// progressStyle colors an order total by how close it is to the minimum.
func progressStyle(total, minimum int) lipgloss.Style {
	switch {
	case minimum <= 0 || total >= minimum:
		return okStyle
	case total*2 >= minimum:
		return goldStyle
	default:
		return dimStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpView renders the help overlay.
func helpView() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffa94d")).
		Bold(true).
		Render("G O N G G U")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("배달비는 나누고, 최소주문은 함께 채우고.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	sections := []struct {
		title string
		rows  []struct{ key, desc string }
	}{
		{"Rooms", []struct{ key, desc string }{
			{"j/k", "move"},
			{"enter", "open room"},
			{"c", "cycle category"},
			{"n", "new room"},
			{"r", "refresh"},
		}},
		{"Room", []struct{ key, desc string }{
			{"J / x", "join / leave"},
			{"o", "edit your order"},
			{"l", "set order link"},
			{"y / b", "copy / open link"},
			{"i", "chat"},
		}},
		{"Credits", []struct{ key, desc string }{
			{"s", "reveal a contact"},
			{"+", "grant a credit"},
			{"R", "reset"},
		}},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)
	for _, s := range sections {
		fmt.Fprintf(&b, "  %s\n", sectionStyle.Render(s.title))
		for _, r := range s.rows {
			fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-8s", r.key)), descStyle.Render(r.desc))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
