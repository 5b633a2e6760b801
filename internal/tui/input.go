package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in chat and form inputs.
const maxInputLen = 2000

// cursorBlinkMsg toggles the input cursor on/off.
type cursorBlinkMsg struct{}

func cursorBlinkCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return cursorBlinkMsg{}
	})
}

// inputKey is the text an editor should see for msg: the raw runes of typed
// or pasted input, otherwise the key name. Key.String brackets pastes.
func inputKey(msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes && !msg.Alt {
		return string(msg.Runes)
	}
	return msg.String()
}

// namedKeys are key names that reach an editor's default branch but are not text.
var namedKeys = map[string]bool{
	"enter": true, "tab": true, "esc": true, "backspace": true, "delete": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true, "insert": true,
}

func isNamedKey(key string) bool {
	if len(key) >= 2 && len(key) <= 3 && key[0] == 'f' && key[1] >= '1' && key[1] <= '9' {
		return true // f1..f20
	}
	return namedKeys[key] ||
		strings.HasPrefix(key, "ctrl+") ||
		strings.HasPrefix(key, "alt+") ||
		strings.HasPrefix(key, "shift+")
}

// editRune processes a keystroke or a paste for inline text editing.
// Handles backspace (rune-aware), single printable characters and pasted
// text, with line breaks flattened to spaces. Named keys leave the text
// unchanged. Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	if key == "backspace" {
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if key == "" || (utf8.RuneCountInString(key) > 1 && isNamedKey(key)) {
		return text
	}
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	key = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(key)
	if runes := []rune(key); len(runes) > room {
		key = string(runes[:room])
	}
	return text + key
}

// maxDigits bounds amount fields.
const maxDigits = 10

// editDigits is editRune restricted to ASCII digits, for amount fields.
// Pasted text keeps only its digits, so "12,000" becomes "12000".
func editDigits(text string, key string) string {
	if key == "backspace" {
		return editRune(text, key)
	}
	if isNamedKey(key) {
		return text
	}
	for _, r := range key {
		if r >= '0' && r <= '9' && len(text) < maxDigits {
			text += string(r)
		}
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders an inline text input with a label, blinking cursor and
// placeholder when empty.
func renderInput(label, input, placeholder string, focused, cursorOn bool) string {
	sep := chatSepStyle.Render(" · ")
	namePart := chatSelfNameStyle.Render(label)
	if !focused {
		if input == "" {
			return " " + namePart + sep + inputPlaceholderStyle.Render(placeholder)
		}
		return " " + namePart + sep + dimStyle.Render(input)
	}
	cursor := " "
	if cursorOn {
		cursor = accentStyle.Render("█")
	}
	return " " + namePart + sep + chatTextStyle.Render(input) + cursor
}
