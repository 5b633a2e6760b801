package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// formatTime renders a relative timestamp for room lists.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatChatTime formats a message timestamp as a short wall-clock time (H:MM).
// For messages older than today it shows "Nd ago" to save column space.
func formatChatTime(t time.Time) string {
	now := time.Now()
	y1, mo1, d1 := t.Date()
	y2, mo2, d2 := now.Date()
	if y1 == y2 && mo1 == mo2 && d1 == d2 {
		return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
	}
	days := int(now.Sub(t).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%dd ago", days)
}

// formatWon renders an amount in won with thousands separators, e.g. "12,000원".
func formatWon(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "원"
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padLines writes blank lines to fill dead space above sparse message lists.
func padLines(n int, b *strings.Builder) {
	for i := 0; i < n; i++ {
		b.WriteByte('\n')
	}
}
