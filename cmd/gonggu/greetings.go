package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var greetings = [...]string{
	"배달비 4,000원, 혼자 내기엔 아깝잖아요.",
	"The chicken place has a 20,000원 minimum. You have 11,000원 of appetite.",
	"Someone on your floor is ordering tteokbokki right now. Without you.",
	"Split the fee, keep the change.",
	"A room is waiting for one more person to hit the minimum.",
	"Hungry alone is fine. Paying delivery alone is optional.",
	"Pizza tastes the same. The fee per person doesn't.",
	"The order link is ready. You just need a token.",
}

var (
	accent = lipgloss.Color("#ff922b")
	muted  = lipgloss.Color("245")
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Render("G O N G G U")

	tagline := lipgloss.NewStyle().
		Foreground(muted).
		Italic(true).
		Render("같이 시켜서 배달비 나눠요. Order together, split the fee.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(muted)
	commands := []struct{ cmd, desc string }{
		{"gonggu", "Open the rooms (interactive TUI)"},
		{"gonggu login <token>", "Save your API token"},
		{"gonggu logout", "Forget the saved token"},
		{"gonggu rooms [category]", "List open rooms"},
		{"gonggu credits", "Show credits and revealed contacts"},
		{"gonggu credits spend <id>", "Reveal a roommate contact"},
		{"gonggu credits check <id>", "Is a contact revealed?"},
		{"gonggu credits reset", "Restore the default credits"},
		{"gonggu credits grant <n>", "Add credits"},
		{"gonggu version", "Show version"},
		{"gonggu help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("Settings come from GONGGU_* variables or a .env file.")
	fmt.Fprintf(w, "\n  %s\n\n", env)
}

func printGreeting(w io.Writer) {
	msg := greetings[rand.IntN(len(greetings))]

	title := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Render("GONGGU")

	quote := lipgloss.NewStyle().
		Foreground(muted).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(muted).
		Render("To start: gonggu login <token>")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
