package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// illitworld theme (CLI + TUI).

const (
	IconSparkle = "✨"
	IconPlay    = "▶"
	IconPause   = "⏸"
	IconShuffle = "🔀"
	IconLoop    = "🔁"
	IconHeart   = "♥"
	IconCheck   = "✓"
	IconCard    = "🃏"
	IconLock    = "🔒"
	IconTrophy  = "🏆"
	IconWarn    = "⚠️"
	IconError   = "🧨"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // pink
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Member renders a name in the member's hex color.
func Member(name, hex string) string {
	if hex == "" {
		return lipgloss.NewStyle().Bold(true).Render(name)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex)).Render(name)
}

func WatchedMark(watched bool) string {
	if watched {
		return Good.Render(IconCheck)
	}
	return " "
}

func FavoriteMark(fav bool) string {
	if fav {
		return Title.Render(IconHeart)
	}
	return " "
}

// LockText renders a card's availability.
func LockText(unlocked bool, description string) string {
	if unlocked {
		return Good.Render("unlocked")
	}
	return Muted.Render(IconLock + " " + description)
}
