package main

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-showdown/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	seatStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	highlightStyle = lipgloss.NewStyle().
			Underline(true).
			Bold(true)
)

// renderCard draws a card as rank and suit glyph, colored by suit
func renderCard(c poker.Card, highlight bool) string {
	style := blackCardStyle
	if c.Suit.IsRed() {
		style = redCardStyle
	}
	if highlight {
		style = style.Inherit(highlightStyle)
	}
	return style.Render(c.Short() + c.Glyph())
}

// renderCards draws cards separated by spaces, emphasising any in highlight
func renderCards(cards, highlight []poker.Card) string {
	if len(cards) == 0 {
		return dimStyle.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c, slices.Contains(highlight, c))
	}
	return strings.Join(parts, " ")
}

// renderNotify styles a showdown notification by outcome
func renderNotify(result poker.GameResult) string {
	switch {
	case result.Error:
		return errorStyle.Render(result.Notify)
	case result.PotSplit:
		return tieStyle.Render(result.Notify)
	default:
		return winStyle.Render(result.Notify)
	}
}
