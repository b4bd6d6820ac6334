package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusBattle = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("230")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Bold(true)

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleLore = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")).
			Italic(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHeading
	kindCombat
	kindReward
	kindLore
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "You are not"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "Not enough"),
		strings.Contains(line, "; you have "),
		strings.HasPrefix(line, "Something went wrong"):
		return kindError
	case strings.HasPrefix(line, "+"),
		strings.HasPrefix(line, "Obtained "),
		strings.HasPrefix(line, "Level up!"),
		strings.HasPrefix(line, "Quest complete"),
		strings.HasPrefix(line, "Victory"),
		strings.HasPrefix(line, "You defeated"):
		return kindReward
	case strings.Contains(line, " damage"),
		strings.Contains(line, " misses"),
		strings.Contains(line, "You miss"),
		strings.Contains(line, "Critical hit"):
		return kindCombat
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return kindHeading
	default:
		return kindNarrative
	}
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	case kindReward:
		return styleReward.Render(line)
	case kindLore:
		return styleLore.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
