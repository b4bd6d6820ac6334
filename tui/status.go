package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/engine/battle"
	"github.com/nathoo/gacharealm/engine/state"
)

// renderStatusBar produces a full-width status line: the player on the
// left, and the current fight or the town on the right. The bar turns red
// while a battle is running.
func (m Model) renderStatusBar() string {
	e := m.engine
	p := e.Player

	left := fmt.Sprintf(" %s Lv%d | HP %d/%d | %s G", p.Name, p.Level, p.HP, p.MaxHP, humanize.Comma(int64(p.Gold)))

	style := styleStatusBar
	var right string
	if b := e.Battle(); b != nil && !b.Over() {
		style = styleStatusBattle
		right = battleStatus(b)
		if run := e.Run(); run != nil {
			right = fmt.Sprintf("%s %d/%d | %s", run.Dungeon.Name, run.Stage, len(run.Stages), right)
		}
	} else {
		town := fmt.Sprintf("Town %d", p.TownLevel)
		if t, ok := state.TownLevel(e.Catalog, p.TownLevel); ok {
			town = t.Name
		}
		right = fmt.Sprintf("%s | %s trophies", town, humanize.Comma(int64(p.Trophies)))
	}
	right += " "

	// Drop the right side entirely rather than overlap on narrow terminals.
	if lipgloss.Width(left)+lipgloss.Width(right) > m.width {
		right = ""
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return style.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func battleStatus(b *battle.Battle) string {
	charge := strings.Repeat("*", b.Charge) + strings.Repeat(".", battle.MaxCharge-b.Charge)
	return fmt.Sprintf("%s %d/%d | Ult [%s]", b.Monster.Name, b.Monster.HP, b.Monster.MaxHP, charge)
}
