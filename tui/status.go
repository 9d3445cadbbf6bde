package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// current location and the player's vitals.
func (m Model) renderStatusBar() string {
	p := m.game.Player()
	loc := m.game.Location()

	left := fmt.Sprintf(" %s", loc.Name)
	right := fmt.Sprintf("Lv %d | HP %d/%d | XP %d/%d ",
		p.Level, p.Health, p.MaxHealth, p.Experience, p.ExperienceToNext)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
