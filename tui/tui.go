// Package tui implements the full-screen terminal interface. Screens render
// key-driven menus; the combat log lives in a scrollable viewport and the
// riddle prompt uses a text input.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/loststar/engine"
	"github.com/nathoo/loststar/types"
)

// Model is the Bubble Tea model for the game.
type Model struct {
	game *engine.Game

	viewport viewport.Model // combat log
	input    textinput.Model

	updates chan engine.Update
	notes   []types.Notification // pending notification banners, front is shown

	width    int
	height   int
	ready    bool
	quitting bool
}

// updateMsg carries an asynchronous engine update into the Update loop.
type updateMsg engine.Update

// New creates a TUI model wired to the given game. The returned channel must
// be registered as the game's observer before the program starts.
func New(g *engine.Game) (Model, chan engine.Update) {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	updates := make(chan engine.Update, 8)
	return Model{
		game:    g,
		input:   ti,
		updates: updates,
	}, updates
}

// Program builds a Bubble Tea program for a game. The caller registers the
// returned channel as the game's observer before running the program.
func Program(g *engine.Game) (*tea.Program, chan engine.Update) {
	m, updates := New(g)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p, updates
}

// Init starts the blink and the update pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

// waitForUpdate blocks on the observer channel and feeds the Update loop.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return updateMsg(<-m.updates)
	}
}

// Update handles key presses, resizes, and asynchronous engine updates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 8 // header, stats, actions, status bar
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshCombatLog()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case updateMsg:
		m.notes = append(m.notes, msg.Notes...)
		m.refreshCombatLog()
		return m, m.waitForUpdate()
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// push queues notifications for banner display.
func (m *Model) push(notes []types.Notification) {
	m.notes = append(m.notes, notes...)
}

// handleKey routes a key press for the active screen, modal, or banner.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// A visible notification banner absorbs enter. Dismissing the defeat
	// banner acknowledges the revival.
	if len(m.notes) > 0 {
		if msg.String() == "enter" {
			note := m.notes[0]
			m.notes = m.notes[1:]
			if note.Blocking {
				m.push(m.game.AcknowledgeDefeat())
			}
		}
		return m, nil
	}

	// Riddle input is captured by the text field.
	if _, ok := m.game.Modal().(engine.RiddleModal); ok {
		switch msg.String() {
		case "enter":
			answer := m.input.Value()
			m.input.SetValue("")
			m.input.Blur()
			m.push(m.game.AnswerRiddle(answer))
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	if modal := m.game.Modal(); modal != nil {
		return m.handleModalKey(msg, modal)
	}

	switch m.game.Screen().(type) {
	case engine.Title:
		if msg.String() == "enter" {
			m.push(m.game.StartGame())
		}

	case engine.Exploring:
		m.handleExploringKey(msg)

	case engine.Dialogue:
		if msg.String() == "enter" {
			m.push(m.game.ContinueDialogue())
			// The riddle branch needs the input field focused.
			if _, ok := m.game.Modal().(engine.RiddleModal); ok {
				m.input.Focus()
				return m, textinput.Blink
			}
		}

	case engine.Combat:
		switch msg.String() {
		case "a":
			m.push(m.game.CombatAction(types.ActionAttack))
			m.refreshCombatLog()
		case "d":
			m.push(m.game.CombatAction(types.ActionDefend))
			m.refreshCombatLog()
		case "i":
			m.push(m.game.CombatAction(types.ActionUseItem))
		}

	case engine.Shop:
		switch {
		case msg.String() == "esc":
			m.push(m.game.CloseShop())
		case isDigit(msg.String()):
			m.push(m.game.Buy(int(msg.String()[0]-'1')))
		}

	case engine.LevelUp:
		switch msg.String() {
		case "h":
			m.push(m.game.ChooseLevelUpStat(types.StatHealth))
		case "a":
			m.push(m.game.ChooseLevelUpStat(types.StatAttack))
		case "d":
			m.push(m.game.ChooseLevelUpStat(types.StatDefense))
		}

	case engine.Ending:
		if msg.String() == "r" {
			m.push(m.game.Restart())
		}
	}
	return m, nil
}

func (m *Model) handleExploringKey(msg tea.KeyMsg) {
	s := msg.String()
	switch {
	case s == "i":
		m.push(m.game.OpenInventory())
	case s == "q":
		m.push(m.game.OpenQuests())
	case isDigit(s):
		// Objects first, monsters after, matching the rendered list.
		n := int(s[0] - '1')
		loc := m.game.Location()
		if n < len(loc.Objects) {
			m.push(m.game.Interact(loc.Objects[n].ObjectID()))
			return
		}
		n -= len(loc.Objects)
		if n < len(loc.Monsters) {
			m.push(m.game.Encounter(loc.Monsters[n].ID))
			m.refreshCombatLog()
		}
	}
}

func (m Model) handleModalKey(msg tea.KeyMsg, modal engine.Modal) (tea.Model, tea.Cmd) {
	switch modal.(type) {
	case engine.InventoryModal:
		switch {
		case msg.String() == "esc":
			m.push(m.game.CloseModal())
		case isDigit(msg.String()):
			m.push(m.game.UseItem(int(msg.String()[0] - '1')))
			m.refreshCombatLog()
		}
	case engine.QuestsModal:
		if msg.String() == "esc" {
			m.push(m.game.CloseModal())
		}
	}
	return m, nil
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '1' && s[0] <= '9'
}

// refreshCombatLog mirrors the combat session log into the viewport.
func (m *Model) refreshCombatLog() {
	if !m.ready {
		return
	}
	c, ok := m.game.Screen().(engine.Combat)
	if !ok {
		return
	}
	var lines []string
	for _, line := range c.Session.Log {
		lines = append(lines, styleLog.Render(line))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the active screen with any modal or banner over it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	if modal := m.game.Modal(); modal != nil {
		b.WriteString(m.viewModal(modal))
	} else {
		b.WriteString(m.viewScreen())
	}

	if len(m.notes) > 0 {
		note := m.notes[0]
		b.WriteString("\n")
		b.WriteString(styleBanner.Render(fmt.Sprintf("%s  %s  (enter)", note.Title, note.Body)))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) viewScreen() string {
	switch s := m.game.Screen().(type) {
	case engine.Title:
		return styleTitle.Render(m.game.Title()) + "\n\n" +
			styleBody.Render(m.game.Intro()) + "\n\n" +
			styleHint.Render("press enter to start")

	case engine.Exploring:
		return m.viewExploring()

	case engine.Dialogue:
		return styleSpeaker.Render(s.Session.NPC.Name) + "\n" +
			styleDialogue.Render(s.Session.Line()) + "\n\n" +
			styleHint.Render("enter: continue")

	case engine.Combat:
		return m.viewCombat(s.Session)

	case engine.Shop:
		var b strings.Builder
		b.WriteString(styleTitle.Render("Shop") + "\n")
		for i, entry := range s.Listing {
			b.WriteString(fmt.Sprintf("%d. %s (%d XP)  %s\n",
				i+1, entry.Item.Name, entry.Price, styleHint.Render(entry.Item.Description)))
		}
		b.WriteString(fmt.Sprintf("\nYou have %d XP\n", m.game.Player().Experience))
		b.WriteString(styleHint.Render("1-9: buy  esc: leave"))
		return b.String()

	case engine.LevelUp:
		return styleTitle.Render("Level Up!") + "\n\n" +
			"h: +20 max health (and full heal)\n" +
			"a: +3 attack\n" +
			"d: +2 defense\n"

	case engine.Ending:
		return styleTitle.Render("Congratulations!") + "\n\n" +
			styleBody.Render(m.game.Outro()) + "\n\n" +
			styleHint.Render("r: play again  ctrl+c: quit")
	}
	return ""
}

func (m Model) viewExploring() string {
	loc := m.game.Location()
	var b strings.Builder
	b.WriteString(styleTitle.Render(loc.Name) + "\n")
	b.WriteString(styleBody.Render(loc.Description) + "\n\n")
	n := 1
	for _, obj := range loc.Objects {
		b.WriteString(fmt.Sprintf("%d. %s\n", n, obj.ObjectName()))
		n++
	}
	for _, mon := range loc.Monsters {
		b.WriteString(fmt.Sprintf("%d. %s\n", n, styleMonster.Render(mon.Type)))
		n++
	}
	b.WriteString("\n" + styleHint.Render("1-9: interact  i: inventory  q: quests"))
	return b.String()
}

func (m Model) viewCombat(s *engine.CombatSession) string {
	p := m.game.Player()
	var b strings.Builder
	b.WriteString(styleMonster.Render(s.Monster.Type) +
		fmt.Sprintf("  HP %d/%d\n", s.MonsterHealth, s.Monster.Health))
	b.WriteString(fmt.Sprintf("You  HP %d/%d\n\n", p.Health, p.MaxHealth))
	b.WriteString(m.viewport.View() + "\n")
	switch {
	case s.AwaitingRevival:
		// The defeat banner carries the prompt.
	case s.PlayerTurn:
		b.WriteString(styleHint.Render("a: attack  d: defend  i: item"))
	default:
		b.WriteString(styleHint.Render("..."))
	}
	return b.String()
}

func (m Model) viewModal(modal engine.Modal) string {
	switch mo := modal.(type) {
	case engine.InventoryModal:
		p := m.game.Player()
		var b strings.Builder
		b.WriteString(styleTitle.Render("Inventory") + "\n")
		if len(p.Inventory) == 0 {
			b.WriteString(styleHint.Render("(empty)") + "\n")
		}
		for i, st := range p.Inventory {
			b.WriteString(fmt.Sprintf("%d. %s x%d  %s\n",
				i+1, st.Item.Name, st.Quantity, styleHint.Render(st.Item.Description)))
		}
		b.WriteString("\n" + styleHint.Render("1-9: use  esc: close"))
		return b.String()

	case engine.QuestsModal:
		p := m.game.Player()
		var b strings.Builder
		b.WriteString(styleTitle.Render("Quests") + "\n")
		b.WriteString(styleSpeaker.Render("Active") + "\n")
		for _, q := range p.ActiveQuests {
			b.WriteString(fmt.Sprintf("  %s  %s\n", q.Name, styleHint.Render(q.Description)))
		}
		b.WriteString(styleSpeaker.Render("Completed") + "\n")
		for _, id := range p.CompletedQuests {
			if q, ok := m.game.QuestByID(id); ok {
				b.WriteString(fmt.Sprintf("  %s\n", q.Name))
			}
		}
		b.WriteString("\n" + styleHint.Render("esc: close"))
		return b.String()

	case engine.RiddleModal:
		return styleTitle.Render(mo.Quest.Name) + "\n" +
			styleDialogue.Render(mo.Quest.Description) + "\n\n" +
			m.input.View()
	}
	return ""
}

// viewportKeyMap returns a viewport keymap limited to paging keys.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
