// Package cli provides terminal I/O, output formatting, and command
// dispatch for playing a loaded world without the full-screen interface.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/loststar/engine"
	"github.com/nathoo/loststar/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *engine.Game
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given game. The game should be built with
// an ImmediateScheduler so deferred combat turns resolve inline.
func New(g *engine.Game) *CLI {
	return &CLI{
		Game: g,
		In:   os.Stdin,
		Out:  os.Stdout,
	}
}

// Run starts the game loop: render → prompt → input → dispatch.
func (c *CLI) Run() {
	c.render()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput && input != "" {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		c.dispatch(input)
		c.render()
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/help":
		c.cmdHelp()
	case "/state":
		c.cmdState()
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}
	return false
}

// dispatch routes one input line to the matching game intent and prints the
// notifications it produced.
func (c *CLI) dispatch(input string) {
	fields := strings.Fields(strings.ToLower(input))
	var cmd, arg string
	if len(fields) > 0 {
		cmd = fields[0]
	}
	if len(fields) > 1 {
		arg = fields[1]
	}

	// The riddle modal captures the rest of the line as the answer.
	if _, ok := c.Game.Modal().(engine.RiddleModal); ok && cmd == "answer" {
		rest := strings.Fields(input)[1:]
		c.printNotes(c.Game.AnswerRiddle(strings.Join(rest, " ")))
		return
	}

	switch cmd {
	case "", "continue", "next":
		c.printNotes(c.Game.ContinueDialogue())
	case "start":
		c.printNotes(c.Game.StartGame())
	case "restart":
		c.printNotes(c.Game.Restart())
	case "look":
		// render follows every dispatch
	case "interact", "touch", "talk":
		if obj, ok := c.objectAt(arg); ok {
			c.printNotes(c.Game.Interact(obj))
		} else {
			c.printSystem("No such object.")
		}
	case "fight":
		if m, ok := c.monsterAt(arg); ok {
			c.printNotes(c.Game.Encounter(m))
		} else {
			c.printSystem("No such monster.")
		}
	case "attack":
		c.combatAction(types.ActionAttack)
	case "defend":
		c.combatAction(types.ActionDefend)
	case "item", "items":
		c.printNotes(c.Game.CombatAction(types.ActionUseItem))
	case "use":
		if n, err := strconv.Atoi(arg); err == nil {
			c.printNotes(c.Game.UseItem(n - 1))
		} else {
			c.printSystem("Usage: use <number>")
		}
	case "buy":
		if n, err := strconv.Atoi(arg); err == nil {
			c.printNotes(c.Game.Buy(n - 1))
		} else {
			c.printSystem("Usage: buy <number>")
		}
	case "leave":
		c.printNotes(c.Game.CloseShop())
	case "inv", "inventory":
		c.printNotes(c.Game.OpenInventory())
	case "quests":
		c.printNotes(c.Game.OpenQuests())
	case "back", "close":
		c.printNotes(c.Game.CloseModal())
	case "stat":
		switch arg {
		case "health":
			c.printNotes(c.Game.ChooseLevelUpStat(types.StatHealth))
		case "attack":
			c.printNotes(c.Game.ChooseLevelUpStat(types.StatAttack))
		case "defense":
			c.printNotes(c.Game.ChooseLevelUpStat(types.StatDefense))
		default:
			c.printSystem("Usage: stat health|attack|defense")
		}
	case "ok":
		c.printNotes(c.Game.AcknowledgeDefeat())
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
}

// combatAction runs a combat turn and echoes log lines the action produced.
// Victory leaves the combat screen, so the closing lines would otherwise
// never be shown.
func (c *CLI) combatAction(action types.CombatAction) {
	s, ok := c.Game.Screen().(engine.Combat)
	if !ok {
		c.printNotes(c.Game.CombatAction(action))
		return
	}
	before := len(s.Session.Log)
	notes := c.Game.CombatAction(action)
	if _, still := c.Game.Screen().(engine.Combat); !still {
		for _, line := range s.Session.Log[before:] {
			c.printLine("  " + line)
		}
	}
	c.printNotes(notes)
}

// objectAt resolves a 1-based index (as rendered) to an object id.
func (c *CLI) objectAt(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", false
	}
	objects := c.Game.Location().Objects
	if n < 1 || n > len(objects) {
		return "", false
	}
	return objects[n-1].ObjectID(), true
}

// monsterAt resolves a 1-based index (as rendered) to a monster id.
func (c *CLI) monsterAt(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", false
	}
	monsters := c.Game.Location().Monsters
	if n < 1 || n > len(monsters) {
		return "", false
	}
	return monsters[n-1].ID, true
}

// render prints the state of the current screen and modal.
func (c *CLI) render() {
	if modal := c.Game.Modal(); modal != nil {
		c.renderModal(modal)
		return
	}

	switch s := c.Game.Screen().(type) {
	case engine.Title:
		c.printLine(c.Game.Title())
		if intro := c.Game.Intro(); intro != "" {
			c.printLine(intro)
		}
		c.printLine("Type 'start' to begin your adventure.")

	case engine.Exploring:
		c.renderLocation()

	case engine.Dialogue:
		c.printLine(fmt.Sprintf("%s: %s", s.Session.NPC.Name, s.Session.Line()))
		c.printLine("(press enter to continue)")

	case engine.Combat:
		c.renderCombat(s.Session)

	case engine.Shop:
		c.printLine("For sale (priced in XP):")
		for i, entry := range s.Listing {
			c.printLine(fmt.Sprintf("  %d. %s (%d XP) - %s", i+1, entry.Item.Name, entry.Price, entry.Item.Description))
		}
		c.printLine(fmt.Sprintf("You have %d XP. Commands: buy <number>, leave", c.Game.Player().Experience))

	case engine.LevelUp:
		p := c.Game.Player()
		c.printLine(fmt.Sprintf("Level up! You are now strong enough for level %d.", p.Level+1))
		c.printLine("Choose a stat to raise: stat health|attack|defense")

	case engine.Ending:
		c.printLine(c.Game.Outro())
		c.printLine("Type 'restart' to play again.")
	}
}

func (c *CLI) renderModal(modal engine.Modal) {
	switch m := modal.(type) {
	case engine.InventoryModal:
		p := c.Game.Player()
		if len(p.Inventory) == 0 {
			c.printLine("Your inventory is empty.")
		} else {
			c.printLine("Inventory:")
			for i, st := range p.Inventory {
				c.printLine(fmt.Sprintf("  %d. %s x%d - %s", i+1, st.Item.Name, st.Quantity, st.Item.Description))
			}
		}
		c.printLine("Commands: use <number>, back")

	case engine.QuestsModal:
		p := c.Game.Player()
		c.printLine("Active Quests:")
		for _, q := range p.ActiveQuests {
			c.printLine(fmt.Sprintf("  %s - %s", q.Name, q.Description))
		}
		c.printLine("Completed Quests:")
		for _, id := range p.CompletedQuests {
			if q, ok := c.Game.QuestByID(id); ok {
				c.printLine(fmt.Sprintf("  %s", q.Name))
			}
		}
		c.printLine("Commands: back")

	case engine.RiddleModal:
		c.printLine(m.Quest.Description)
		c.printLine("Commands: answer <your answer>")
	}
}

func (c *CLI) renderLocation() {
	loc := c.Game.Location()
	p := c.Game.Player()
	c.printLine(loc.Name)
	c.printLine(loc.Description)
	c.printLine(fmt.Sprintf("Level %d  HP %d/%d  XP %d/%d", p.Level, p.Health, p.MaxHealth, p.Experience, p.ExperienceToNext))
	for i, obj := range loc.Objects {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, obj.ObjectName()))
	}
	for i, m := range loc.Monsters {
		c.printLine(fmt.Sprintf("  monster %d. %s", i+1, m.Type))
	}
}

func (c *CLI) renderCombat(s *engine.CombatSession) {
	p := c.Game.Player()
	c.printLine(fmt.Sprintf("%s  HP %d/%d", s.Monster.Type, s.MonsterHealth, s.Monster.Health))
	c.printLine(fmt.Sprintf("You  HP %d/%d", p.Health, p.MaxHealth))
	for _, line := range s.Log {
		c.printLine("  " + line)
	}
	if s.AwaitingRevival {
		c.printLine("You were defeated. Type 'ok' to return to the village.")
		return
	}
	c.printLine("Commands: attack, defend, item")
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"",
		"Game commands:",
		"  start                 — Begin from the title screen",
		"  look                  — Describe the current location",
		"  interact <n>          — Touch the numbered object",
		"  fight <n>             — Engage the numbered monster",
		"  attack / defend / item — Combat actions",
		"  use <n>               — Use the numbered inventory item",
		"  answer <text>         — Answer a riddle",
		"  buy <n> / leave       — Shop",
		"  stat <name>           — Spend a level up (health, attack, defense)",
		"  inv / quests / back   — Open and close overlays",
		"  ok                    — Accept defeat and revive",
		"  restart               — Play again from the ending screen",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	p := c.Game.Player()
	c.printSystem(fmt.Sprintf("Location: %s", p.Location))
	c.printSystem(fmt.Sprintf("Level %d, HP %d/%d, XP %d/%d", p.Level, p.Health, p.MaxHealth, p.Experience, p.ExperienceToNext))
	c.printSystem(fmt.Sprintf("Inventory: %d stacks", len(p.Inventory)))
	c.printSystem(fmt.Sprintf("Quests: %d active, %d completed", len(p.ActiveQuests), len(p.CompletedQuests)))
}

func (c *CLI) printNotes(notes []types.Notification) {
	for _, n := range notes {
		c.printLine(fmt.Sprintf("[%s] %s", n.Title, n.Body))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
