package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/loststar/engine"
	"github.com/nathoo/loststar/engine/world"
	"github.com/nathoo/loststar/types"
)

type midRoller struct{}

func (midRoller) Uniform(lo, hi float64) float64 { return (lo + hi) / 2 }

func testDefs() *world.Defs {
	return &world.Defs{
		Title: "Test World",
		Intro: "A test intro.",
		Outro: "A test outro.",
		Start: "yard",
		Player: types.Player{
			Name: "Hero", Level: 1,
			Health: 100, MaxHealth: 100,
			Attack: 10, Defense: 5,
			ExperienceToNext: 100,
			Inventory: []types.Stack{
				{Item: types.ItemDef{Name: "Potion", Description: "Heals 30", Effect: types.ItemEffect{Heal: 30}}, Quantity: 1},
			},
		},
		Locations: map[string]types.Location{
			"yard": {
				ID: "yard", Name: "Yard", Description: "A small yard.",
				Objects: []types.Object{
					types.Pickup{
						ID: "coin", Name: "Shiny Coin",
						Item:     types.ItemDef{Name: "Coin", Description: "A coin"},
						Quantity: 1,
					},
					types.NPC{
						ID: "guard", Name: "Guard",
						Dialogue: []string{"Halt!", "Move along."},
					},
				},
				Monsters: []types.MonsterInstance{
					{ID: "rat1", Type: "Rat", Health: 8, Attack: 3, Defense: 0, Experience: 5},
				},
			},
		},
	}
}

// run executes a scripted session and returns everything written to Out.
func run(t *testing.T, script string) string {
	t.Helper()
	g := engine.New(testDefs(), engine.Options{
		Rand:      midRoller{},
		Scheduler: engine.ImmediateScheduler{},
	})
	c := New(g)
	c.In = strings.NewReader(script)
	var out bytes.Buffer
	c.Out = &out
	c.Run()
	return out.String()
}

func TestRun_TitleAndStart(t *testing.T) {
	out := run(t, "start\n/quit\n")
	if !strings.Contains(out, "Test World") {
		t.Errorf("missing title in output:\n%s", out)
	}
	if !strings.Contains(out, "A small yard.") {
		t.Errorf("start should render the location:\n%s", out)
	}
}

func TestRun_PickupNotification(t *testing.T) {
	out := run(t, "start\ninteract 1\n/quit\n")
	if !strings.Contains(out, "[Item Found!]") {
		t.Errorf("missing pickup notification:\n%s", out)
	}
}

func TestRun_DialogueFlow(t *testing.T) {
	out := run(t, "start\ninteract 2\n\n\n/quit\n")
	if !strings.Contains(out, "Guard: Halt!") {
		t.Errorf("missing first dialogue line:\n%s", out)
	}
	if !strings.Contains(out, "Move along.") {
		t.Errorf("missing second dialogue line:\n%s", out)
	}
}

func TestRun_CombatVictoryInline(t *testing.T) {
	// Midpoint roll: 10 attack vs 0 defense = 10 damage, rat dies on the
	// first hit. The immediate scheduler would otherwise run the rat's
	// reply before the next prompt.
	out := run(t, "start\nfight 1\nattack\n/quit\n")
	if !strings.Contains(out, "You encountered a Rat!") {
		t.Errorf("missing encounter log:\n%s", out)
	}
	if !strings.Contains(out, "You defeated the Rat!") {
		t.Errorf("missing victory log:\n%s", out)
	}
}

func TestRun_InventoryModal(t *testing.T) {
	out := run(t, "start\ninv\nuse 1\nback\n/quit\n")
	if !strings.Contains(out, "Potion x1") {
		t.Errorf("missing inventory listing:\n%s", out)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	out := run(t, "start\nfrobnicate\n/quit\n")
	if !strings.Contains(out, "Unknown command: frobnicate") {
		t.Errorf("missing unknown-command message:\n%s", out)
	}
}

func TestRun_Help(t *testing.T) {
	out := run(t, "/help\n/quit\n")
	if !strings.Contains(out, "Game commands:") {
		t.Errorf("missing help output:\n%s", out)
	}
}

func TestRun_CommentLinesSkipped(t *testing.T) {
	out := run(t, "# a comment\nstart\n/quit\n")
	if strings.Contains(out, "Unknown command: #") {
		t.Errorf("comment line was dispatched:\n%s", out)
	}
}
