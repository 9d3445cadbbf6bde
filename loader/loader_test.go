package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/loststar/types"
	lua "github.com/yuin/gopher-lua"
)

func TestLoad_FullWorld(t *testing.T) {
	defs, err := Load("testdata/full")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Title != "Full Test World" {
		t.Errorf("Title = %q", defs.Title)
	}
	if defs.Start != "hall" {
		t.Errorf("Start = %q", defs.Start)
	}
	if defs.Intro != "An intro." || defs.Outro != "An outro." {
		t.Errorf("Intro/Outro = %q / %q", defs.Intro, defs.Outro)
	}
	if len(defs.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(defs.Locations))
	}

	// Player.
	p := defs.Player
	if p.Name != "Tester" || p.Health != 50 || p.MaxHealth != 50 {
		t.Errorf("player = %+v", p)
	}
	if p.Attack != 7 || p.Defense != 3 || p.ExperienceToNext != 40 {
		t.Errorf("player stats = %+v", p)
	}
	if p.Level != 1 {
		t.Errorf("player level = %d, want 1", p.Level)
	}
	if p.Location != "hall" {
		t.Errorf("player location = %q", p.Location)
	}
	if len(p.Inventory) != 1 || p.Inventory[0].Item.Name != "Potion" || p.Inventory[0].Quantity != 2 {
		t.Errorf("player inventory = %v", p.Inventory)
	}
}

func TestLoad_Objects(t *testing.T) {
	defs, err := Load("testdata/full")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	hall := defs.Locations["hall"]
	if len(hall.Objects) != 3 {
		t.Fatalf("expected 3 hall objects, got %d", len(hall.Objects))
	}

	npc, ok := hall.Objects[0].(types.NPC)
	if !ok {
		t.Fatalf("first object is %T, want NPC", hall.Objects[0])
	}
	if npc.ID != "keeper" || len(npc.Dialogue) != 2 {
		t.Errorf("npc = %+v", npc)
	}
	if npc.Quest == nil || npc.Quest.ID != "q_relic" {
		t.Fatalf("npc quest = %+v", npc.Quest)
	}
	req, ok := npc.Quest.Requires.(types.PossessItem)
	if !ok || req.ItemName != "Relic" || req.Count != 1 {
		t.Errorf("quest requirement = %+v", npc.Quest.Requires)
	}
	if len(npc.Shop) != 1 || npc.Shop[0].Price != 5 || npc.Shop[0].Item.Name != "Potion" {
		t.Errorf("shop = %v", npc.Shop)
	}

	pickup, ok := hall.Objects[1].(types.Pickup)
	if !ok {
		t.Fatalf("second object is %T, want Pickup", hall.Objects[1])
	}
	if pickup.Item.Name != "Relic" || pickup.Quantity != 1 {
		t.Errorf("pickup = %+v", pickup)
	}
	// Merged effect array: stat raise plus quest completion.
	if pickup.Item.Effect.Attack != 1 || pickup.Item.Effect.QuestID != "q_relic" {
		t.Errorf("relic effect = %+v", pickup.Item.Effect)
	}

	exit, ok := hall.Objects[2].(types.Exit)
	if !ok {
		t.Fatalf("third object is %T, want Exit", hall.Objects[2])
	}
	if exit.To != "crypt" || !exit.Locked || exit.UnlockQuest != "q_relic" {
		t.Errorf("exit = %+v", exit)
	}
}

func TestLoad_CryptContents(t *testing.T) {
	defs, err := Load("testdata/full")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	crypt := defs.Locations["crypt"]

	ghost := crypt.Objects[0].(types.NPC)
	sol, ok := ghost.Quest.Requires.(types.RiddleSolution)
	if !ok || sol.Answer != "echo" {
		t.Errorf("riddle requirement = %+v", ghost.Quest.Requires)
	}

	altar, ok := crypt.Objects[1].(types.Special)
	if !ok || altar.Action != "endGame" || !altar.Locked {
		t.Errorf("altar = %+v", crypt.Objects[1])
	}

	if len(crypt.Monsters) != 1 {
		t.Fatalf("expected 1 monster, got %d", len(crypt.Monsters))
	}
	m := crypt.Monsters[0]
	if m.ID != "wight1" || m.Type != "Wight" || m.Health != 20 || m.Experience != 15 {
		t.Errorf("monster = %+v", m)
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	if _, err := Load("testdata/bad_lua"); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestLoad_NoGameDef_Fails(t *testing.T) {
	_, err := Load("testdata/no_game")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no Game{} definition") {
		t.Errorf("error = %q, expected 'no Game{} definition'", err.Error())
	}
}

func TestLoad_BadExitTarget_Fails(t *testing.T) {
	_, err := Load("testdata/bad_exit")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "undefined location") {
		t.Errorf("error = %q, expected undefined location", err.Error())
	}
}

func TestLoad_DuplicateQuestIDs_Fails(t *testing.T) {
	_, err := Load("testdata/dup_quest")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "duplicate quest id") {
		t.Errorf("error = %q, expected duplicate quest id", err.Error())
	}
}

func TestLoad_MissingDirectory_Fails(t *testing.T) {
	if _, err := Load("testdata/does_not_exist"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSandbox_BlocksDangerousGlobals(t *testing.T) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	// os library is never opened.
	if err := L.DoString(`os.execute("echo pwned")`); err == nil {
		t.Error("expected sandbox to block os.execute")
	}
	// loadstring is removed from base.
	if err := L.DoString(`loadstring("return 1")()`); err == nil {
		t.Error("expected sandbox to block loadstring")
	}
}

func TestSortedLuaFiles_WorldFirst(t *testing.T) {
	got := sortedLuaFiles([]string{"zoo.lua", "world.lua", "alpha.lua"})
	want := []string{"world.lua", "alpha.lua", "zoo.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
