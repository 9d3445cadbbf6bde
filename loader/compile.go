// Package loader loads Lua world content into Go structs at load time.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/loststar/engine/world"
	"github.com/nathoo/loststar/types"
	lua "github.com/yuin/gopher-lua"
)

// rawItem holds an item table before compilation.
type rawItem struct {
	id    string
	table *lua.LTable
}

// rawLocation holds a location table before compilation.
type rawLocation struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntDefault returns an int field from a Lua table, or def if missing.
func getIntDefault(tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns an array field from a Lua table as a string slice.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*world.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	// Items first: pickups, stock, and sales reference them by id.
	items := map[string]types.ItemDef{}
	for _, raw := range coll.items {
		if _, dup := items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item id %q", raw.id)
		}
		items[raw.id] = compileItem(raw)
	}

	defs := &world.Defs{
		Title:     getString(coll.game, "title"),
		Intro:     getString(coll.game, "intro"),
		Outro:     getString(coll.game, "outro"),
		Start:     getString(coll.game, "start"),
		Locations: map[string]types.Location{},
	}

	player, err := compilePlayer(coll.game, items)
	if err != nil {
		return nil, err
	}
	player.Location = defs.Start
	defs.Player = player

	for _, raw := range coll.locations {
		loc, err := compileLocation(raw, items)
		if err != nil {
			return nil, fmt.Errorf("compiling location %s: %w", raw.id, err)
		}
		if _, dup := defs.Locations[loc.ID]; dup {
			return nil, fmt.Errorf("duplicate location id %q", loc.ID)
		}
		defs.Locations[loc.ID] = loc
	}

	return defs, nil
}

func compileItem(raw rawItem) types.ItemDef {
	tbl := raw.table
	return types.ItemDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Effect:      compileEffect(getTable(tbl, "effect")),
	}
}

// compileEffect merges one effect table, or an array of effect tables, into
// a single ItemEffect. All populated effect fields apply at once when the
// item is used.
func compileEffect(tbl *lua.LTable) types.ItemEffect {
	var eff types.ItemEffect
	if tbl == nil {
		return eff
	}
	merge := func(t *lua.LTable) {
		eff.Heal += getInt(t, "heal")
		eff.Attack += getInt(t, "attack")
		eff.Defense += getInt(t, "defense")
		if q := getString(t, "quest"); q != "" {
			eff.QuestID = q
		}
	}
	if maxN := tbl.MaxN(); maxN > 0 {
		for i := 1; i <= maxN; i++ {
			if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
				merge(t)
			}
		}
		return eff
	}
	merge(tbl)
	return eff
}

func compilePlayer(game *lua.LTable, items map[string]types.ItemDef) (types.Player, error) {
	tbl := getTable(game, "player")
	if tbl == nil {
		return types.Player{}, fmt.Errorf("Game.player is required")
	}
	health := getIntDefault(tbl, "health", 100)
	p := types.Player{
		Name:             getString(tbl, "name"),
		Level:            1,
		Health:           health,
		MaxHealth:        health,
		Attack:           getIntDefault(tbl, "attack", 10),
		Defense:          getIntDefault(tbl, "defense", 5),
		Experience:       getInt(tbl, "experience"),
		ExperienceToNext: getIntDefault(tbl, "experience_to_next", 100),
	}

	if inv := getTable(tbl, "inventory"); inv != nil {
		for i := 1; i <= inv.MaxN(); i++ {
			st, ok := inv.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			itemID := getString(st, "item")
			item, ok := items[itemID]
			if !ok {
				return types.Player{}, fmt.Errorf("player inventory references undefined item %q", itemID)
			}
			p.Inventory = append(p.Inventory, types.Stack{
				Item:     item,
				Quantity: getIntDefault(st, "quantity", 1),
			})
		}
	}
	return p, nil
}

func compileLocation(raw rawLocation, items map[string]types.ItemDef) (types.Location, error) {
	tbl := raw.table
	loc := types.Location{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
	}

	if objects := getTable(tbl, "objects"); objects != nil {
		for i := 1; i <= objects.MaxN(); i++ {
			objTbl, ok := objects.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			obj, err := compileObject(objTbl, items)
			if err != nil {
				return types.Location{}, err
			}
			if obj != nil {
				loc.Objects = append(loc.Objects, obj)
			}
		}
	}

	if monsters := getTable(tbl, "monsters"); monsters != nil {
		for i := 1; i <= monsters.MaxN(); i++ {
			mTbl, ok := monsters.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			loc.Monsters = append(loc.Monsters, types.MonsterInstance{
				ID:         getString(mTbl, "id"),
				Type:       getString(mTbl, "type"),
				Health:     getInt(mTbl, "health"),
				Attack:     getInt(mTbl, "attack"),
				Defense:    getInt(mTbl, "defense"),
				Experience: getInt(mTbl, "experience"),
			})
		}
	}

	return loc, nil
}

func compileObject(tbl *lua.LTable, items map[string]types.ItemDef) (types.Object, error) {
	kind := getString(tbl, "kind")
	switch kind {
	case "npc":
		npc := types.NPC{
			ID:       getString(tbl, "id"),
			Name:     getString(tbl, "name"),
			Dialogue: getStrings(tbl, "dialogue"),
		}
		if qTbl := getTable(tbl, "quest"); qTbl != nil {
			q, err := compileQuest(qTbl)
			if err != nil {
				return nil, fmt.Errorf("npc %s: %w", npc.ID, err)
			}
			npc.Quest = &q
		}
		if shop := getTable(tbl, "shop"); shop != nil {
			for i := 1; i <= shop.MaxN(); i++ {
				entry, ok := shop.RawGetInt(i).(*lua.LTable)
				if !ok {
					continue
				}
				itemID := getString(entry, "item")
				item, ok := items[itemID]
				if !ok {
					return nil, fmt.Errorf("npc %s shop references undefined item %q", npc.ID, itemID)
				}
				npc.Shop = append(npc.Shop, types.ShopEntry{
					Item:  item,
					Price: getInt(entry, "price"),
				})
			}
		}
		return npc, nil

	case "pickup":
		itemID := getString(tbl, "item")
		item, ok := items[itemID]
		if !ok {
			return nil, fmt.Errorf("pickup %s references undefined item %q", getString(tbl, "id"), itemID)
		}
		return types.Pickup{
			ID:       getString(tbl, "id"),
			Name:     getString(tbl, "name"),
			Item:     item,
			Quantity: getIntDefault(tbl, "quantity", 1),
		}, nil

	case "exit":
		return types.Exit{
			ID:          getString(tbl, "id"),
			Name:        getString(tbl, "name"),
			To:          getString(tbl, "to"),
			Locked:      getBool(tbl, "locked", false),
			UnlockQuest: getString(tbl, "unlock_quest"),
		}, nil

	case "special":
		return types.Special{
			ID:          getString(tbl, "id"),
			Name:        getString(tbl, "name"),
			Description: getString(tbl, "description"),
			Action:      getString(tbl, "action"),
			Locked:      getBool(tbl, "locked", false),
			UnlockQuest: getString(tbl, "unlock_quest"),
		}, nil
	}
	return nil, fmt.Errorf("unknown object kind %q", kind)
}

func compileQuest(tbl *lua.LTable) (types.Quest, error) {
	q := types.Quest{
		ID:          getString(tbl, "id"),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
	}
	reqTbl := getTable(tbl, "requires")
	if reqTbl == nil {
		return q, nil
	}
	switch reqType := getString(reqTbl, "type"); reqType {
	case "defeat":
		q.Requires = types.DefeatCount{
			MonsterType: getString(reqTbl, "monster"),
			Count:       getInt(reqTbl, "count"),
		}
	case "possess":
		q.Requires = types.PossessItem{
			ItemName: getString(reqTbl, "item"),
			Count:    getInt(reqTbl, "count"),
		}
	case "riddle":
		q.Requires = types.RiddleSolution{
			Answer: getString(reqTbl, "answer"),
		}
	default:
		return q, fmt.Errorf("quest %s: unknown requirement type %q", q.ID, reqType)
	}
	return q, nil
}

// sortedLuaFiles returns .lua files in a directory, with world.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var worldFile string
	var others []string
	for _, f := range files {
		if f == "world.lua" {
			worldFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if worldFile != "" {
		return append([]string{worldFile}, others...)
	}
	return others
}
