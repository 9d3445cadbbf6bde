package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerObjectHelpers(L)
	registerRequirementHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Item "id" { ... } — curried: Item("id") returns a function that takes a table.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawItem{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Location "id" { ... } — curried.
	L.SetGlobal("Location", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.locations = append(coll.locations, rawLocation{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

// taggedTable builds a constructor that tags its table with a kind and
// pushes it back, for use inside objects or monsters lists.
func taggedTable(L *lua.LState, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString("kind", lua.LString(kind))
		L.Push(tbl)
		return 1
	})
}

func registerObjectHelpers(L *lua.LState) {
	// NPC { id = ..., name = ..., dialogue = {...}, quest = Quest{...}, shop = {...} }
	L.SetGlobal("NPC", taggedTable(L, "npc"))

	// Pickup { id = ..., name = ..., item = "item_id", quantity = 1 }
	L.SetGlobal("Pickup", taggedTable(L, "pickup"))

	// Exit { id = ..., name = ..., to = "location_id", locked = true, unlock_quest = "..." }
	L.SetGlobal("Exit", taggedTable(L, "exit"))

	// Special { id = ..., name = ..., description = ..., action = "endGame", ... }
	L.SetGlobal("Special", taggedTable(L, "special"))

	// Monster { id = ..., type = ..., health = ..., attack = ..., defense = ..., experience = ... }
	L.SetGlobal("Monster", taggedTable(L, "monster"))

	// Quest { id = ..., name = ..., description = ..., requires = Defeat(...) }
	L.SetGlobal("Quest", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))

	// Stock("item_id", quantity) — starting inventory entry.
	L.SetGlobal("Stock", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		quantity := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("quantity", lua.LNumber(quantity))
		L.Push(tbl)
		return 1
	}))

	// Sale("item_id", price) — shop listing entry, priced in experience.
	L.SetGlobal("Sale", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		price := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("price", lua.LNumber(price))
		L.Push(tbl)
		return 1
	}))
}

func registerRequirementHelpers(L *lua.LState) {
	// Defeat("Monster Type", count)
	L.SetGlobal("Defeat", L.NewFunction(func(L *lua.LState) int {
		monsterType := L.CheckString(1)
		count := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("defeat"))
		tbl.RawSetString("monster", lua.LString(monsterType))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))

	// Possess("Item Name", count)
	L.SetGlobal("Possess", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		count := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("possess"))
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))

	// Riddle("answer")
	L.SetGlobal("Riddle", L.NewFunction(func(L *lua.LState) int {
		answer := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("riddle"))
		tbl.RawSetString("answer", lua.LString(answer))
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Heal(amount)
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("heal", lua.LNumber(amount))
		L.Push(tbl)
		return 1
	}))

	// RaiseAttack(amount)
	L.SetGlobal("RaiseAttack", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("attack", lua.LNumber(amount))
		L.Push(tbl)
		return 1
	}))

	// RaiseDefense(amount)
	L.SetGlobal("RaiseDefense", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("defense", lua.LNumber(amount))
		L.Push(tbl)
		return 1
	}))

	// QuestItem("quest_id") — using the item completes the quest.
	L.SetGlobal("QuestItem", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("quest", lua.LString(quest))
		L.Push(tbl)
		return 1
	}))
}
