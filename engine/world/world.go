// Package world holds the location catalog. Definitions loaded from content
// are immutable; the engine works on an owned copy whose only mutations are
// removals of consumed pickups and defeated monsters. Restart is a fresh
// copy of the pristine definitions.
package world

import "github.com/nathoo/loststar/types"

// Defs is the immutable world bootstrap produced by the loader.
type Defs struct {
	Title     string
	Intro     string
	Outro     string
	Start     string
	Player    types.Player // starting snapshot, including initial inventory
	Locations map[string]types.Location
}

// World is the mutable working copy of the location catalog for one session.
type World struct {
	locations map[string]*types.Location
}

// New builds a working copy from the pristine definitions.
func New(defs *Defs) *World {
	w := &World{locations: make(map[string]*types.Location, len(defs.Locations))}
	for id, loc := range defs.Locations {
		cp := loc
		cp.Objects = append([]types.Object(nil), loc.Objects...)
		cp.Monsters = append([]types.MonsterInstance(nil), loc.Monsters...)
		w.locations[id] = &cp
	}
	return w
}

// Location returns the location with the given id, or nil.
func (w *World) Location(id string) *types.Location {
	return w.locations[id]
}

// FindObject returns the object with the given id in a location.
func (w *World) FindObject(locationID, objectID string) (types.Object, bool) {
	loc := w.locations[locationID]
	if loc == nil {
		return nil, false
	}
	for _, obj := range loc.Objects {
		if obj.ObjectID() == objectID {
			return obj, true
		}
	}
	return nil, false
}

// RemoveObject removes the object with the given id from a location.
// Removing an absent object is a no-op.
func (w *World) RemoveObject(locationID, objectID string) {
	loc := w.locations[locationID]
	if loc == nil {
		return
	}
	for i, obj := range loc.Objects {
		if obj.ObjectID() == objectID {
			loc.Objects = append(loc.Objects[:i], loc.Objects[i+1:]...)
			return
		}
	}
}

// FindMonster returns the monster with the given id in a location.
func (w *World) FindMonster(locationID, monsterID string) (types.MonsterInstance, bool) {
	loc := w.locations[locationID]
	if loc == nil {
		return types.MonsterInstance{}, false
	}
	for _, m := range loc.Monsters {
		if m.ID == monsterID {
			return m, true
		}
	}
	return types.MonsterInstance{}, false
}

// RemoveMonster removes the monster with the given id from a location.
// Removing an absent monster is a no-op.
func (w *World) RemoveMonster(locationID, monsterID string) {
	loc := w.locations[locationID]
	if loc == nil {
		return
	}
	for i, m := range loc.Monsters {
		if m.ID == monsterID {
			loc.Monsters = append(loc.Monsters[:i], loc.Monsters[i+1:]...)
			return
		}
	}
}

// QuestByID looks a quest definition up across all NPCs. Used to display
// completed quests, whose full definition lives on the granting NPC.
func (w *World) QuestByID(questID string) (types.Quest, bool) {
	for _, loc := range w.locations {
		for _, obj := range loc.Objects {
			npc, ok := obj.(types.NPC)
			if !ok || npc.Quest == nil {
				continue
			}
			if npc.Quest.ID == questID {
				return *npc.Quest, true
			}
		}
	}
	return types.Quest{}, false
}
