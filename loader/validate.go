package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/loststar/engine/world"
	"github.com/nathoo/loststar/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *world.Defs) error {
	ve := &ValidationError{}

	// Title required.
	if defs.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}

	// Start location exists.
	if defs.Start == "" {
		ve.Errors = append(ve.Errors, "Game.start is required")
	} else if _, ok := defs.Locations[defs.Start]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start location %q not found in defined locations", defs.Start))
	}

	// Gather quest ids and monster types while checking per-location rules.
	questIDs := map[string]bool{}
	monsterTypes := map[string]bool{}
	itemNames := map[string]bool{}
	objectIDs := map[string]bool{}
	monsterIDs := map[string]bool{}

	for _, st := range defs.Player.Inventory {
		itemNames[st.Item.Name] = true
	}

	for locID, loc := range defs.Locations {
		for _, m := range loc.Monsters {
			monsterTypes[m.Type] = true
			if m.ID == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q has a monster with no id", locID))
				continue
			}
			if monsterIDs[m.ID] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"duplicate monster id %q", m.ID))
			}
			monsterIDs[m.ID] = true
			if m.Health <= 0 || m.Attack <= 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"monster %q must have positive health and attack", m.ID))
			}
		}
		for _, obj := range loc.Objects {
			if obj.ObjectID() == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %q has an object with no id", locID))
				continue
			}
			if objectIDs[obj.ObjectID()] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"duplicate object id %q", obj.ObjectID()))
			}
			objectIDs[obj.ObjectID()] = true

			if npc, ok := obj.(types.NPC); ok {
				validateNPC(locID, npc, questIDs, itemNames, ve)
			}
			if p, ok := obj.(types.Pickup); ok {
				itemNames[p.Item.Name] = true
			}
		}
	}

	// Second pass: references that may point forward (exits, unlock quests,
	// requirement targets).
	for locID, loc := range defs.Locations {
		for _, obj := range loc.Objects {
			switch o := obj.(type) {
			case types.Exit:
				if _, ok := defs.Locations[o.To]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"location %q exit %q points to undefined location %q", locID, o.ID, o.To))
				}
				if o.Locked && !questIDs[o.UnlockQuest] {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"exit %q unlock quest %q is not defined by any npc", o.ID, o.UnlockQuest))
				}
			case types.Special:
				if o.Locked && !questIDs[o.UnlockQuest] {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"special %q unlock quest %q is not defined by any npc", o.ID, o.UnlockQuest))
				}
			case types.NPC:
				if o.Quest == nil {
					continue
				}
				switch req := o.Quest.Requires.(type) {
				case types.DefeatCount:
					if !monsterTypes[req.MonsterType] {
						ve.Warnings = append(ve.Warnings, fmt.Sprintf(
							"quest %q targets monster type %q which never spawns", o.Quest.ID, req.MonsterType))
					}
				case types.PossessItem:
					if !itemNames[req.ItemName] {
						ve.Warnings = append(ve.Warnings, fmt.Sprintf(
							"quest %q requires item %q which is not obtainable", o.Quest.ID, req.ItemName))
					}
				}
			}
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateNPC(locID string, npc types.NPC, questIDs, itemNames map[string]bool, ve *ValidationError) {
	if len(npc.Dialogue) == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"npc %q in %q has no dialogue", npc.ID, locID))
	}
	if npc.Quest != nil {
		if npc.Quest.ID == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc %q quest has no id", npc.ID))
		} else {
			if questIDs[npc.Quest.ID] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"duplicate quest id %q", npc.Quest.ID))
			}
			questIDs[npc.Quest.ID] = true
		}
		if r, ok := npc.Quest.Requires.(types.RiddleSolution); ok && r.Answer == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"quest %q riddle has an empty answer", npc.Quest.ID))
		}
	}
	for _, entry := range npc.Shop {
		if entry.Price <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc %q sells %q for a non-positive price", npc.ID, entry.Item.Name))
		}
		itemNames[entry.Item.Name] = true
	}
}
