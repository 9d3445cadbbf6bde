package engine

import (
	"github.com/nathoo/loststar/engine/dialogue"
	"github.com/nathoo/loststar/types"
)

// Screen is the top-level mode the game is in. Each variant carries exactly
// the payload that mode needs; there are no nullable "current X" fields that
// only mean something in one state.
type Screen interface{ screen() }

// Title is the start screen shown before a game begins and after a restart.
type Title struct{}

// Exploring is the map view of the current location.
type Exploring struct{}

// Dialogue is an open NPC conversation.
type Dialogue struct{ Session *dialogue.Session }

// Combat is an active battle.
type Combat struct{ Session *CombatSession }

// Shop is an open shop listing.
type Shop struct{ Listing []types.ShopEntry }

// LevelUp is the stat-choice screen entered when experience crosses the
// threshold.
type LevelUp struct{}

// Ending is the terminal victory screen.
type Ending struct{}

func (Title) screen()     {}
func (Exploring) screen() {}
func (Dialogue) screen()  {}
func (Combat) screen()    {}
func (Shop) screen()      {}
func (LevelUp) screen()   {}
func (Ending) screen()    {}

// Modal is an overlay that can be open on top of a compatible screen:
// Inventory and Quests over Exploring or Combat, Riddle over Exploring.
// A nil Modal means no overlay is open.
type Modal interface{ modal() }

// InventoryModal lists the player's item stacks.
type InventoryModal struct{}

// QuestsModal lists active and completed quests.
type QuestsModal struct{}

// RiddleModal prompts for the answer to a riddle quest.
type RiddleModal struct{ Quest types.Quest }

func (InventoryModal) modal() {}
func (QuestsModal) modal()    {}
func (RiddleModal) modal()    {}
