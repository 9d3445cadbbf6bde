// Package types defines the shared data structures for the Lost Star engine.
// This package contains only type definitions — no logic beyond variant tags.
package types

// Stat is a level-up stat choice.
type Stat string

const (
	StatHealth  Stat = "health"
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
)

// CombatAction is a player action during a combat turn.
type CombatAction string

const (
	ActionAttack  CombatAction = "attack"
	ActionDefend  CombatAction = "defend"
	ActionUseItem CombatAction = "useItem"
)

// Notification is a user-facing message produced by the engine. Blocking
// notifications gate a transition on acknowledgment (e.g. defeat revival);
// informational ones are display-and-forget.
type Notification struct {
	Title    string
	Body     string
	Blocking bool
}

// ItemEffect describes what using an item does. All non-zero fields are
// applied simultaneously on use.
type ItemEffect struct {
	Heal    int    // restore health, clamped to max
	Attack  int    // permanent attack increase
	Defense int    // permanent defense increase
	QuestID string // completes this quest if its item requirement names the item
}

// ItemDef is the definition of an item.
type ItemDef struct {
	ID          string
	Name        string
	Description string
	Effect      ItemEffect
}

// Stack is an inventory entry: an item with a stacked quantity.
type Stack struct {
	Item     ItemDef
	Quantity int
}

// Requirement is the predicate that completes a quest. A nil Requirement
// means the quest is satisfied by an external trigger.
type Requirement interface{ requirement() }

// DefeatCount requires defeating Count monsters of MonsterType in total.
type DefeatCount struct {
	MonsterType string
	Count       int
}

// PossessItem requires using a possessed item named ItemName.
type PossessItem struct {
	ItemName string
	Count    int
}

// RiddleSolution requires answering a riddle with Answer.
type RiddleSolution struct {
	Answer string
}

func (DefeatCount) requirement()    {}
func (PossessItem) requirement()    {}
func (RiddleSolution) requirement() {}

// Quest is a task granted by an NPC.
type Quest struct {
	ID          string
	Name        string
	Description string
	Requires    Requirement // nil = external trigger
}

// ShopEntry is one purchasable item in an NPC's shop listing.
type ShopEntry struct {
	Item  ItemDef
	Price int
}

// Object is an interactive object placed in a location. Variants: NPC,
// Pickup, Exit, Special.
type Object interface {
	ObjectID() string
	ObjectName() string
}

// NPC is a character the player can talk to. It may grant a quest and may
// carry a shop listing.
type NPC struct {
	ID       string
	Name     string
	Dialogue []string
	Quest    *Quest
	Shop     []ShopEntry
}

// Pickup is an item lying in a location. Picking it up removes it.
type Pickup struct {
	ID       string
	Name     string
	Item     ItemDef
	Quantity int
}

// Exit leads to another location. A locked exit opens once UnlockQuest is
// completed.
type Exit struct {
	ID          string
	Name        string
	To          string
	Locked      bool
	UnlockQuest string
}

// Special triggers a scripted action (e.g. "endGame"), with the same lock
// rule as Exit.
type Special struct {
	ID          string
	Name        string
	Description string
	Action      string
	Locked      bool
	UnlockQuest string
}

func (o NPC) ObjectID() string     { return o.ID }
func (o Pickup) ObjectID() string  { return o.ID }
func (o Exit) ObjectID() string    { return o.ID }
func (o Special) ObjectID() string { return o.ID }

func (o NPC) ObjectName() string     { return o.Name }
func (o Pickup) ObjectName() string  { return o.Name }
func (o Exit) ObjectName() string    { return o.Name }
func (o Special) ObjectName() string { return o.Name }

// MonsterInstance is one monster placed in a location. Experience is the
// reward for defeating it.
type MonsterInstance struct {
	ID         string
	Type       string
	Health     int
	Attack     int
	Defense    int
	Experience int
}

// Location is one node of the world graph.
type Location struct {
	ID          string
	Name        string
	Description string
	Objects     []Object
	Monsters    []MonsterInstance
}

// Player holds the player's runtime state, including the quest ledger.
// Invariants: 0 <= Health <= MaxHealth; Experience >= 0; a quest id appears
// in at most one of ActiveQuests / CompletedQuests.
type Player struct {
	Name             string
	Level            int
	Health           int
	MaxHealth        int
	Attack           int
	Defense          int
	Experience       int
	ExperienceToNext int
	Inventory        []Stack
	ActiveQuests     []Quest  // offer order
	CompletedQuests  []string // completion order
	Location         string
}
