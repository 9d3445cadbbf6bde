// Package engine implements the game controller: the state machine that
// owns the player, the working world copy, and the active screen, and that
// routes every inbound intent to the combat, dialogue, quest, and inventory
// logic. All state transitions are synchronous reactions to one intent at a
// time; the monster's combat turn and the defeat-revival prompt are the only
// deferred operations, and both are guarded by combat-session identity.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nathoo/loststar/engine/dialogue"
	"github.com/nathoo/loststar/engine/inventory"
	"github.com/nathoo/loststar/engine/quest"
	"github.com/nathoo/loststar/engine/world"
	"github.com/nathoo/loststar/types"
)

// Level-up scaling.
const (
	levelUpHealthGain  = 20
	levelUpAttackGain  = 3
	levelUpDefenseGain = 2
	xpCurveFactor      = 1.5
)

// Default delays for the deferred combat operations.
const (
	DefaultMonsterTurnDelay = time.Second
	DefaultRevivalDelay     = 1500 * time.Millisecond
)

// Update is pushed to the observer when deferred work changes state outside
// an intent call.
type Update struct {
	Notes []types.Notification
}

// Options configures a Game. Zero values select the defaults.
type Options struct {
	Rand             Roller    // default: NewRNG(seed from clock)
	Scheduler        Scheduler // default: TimerScheduler
	MonsterTurnDelay time.Duration
	RevivalDelay     time.Duration
	Tracer           trace.Tracer   // default: noop
	Observer         func(Update)   // receives updates from deferred work
}

// Game is the controller for one play session.
type Game struct {
	mu    sync.Mutex
	defs  *world.Defs
	world *world.World

	player types.Player
	screen Screen
	modal  Modal
	kills  map[string]int // session kill counter, by monster type

	combat    *CombatSession
	sessionID uint64 // last issued combat session id

	rng          Roller
	sched        Scheduler
	monsterDelay time.Duration
	revivalDelay time.Duration
	tracer       trace.Tracer
	observer     func(Update)
}

// New creates a game at the title screen from pristine definitions.
func New(defs *world.Defs, opts Options) *Game {
	if opts.Rand == nil {
		opts.Rand = NewRNG(time.Now().UnixNano())
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.MonsterTurnDelay == 0 {
		opts.MonsterTurnDelay = DefaultMonsterTurnDelay
	}
	if opts.RevivalDelay == 0 {
		opts.RevivalDelay = DefaultRevivalDelay
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("loststar")
	}
	g := &Game{
		defs:         defs,
		rng:          opts.Rand,
		sched:        opts.Scheduler,
		monsterDelay: opts.MonsterTurnDelay,
		revivalDelay: opts.RevivalDelay,
		tracer:       opts.Tracer,
		observer:     opts.Observer,
	}
	g.reset()
	return g
}

// reset restores the pristine bootstrap state. Caller holds no lock (New)
// or the lock (Restart).
func (g *Game) reset() {
	g.world = world.New(g.defs)
	g.player = g.defs.Player
	g.player.Inventory = append([]types.Stack(nil), g.defs.Player.Inventory...)
	g.player.ActiveQuests = nil
	g.player.CompletedQuests = nil
	g.player.Location = g.defs.Start
	g.screen = Title{}
	g.modal = nil
	g.combat = nil
	g.kills = map[string]int{}
}

// SetObserver registers the callback receiving updates from deferred work.
// Call before any combat begins.
func (g *Game) SetObserver(fn func(Update)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observer = fn
}

// Screen returns the active screen.
func (g *Game) Screen() Screen {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.screen
}

// Modal returns the open modal overlay, or nil.
func (g *Game) Modal() Modal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modal
}

// Player returns a snapshot of the player state.
func (g *Game) Player() types.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.player
	p.Inventory = append([]types.Stack(nil), g.player.Inventory...)
	p.ActiveQuests = append([]types.Quest(nil), g.player.ActiveQuests...)
	p.CompletedQuests = append([]string(nil), g.player.CompletedQuests...)
	return p
}

// Location returns the player's current location from the working world.
func (g *Game) Location() types.Location {
	g.mu.Lock()
	defer g.mu.Unlock()
	loc := g.world.Location(g.player.Location)
	if loc == nil {
		return types.Location{}
	}
	cp := *loc
	cp.Objects = append([]types.Object(nil), loc.Objects...)
	cp.Monsters = append([]types.MonsterInstance(nil), loc.Monsters...)
	return cp
}

// QuestByID resolves a quest definition, for displaying completed quests.
func (g *Game) QuestByID(id string) (types.Quest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.QuestByID(id)
}

// KillCount returns the session kill counter for a monster type.
func (g *Game) KillCount(monsterType string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.kills[monsterType]
}

// Title returns the world title.
func (g *Game) Title() string { return g.defs.Title }

// Intro returns the opening flavor text.
func (g *Game) Intro() string { return g.defs.Intro }

// Outro returns the ending flavor text.
func (g *Game) Outro() string { return g.defs.Outro }

// span opens a tracing span for an intent and records the screen it ran in.
func (g *Game) span(intent string) trace.Span {
	_, span := g.tracer.Start(context.Background(), "intent."+intent)
	span.SetAttributes(attribute.String("screen", screenName(g.screen)))
	return span
}

func screenName(s Screen) string {
	switch s.(type) {
	case Title:
		return "title"
	case Exploring:
		return "exploring"
	case Dialogue:
		return "dialogue"
	case Combat:
		return "combat"
	case Shop:
		return "shop"
	case LevelUp:
		return "levelUp"
	case Ending:
		return "ending"
	default:
		return "unknown"
	}
}

// StartGame begins play. Valid only on the title screen.
func (g *Game) StartGame() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("startGame").End()
	if _, ok := g.screen.(Title); !ok {
		return nil
	}
	g.screen = Exploring{}
	return nil
}

// Restart returns to the title screen and resets the player and world to
// the pristine bootstrap. Valid only on the ending screen.
func (g *Game) Restart() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("restart").End()
	if _, ok := g.screen.(Ending); !ok {
		return nil
	}
	g.reset()
	return nil
}

// Interact handles the player touching an interactive object in the current
// location. Valid only while exploring with no modal open. Interacting with
// a consumed (removed) object id is an idempotent no-op.
func (g *Game) Interact(objectID string) []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("interact").End()
	if _, ok := g.screen.(Exploring); !ok || g.modal != nil {
		return nil
	}
	obj, ok := g.world.FindObject(g.player.Location, objectID)
	if !ok {
		return nil
	}

	switch o := obj.(type) {
	case types.NPC:
		// Quest grant is eager: it happens on first interaction, before
		// any dialogue has been read. Branch resolution stays lazy.
		if o.Quest != nil {
			quest.Grant(&g.player, *o.Quest)
		}
		g.screen = Dialogue{Session: dialogue.NewSession(o)}
		return nil

	case types.Pickup:
		inventory.Acquire(&g.player, o.Item, o.Quantity)
		g.world.RemoveObject(g.player.Location, o.ID)
		return []types.Notification{{
			Title: "Item Found!",
			Body:  fmt.Sprintf("You found: %s\n%s", o.Item.Name, o.Item.Description),
		}}

	case types.Exit:
		if o.Locked && !quest.IsCompleted(&g.player, o.UnlockQuest) {
			return []types.Notification{{
				Title: "Path Locked",
				Body:  "You need to complete a quest to unlock this path.",
			}}
		}
		g.player.Location = o.To
		return nil

	case types.Special:
		if o.Locked && !quest.IsCompleted(&g.player, o.UnlockQuest) {
			return []types.Notification{{
				Title: "Not Yet",
				Body:  "You need to complete a quest before you can interact with this.",
			}}
		}
		if o.Action == "endGame" {
			return g.endGame()
		}
		return nil
	}
	return nil
}

// endGame transitions to the ending and completes trigger-satisfied quests.
func (g *Game) endGame() []types.Notification {
	g.screen = Ending{}
	g.modal = nil
	var notes []types.Notification
	for _, q := range quest.CompleteTriggered(&g.player) {
		notes = append(notes, questCompletedNote(q))
	}
	return notes
}

// Encounter starts combat with a monster in the current location. Valid
// only while exploring with no modal open.
func (g *Game) Encounter(monsterID string) []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("encounter").End()
	if _, ok := g.screen.(Exploring); !ok || g.modal != nil {
		return nil
	}
	m, ok := g.world.FindMonster(g.player.Location, monsterID)
	if !ok {
		return nil
	}
	g.sessionID++
	g.combat = newCombatSession(g.sessionID, m, g.player.Location)
	g.screen = Combat{Session: g.combat}
	return nil
}

// ContinueDialogue advances the open dialogue by one line. Past the last
// line the session resolves: shop, then riddle, then back to exploring.
func (g *Game) ContinueDialogue() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("continueDialogue").End()
	d, ok := g.screen.(Dialogue)
	if !ok {
		return nil
	}
	if d.Session.Advance() {
		return nil
	}
	active := func(id string) bool { return quest.IsActive(&g.player, id) }
	switch res := d.Session.Resolve(active).(type) {
	case dialogue.ToShop:
		g.screen = Shop{Listing: res.Listing}
	case dialogue.ToRiddle:
		g.screen = Exploring{}
		g.modal = RiddleModal{Quest: res.Quest}
	case dialogue.ToExploring:
		g.screen = Exploring{}
	}
	return nil
}

// AnswerRiddle checks an answer against the riddle quest's solution,
// trimmed and case-folded. A correct answer completes the quest and closes
// the modal; a wrong one keeps the modal open for a retry.
func (g *Game) AnswerRiddle(answer string) []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("answerRiddle").End()
	rm, ok := g.modal.(RiddleModal)
	if !ok {
		return nil
	}
	sol, ok := rm.Quest.Requires.(types.RiddleSolution)
	if !ok {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(answer), sol.Answer) {
		return []types.Notification{{
			Title: "Incorrect",
			Body:  "That is not the right answer. Try again.",
		}}
	}
	notes := []types.Notification{{Title: "Correct!", Body: "You solved the riddle!"}}
	if q, done := quest.Complete(&g.player, rm.Quest.ID); done {
		notes = append(notes, questCompletedNote(q))
	}
	g.modal = nil
	g.screen = Exploring{}
	return notes
}

// Buy purchases the shop entry at index, paying with experience. No partial
// purchases: insufficient experience leaves inventory and experience
// unchanged.
func (g *Game) Buy(index int) []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("buy").End()
	s, ok := g.screen.(Shop)
	if !ok {
		return nil
	}
	if index < 0 || index >= len(s.Listing) {
		return nil
	}
	entry := s.Listing[index]
	if g.player.Experience < entry.Price {
		return []types.Notification{{
			Title: "Not Enough Money",
			Body:  "You don't have enough XP to buy this item.",
		}}
	}
	g.player.Experience -= entry.Price
	inventory.Acquire(&g.player, entry.Item, 1)
	return []types.Notification{{
		Title: "Purchase Successful",
		Body:  fmt.Sprintf("You bought a %s!", entry.Item.Name),
	}}
}

// CloseShop leaves the shop and returns to exploring.
func (g *Game) CloseShop() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("closeShop").End()
	if _, ok := g.screen.(Shop); !ok {
		return nil
	}
	g.screen = Exploring{}
	return nil
}

// ChooseLevelUpStat applies the chosen stat gain, scales the next-level
// threshold, and returns to exploring. Valid only on the level-up screen.
func (g *Game) ChooseLevelUpStat(stat types.Stat) []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("chooseLevelUpStat").End()
	if _, ok := g.screen.(LevelUp); !ok {
		return nil
	}
	switch stat {
	case types.StatHealth:
		g.player.MaxHealth += levelUpHealthGain
		g.player.Health = g.player.MaxHealth // full heal on level up
	case types.StatAttack:
		g.player.Attack += levelUpAttackGain
	case types.StatDefense:
		g.player.Defense += levelUpDefenseGain
	default:
		return nil
	}
	g.player.Level++
	g.player.ExperienceToNext = int(math.Floor(float64(g.player.ExperienceToNext) * xpCurveFactor))
	g.screen = Exploring{}
	return nil
}

// OpenInventory opens the inventory modal over exploring or combat.
func (g *Game) OpenInventory() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("openInventory").End()
	if !modalCompatible(g.screen) || g.modal != nil {
		return nil
	}
	g.modal = InventoryModal{}
	return nil
}

// OpenQuests opens the quest-log modal over exploring or combat.
func (g *Game) OpenQuests() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("openQuests").End()
	if !modalCompatible(g.screen) || g.modal != nil {
		return nil
	}
	g.modal = QuestsModal{}
	return nil
}

// CloseModal closes the open inventory or quests modal. The riddle modal is
// only closed by a correct answer.
func (g *Game) CloseModal() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("closeModal").End()
	switch g.modal.(type) {
	case InventoryModal, QuestsModal:
		g.modal = nil
	}
	return nil
}

func modalCompatible(s Screen) bool {
	switch s.(type) {
	case Exploring, Combat:
		return true
	}
	return false
}

// UseItem consumes one unit of the inventory stack at index and applies all
// of its effects at once. Valid while exploring, or during combat through
// the inventory modal; using an item never consumes the combat turn. An
// out-of-range index is a silent no-op.
func (g *Game) UseItem(index int) []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("useItem").End()

	inCombat := false
	switch g.screen.(type) {
	case Exploring:
	case Combat:
		if _, ok := g.modal.(InventoryModal); !ok {
			return nil
		}
		inCombat = true
	default:
		return nil
	}

	item, ok := inventory.Consume(&g.player, index)
	if !ok {
		return nil
	}

	var notes []types.Notification
	eff := item.Effect
	if eff.Heal > 0 {
		g.player.Health += eff.Heal
		if g.player.Health > g.player.MaxHealth {
			g.player.Health = g.player.MaxHealth
		}
	}
	g.player.Attack += eff.Attack
	g.player.Defense += eff.Defense
	if eff.QuestID != "" {
		if q, active := quest.Active(&g.player, eff.QuestID); active {
			if req, ok := q.Requires.(types.PossessItem); ok && req.ItemName == item.Name {
				for _, done := range quest.EvaluateItem(&g.player, item.Name) {
					notes = append(notes, questCompletedNote(done))
				}
			}
		}
	}

	if inCombat {
		// Using an item does not consume the turn; just close the modal.
		g.modal = nil
		if g.combat != nil {
			g.combat.logf("You use a %s.", item.Name)
		}
	}
	return notes
}

// CombatAction handles the player's combat turn. Attack and defend yield
// the turn to the monster, whose reply is scheduled after a delay; useItem
// opens the inventory modal without ending the turn.
func (g *Game) CombatAction(action types.CombatAction) []types.Notification {
	g.mu.Lock()
	defer g.span("combatAction").End()
	c, ok := g.screen.(Combat)
	if !ok || g.modal != nil || !c.Session.PlayerTurn || c.Session.AwaitingRevival {
		g.mu.Unlock()
		return nil
	}
	s := c.Session

	switch action {
	case types.ActionUseItem:
		g.modal = InventoryModal{}
		g.mu.Unlock()
		return nil

	case types.ActionDefend:
		s.TempDefense = defendBonus(g.player.Defense)
		s.logf("You defend, increasing your defense temporarily.")
		s.PlayerTurn = false

	case types.ActionAttack:
		dmg := attackDamage(g.player.Attack, s.Monster.Defense, g.rng)
		s.MonsterHealth -= dmg
		if s.MonsterHealth < 0 {
			s.MonsterHealth = 0
		}
		s.logf("You attacked for %d damage!", dmg)
		if s.MonsterHealth == 0 {
			notes := g.victory(s)
			g.mu.Unlock()
			return notes
		}
		s.PlayerTurn = false

	default:
		g.mu.Unlock()
		return nil
	}

	sid := s.ID
	g.mu.Unlock()
	g.sched.After(g.monsterDelay, func() { g.monsterTurn(sid) })
	return nil
}

// victory resolves a defeated monster: award experience, bump the session
// kill counter, re-evaluate defeat quests, remove the monster from its
// location, and leave combat for the level-up screen when the threshold
// was crossed, otherwise back to exploring. Caller holds the lock.
func (g *Game) victory(s *CombatSession) []types.Notification {
	s.logf("You defeated the %s!", s.Monster.Type)
	s.logf("You gained %d experience!", s.Monster.Experience)
	g.player.Experience += s.Monster.Experience
	g.kills[s.Monster.Type]++

	var notes []types.Notification
	for _, q := range quest.EvaluateDefeat(&g.player, g.kills, s.Monster.Type) {
		notes = append(notes, questCompletedNote(q))
	}

	g.world.RemoveMonster(s.LocationID, s.Monster.ID)
	g.combat = nil

	// Level-up check takes priority over returning to exploration.
	if g.player.Experience >= g.player.ExperienceToNext {
		g.screen = LevelUp{}
	} else {
		g.screen = Exploring{}
	}
	return notes
}

// monsterTurn is the deferred adversary turn. It is a no-op unless the
// session it was scheduled for is still the live one and the turn is still
// the monster's.
func (g *Game) monsterTurn(sessionID uint64) {
	g.mu.Lock()
	s := g.combat
	if s == nil || s.ID != sessionID || s.PlayerTurn || s.AwaitingRevival {
		g.mu.Unlock()
		return
	}

	dmg := monsterDamage(s.Monster.Attack, g.player.Defense+s.TempDefense, g.rng)
	s.TempDefense = 0 // one turn only, spent regardless of outcome
	g.player.Health -= dmg
	if g.player.Health < 0 {
		g.player.Health = 0
	}
	s.logf("%s attacks for %d damage!", s.Monster.Type, dmg)

	if g.player.Health == 0 {
		s.logf("You were defeated!")
		s.AwaitingRevival = true
		g.mu.Unlock()
		g.sched.After(g.revivalDelay, func() { g.revivalPrompt(sessionID) })
		g.notify(nil)
		return
	}

	s.PlayerTurn = true
	g.mu.Unlock()
	g.notify(nil)
}

// revivalPrompt delivers the blocking defeat notification once the revival
// delay has passed. Guarded by session identity like the monster turn.
func (g *Game) revivalPrompt(sessionID uint64) {
	g.mu.Lock()
	s := g.combat
	if s == nil || s.ID != sessionID || !s.AwaitingRevival {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	g.notify([]types.Notification{{
		Title:    "Defeated",
		Body:     "You were defeated, but don't worry! You've been revived at the village with half health.",
		Blocking: true,
	}})
}

// AcknowledgeDefeat is the player's response to the defeat notification:
// revive at half of max health, teleport to the starting location, and
// discard the combat session.
func (g *Game) AcknowledgeDefeat() []types.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.span("acknowledgeDefeat").End()
	if g.combat == nil || !g.combat.AwaitingRevival {
		return nil
	}
	g.player.Health = g.player.MaxHealth / 2
	g.player.Location = g.defs.Start
	g.combat = nil
	g.modal = nil
	g.screen = Exploring{}
	return nil
}

// notify pushes an update to the observer, if one is registered. Called
// without the lock held.
func (g *Game) notify(notes []types.Notification) {
	if g.observer != nil {
		g.observer(Update{Notes: notes})
	}
}

func questCompletedNote(q types.Quest) types.Notification {
	return types.Notification{
		Title: "Quest Completed!",
		Body:  fmt.Sprintf("You've completed: %s", q.Name),
	}
}
