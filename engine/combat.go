package engine

import (
	"fmt"
	"math"

	"github.com/nathoo/loststar/types"
)

// Damage multiplier bands. The player's band is wider than the monster's:
// player offense is more volatile, and more rewarding on a high roll.
const (
	playerRollLo  = 0.75
	playerRollHi  = 1.25
	monsterRollLo = 0.85
	monsterRollHi = 1.15
)

// CombatSession is one battle between the player and a monster snapshot.
// The snapshot's MonsterHealth is mutable; the monster instance in the world
// is only removed on victory. Sessions are identified so that deferred
// monster turns and revival prompts firing after teardown are no-ops.
type CombatSession struct {
	ID              uint64
	Monster         types.MonsterInstance
	MonsterHealth   int
	PlayerTurn      bool
	Log             []string
	TempDefense     int  // one-turn defend bonus, cleared after the monster acts
	AwaitingRevival bool // player at 0 health, waiting for acknowledgment
	LocationID      string
}

func newCombatSession(id uint64, m types.MonsterInstance, locationID string) *CombatSession {
	return &CombatSession{
		ID:            id,
		Monster:       m,
		MonsterHealth: m.Health,
		PlayerTurn:    true,
		Log:           []string{fmt.Sprintf("You encountered a %s!", m.Type)},
		LocationID:    locationID,
	}
}

func (c *CombatSession) logf(format string, args ...any) {
	c.Log = append(c.Log, fmt.Sprintf(format, args...))
}

// attackDamage computes the player's attack damage:
// max(1, floor(attack * U(0.75, 1.25) - defense/2)).
func attackDamage(attack, defense int, r Roller) int {
	roll := r.Uniform(playerRollLo, playerRollHi)
	return clampDamage(float64(attack)*roll - float64(defense)/2)
}

// monsterDamage computes the monster's attack damage against the player's
// effective defense (base plus any one-turn defend bonus):
// max(1, floor(attack * U(0.85, 1.15) - defense/2)).
func monsterDamage(attack, defense int, r Roller) int {
	roll := r.Uniform(monsterRollLo, monsterRollHi)
	return clampDamage(float64(attack)*roll - float64(defense)/2)
}

func clampDamage(raw float64) int {
	dmg := int(math.Floor(raw))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// defendBonus is the one-turn temporary defense gained by defending.
func defendBonus(defense int) int {
	return defense / 2
}
