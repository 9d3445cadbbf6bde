// Package dialogue implements the linear NPC dialogue walker. A session
// steps through the NPC's lines one "continue" at a time; when the last line
// is passed it resolves into a shop, a riddle, or a return to exploration.
package dialogue

import "github.com/nathoo/loststar/types"

// Session walks one NPC's dialogue lines.
type Session struct {
	NPC   types.NPC
	Index int // current line, 0-based
}

// NewSession opens a dialogue with the NPC at its first line.
func NewSession(npc types.NPC) *Session {
	return &Session{NPC: npc}
}

// Line returns the current line, or "" if the session has run past the end.
func (s *Session) Line() string {
	if s.Index < 0 || s.Index >= len(s.NPC.Dialogue) {
		return ""
	}
	return s.NPC.Dialogue[s.Index]
}

// Advance moves to the next line. It returns false once the index has
// reached the line count, meaning the session should resolve. Advancing a
// finished session stays finished.
func (s *Session) Advance() bool {
	if s.Index >= len(s.NPC.Dialogue) {
		return false
	}
	s.Index++
	return s.Index < len(s.NPC.Dialogue)
}

// Resolution is where a finished dialogue goes. Variants: ToShop, ToRiddle,
// ToExploring.
type Resolution interface{ resolution() }

// ToShop opens the NPC's shop listing.
type ToShop struct{ Listing []types.ShopEntry }

// ToRiddle opens the riddle modal for the NPC's quest.
type ToRiddle struct{ Quest types.Quest }

// ToExploring returns to the exploration screen.
type ToExploring struct{}

func (ToShop) resolution()      {}
func (ToRiddle) resolution()    {}
func (ToExploring) resolution() {}

// Resolve decides where a finished session goes: shop first, then riddle
// (only while the riddle quest is still active), then back to exploring.
func (s *Session) Resolve(questActive func(questID string) bool) Resolution {
	if len(s.NPC.Shop) > 0 {
		return ToShop{Listing: s.NPC.Shop}
	}
	if q := s.NPC.Quest; q != nil {
		if _, ok := q.Requires.(types.RiddleSolution); ok && questActive(q.ID) {
			return ToRiddle{Quest: *q}
		}
	}
	return ToExploring{}
}
