package quest

import (
	"testing"

	"github.com/nathoo/loststar/types"
)

func bugQuest() types.Quest {
	return types.Quest{
		ID: "q_bugs", Name: "Clear the Forest",
		Requires: types.DefeatCount{MonsterType: "Bug", Count: 3},
	}
}

func TestGrant_NoDuplicates(t *testing.T) {
	p := &types.Player{}
	if !Grant(p, bugQuest()) {
		t.Fatalf("first grant should succeed")
	}
	if Grant(p, bugQuest()) {
		t.Fatalf("second grant should be a no-op")
	}
	if len(p.ActiveQuests) != 1 {
		t.Errorf("expected 1 active quest, got %d", len(p.ActiveQuests))
	}
}

func TestGrant_NeverRegrantsCompleted(t *testing.T) {
	p := &types.Player{}
	Grant(p, bugQuest())
	Complete(p, "q_bugs")
	if Grant(p, bugQuest()) {
		t.Fatalf("completed quest should not be re-granted")
	}
	if len(p.ActiveQuests) != 0 {
		t.Errorf("expected no active quests, got %v", p.ActiveQuests)
	}
}

func TestComplete_MovesAtomically(t *testing.T) {
	p := &types.Player{}
	Grant(p, bugQuest())

	q, ok := Complete(p, "q_bugs")
	if !ok || q.ID != "q_bugs" {
		t.Fatalf("complete failed: %v %v", q, ok)
	}
	if IsActive(p, "q_bugs") {
		t.Errorf("quest still active after completion")
	}
	if !IsCompleted(p, "q_bugs") {
		t.Errorf("quest not in completed list")
	}

	// A quest id lives in exactly one list.
	if len(p.ActiveQuests) != 0 || len(p.CompletedQuests) != 1 {
		t.Errorf("ledger inconsistent: %v / %v", p.ActiveQuests, p.CompletedQuests)
	}
}

func TestComplete_InactiveIsNoOp(t *testing.T) {
	p := &types.Player{}
	if _, ok := Complete(p, "q_bugs"); ok {
		t.Fatalf("completing an inactive quest should fail")
	}
	if len(p.CompletedQuests) != 0 {
		t.Errorf("no-op completion mutated the ledger")
	}
}

func TestEvaluateDefeat_CumulativeCounter(t *testing.T) {
	p := &types.Player{}
	Grant(p, bugQuest())

	kills := map[string]int{"Bug": 2}
	if done := EvaluateDefeat(p, kills, "Bug"); len(done) != 0 {
		t.Fatalf("quest completed below threshold: %v", done)
	}

	kills["Bug"] = 3
	done := EvaluateDefeat(p, kills, "Bug")
	if len(done) != 1 || done[0].ID != "q_bugs" {
		t.Fatalf("expected q_bugs completion, got %v", done)
	}
	if !IsCompleted(p, "q_bugs") {
		t.Errorf("quest not moved to completed")
	}
}

func TestEvaluateDefeat_IgnoresOtherTypes(t *testing.T) {
	p := &types.Player{}
	Grant(p, bugQuest())
	kills := map[string]int{"Bug": 5, "Ogre": 5}
	if done := EvaluateDefeat(p, kills, "Ogre"); len(done) != 0 {
		t.Errorf("wrong monster type completed the quest: %v", done)
	}
}

func TestEvaluateItem_MatchesByName(t *testing.T) {
	p := &types.Player{}
	Grant(p, types.Quest{
		ID:       "q_pendant",
		Requires: types.PossessItem{ItemName: "Pendant", Count: 1},
	})

	if done := EvaluateItem(p, "Potion"); len(done) != 0 {
		t.Fatalf("wrong item completed the quest: %v", done)
	}
	done := EvaluateItem(p, "Pendant")
	if len(done) != 1 || done[0].ID != "q_pendant" {
		t.Fatalf("expected q_pendant completion, got %v", done)
	}
}

func TestCompleteTriggered_OnlyRequirementless(t *testing.T) {
	p := &types.Player{}
	Grant(p, types.Quest{ID: "q_star"})
	Grant(p, bugQuest())

	done := CompleteTriggered(p)
	if len(done) != 1 || done[0].ID != "q_star" {
		t.Fatalf("expected only q_star, got %v", done)
	}
	if !IsActive(p, "q_bugs") {
		t.Errorf("requirement quest should stay active")
	}
}
