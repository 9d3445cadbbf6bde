// Package quest implements the quest ledger: granting, completion, and the
// evaluation of completion predicates against player state and the session
// kill counters.
package quest

import "github.com/nathoo/loststar/types"

// IsActive reports whether the quest id is currently active.
func IsActive(p *types.Player, questID string) bool {
	for _, q := range p.ActiveQuests {
		if q.ID == questID {
			return true
		}
	}
	return false
}

// IsCompleted reports whether the quest id has been completed.
func IsCompleted(p *types.Player, questID string) bool {
	for _, id := range p.CompletedQuests {
		if id == questID {
			return true
		}
	}
	return false
}

// Active returns the active quest with the given id.
func Active(p *types.Player, questID string) (types.Quest, bool) {
	for _, q := range p.ActiveQuests {
		if q.ID == questID {
			return q, true
		}
	}
	return types.Quest{}, false
}

// Grant appends the quest to the active list. Granting a quest that is
// already active or completed is a no-op; a completed quest is never
// re-granted.
func Grant(p *types.Player, q types.Quest) bool {
	if IsActive(p, q.ID) || IsCompleted(p, q.ID) {
		return false
	}
	p.ActiveQuests = append(p.ActiveQuests, q)
	return true
}

// Complete atomically moves a quest from active to completed. Returns the
// quest and true if it was active; completing an inactive quest is a no-op.
func Complete(p *types.Player, questID string) (types.Quest, bool) {
	for i, q := range p.ActiveQuests {
		if q.ID == questID {
			p.ActiveQuests = append(p.ActiveQuests[:i], p.ActiveQuests[i+1:]...)
			p.CompletedQuests = append(p.CompletedQuests, questID)
			return q, true
		}
	}
	return types.Quest{}, false
}

// EvaluateDefeat completes every active quest whose defeat-count requirement
// targets monsterType and is satisfied by the cumulative session kill
// counter. Returns the quests completed by this evaluation.
func EvaluateDefeat(p *types.Player, kills map[string]int, monsterType string) []types.Quest {
	var completed []types.Quest
	for _, q := range p.ActiveQuests {
		req, ok := q.Requires.(types.DefeatCount)
		if !ok || req.MonsterType != monsterType {
			continue
		}
		if kills[monsterType] >= req.Count {
			completed = append(completed, q)
		}
	}
	for _, q := range completed {
		Complete(p, q.ID)
	}
	return completed
}

// EvaluateItem completes every active quest whose item-possession
// requirement names itemName. Called when an item's quest effect is applied.
func EvaluateItem(p *types.Player, itemName string) []types.Quest {
	var completed []types.Quest
	for _, q := range p.ActiveQuests {
		req, ok := q.Requires.(types.PossessItem)
		if !ok || req.ItemName != itemName {
			continue
		}
		completed = append(completed, q)
	}
	for _, q := range completed {
		Complete(p, q.ID)
	}
	return completed
}

// CompleteTriggered completes every active quest that has no requirement.
// Used for quests satisfied by an external trigger such as reaching the
// ending.
func CompleteTriggered(p *types.Player) []types.Quest {
	var completed []types.Quest
	for _, q := range p.ActiveQuests {
		if q.Requires == nil {
			completed = append(completed, q)
		}
	}
	for _, q := range completed {
		Complete(p, q.ID)
	}
	return completed
}
