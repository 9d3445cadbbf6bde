package inventory

import (
	"testing"

	"github.com/nathoo/loststar/types"
)

func potion() types.ItemDef {
	return types.ItemDef{ID: "potion", Name: "Health Potion", Effect: types.ItemEffect{Heal: 30}}
}

func TestAcquire_MergesByName(t *testing.T) {
	p := &types.Player{}
	Acquire(p, potion(), 2)
	Acquire(p, potion(), 3)

	if len(p.Inventory) != 1 {
		t.Fatalf("expected 1 stack, got %d", len(p.Inventory))
	}
	if p.Inventory[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", p.Inventory[0].Quantity)
	}
}

func TestAcquire_NonPositiveIsNoOp(t *testing.T) {
	p := &types.Player{}
	Acquire(p, potion(), 0)
	Acquire(p, potion(), -1)
	if len(p.Inventory) != 0 {
		t.Errorf("non-positive acquire created a stack")
	}
}

func TestConsume_DecrementAndDrop(t *testing.T) {
	p := &types.Player{}
	Acquire(p, potion(), 2)

	item, ok := Consume(p, 0)
	if !ok || item.Name != "Health Potion" {
		t.Fatalf("consume failed: %v %v", item, ok)
	}
	if p.Inventory[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", p.Inventory[0].Quantity)
	}

	// The last unit removes the stack entirely.
	if _, ok := Consume(p, 0); !ok {
		t.Fatalf("second consume failed")
	}
	if len(p.Inventory) != 0 {
		t.Errorf("empty stack should be dropped, got %v", p.Inventory)
	}
}

func TestConsume_OutOfRangeIsNoOp(t *testing.T) {
	p := &types.Player{}
	Acquire(p, potion(), 1)

	if _, ok := Consume(p, -1); ok {
		t.Errorf("negative index consumed")
	}
	if _, ok := Consume(p, 1); ok {
		t.Errorf("out-of-range index consumed")
	}
	if p.Inventory[0].Quantity != 1 {
		t.Errorf("no-op consume changed quantity: %d", p.Inventory[0].Quantity)
	}
}

func TestCount(t *testing.T) {
	p := &types.Player{}
	Acquire(p, potion(), 4)
	if got := Count(p, "Health Potion"); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := Count(p, "Pendant"); got != 0 {
		t.Errorf("expected 0 for absent item, got %d", got)
	}
}

func TestAt(t *testing.T) {
	p := &types.Player{}
	Acquire(p, potion(), 1)
	if st, ok := At(p, 0); !ok || st.Item.Name != "Health Potion" {
		t.Errorf("At(0) = %v, %v", st, ok)
	}
	if _, ok := At(p, 1); ok {
		t.Errorf("At past the end should fail")
	}
}
