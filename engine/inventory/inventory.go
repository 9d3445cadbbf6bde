// Package inventory implements the player's stacked inventory. Stacks are
// keyed by item name; acquiring merges into an existing stack, consuming the
// last unit of a stack removes the entry.
package inventory

import "github.com/nathoo/loststar/types"

// Acquire merges quantity units of item into the inventory: an existing
// stack with the same name is incremented, otherwise a new stack is
// appended.
func Acquire(p *types.Player, item types.ItemDef, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range p.Inventory {
		if p.Inventory[i].Item.Name == item.Name {
			p.Inventory[i].Quantity += quantity
			return
		}
	}
	p.Inventory = append(p.Inventory, types.Stack{Item: item, Quantity: quantity})
}

// At returns the stack at the given index.
func At(p *types.Player, index int) (types.Stack, bool) {
	if index < 0 || index >= len(p.Inventory) {
		return types.Stack{}, false
	}
	return p.Inventory[index], true
}

// Consume removes one unit from the stack at index, dropping the stack when
// it reaches zero. Returns the consumed item definition. An out-of-range
// index or an empty stack is a silent no-op: callers get ok=false and the
// inventory is unchanged.
func Consume(p *types.Player, index int) (types.ItemDef, bool) {
	if index < 0 || index >= len(p.Inventory) {
		return types.ItemDef{}, false
	}
	st := &p.Inventory[index]
	if st.Quantity <= 0 {
		return types.ItemDef{}, false
	}
	item := st.Item
	st.Quantity--
	if st.Quantity == 0 {
		p.Inventory = append(p.Inventory[:index], p.Inventory[index+1:]...)
	}
	return item, true
}

// Count returns the total quantity held of the named item.
func Count(p *types.Player, name string) int {
	for _, st := range p.Inventory {
		if st.Item.Name == name {
			return st.Quantity
		}
	}
	return 0
}
