package inventory

// Equipment holds a combatant's equipment slots and backpack.
//
// Invariants:
//   - Each wearable slot holds at most one item.
//   - An item in SlotTwoHands forces SlotWeaponHand and SlotShieldHand to nil.
//   - An item in SlotWeaponHand or SlotShieldHand forces SlotTwoHands to nil.
type Equipment struct {
	// Slots maps each wearable slot to the item equipped there, or nil when empty.
	Slots map[WieldLocation]Wieldable
	// Backpack holds items that are carried but not equipped.
	Backpack []Wieldable
}

// NewEquipment returns an Equipment with every wearable slot present and empty.
//
// Postcondition: Slots has an entry for each WearableSlots key, all nil;
// Backpack is empty.
func NewEquipment() *Equipment {
	slots := make(map[WieldLocation]Wieldable, len(WearableSlots))
	for _, loc := range WearableSlots {
		slots[loc] = nil
	}
	return &Equipment{Slots: slots}
}

// Weapon returns the item currently wielded in the hands: the two-hands item
// if present, else the weapon-hand item, else nil.
func (e *Equipment) Weapon() Wieldable {
	if item := e.Slots[SlotTwoHands]; item != nil {
		return item
	}
	return e.Slots[SlotWeaponHand]
}

// Wield equips item in its use slot, enforcing hand exclusivity: a two-handed
// item displaces anything in either hand slot, and a one-handed item displaces
// a two-handed one. Displaced items are stowed in the backpack. Wielding an
// item already in its slot is a no-op.
//
// Precondition: item must not be nil.
// Postcondition: item occupies exactly its WieldSlot; no hand-exclusivity
// invariant is violated; every displaced item is appended to Backpack.
func (e *Equipment) Wield(item Wieldable) {
	slot := item.WieldSlot()
	if e.Slots[slot] == item {
		return
	}

	e.removeFromBackpack(item)

	var conflicts []WieldLocation
	switch slot {
	case SlotTwoHands:
		conflicts = []WieldLocation{SlotWeaponHand, SlotShieldHand}
	case SlotWeaponHand, SlotShieldHand:
		conflicts = []WieldLocation{SlotTwoHands}
	}
	for _, loc := range conflicts {
		e.stow(loc)
	}
	e.stow(slot)
	e.Slots[slot] = item
}

// Unwield removes item from whatever slot it occupies and stows it.
//
// Postcondition: item no longer occupies any slot.
func (e *Equipment) Unwield(item Wieldable) {
	for loc, equipped := range e.Slots {
		if equipped == item {
			e.stow(loc)
			return
		}
	}
}

// stow moves the item in loc, if any, to the backpack and clears the slot.
func (e *Equipment) stow(loc WieldLocation) {
	if item := e.Slots[loc]; item != nil {
		e.Backpack = append(e.Backpack, item)
		e.Slots[loc] = nil
	}
}

// removeFromBackpack deletes the first backpack entry equal to item.
func (e *Equipment) removeFromBackpack(item Wieldable) {
	for i, carried := range e.Backpack {
		if carried == item {
			e.Backpack = append(e.Backpack[:i], e.Backpack[i+1:]...)
			return
		}
	}
}
