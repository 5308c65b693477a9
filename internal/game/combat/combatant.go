// Package combat implements the turn-based combat engine for Duskmantle:
// per-turn action queues, deterministic turn resolution, advantage and
// disadvantage bookkeeping, and combat lifecycle.
package combat

import (
	"github.com/duskmantle/mud/internal/game/inventory"
	"github.com/duskmantle/mud/internal/game/rules"
)

// Combatant is the capability contract a combat participant must satisfy.
// Attribute storage, leveling, and presence are owned by the implementor;
// the engine only reads and mutates state through these methods.
type Combatant interface {
	// ID returns a stable unique identity for this combatant.
	ID() string
	// Name returns the display name used in combat messages.
	Name() string
	// Health returns current health. May be negative after a killing blow.
	Health() int
	// SetHealth overwrites current health without clamping.
	SetHealth(hp int)
	// Ability returns the flat bonus for the named ability score.
	Ability(a rules.Ability) int
	// Defense returns the armor threshold an attack roll must meet.
	Defense() int
	// Equipment returns the combatant's equipment slots.
	Equipment() *inventory.Equipment
	// Weapon returns the weapon attacks are resolved with. Implementations
	// fall back to an unarmed weapon when the hands are empty.
	Weapon() *inventory.Weapon
	// HostileTo reports whether other is an enemy of this combatant.
	// The side-grouping predicate is owned by the implementor.
	HostileTo(other Combatant) bool
	// Msg delivers a private combat message to this combatant.
	Msg(text string)
}

// UsableItem is the capability contract for an item consumed by the use
// action: a remaining-uses counter, an effect, and destruction at zero uses.
type UsableItem interface {
	// Label returns the display name used in combat messages.
	Label() string
	// UsesLeft returns the remaining number of uses.
	UsesLeft() int
	// ApplyEffect applies the item's effect to target on behalf of user.
	ApplyEffect(user, target Combatant) error
	// ConsumeUse decrements the remaining-uses counter.
	ConsumeUse()
	// Destroy permanently removes the item. Called when uses reach zero.
	Destroy()
}

// Broadcaster is the location collaborator combat messages are delivered
// through. The mapping carries name to combatant identity so the location
// can address or format per-recipient text.
type Broadcaster interface {
	Broadcast(text string, exclude []Combatant, mapping map[string]Combatant)
}
