package combat

import (
	"github.com/duskmantle/mud/internal/game/inventory"
	"github.com/duskmantle/mud/internal/game/rules"
)

// ActionKind identifies what a combatant intends to do on their turn.
// The closed set of kinds makes dispatch exhaustive; an unknown kind
// cannot be queued.
type ActionKind int

const (
	// ActionNothing is the default action: stand by and do nothing.
	ActionNothing ActionKind = iota
	// ActionAttack rolls the wielded weapon against a target's defense.
	ActionAttack
	// ActionStunt is a contested check granting advantage or disadvantage.
	ActionStunt
	// ActionUseItem applies a consumable item's effect to a target.
	ActionUseItem
	// ActionWield swaps the wielded weapon, enforcing slot exclusivity.
	ActionWield
	// ActionFlee declares or completes an attempt to leave combat.
	ActionFlee
	// ActionHinder contests a target's flee attempt.
	ActionHinder
)

// String returns the human-readable name of the ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionNothing:
		return "nothing"
	case ActionAttack:
		return "attack"
	case ActionStunt:
		return "stunt"
	case ActionUseItem:
		return "use"
	case ActionWield:
		return "wield"
	case ActionFlee:
		return "flee"
	case ActionHinder:
		return "hinder"
	default:
		return "unknown"
	}
}

// Action is one declared combat action: a kind plus the kind-specific
// parameters its resolver consumes. Fields not used by a kind are ignored.
type Action struct {
	Kind ActionKind
	// Target is the combatant acted against: attack, stunt, use, hinder.
	Target Combatant
	// Recipient is the combatant a stunt's advantage or disadvantage is
	// granted to. Defaults to the actor when nil.
	Recipient Combatant
	// Item is the consumable for ActionUseItem.
	Item UsableItem
	// WieldItem is the equipment for ActionWield.
	WieldItem inventory.Wieldable
	// Advantage selects whether a successful stunt grants the recipient
	// advantage (true) or disadvantage (false) against the target.
	Advantage bool
	// StuntType is the actor ability a stunt is rolled with.
	StuntType rules.Ability
	// DefenseType is the target ability a stunt is defended with.
	DefenseType rules.Ability
}

// Nothing returns the explicit do-nothing action. It is the declaration a
// combatant falls back to when nothing was queued for the turn.
func Nothing() Action {
	return Action{Kind: ActionNothing}
}
