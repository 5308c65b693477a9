package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duskmantle/mud/internal/game/rules"
)

// resolveLocked dispatches one declared action to its resolver. Resolver
// failures are local: they broadcast a message and leave state unchanged,
// never aborting the rest of the turn.
func (h *Handler) resolveLocked(actor Combatant, a Action) {
	switch a.Kind {
	case ActionNothing:
		h.resolveNothingLocked(actor)
	case ActionAttack:
		h.resolveAttackLocked(actor, a)
	case ActionStunt:
		h.resolveStuntLocked(actor, a)
	case ActionUseItem:
		h.resolveUseItemLocked(actor, a)
	case ActionWield:
		h.resolveWieldLocked(actor, a)
	case ActionFlee:
		h.resolveFleeLocked(actor)
	case ActionHinder:
		h.resolveHinderLocked(actor, a)
	}
}

// targetableLocked reports whether target can still be acted against:
// engaged and above zero health. Targets removed or downed earlier in the
// same turn make the acting resolver a safe no-op.
func (h *Handler) targetableLocked(target Combatant) bool {
	return target != nil && h.containsLocked(target) && target.Health() > 0
}

func (h *Handler) resolveNothingLocked(actor Combatant) {
	h.broadcastLocked(fmt.Sprintf("%s holds back, biding their time.", actor.Name()), actor)
}

// resolveAttackLocked rolls the wielded weapon's attack ability against the
// target's defense, consuming any advantage or disadvantage held for the
// pair. A hit rolls the weapon's damage dice straight off the target's
// health; health is not clamped and may go negative.
func (h *Handler) resolveAttackLocked(actor Combatant, a Action) {
	target := a.Target
	if !h.targetableLocked(target) {
		h.broadcastLocked(fmt.Sprintf("%s attacks thin air.", actor.Name()))
		return
	}

	weapon := actor.Weapon()
	mode := h.consumeModeLocked(actor, target)
	check := rules.Check(h.src, actor.Ability(weapon.AttackAbility), target.Defense(), mode)
	h.log.Debug("attack roll",
		zap.String("attacker", actor.Name()),
		zap.String("target", target.Name()),
		zap.Int("total", check.Total()),
		zap.Int("defense", check.Defense),
		zap.Stringer("mode", check.Mode),
	)
	if !check.Success() {
		h.broadcastLocked(fmt.Sprintf("%s attacks %s with %s but misses.",
			actor.Name(), target.Name(), weapon.Name))
		return
	}

	roll, err := h.roller.RollExpr(weapon.DamageDice)
	if err != nil {
		h.log.Error("invalid weapon damage dice",
			zap.String("weapon", weapon.ID),
			zap.String("dice", weapon.DamageDice),
			zap.Error(err),
		)
		return
	}
	damage := roll.Total()
	target.SetHealth(target.Health() - damage)
	h.broadcastLocked(fmt.Sprintf("%s hits %s with %s for %d damage!",
		actor.Name(), target.Name(), weapon.Name, damage))
}

// resolveStuntLocked performs the contested check of the actor's stunt
// ability against the target's defense ability. Success grants the
// recipient a one-shot advantage or disadvantage flag against the target.
func (h *Handler) resolveStuntLocked(actor Combatant, a Action) {
	target := a.Target
	if !h.targetableLocked(target) {
		h.broadcastLocked(fmt.Sprintf("%s's maneuver finds no one.", actor.Name()))
		return
	}
	recipient := a.Recipient
	if recipient == nil {
		recipient = actor
	}
	if !h.containsLocked(recipient) {
		return
	}

	mode := h.consumeModeLocked(actor, target)
	check := rules.Contest(h.src, actor.Ability(a.StuntType), target.Ability(a.DefenseType), mode)
	if !check.Success() {
		h.broadcastLocked(fmt.Sprintf("%s tries a maneuver against %s but fails.",
			actor.Name(), target.Name()))
		return
	}

	if a.Advantage {
		h.setMatrixLocked(h.advantage, recipient, target)
		h.broadcastLocked(fmt.Sprintf("%s creates an opening for %s against %s!",
			actor.Name(), recipient.Name(), target.Name()))
	} else {
		h.setMatrixLocked(h.disadvantage, recipient, target)
		h.broadcastLocked(fmt.Sprintf("%s throws %s off balance against %s!",
			actor.Name(), recipient.Name(), target.Name()))
	}
}

// resolveUseItemLocked applies a consumable's effect to the target and
// spends one use, destroying the item when none remain. A depleted or
// missing item is a no-op.
func (h *Handler) resolveUseItemLocked(actor Combatant, a Action) {
	item := a.Item
	if item == nil || item.UsesLeft() <= 0 {
		h.broadcastLocked(fmt.Sprintf("%s fumbles with a useless item.", actor.Name()), actor)
		return
	}
	target := a.Target
	if target == nil {
		target = actor
	}

	if err := item.ApplyEffect(actor, target); err != nil {
		h.log.Warn("item effect failed",
			zap.String("item", item.Label()),
			zap.String("user", actor.Name()),
			zap.Error(err),
		)
		h.broadcastLocked(fmt.Sprintf("%s's %s sputters without effect.",
			actor.Name(), item.Label()))
		return
	}
	item.ConsumeUse()
	h.broadcastLocked(fmt.Sprintf("%s uses %s on %s.",
		actor.Name(), item.Label(), target.Name()))
	if item.UsesLeft() <= 0 {
		item.Destroy()
		h.broadcastLocked(fmt.Sprintf("The %s is used up.", item.Label()))
	}
}

// resolveWieldLocked swaps the actor's wielded equipment; the equipment
// contract enforces hand-slot exclusivity and idempotent re-wielding.
func (h *Handler) resolveWieldLocked(actor Combatant, a Action) {
	item := a.WieldItem
	if item == nil {
		h.broadcastLocked(fmt.Sprintf("%s reaches for a weapon that isn't there.", actor.Name()), actor)
		return
	}
	actor.Equipment().Wield(item)
	h.broadcastLocked(fmt.Sprintf("%s wields %s.", actor.Name(), item.WieldLabel()))
}

// resolveFleeLocked declares a flee attempt, or completes it when the
// actor is already fleeing: the escape itself happens in the end-of-turn
// sweep so hindering actions later in the same turn can still contest it.
func (h *Handler) resolveFleeLocked(actor Combatant) {
	if _, fleeing := h.fleeing[actor.ID()]; fleeing {
		h.escaped[actor.ID()] = true
		h.broadcastLocked(fmt.Sprintf("%s breaks away from the fight!", actor.Name()))
		return
	}
	h.fleeLocked(actor)
	h.broadcastLocked(fmt.Sprintf("%s looks for a way out!", actor.Name()))
}

// resolveHinderLocked contests the target's flee attempt with a strength
// check against their dexterity. Success cancels the escape. A target that
// is not fleeing makes this a no-op.
func (h *Handler) resolveHinderLocked(actor Combatant, a Action) {
	target := a.Target
	if !h.targetableLocked(target) {
		return
	}
	if _, fleeing := h.fleeing[target.ID()]; !fleeing {
		h.broadcastLocked(fmt.Sprintf("%s moves to block %s, who isn't going anywhere.",
			actor.Name(), target.Name()), actor)
		return
	}

	mode := h.consumeModeLocked(actor, target)
	check := rules.Contest(h.src, actor.Ability(rules.Strength), target.Ability(rules.Dexterity), mode)
	if !check.Success() {
		h.broadcastLocked(fmt.Sprintf("%s fails to block %s's escape.",
			actor.Name(), target.Name()))
		return
	}
	h.unfleeLocked(target)
	h.broadcastLocked(fmt.Sprintf("%s blocks %s's escape!", actor.Name(), target.Name()))
}
