package combat

import (
	"fmt"

	"go.uber.org/zap"
)

// ExecuteNextAction pops c's declared action, defaulting to the do-nothing
// action when none was queued, and resolves its effect against current
// state.
//
// Precondition: c should be engaged; an absent combatant is a no-op.
func (h *Handler) ExecuteNextAction(c Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.executeNextActionLocked(c)
}

func (h *Handler) executeNextActionLocked(c Combatant) {
	if h.destroyed || !h.containsLocked(c) {
		return
	}
	action := Nothing()
	if h.queued[c.ID()] {
		action = h.pending[c.ID()]
		delete(h.pending, c.ID())
		delete(h.queued, c.ID())
	}
	h.log.Debug("resolving action",
		zap.String("combat", h.id.String()),
		zap.String("combatant", c.Name()),
		zap.Stringer("action", action.Kind),
	)
	h.resolveLocked(c, action)
}

// ExecuteFullTurn resolves one full turn: every combatant engaged at turn
// start acts once, in insertion order, against state as of their own
// resolution. A combatant defeated mid-turn before acting is skipped, but
// one defeated after acting keeps the effect of their earlier action.
//
// After all actions: the turn counter advances, defeated combatants
// (health <= 0) and completed flee attempts are swept out, and the combat
// stops when the remainder no longer spans two opposing sides.
//
// Postcondition: Turn() has advanced by exactly 1 unless the handler was
// already destroyed.
func (h *Handler) ExecuteFullTurn() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}

	snapshot := append([]Combatant(nil), h.order...)
	for _, c := range snapshot {
		if !h.containsLocked(c) || c.Health() <= 0 {
			continue
		}
		h.executeNextActionLocked(c)
	}

	h.turn++
	h.sweepDefeatedLocked()
	h.sweepFleeingLocked()
	h.checkEndLocked()
}

// sweepDefeatedLocked removes every combatant at or below zero health,
// recording them in the defeated set.
func (h *Handler) sweepDefeatedLocked() {
	snapshot := append([]Combatant(nil), h.order...)
	for _, c := range snapshot {
		if c.Health() > 0 {
			continue
		}
		h.defeated[c.ID()] = c
		h.removeCombatantLocked(c)
		h.broadcastLocked(fmt.Sprintf("%s falls!", c.Name()))
		h.log.Info("combatant defeated",
			zap.String("combat", h.id.String()),
			zap.String("combatant", c.Name()),
			zap.Int("health", c.Health()),
		)
	}
}

// sweepFleeingLocked completes flee attempts: a combatant escapes when a
// second flee action marked them this turn, or when the attempt has
// survived fleeTimeout full turns unopposed. Escapees join the defeated
// set for bookkeeping and leave combat entirely.
func (h *Handler) sweepFleeingLocked() {
	snapshot := append([]Combatant(nil), h.order...)
	for _, c := range snapshot {
		declared, fleeing := h.fleeing[c.ID()]
		if !fleeing {
			continue
		}
		if !h.escaped[c.ID()] && h.turn <= declared+h.fleeTimeout {
			continue
		}
		h.defeated[c.ID()] = c
		h.removeCombatantLocked(c)
		h.broadcastLocked(fmt.Sprintf("%s flees the battle!", c.Name()), c)
		c.Msg("You escape the battle.")
		h.log.Info("combatant escaped",
			zap.String("combat", h.id.String()),
			zap.String("combatant", c.Name()),
		)
	}
}

// checkEndLocked stops the combat when fewer than two opposing sides
// remain among the engaged combatants.
func (h *Handler) checkEndLocked() {
	if len(h.order) >= 2 {
		for _, a := range h.order {
			for _, b := range h.order {
				if a.ID() != b.ID() && a.HostileTo(b) {
					return
				}
			}
		}
	}
	h.broadcastLocked("The fight is over.")
	h.stopCombatLocked()
}
