package combat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duskmantle/mud/internal/game/dice"
	"github.com/duskmantle/mud/internal/game/rules"
)

// DefaultFleeTimeout is the number of full turns an unopposed flee attempt
// takes to complete when no override is configured.
const DefaultFleeTimeout = 1

// Options configures a new Handler. Zero values select safe defaults.
type Options struct {
	// Location receives broadcast combat messages. When nil, messages are
	// delivered directly to each combatant's Msg method.
	Location Broadcaster
	// Source provides die rolls. Defaults to the crypto/rand source.
	Source dice.Source
	// Logger receives structured combat events. Defaults to a no-op logger.
	Logger *zap.Logger
	// FleeTimeout is the number of full turns an unopposed flee attempt
	// takes. Defaults to DefaultFleeTimeout.
	FleeTimeout int
}

// Handler owns the live state of one combat: the roster, the per-turn
// pending actions, the advantage and disadvantage matrices, and the fleeing
// and defeated bookkeeping.
//
// All exported methods are safe for concurrent use; QueueAction and
// ExecuteFullTurn serialize on the handler mutex so no queue mutation can
// interleave with turn resolution.
//
// Invariants:
//   - Matrix entries only reference combatants currently in the roster.
//   - A destroyed handler mutates nothing and rejects queueing.
type Handler struct {
	mu sync.Mutex

	id          uuid.UUID
	log         *zap.Logger
	src         dice.Source
	roller      *dice.Roller
	location    Broadcaster
	registry    *Registry
	fleeTimeout int

	// order is the roster in insertion order; turn resolution follows it.
	order []Combatant
	// pending maps combatant ID to the single declared action for the
	// current turn. Queueing again replaces the entry (last write wins).
	pending map[string]Action
	queued  map[string]bool

	advantage    map[string]map[string]bool
	disadvantage map[string]map[string]bool

	// fleeing maps combatant ID to the turn the flee attempt was declared.
	fleeing map[string]int
	// escaped marks fleeing combatants whose escape completes this turn.
	escaped map[string]bool
	// defeated holds combatants removed by defeat or successful flee.
	defeated map[string]Combatant

	turn      int
	destroyed bool
}

// NewHandler creates an empty combat handler.
//
// Postcondition: Returns a non-destroyed Handler with an empty roster and
// turn counter 0.
func NewHandler(opts Options) *Handler {
	if opts.Source == nil {
		opts.Source = dice.NewCryptoSource()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FleeTimeout <= 0 {
		opts.FleeTimeout = DefaultFleeTimeout
	}
	return &Handler{
		id:           uuid.New(),
		log:          opts.Logger,
		src:          opts.Source,
		roller:       dice.NewLoggedRoller(opts.Source, opts.Logger),
		location:     opts.Location,
		fleeTimeout:  opts.FleeTimeout,
		pending:      make(map[string]Action),
		queued:       make(map[string]bool),
		advantage:    make(map[string]map[string]bool),
		disadvantage: make(map[string]map[string]bool),
		fleeing:      make(map[string]int),
		escaped:      make(map[string]bool),
		defeated:     make(map[string]Combatant),
	}
}

// ID returns the handler's unique identity.
func (h *Handler) ID() uuid.UUID { return h.id }

// Turn returns the number of fully resolved turns.
func (h *Handler) Turn() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.turn
}

// Destroyed reports whether StopCombat has torn this handler down.
func (h *Handler) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// Combatants returns the roster snapshot in insertion order.
func (h *Handler) Combatants() []Combatant {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Combatant(nil), h.order...)
}

// Contains reports whether c is currently engaged in this combat.
func (h *Handler) Contains(c Combatant) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.containsLocked(c)
}

func (h *Handler) containsLocked(c Combatant) bool {
	for _, engaged := range h.order {
		if engaged.ID() == c.ID() {
			return true
		}
	}
	return false
}

// AddCombatants adds each combatant to the roster with no pending action.
// Combatants already present are skipped.
//
// Postcondition: every argument is in the roster exactly once; the
// registry back-reference, when attached, maps each to this handler.
func (h *Handler) AddCombatants(combatants ...Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}
	for _, c := range combatants {
		if h.containsLocked(c) {
			continue
		}
		h.order = append(h.order, c)
		h.log.Debug("combatant joined",
			zap.String("combat", h.id.String()),
			zap.String("combatant", c.Name()),
		)
		if h.registry != nil {
			h.registry.bind(c.ID(), h)
		}
	}
}

// RemoveCombatant removes c from the roster and purges every table that
// references it: pending action, both matrix rows and columns, and the
// fleeing set. It does not check for combat termination.
func (h *Handler) RemoveCombatant(c Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeCombatantLocked(c)
}

func (h *Handler) removeCombatantLocked(c Combatant) {
	id := c.ID()
	for i, engaged := range h.order {
		if engaged.ID() == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	delete(h.pending, id)
	delete(h.queued, id)
	delete(h.fleeing, id)
	delete(h.escaped, id)
	delete(h.advantage, id)
	delete(h.disadvantage, id)
	for _, row := range h.advantage {
		delete(row, id)
	}
	for _, row := range h.disadvantage {
		delete(row, id)
	}
	if h.registry != nil {
		h.registry.unbind(id)
	}
}

// Sides partitions the rest of the roster as seen from c: allies share c's
// side, enemies oppose it, both in insertion order. The side predicate is
// the combatant's own HostileTo capability.
//
// Precondition: c should be engaged; for an absent combatant both returned
// slices are nil.
// Postcondition: allies and enemies are disjoint and together hold every
// other engaged combatant.
func (h *Handler) Sides(c Combatant) (allies, enemies []Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.containsLocked(c) {
		return nil, nil
	}
	for _, other := range h.order {
		if other.ID() == c.ID() {
			continue
		}
		if c.HostileTo(other) {
			enemies = append(enemies, other)
		} else {
			allies = append(allies, other)
		}
	}
	return allies, enemies
}

// QueueAction declares c's action for the current turn, replacing any
// earlier declaration (last write wins). Nothing resolves until the turn
// executes.
//
// Postcondition: on nil error, a's resolution is pending for c.
func (h *Handler) QueueAction(c Combatant, a Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return fmt.Errorf("combat: handler %s is destroyed", h.id)
	}
	if !h.containsLocked(c) {
		return fmt.Errorf("combat: %s is not part of this combat", c.Name())
	}
	h.pending[c.ID()] = a
	h.queued[c.ID()] = true
	h.log.Debug("action queued",
		zap.String("combat", h.id.String()),
		zap.String("combatant", c.Name()),
		zap.Stringer("action", a.Kind),
	)
	return nil
}

// PendingAction returns c's declared action for the current turn, if any.
func (h *Handler) PendingAction(c Combatant) (Action, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.queued[c.ID()] {
		return Action{}, false
	}
	return h.pending[c.ID()], true
}

// GiveAdvantage grants actor a one-shot advantage flag against target,
// consumed by the next contested roll between that pair.
func (h *Handler) GiveAdvantage(actor, target Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setMatrixLocked(h.advantage, actor, target)
}

// GiveDisadvantage grants actor a one-shot disadvantage flag against target.
func (h *Handler) GiveDisadvantage(actor, target Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setMatrixLocked(h.disadvantage, actor, target)
}

func (h *Handler) setMatrixLocked(matrix map[string]map[string]bool, actor, target Combatant) {
	if !h.containsLocked(actor) || !h.containsLocked(target) {
		return
	}
	row, ok := matrix[actor.ID()]
	if !ok {
		row = make(map[string]bool)
		matrix[actor.ID()] = row
	}
	row[target.ID()] = true
}

// HasAdvantage reports whether actor holds an unconsumed advantage flag
// against target.
func (h *Handler) HasAdvantage(actor, target Combatant) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.advantage[actor.ID()][target.ID()]
}

// HasDisadvantage reports whether actor holds an unconsumed disadvantage
// flag against target.
func (h *Handler) HasDisadvantage(actor, target Combatant) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disadvantage[actor.ID()][target.ID()]
}

// LoseAdvantage clears the advantage flag for the (actor, target) pair.
func (h *Handler) LoseAdvantage(actor, target Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.advantage[actor.ID()], target.ID())
}

// LoseDisadvantage clears the disadvantage flag for the (actor, target) pair.
func (h *Handler) LoseDisadvantage(actor, target Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.disadvantage[actor.ID()], target.ID())
}

// consumeModeLocked reads and clears both matrix flags for the (actor,
// target) pair, returning the check mode the next roll between them uses.
// This is the single consumption point for advantage and disadvantage.
func (h *Handler) consumeModeLocked(actor, target Combatant) rules.CheckMode {
	adv := h.advantage[actor.ID()][target.ID()]
	disadv := h.disadvantage[actor.ID()][target.ID()]
	delete(h.advantage[actor.ID()], target.ID())
	delete(h.disadvantage[actor.ID()], target.ID())
	return rules.Mode(adv, disadv)
}

// Flee marks c as attempting to disengage, recording the current turn.
// Already-fleeing combatants are unchanged.
func (h *Handler) Flee(c Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fleeLocked(c)
}

func (h *Handler) fleeLocked(c Combatant) {
	if _, ok := h.fleeing[c.ID()]; !ok {
		h.fleeing[c.ID()] = h.turn
	}
}

// Unflee cancels c's flee attempt, if any.
func (h *Handler) Unflee(c Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unfleeLocked(c)
}

func (h *Handler) unfleeLocked(c Combatant) {
	delete(h.fleeing, c.ID())
	delete(h.escaped, c.ID())
}

// IsFleeing reports whether c has an active flee attempt.
func (h *Handler) IsFleeing(c Combatant) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.fleeing[c.ID()]
	return ok
}

// IsDefeated reports whether c was removed by defeat or a completed flee.
func (h *Handler) IsDefeated(c Combatant) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.defeated[c.ID()]
	return ok
}

// Broadcast sends text to every engaged combatant except those excluded,
// through the location collaborator when one is attached.
func (h *Handler) Broadcast(text string, exclude ...Combatant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(text, exclude...)
}

func (h *Handler) broadcastLocked(text string, exclude ...Combatant) {
	if h.location != nil {
		mapping := make(map[string]Combatant, len(h.order))
		for _, c := range h.order {
			mapping[c.Name()] = c
		}
		h.location.Broadcast(text, exclude, mapping)
		return
	}
	for _, c := range h.order {
		if excluded(c, exclude) {
			continue
		}
		c.Msg(text)
	}
}

func excluded(c Combatant, exclude []Combatant) bool {
	for _, e := range exclude {
		if e.ID() == c.ID() {
			return true
		}
	}
	return false
}

// StopCombat tears the handler down: every table is cleared, the registry
// back-references are released, and the handler is marked destroyed. All
// later operations fail fast or are no-ops. Safe to call more than once.
//
// Postcondition: Destroyed() is true; the roster is empty.
func (h *Handler) StopCombat() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopCombatLocked()
}

func (h *Handler) stopCombatLocked() {
	if h.destroyed {
		return
	}
	for _, c := range h.order {
		if h.registry != nil {
			h.registry.unbind(c.ID())
		}
	}
	h.order = nil
	h.pending = make(map[string]Action)
	h.queued = make(map[string]bool)
	h.advantage = make(map[string]map[string]bool)
	h.disadvantage = make(map[string]map[string]bool)
	h.fleeing = make(map[string]int)
	h.escaped = make(map[string]bool)
	h.defeated = make(map[string]Combatant)
	h.destroyed = true
	h.log.Info("combat ended", zap.String("combat", h.id.String()), zap.Int("turns", h.turn))
}
