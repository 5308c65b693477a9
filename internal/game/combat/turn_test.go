package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskmantle/mud/internal/game/combat"
)

// TestExecuteFullTurn_AllNothing: a passive turn changes no state and
// advances the turn counter by exactly 1.
func TestExecuteFullTurn_AllNothing(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})

	require.NoError(t, h.QueueAction(hero, combat.Nothing()))
	require.NoError(t, h.QueueAction(monster, combat.Nothing()))
	h.ExecuteFullTurn()

	assert.Equal(t, 1, h.Turn())
	assert.Equal(t, 4, hero.Health())
	assert.Equal(t, 4, monster.Health())
	assert.False(t, h.HasAdvantage(hero, monster))
	assert.False(t, h.HasDisadvantage(hero, monster))
	assert.False(t, h.Destroyed())
}

// TestExecuteFullTurn_DefaultsToNothing: combatants with no queued action
// act as if they declared the do-nothing action.
func TestExecuteFullTurn_DefaultsToNothing(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})
	h.ExecuteFullTurn()
	assert.Equal(t, 1, h.Turn())
	assert.Equal(t, 4, hero.Health())
	assert.Equal(t, 4, monster.Health())
}

// TestAttack_Miss: die 8 + str 1 against defense 11 leaves health unchanged.
func TestAttack_Miss(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 7})

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionAttack, Target: monster}))
	require.NoError(t, h.QueueAction(monster, combat.Nothing()))
	h.ExecuteFullTurn()

	assert.Equal(t, 4, monster.Health())
	assert.False(t, h.Destroyed())
}

// TestAttack_HitSurvives: die 11 + str 1 meets defense 11; the damage die
// (also 11 from the fixed source) drops the target from 20 to 9.
func TestAttack_HitSurvives(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})
	monster.SetHealth(20)

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionAttack, Target: monster}))
	require.NoError(t, h.QueueAction(monster, combat.Nothing()))
	h.ExecuteFullTurn()

	assert.Equal(t, 9, monster.Health())
	assert.False(t, h.Destroyed())
}

// TestAttack_Kill: the same hit against 4 health lands at -7, the side is
// eliminated, and the handler tears itself down.
func TestAttack_Kill(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionAttack, Target: monster}))
	require.NoError(t, h.QueueAction(monster, combat.Nothing()))
	h.ExecuteFullTurn()

	assert.Equal(t, -7, monster.Health())
	assert.True(t, h.Destroyed())
}

// TestAttack_TargetDownedEarlierInTurn: a combatant killed mid-turn does
// not act, and attacks against it resolve as safe no-ops.
func TestAttack_TargetDownedEarlierInTurn(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})
	hero2 := newDummy("hero2", "heroes", 4)
	h.AddCombatants(hero2)

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionAttack, Target: monster}))
	require.NoError(t, h.QueueAction(monster, combat.Action{Kind: combat.ActionAttack, Target: hero2}))
	require.NoError(t, h.QueueAction(hero2, combat.Action{Kind: combat.ActionAttack, Target: monster}))
	h.ExecuteFullTurn()

	assert.Equal(t, -7, monster.Health(), "only the first blow lands")
	assert.Equal(t, 4, hero2.Health(), "the downed monster never acts")
	assert.True(t, h.Destroyed())
}

// TestAttack_DefeatedAfterActingKeepsEffect: the snapshot lets a combatant
// land their blow even when they fall later in the same turn.
func TestAttack_DefeatedAfterActingKeepsEffect(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})
	hero2 := newDummy("hero2", "heroes", 4)
	h.AddCombatants(hero2)

	require.NoError(t, h.QueueAction(hero, combat.Nothing()))
	require.NoError(t, h.QueueAction(monster, combat.Action{Kind: combat.ActionAttack, Target: hero}))
	require.NoError(t, h.QueueAction(hero2, combat.Action{Kind: combat.ActionAttack, Target: monster}))
	h.ExecuteFullTurn()

	assert.Equal(t, -7, hero.Health(), "the monster's blow stands even though it falls afterwards")
	assert.Equal(t, -7, monster.Health())
	assert.True(t, h.Destroyed(), "only hero2's side remains")
}

// TestFlee_TimeoutEscape: an unopposed flee completes after the configured
// number of full turns and the handler tears down when no sides remain.
func TestFlee_TimeoutEscape(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionFlee}))
	h.ExecuteFullTurn()
	assert.True(t, h.IsFleeing(hero), "first turn only declares the attempt")
	assert.True(t, h.Contains(hero))

	h.ExecuteFullTurn()
	assert.False(t, h.Contains(hero), "timeout expired, hero escaped")
	assert.True(t, h.Destroyed(), "only one side remains")
	_ = monster
}

// TestFlee_SecondFleeCompletesImmediately: fleeing again while already
// fleeing finishes the escape at the end of that same turn.
func TestFlee_SecondFleeCompletes(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})
	hero2 := newDummy("hero2", "heroes", 4)
	h.AddCombatants(hero2)

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionFlee}))
	h.ExecuteFullTurn()
	require.True(t, h.IsFleeing(hero))

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionFlee}))
	h.ExecuteFullTurn()

	assert.False(t, h.Contains(hero))
	assert.True(t, h.IsDefeated(hero), "escapees are recorded with the defeated")
	assert.True(t, h.Contains(hero2), "combat continues for the rest")
	assert.True(t, h.Contains(monster))
	assert.False(t, h.Destroyed())
}

// TestHinder_CancelsFlee: a successful hinder in the same turn removes the
// target from the fleeing set before the escape can complete.
func TestHinder_CancelsFlee(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10}) // die 11 beats 10+1

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionFlee}))
	h.ExecuteFullTurn()
	require.True(t, h.IsFleeing(hero))

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionFlee}))
	require.NoError(t, h.QueueAction(monster, combat.Action{Kind: combat.ActionHinder, Target: hero}))
	h.ExecuteFullTurn()

	assert.True(t, h.Contains(hero), "blocked escape keeps the hero in combat")
	assert.False(t, h.IsFleeing(hero))
	assert.False(t, h.Destroyed())
}

// TestHinder_FailedRoll: die 8 + str 1 against 10 + dex 1 fails, so the
// flee attempt stands.
func TestHinder_FailedRoll(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 7})

	h.Flee(hero)
	require.NoError(t, h.QueueAction(monster, combat.Action{Kind: combat.ActionHinder, Target: hero}))
	require.NoError(t, h.QueueAction(hero, combat.Nothing()))
	h.ExecuteFullTurn()

	assert.True(t, h.IsFleeing(hero))
}

func TestHinder_NotFleeingIsNoop(t *testing.T) {
	h, hero, monster := newDuel(fixedSrc{val: 10})

	require.NoError(t, h.QueueAction(monster, combat.Action{Kind: combat.ActionHinder, Target: hero}))
	h.ExecuteFullTurn()

	assert.True(t, h.Contains(hero))
	assert.False(t, h.IsFleeing(hero))
	assert.Equal(t, 4, hero.Health())
}

// TestExecuteFullTurn_DestroyedHandlerIsNoop: turns do not advance after
// teardown.
func TestExecuteFullTurn_DestroyedHandlerIsNoop(t *testing.T) {
	h, _, _ := newDuel(fixedSrc{val: 10})
	h.StopCombat()
	h.ExecuteFullTurn()
	assert.Equal(t, 0, h.Turn())
}
