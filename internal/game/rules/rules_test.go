package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/duskmantle/mud/internal/game/rules"
)

// seqSrc returns a fixed sequence of Intn values, cycling when exhausted.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(_ int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestMode_CancelsWhenBoth(t *testing.T) {
	assert.Equal(t, rules.CheckNormal, rules.Mode(false, false))
	assert.Equal(t, rules.CheckAdvantage, rules.Mode(true, false))
	assert.Equal(t, rules.CheckDisadvantage, rules.Mode(false, true))
	assert.Equal(t, rules.CheckNormal, rules.Mode(true, true))
}

// TestCheck_Fixtures verifies the canonical miss/hit thresholds:
// die 8 with +1 vs 11 misses, die 11 with +1 vs 11 hits.
func TestCheck_Fixtures(t *testing.T) {
	miss := rules.Check(&seqSrc{vals: []int{7}}, 1, 11, rules.CheckNormal)
	assert.Equal(t, 8, miss.Die)
	assert.Equal(t, 9, miss.Total())
	assert.False(t, miss.Success())

	hit := rules.Check(&seqSrc{vals: []int{10}}, 1, 11, rules.CheckNormal)
	assert.Equal(t, 11, hit.Die)
	assert.Equal(t, 12, hit.Total())
	assert.True(t, hit.Success())
}

// TestCheck_AdvantageKeepsHigher: with dice 3 and 18, advantage keeps 18 and
// disadvantage keeps 3.
func TestCheck_AdvantageKeepsHigher(t *testing.T) {
	adv := rules.Check(&seqSrc{vals: []int{2, 17}}, 0, 10, rules.CheckAdvantage)
	assert.Equal(t, 18, adv.Die)

	dis := rules.Check(&seqSrc{vals: []int{2, 17}}, 0, 10, rules.CheckDisadvantage)
	assert.Equal(t, 3, dis.Die)
}

func TestContest_UsesBaseDefense(t *testing.T) {
	// die 11 + 1 vs 10 + 1 succeeds.
	r := rules.Contest(&seqSrc{vals: []int{10}}, 1, 1, rules.CheckNormal)
	assert.Equal(t, 11, r.Defense)
	assert.True(t, r.Success())
}

// TestCheck_OrderingProperty: for the same pair of dice, an advantage check
// never totals less than the matching disadvantage check.
func TestCheck_OrderingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 19).Draw(rt, "a")
		b := rapid.IntRange(0, 19).Draw(rt, "b")
		bonus := rapid.IntRange(-3, 5).Draw(rt, "bonus")

		adv := rules.Check(&seqSrc{vals: []int{a, b}}, bonus, 10, rules.CheckAdvantage)
		dis := rules.Check(&seqSrc{vals: []int{a, b}}, bonus, 10, rules.CheckDisadvantage)
		assert.GreaterOrEqual(rt, adv.Total(), dis.Total())
	})
}
