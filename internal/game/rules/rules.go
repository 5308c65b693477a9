// Package rules implements the d20 check mechanics shared by all combat
// actions: ability identifiers, defense thresholds, and contested rolls
// with advantage or disadvantage.
package rules

import "github.com/duskmantle/mud/internal/game/dice"

// Ability identifies one of a combatant's named integer scores.
type Ability string

const (
	// Strength governs melee attacks and physical stunts.
	Strength Ability = "strength"
	// Dexterity governs evasion and fast stunts.
	Dexterity Ability = "dexterity"
	// Constitution governs endurance.
	Constitution Ability = "constitution"
	// Intelligence governs lore and trickery.
	Intelligence Ability = "intelligence"
	// Wisdom governs alertness.
	Wisdom Ability = "wisdom"
	// Charisma governs presence and intimidation.
	Charisma Ability = "charisma"
)

// DieSides is the standard check die.
const DieSides = 20

// BaseDefense is the floor a contested-check threshold is built on:
// threshold = BaseDefense + defender ability bonus.
const BaseDefense = 10

// CheckMode selects how many dice a check rolls and which one it keeps.
type CheckMode int

const (
	// CheckNormal rolls a single die.
	CheckNormal CheckMode = iota
	// CheckAdvantage rolls two dice and keeps the higher.
	CheckAdvantage
	// CheckDisadvantage rolls two dice and keeps the lower.
	CheckDisadvantage
)

// String returns the human-readable mode label.
func (m CheckMode) String() string {
	switch m {
	case CheckAdvantage:
		return "advantage"
	case CheckDisadvantage:
		return "disadvantage"
	default:
		return "normal"
	}
}

// Mode combines advantage and disadvantage flags into a CheckMode.
// Holding both cancels to CheckNormal.
//
// Postcondition: Returns CheckNormal when adv == disadv.
func Mode(adv, disadv bool) CheckMode {
	switch {
	case adv && !disadv:
		return CheckAdvantage
	case disadv && !adv:
		return CheckDisadvantage
	default:
		return CheckNormal
	}
}

// CheckResult records one resolved check for auditing and messaging.
type CheckResult struct {
	// Die is the kept die value.
	Die int
	// Bonus is the flat ability bonus added to the die.
	Bonus int
	// Defense is the threshold the total was compared against.
	Defense int
	// Mode is the advantage state the check was rolled under.
	Mode CheckMode
}

// Total returns the kept die plus the ability bonus.
func (r CheckResult) Total() int { return r.Die + r.Bonus }

// Success reports whether the check met or beat its defense threshold.
//
// Postcondition: Returns true iff Total() >= Defense.
func (r CheckResult) Success() bool { return r.Total() >= r.Defense }

// checkExpr maps a CheckMode to its dice expression on a DieSides die.
func checkExpr(mode CheckMode) dice.Expression {
	switch mode {
	case CheckAdvantage:
		return dice.MustParse("2d20kh1")
	case CheckDisadvantage:
		return dice.MustParse("2d20kl1")
	default:
		return dice.MustParse("1d20")
	}
}

// Check rolls a d20 check of bonus vs defense under the given mode.
// Advantage rolls 2d20 keep-highest, disadvantage 2d20 keep-lowest.
//
// Precondition: src must be non-nil.
// Postcondition: result.Success() == (die + bonus >= defense).
func Check(src dice.Source, bonus, defense int, mode CheckMode) CheckResult {
	roll, err := dice.Roll(checkExpr(mode), src)
	if err != nil {
		// checkExpr only produces parsed constants; Roll cannot fail on them.
		panic("rules: check roll failed: " + err.Error())
	}
	return CheckResult{
		Die:     roll.Dice[0],
		Bonus:   bonus,
		Defense: defense,
		Mode:    mode,
	}
}

// Contest rolls an attacker check against a defender ability bonus, using
// the BaseDefense + defender bonus threshold.
//
// Precondition: src must be non-nil.
func Contest(src dice.Source, attackBonus, defendBonus int, mode CheckMode) CheckResult {
	return Check(src, attackBonus, BaseDefense+defendBonus, mode)
}
