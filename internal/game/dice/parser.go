package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
// At most one of KeepHighest/KeepLowest is non-zero.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 2d20kh1)
	KeepLowest  int    // if > 0, keep only the N lowest dice (e.g. 2d20kl1)
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "2d20kh1", "2d20kl1-1".
// The kh suffix keeps the highest N dice; kl keeps the lowest N.
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	raw := expr
	s := strings.ToLower(expr)

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
		count = n
	}

	rest := s[dIdx+1:]

	// Split off the modifier first: the first '+' or '-' past position 0.
	modStr := ""
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modStr = rest[i:]
			rest = rest[:i]
			break
		}
	}

	// Split off a kh/kl keep suffix from the sides portion.
	keepHighest, keepLowest := 0, 0
	if kIdx := strings.IndexAny(rest, "k"); kIdx >= 0 {
		suffix := rest[kIdx:]
		rest = rest[:kIdx]
		if len(suffix) < 3 || (suffix[1] != 'h' && suffix[1] != 'l') {
			return Expression{}, fmt.Errorf("dice: invalid keep suffix in %q", raw)
		}
		keep, err := strconv.Atoi(suffix[2:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid keep value in %q: %w", raw, err)
		}
		if keep <= 0 || keep >= count {
			return Expression{}, fmt.Errorf("dice: keep value %d must be > 0 and < count %d in %q", keep, count, raw)
		}
		if suffix[1] == 'h' {
			keepHighest = keep
		} else {
			keepLowest = keep
		}
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{
		Raw:         raw,
		Count:       count,
		Sides:       sides,
		Modifier:    modifier,
		KeepHighest: keepHighest,
		KeepLowest:  keepLowest,
	}, nil
}
