package entity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/duskmantle/mud/internal/game/combat"
	"github.com/duskmantle/mud/internal/scripting"
)

// Effect is the behavior a consumable applies when used.
type Effect interface {
	Apply(user, target combat.Combatant) error
}

// EffectFunc adapts a plain function to the Effect interface.
type EffectFunc func(user, target combat.Combatant) error

// Apply calls f.
func (f EffectFunc) Apply(user, target combat.Combatant) error { return f(user, target) }

// Consumable is a limited-use item satisfying combat.UsableItem.
//
// Invariant: a destroyed Consumable never applies its effect again.
type Consumable struct {
	id        string
	label     string
	uses      int
	destroyed bool
	effect    Effect
}

// NewConsumable creates a Consumable with the given display label, use
// count, and effect.
//
// Precondition: uses >= 1; effect must not be nil.
func NewConsumable(label string, uses int, effect Effect) *Consumable {
	return &Consumable{
		id:     uuid.NewString(),
		label:  label,
		uses:   uses,
		effect: effect,
	}
}

// ID returns the item's unique identity.
func (c *Consumable) ID() string { return c.id }

// Label returns the display name used in combat messages.
func (c *Consumable) Label() string { return c.label }

// UsesLeft returns the remaining number of uses; 0 for a destroyed item.
func (c *Consumable) UsesLeft() int {
	if c.destroyed {
		return 0
	}
	return c.uses
}

// ApplyEffect applies the item's effect to target on behalf of user.
//
// Postcondition: returns an error and mutates nothing when the item is
// destroyed or depleted.
func (c *Consumable) ApplyEffect(user, target combat.Combatant) error {
	if c.destroyed || c.uses <= 0 {
		return fmt.Errorf("entity: %s is used up", c.label)
	}
	return c.effect.Apply(user, target)
}

// ConsumeUse decrements the remaining-uses counter.
func (c *Consumable) ConsumeUse() {
	if c.uses > 0 {
		c.uses--
	}
}

// Destroy permanently removes the item.
//
// Postcondition: Destroyed() is true and UsesLeft() is 0.
func (c *Consumable) Destroy() { c.destroyed = true }

// Destroyed reports whether the item has been destroyed.
func (c *Consumable) Destroyed() bool { return c.destroyed }

// ConsumableDef defines a consumable loaded from YAML; the effect body is a
// sandboxed Lua script.
type ConsumableDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Uses   int    `yaml:"uses"`
	Script string `yaml:"script"`
}

// Validate checks that the ConsumableDef satisfies its invariants.
func (d *ConsumableDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.Uses <= 0 {
		errs = append(errs, errors.New("Uses must be > 0"))
	}
	if d.Script == "" {
		errs = append(errs, errors.New("Script must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("consumable validation failed: %v", errs)
	}
	return nil
}

// Spawn instantiates a fresh Consumable from the definition with its full
// use count and a Lua-scripted effect.
//
// Precondition: d must satisfy d.Validate().
func (d *ConsumableDef) Spawn() *Consumable {
	return NewConsumable(d.Name, d.Uses, scripting.NewItemEffect(d.Script, 0))
}

// LoadConsumables reads all *.yaml files from dir, parses each as a
// ConsumableDef, validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid defs or the first encountered error.
func LoadConsumables(dir string) ([]*ConsumableDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadConsumables: cannot read directory %q: %w", dir, err)
	}

	var defs []*ConsumableDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadConsumables: cannot read file %q: %w", path, err)
		}
		var d ConsumableDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadConsumables: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadConsumables: invalid consumable in %q: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}
