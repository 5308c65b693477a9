// Package entity provides the concrete combat participants and consumable
// items the engine's collaborator contracts are satisfied by: YAML-templated
// characters and scripted consumables.
package entity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/duskmantle/mud/internal/game/combat"
	"github.com/duskmantle/mud/internal/game/inventory"
	"github.com/duskmantle/mud/internal/game/rules"
)

// DefaultDefense is the armor threshold of an unarmored combatant.
const DefaultDefense = 11

// Template defines the static properties of a character loaded from YAML.
type Template struct {
	ID        string                `yaml:"id"`
	Name      string                `yaml:"name"`
	Squad     string                `yaml:"squad"`
	MaxHealth int                   `yaml:"max_health"`
	Defense   int                   `yaml:"defense"`
	Abilities map[rules.Ability]int `yaml:"abilities"`
	WeaponID  string                `yaml:"weapon"`
}

// Validate checks that the Template satisfies its invariants.
// Postcondition: returns nil iff the template can spawn a Character.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if t.Squad == "" {
		errs = append(errs, errors.New("Squad must not be empty"))
	}
	if t.MaxHealth <= 0 {
		errs = append(errs, errors.New("MaxHealth must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("template validation failed: %v", errs)
	}
	return nil
}

// LoadTemplates reads all *.yaml files from dir, parses each as a Template,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Templates or the first encountered error.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTemplates: cannot read directory %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot read file %q: %w", path, err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot parse file %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("LoadTemplates: invalid template in %q: %w", path, err)
		}
		templates = append(templates, &t)
	}
	return templates, nil
}

// Character is a live combat participant spawned from a Template.
// It satisfies combat.Combatant; health may go negative after a killing
// blow and is never clamped.
type Character struct {
	id        string
	name      string
	squad     string
	hp        int
	defense   int
	abilities map[rules.Ability]int
	equipment *inventory.Equipment

	// Send, when set, receives this character's private combat messages.
	Send func(text string)
}

// Spawn instantiates a Character from tmpl with full health, empty hands,
// and a fresh unique identity.
//
// Precondition: tmpl must satisfy tmpl.Validate().
func Spawn(tmpl *Template) *Character {
	defense := tmpl.Defense
	if defense == 0 {
		defense = DefaultDefense
	}
	abilities := make(map[rules.Ability]int, len(tmpl.Abilities))
	for a, bonus := range tmpl.Abilities {
		abilities[a] = bonus
	}
	return &Character{
		id:        uuid.NewString(),
		name:      tmpl.Name,
		squad:     tmpl.Squad,
		hp:        tmpl.MaxHealth,
		defense:   defense,
		abilities: abilities,
		equipment: inventory.NewEquipment(),
	}
}

// ID returns the character's unique identity.
func (c *Character) ID() string { return c.id }

// Name returns the display name.
func (c *Character) Name() string { return c.name }

// Squad returns the side-grouping label.
func (c *Character) Squad() string { return c.squad }

// Health returns current health.
func (c *Character) Health() int { return c.hp }

// SetHealth overwrites current health without clamping.
func (c *Character) SetHealth(hp int) { c.hp = hp }

// Defense returns the armor threshold attacks are rolled against.
func (c *Character) Defense() int { return c.defense }

// Ability returns the flat bonus for the named ability, 0 when unset.
func (c *Character) Ability(a rules.Ability) int { return c.abilities[a] }

// Equipment returns the character's equipment slots.
func (c *Character) Equipment() *inventory.Equipment { return c.equipment }

// Weapon returns the wielded weapon, falling back to empty fists.
func (c *Character) Weapon() *inventory.Weapon {
	if w, ok := c.equipment.Weapon().(*inventory.Weapon); ok {
		return w
	}
	return inventory.EmptyFists()
}

// HostileTo reports whether other belongs to a different squad. Anything
// that is not a Character is treated as hostile.
func (c *Character) HostileTo(other combat.Combatant) bool {
	o, ok := other.(*Character)
	if !ok {
		return true
	}
	return c.squad != o.squad
}

// Msg delivers text to the character's message sink, if one is attached.
func (c *Character) Msg(text string) {
	if c.Send != nil {
		c.Send(text)
	}
}
