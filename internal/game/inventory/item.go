// Package inventory provides the wieldable-item definitions and the
// equipment-slot contract the combat engine resolves wield actions against.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/duskmantle/mud/internal/game/dice"
	"github.com/duskmantle/mud/internal/game/rules"
)

// WieldLocation identifies an equipment slot on a combatant.
type WieldLocation string

const (
	// SlotWeaponHand is the one-handed weapon slot.
	SlotWeaponHand WieldLocation = "weapon_hand"
	// SlotShieldHand is the off-hand shield slot.
	SlotShieldHand WieldLocation = "shield_hand"
	// SlotTwoHands is the two-handed slot; occupying it clears both hand slots.
	SlotTwoHands WieldLocation = "two_hands"
	// SlotBody is the body armor slot.
	SlotBody WieldLocation = "body"
	// SlotHead is the helmet slot.
	SlotHead WieldLocation = "head"
)

// WearableSlots lists every slot an item can occupy, in display order.
var WearableSlots = []WieldLocation{
	SlotWeaponHand, SlotShieldHand, SlotTwoHands, SlotBody, SlotHead,
}

// Wieldable is any item that can occupy an equipment slot.
type Wieldable interface {
	// WieldLabel is the display name shown in slot listings.
	WieldLabel() string
	// WieldSlot is the slot this item occupies when equipped.
	WieldSlot() WieldLocation
}

// Weapon defines the static properties of a weapon loaded from YAML.
type Weapon struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	UseSlot       WieldLocation `yaml:"use_slot"`
	AttackAbility rules.Ability `yaml:"attack_ability"`
	DamageDice    string        `yaml:"damage_dice"`
}

// WieldLabel returns the weapon's display name.
func (w *Weapon) WieldLabel() string { return w.Name }

// WieldSlot returns the slot the weapon occupies when wielded.
func (w *Weapon) WieldSlot() WieldLocation { return w.UseSlot }

// Validate checks that the Weapon satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.UseSlot != SlotWeaponHand && w.UseSlot != SlotShieldHand && w.UseSlot != SlotTwoHands {
		errs = append(errs, fmt.Errorf("UseSlot %q is not a hand slot", w.UseSlot))
	}
	if w.AttackAbility == "" {
		errs = append(errs, errors.New("AttackAbility must not be empty"))
	}
	if w.DamageDice == "" {
		errs = append(errs, errors.New("DamageDice must not be empty"))
	} else if _, err := dice.Parse(w.DamageDice); err != nil {
		errs = append(errs, fmt.Errorf("DamageDice: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// EmptyFists returns the fallback weapon used by an unarmed combatant.
//
// Postcondition: Returns a fresh valid one-handed Weapon named "Empty Fists".
func EmptyFists() *Weapon {
	return &Weapon{
		ID:            "empty_fists",
		Name:          "Empty Fists",
		UseSlot:       SlotWeaponHand,
		AttackAbility: rules.Strength,
		DamageDice:    "1d4",
	}
}

// LoadWeapons reads all *.yaml files from dir, parses each as a Weapon,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Weapons or the first encountered error.
func LoadWeapons(dir string) ([]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*Weapon
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w Weapon
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}

// Registry indexes weapon definitions by ID.
type Registry struct {
	weapons map[string]*Weapon
}

// NewRegistry builds a Registry from the given weapon definitions.
//
// Postcondition: Weapon(id) succeeds for every definition's ID.
func NewRegistry(weapons []*Weapon) *Registry {
	byID := make(map[string]*Weapon, len(weapons))
	for _, w := range weapons {
		byID[w.ID] = w
	}
	return &Registry{weapons: byID}
}

// Weapon returns the definition for id.
//
// Postcondition: Returns (weapon, true) if registered, (nil, false) otherwise.
func (r *Registry) Weapon(id string) (*Weapon, bool) {
	w, ok := r.weapons[id]
	return w, ok
}
