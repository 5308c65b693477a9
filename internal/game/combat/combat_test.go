package combat_test

import (
	"github.com/duskmantle/mud/internal/game/combat"
	"github.com/duskmantle/mud/internal/game/inventory"
	"github.com/duskmantle/mud/internal/game/rules"
)

// fixedSrc is a deterministic Source for testing. It returns val for every
// Intn call with no bounds clamping, enabling scenarios that need values
// outside the normal dice range.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// dummy is a minimal Combatant implementation for handler tests.
type dummy struct {
	id        string
	name      string
	team      string
	hp        int
	defense   int
	abilities map[rules.Ability]int
	equipment *inventory.Equipment
	messages  []string
}

func newDummy(id, team string, hp int) *dummy {
	return &dummy{
		id:        id,
		name:      id,
		team:      team,
		hp:        hp,
		defense:   11,
		abilities: map[rules.Ability]int{},
		equipment: inventory.NewEquipment(),
	}
}

func (d *dummy) ID() string                      { return d.id }
func (d *dummy) Name() string                    { return d.name }
func (d *dummy) Health() int                     { return d.hp }
func (d *dummy) SetHealth(hp int)                { d.hp = hp }
func (d *dummy) Defense() int                    { return d.defense }
func (d *dummy) Equipment() *inventory.Equipment { return d.equipment }
func (d *dummy) Msg(text string)                 { d.messages = append(d.messages, text) }

func (d *dummy) Ability(a rules.Ability) int {
	if bonus, ok := d.abilities[a]; ok {
		return bonus
	}
	return 1
}

func (d *dummy) Weapon() *inventory.Weapon {
	if w, ok := d.equipment.Weapon().(*inventory.Weapon); ok {
		return w
	}
	return inventory.EmptyFists()
}

func (d *dummy) HostileTo(other combat.Combatant) bool {
	o, ok := other.(*dummy)
	if !ok {
		return true
	}
	return d.team != o.team
}

// consumable implements UsableItem with a counted effect.
type consumable struct {
	label     string
	uses      int
	destroyed bool
	applied   int
	effect    func(user, target combat.Combatant) error
}

func (c *consumable) Label() string  { return c.label }
func (c *consumable) UsesLeft() int  { return c.uses }
func (c *consumable) ConsumeUse()    { c.uses-- }
func (c *consumable) Destroy()       { c.destroyed = true }
func (c *consumable) ApplyEffect(user, target combat.Combatant) error {
	c.applied++
	if c.effect != nil {
		return c.effect(user, target)
	}
	return nil
}

// newDuel builds a handler around one hero and one monster on opposing
// teams, rolling with src.
func newDuel(src fixedSrc) (*combat.Handler, *dummy, *dummy) {
	hero := newDummy("hero", "heroes", 4)
	monster := newDummy("monster", "monsters", 4)
	h := combat.NewHandler(combat.Options{Source: src})
	h.AddCombatants(hero, monster)
	return h, hero, monster
}
