package entity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskmantle/mud/internal/game/combat"
	"github.com/duskmantle/mud/internal/game/entity"
	"github.com/duskmantle/mud/internal/game/inventory"
	"github.com/duskmantle/mud/internal/game/rules"
)

func heroTemplate() *entity.Template {
	return &entity.Template{
		ID:        "hero",
		Name:      "Aila",
		Squad:     "heroes",
		MaxHealth: 4,
		Abilities: map[rules.Ability]int{rules.Strength: 1, rules.Dexterity: 1},
	}
}

func TestSpawn_Defaults(t *testing.T) {
	c := entity.Spawn(heroTemplate())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "Aila", c.Name())
	assert.Equal(t, 4, c.Health())
	assert.Equal(t, entity.DefaultDefense, c.Defense())
	assert.Equal(t, 1, c.Ability(rules.Strength))
	assert.Equal(t, 0, c.Ability(rules.Wisdom), "unset abilities default to 0")
	assert.Equal(t, "Empty Fists", c.Weapon().Name, "empty hands fall back to fists")
}

func TestSpawn_UniqueIdentities(t *testing.T) {
	a := entity.Spawn(heroTemplate())
	b := entity.Spawn(heroTemplate())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestCharacter_HealthUnclamped(t *testing.T) {
	c := entity.Spawn(heroTemplate())
	c.SetHealth(-7)
	assert.Equal(t, -7, c.Health())
}

func TestCharacter_HostileTo(t *testing.T) {
	hero := entity.Spawn(heroTemplate())
	ally := entity.Spawn(heroTemplate())
	foe := entity.Spawn(&entity.Template{
		ID: "rat", Name: "Giant Rat", Squad: "vermin", MaxHealth: 4,
	})

	assert.False(t, hero.HostileTo(ally))
	assert.True(t, hero.HostileTo(foe))
	assert.True(t, foe.HostileTo(hero))
}

func TestCharacter_WeaponFollowsEquipment(t *testing.T) {
	c := entity.Spawn(heroTemplate())
	sword := &inventory.Weapon{ID: "sword", Name: "sword",
		UseSlot: inventory.SlotWeaponHand, AttackAbility: rules.Strength, DamageDice: "1d6"}

	c.Equipment().Wield(sword)
	assert.Equal(t, sword, c.Weapon())

	c.Equipment().Unwield(sword)
	assert.Equal(t, "Empty Fists", c.Weapon().Name)
}

func TestCharacter_MsgSink(t *testing.T) {
	c := entity.Spawn(heroTemplate())
	c.Msg("dropped on the floor") // no sink attached

	var got []string
	c.Send = func(text string) { got = append(got, text) }
	c.Msg("a sword rings against your shield")
	assert.Equal(t, []string{"a sword rings against your shield"}, got)
}

func TestTemplate_Validate(t *testing.T) {
	assert.NoError(t, heroTemplate().Validate())
	assert.Error(t, (&entity.Template{}).Validate())
	bad := heroTemplate()
	bad.MaxHealth = 0
	assert.Error(t, bad.Validate())
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero.yaml"), []byte(`
id: hero
name: Aila
squad: heroes
max_health: 4
abilities:
  strength: 1
  dexterity: 1
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	templates, err := entity.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "hero", templates[0].ID)
	assert.Equal(t, 1, templates[0].Abilities[rules.Strength])
}

func TestLoadTemplates_InvalidFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\n"), 0o600))
	_, err := entity.LoadTemplates(dir)
	assert.Error(t, err)
}

// TestCharacters_FightToTheDeath wires spawned characters through a full
// combat: the stronger side wins and the handler tears down.
func TestCharacters_FightToTheDeath(t *testing.T) {
	hero := entity.Spawn(heroTemplate())
	rat := entity.Spawn(&entity.Template{
		ID: "rat", Name: "Giant Rat", Squad: "vermin", MaxHealth: 4,
		Abilities: map[rules.Ability]int{rules.Strength: 1},
	})

	h := combat.NewHandler(combat.Options{Source: fixedSrc{val: 10}})
	h.AddCombatants(hero, rat)

	require.NoError(t, h.QueueAction(hero, combat.Action{Kind: combat.ActionAttack, Target: rat}))
	require.NoError(t, h.QueueAction(rat, combat.Nothing()))
	h.ExecuteFullTurn()

	assert.Equal(t, -7, rat.Health())
	assert.True(t, h.Destroyed())
}

// fixedSrc returns val for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }
