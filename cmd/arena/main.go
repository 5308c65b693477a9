// Package main provides the arena binary: it loads game content, spawns two
// squads of characters, and runs a timed turn-based battle to completion.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/duskmantle/mud/internal/config"
	"github.com/duskmantle/mud/internal/game/combat"
	"github.com/duskmantle/mud/internal/game/dice"
	"github.com/duskmantle/mud/internal/game/entity"
	"github.com/duskmantle/mud/internal/game/inventory"
	"github.com/duskmantle/mud/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	turnInterval := flag.Duration("turn-interval", 0, "override combat.turn_interval; 0 uses the configured value")
	maxTurns := flag.Int("max-turns", 100, "abort the battle after this many turns")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	interval := cfg.Combat.TurnInterval
	if *turnInterval > 0 {
		interval = *turnInterval
	}

	// Load content
	loadStart := time.Now()
	weapons, err := inventory.LoadWeapons(cfg.Content.WeaponsDir)
	if err != nil {
		logger.Fatal("loading weapons", zap.Error(err))
	}
	armory := inventory.NewRegistry(weapons)

	templates, err := entity.LoadTemplates(cfg.Content.CharactersDir)
	if err != nil {
		logger.Fatal("loading character templates", zap.Error(err))
	}
	consumables, err := entity.LoadConsumables(cfg.Content.ConsumablesDir)
	if err != nil {
		logger.Fatal("loading consumables", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(weapons)),
		zap.Int("templates", len(templates)),
		zap.Int("consumables", len(consumables)),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	fighters := spawnAll(templates, armory, logger)
	if len(fighters) < 2 {
		logger.Fatal("need at least two character templates for a battle",
			zap.Int("templates", len(templates)))
	}

	registry := combat.NewRegistry(combat.Options{
		Source:      dice.NewCryptoSource(),
		Logger:      logger,
		FleeTimeout: cfg.Combat.FleeTimeout,
	})
	handler := registry.GetOrCreate(fighters[0])
	others := make([]combat.Combatant, 0, len(fighters)-1)
	for _, f := range fighters[1:] {
		others = append(others, f)
	}
	handler.AddCombatants(others...)

	logger.Info("battle starting",
		zap.Int("combatants", len(fighters)),
		zap.Duration("turn_interval", interval),
	)

	done := make(chan struct{})
	var timer *combat.TurnTimer
	var runTurn func()
	runTurn = func() {
		queueAttacks(handler)
		handler.ExecuteFullTurn()
		if handler.Destroyed() || handler.Turn() >= *maxTurns {
			close(done)
			return
		}
		timer.Reset(interval, runTurn)
	}
	timer = combat.NewTurnTimer(interval, runTurn)
	defer timer.Stop()
	<-done

	logger.Info("battle over", zap.Int("turns", handler.Turn()))
	for _, f := range fighters {
		logger.Info("combatant result",
			zap.String("name", f.Name()),
			zap.Int("health", f.Health()),
			zap.Bool("standing", f.Health() > 0),
		)
	}
}

// spawnAll instantiates a character per template and arms it with its
// template weapon, if registered.
func spawnAll(templates []*entity.Template, armory *inventory.Registry, logger *zap.Logger) []*entity.Character {
	fighters := make([]*entity.Character, 0, len(templates))
	for _, tmpl := range templates {
		c := entity.Spawn(tmpl)
		if tmpl.WeaponID != "" {
			if w, ok := armory.Weapon(tmpl.WeaponID); ok {
				c.Equipment().Wield(w)
			} else {
				logger.Warn("unknown weapon in template",
					zap.String("template", tmpl.ID),
					zap.String("weapon", tmpl.WeaponID))
			}
		}
		name := c.Name()
		c.Send = func(text string) {
			fmt.Printf("[%s] %s\n", name, text)
		}
		fighters = append(fighters, c)
	}
	return fighters
}

// queueAttacks gives every combatant a default action: attack the first
// hostile still standing.
func queueAttacks(h *combat.Handler) {
	for _, c := range h.Combatants() {
		_, enemies := h.Sides(c)
		action := combat.Nothing()
		for _, e := range enemies {
			if e.Health() > 0 {
				action = combat.Action{Kind: combat.ActionAttack, Target: e}
				break
			}
		}
		if err := h.QueueAction(c, action); err != nil {
			return
		}
	}
}
