package combat_test

import (
	"testing"
	"time"

	"github.com/duskmantle/mud/internal/game/combat"
)

func TestTurnTimer_Fires(t *testing.T) {
	fired := make(chan struct{})
	tt := combat.NewTurnTimer(5*time.Millisecond, func() { close(fired) })
	defer tt.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestTurnTimer_StopPreventsFiring(t *testing.T) {
	fired := make(chan struct{}, 1)
	tt := combat.NewTurnTimer(20*time.Millisecond, func() { fired <- struct{}{} })
	tt.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer must not fire")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestTurnTimer_Reset(t *testing.T) {
	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	tt := combat.NewTurnTimer(200*time.Millisecond, func() { first <- struct{}{} })
	tt.Reset(5*time.Millisecond, func() { second <- struct{}{} })
	defer tt.Stop()

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("reset timer did not fire")
	}
	select {
	case <-first:
		t.Fatal("original callback must not fire after Reset")
	case <-time.After(50 * time.Millisecond):
	}
}
