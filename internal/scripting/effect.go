// Package scripting provides a sandboxed GopherLua environment for item
// effect scripts. Scripts see only safe stdlib plus host functions bound to
// the combatants involved; execution is capped by an instruction limit.
package scripting

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/duskmantle/mud/internal/game/combat"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// effect execution when no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's main loop calls Done() once per
// opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}
}

// newSandboxedState creates a GopherLua LState with only safe stdlib loaded
// (base, table, string, math), dangerous globals removed, and execution
// limited to at most instLimit opcodes.
func newSandboxedState(instLimit int) *lua.LState {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(newCountingContext(instLimit))
	return L
}

// ItemEffect is a compiled item effect script. The script body runs with
// host functions bound to the using and targeted combatants:
//
//	heal(n)         raise the target's health by n
//	harm(n)         lower the target's health by n
//	health()        the target's current health
//	user_name()     display name of the user
//	target_name()   display name of the target
//
// ItemEffect is immutable after New and safe for concurrent use; each
// Apply runs in a fresh sandboxed state.
type ItemEffect struct {
	source    string
	instLimit int
}

// NewItemEffect wraps source as an item effect. instLimit <= 0 selects
// DefaultInstructionLimit.
//
// Precondition: source must be a syntactically valid Lua chunk; syntax
// errors surface on Apply.
func NewItemEffect(source string, instLimit int) *ItemEffect {
	return &ItemEffect{source: source, instLimit: instLimit}
}

// Apply runs the effect script against user and target.
//
// Postcondition: returns a non-nil error when the script fails to parse,
// errors at runtime, or exceeds the instruction limit; any partial health
// mutation made before the failure remains applied.
func (e *ItemEffect) Apply(user, target combat.Combatant) error {
	L := newSandboxedState(e.instLimit)
	defer L.Close()

	L.SetGlobal("heal", L.NewFunction(func(L *lua.LState) int {
		target.SetHealth(target.Health() + L.CheckInt(1))
		return 0
	}))
	L.SetGlobal("harm", L.NewFunction(func(L *lua.LState) int {
		target.SetHealth(target.Health() - L.CheckInt(1))
		return 0
	}))
	L.SetGlobal("health", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(target.Health()))
		return 1
	}))
	L.SetGlobal("user_name", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(user.Name()))
		return 1
	}))
	L.SetGlobal("target_name", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(target.Name()))
		return 1
	}))

	if err := L.DoString(e.source); err != nil {
		return fmt.Errorf("scripting: item effect failed: %w", err)
	}
	return nil
}
