package world

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

// Hooks lets the embedding process observe the loop without the world
// importing transport or persistence packages.
type Hooks struct {
	// OnCommand fires after a command was applied, with its result.
	OnCommand func(tick uint64, cmd protocol.Command, res protocol.Result)
	// OnSlowTick fires after each slow tick completes.
	OnSlowTick func(w *World)
	// OnSnapshot fires with each published snapshot.
	OnSnapshot func(s *protocol.ViewSnapshot)
	// OnPersist handles SAVE_TO, LOAD_FROM and NEW_GAME. It runs on the
	// loop goroutine and may call ReplaceWorld. Nil rejects those commands.
	OnPersist func(rt *Runtime, cmd protocol.Command) protocol.Result
}

type cmdReq struct {
	cmd   protocol.Command
	reply chan protocol.Result
}

// Runtime drives a world on its own goroutine. Commands are buffered and
// applied at the next tick boundary in arrival order, so the world itself
// stays single-threaded.
type Runtime struct {
	w     *World
	hooks Hooks

	cmds chan cmdReq
	snap atomic.Pointer[protocol.ViewSnapshot]
}

func NewRuntime(w *World, hooks Hooks) *Runtime {
	return &Runtime{w: w, hooks: hooks, cmds: make(chan cmdReq, 256)}
}

// World exposes the underlying world for single-threaded callers (tests,
// the replay tool). Never touch it while Run is active.
func (rt *Runtime) World() *World { return rt.w }

// ReplaceWorld swaps the driven world. Only safe from the loop goroutine,
// i.e. inside an OnPersist hook.
func (rt *Runtime) ReplaceWorld(w *World) { rt.w = w }

// Submit queues a command and blocks until the tick boundary applies it.
func (rt *Runtime) Submit(ctx context.Context, cmd protocol.Command) protocol.Result {
	req := cmdReq{cmd: cmd, reply: make(chan protocol.Result, 1)}
	select {
	case rt.cmds <- req:
	case <-ctx.Done():
		return protocol.Reject(protocol.ErrInternal, "runtime shutting down")
	}
	select {
	case res := <-req.reply:
		return res
	case <-ctx.Done():
		return protocol.Reject(protocol.ErrInternal, "runtime shutting down")
	}
}

// Snapshot returns the most recently published view, or nil before the
// first tick.
func (rt *Runtime) Snapshot() *protocol.ViewSnapshot { return rt.snap.Load() }

// Run owns the world until the context ends. Fixed-rate ticking: each
// interval applies pending commands, advances Speed fast ticks (unless
// paused) and publishes a snapshot.
func (rt *Runtime) Run(ctx context.Context) {
	hz := rt.w.Tun.TickRateHz
	if hz <= 0 {
		hz = 20
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	rt.publish(nil)
	for {
		select {
		case <-ctx.Done():
			rt.drainPending()
			return
		case <-ticker.C:
			events := rt.tickOnce()
			rt.publish(events)
		}
	}
}

// tickOnce is one loop iteration: commands, then Speed world steps.
func (rt *Runtime) tickOnce() []protocol.Event {
	for {
		select {
		case req := <-rt.cmds:
			var res protocol.Result
			switch req.cmd.Type {
			case protocol.CmdSaveTo, protocol.CmdLoadFrom, protocol.CmdNewGame:
				if rt.hooks.OnPersist != nil {
					res = rt.hooks.OnPersist(rt, req.cmd)
				} else {
					res = protocol.Reject(protocol.ErrBadRequest, "persistence commands not available")
				}
			default:
				res = rt.w.Apply(req.cmd)
			}
			if rt.hooks.OnCommand != nil {
				rt.hooks.OnCommand(rt.w.Clock.Tick, req.cmd, res)
			}
			req.reply <- res
			continue
		default:
		}
		break
	}

	if !rt.w.Clock.Paused {
		before := rt.w.SlowCount
		for i := 0; i < rt.w.Clock.Speed; i++ {
			rt.w.Step()
		}
		if rt.w.SlowCount != before && rt.hooks.OnSlowTick != nil {
			rt.hooks.OnSlowTick(rt.w)
		}
	}
	return rt.w.DrainEvents()
}

func (rt *Runtime) publish(events []protocol.Event) {
	s := rt.w.BuildSnapshot(events)
	rt.snap.Store(s)
	if rt.hooks.OnSnapshot != nil {
		rt.hooks.OnSnapshot(s)
	}
}

// drainPending rejects queued commands on shutdown so submitters unblock.
func (rt *Runtime) drainPending() {
	for {
		select {
		case req := <-rt.cmds:
			req.reply <- protocol.Reject(protocol.ErrInternal, "runtime shutting down")
		default:
			return
		}
	}
}
