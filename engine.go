// Package dominium wires the deterministic simulation kernel's
// independent packages — command queue, applicator, scheduler,
// transport adapter, history engine, and DMRP replay writer — into one
// struct a host constructs and steps. Nothing here is required: every
// wired package works standalone, and Engine exists only to save a
// host the trouble of wiring the dequeue/apply/schedule sequence and
// the replay capture observer by hand.
package dominium

import (
	"dominium.dev/core/apply"
	"dominium.dev/core/config"
	"dominium.dev/core/history"
	"dominium.dev/core/replay"
	"dominium.dev/core/sim"
	"dominium.dev/core/simcmd"
	"dominium.dev/core/transport"
)

// Engine holds one of each kernel subsystem for a single deterministic
// run. It is not safe for concurrent use, matching every subsystem it
// wraps.
type Engine struct {
	Config     config.Runtime
	Queue      *simcmd.Queue
	Applicator *apply.Applicator
	Scheduler  *sim.Scheduler
	Transport  *transport.Adapter
	History    *history.Domain

	replayWriter *replay.Writer
}

// New returns an Engine with a fresh queue, applicator, scheduler, and
// transport adapter, using cfg's caps where the wrapped package
// exposes them as constructor arguments (today none do: the caps in
// cfg are compile-time constants in simcmd, kept here so a host can
// still read and log the effective configuration without the wrapped
// packages depending on config themselves).
func New(cfg config.Runtime, historyDomain *history.Domain) *Engine {
	return &Engine{
		Config:     cfg,
		Queue:      simcmd.NewQueue(),
		Applicator: apply.NewApplicator(),
		Scheduler:  sim.NewScheduler(),
		Transport:  transport.NewAdapter(),
		History:    historyDomain,
	}
}

// AttachReplay installs w as the engine's replay sink: every tick's
// sorted, pre-apply command batch is written to w via WriteCmd,
// capturing exactly what ApplyForTick is about to apply, in the order
// it applies it. Passing nil detaches any previously attached writer.
func (e *Engine) AttachReplay(w *replay.Writer) {
	e.replayWriter = w
	if w == nil {
		e.Applicator.SetTickCmdsObserver(nil)
		return
	}
	e.Applicator.SetTickCmdsObserver(func(tick uint64, sorted []simcmd.Command) {
		for _, cmd := range sorted {
			// A replay write failure here cannot be surfaced through
			// the Observer signature; ApplyForTick proceeds regardless; a
			// host that cares should poll w's last error via its own
			// wrapping, or avoid attaching replay once a prior write failed.
			_ = w.WriteCmd(tick, cmd)
		}
	})
}

// Step advances the simulation by n ticks. It delegates directly to
// Scheduler.Step, which performs the dequeue-apply-run-systems sequence
// for each tick; Step does not dequeue or apply commands itself.
func (e *Engine) Step(world apply.World, n uint64) error {
	return e.Scheduler.Step(world, e.Queue, e.Applicator, n)
}

// TickIndex returns the last tick number the scheduler has applied.
func (e *Engine) TickIndex() uint64 {
	return e.Scheduler.TickIndex()
}
