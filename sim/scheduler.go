// Package sim implements the deterministic tick scheduler: a bounded,
// registration-ordered system table and the Step loop that applies a
// tick's queued commands before running every registered system in
// the order it was registered.
package sim

import (
	"dominium.dev/core/apply"
	"dominium.dev/core/simcmd"
)

// Scheduler owns one World's local system registry and tick cursor.
// Two Schedulers never share state; this is what lets a host run
// several independent Worlds (e.g. concurrent matches) without one
// World's systems leaking into another's.
type Scheduler struct {
	systems   []System
	tickIndex uint64
}

// NewScheduler returns an empty Scheduler at tick 0.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// RegisterSystem appends s to the local registry, in the registration
// order Step will later run it. It rejects a nil Tick func, a zero
// ID, a duplicate ID, and registration past the 64-system cap.
func (s *Scheduler) RegisterSystem(sys System) error {
	next, err := registerInto(s.systems, sys)
	if err != nil {
		return err
	}
	s.systems = next
	return nil
}

// TickIndex returns the last tick number applied by Step.
func (s *Scheduler) TickIndex() uint64 {
	return s.tickIndex
}

// Step advances the scheduler by n ticks. For each tick it increments
// the tick index, applies that tick's queued commands via applicator,
// then runs every globally registered subsystem followed by every
// locally registered system, both in registration order and each with
// ticks = 1 — matching
// d_sim_step's body exactly.
func (s *Scheduler) Step(world apply.World, queue *simcmd.Queue, applicator *apply.Applicator, n uint64) error {
	for i := uint64(0); i < n; i++ {
		s.tickIndex++
		if err := applicator.ApplyForTick(world, queue, s.tickIndex); err != nil {
			return err
		}
		for _, g := range globalSubsystems {
			if err := g.Tick(world, 1); err != nil {
				return err
			}
		}
		for _, sys := range s.systems {
			if err := sys.Tick(world, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

// globalSubsystems is the sole package-level mutable state in this
// module: a process-wide subsystem manifest shared by every
// Scheduler, mirroring the original engine's global subsystem table.
// Registering here makes a subsystem run on every Scheduler's Step
// call; per-World isolation is achieved by keeping gameplay systems on
// Scheduler.systems instead.
var globalSubsystems []System

// RegisterGlobalSubsystem appends sys to the process-wide subsystem
// table, subject to the same validation as RegisterSystem.
func RegisterGlobalSubsystem(sys System) error {
	next, err := registerInto(globalSubsystems, sys)
	if err != nil {
		return err
	}
	globalSubsystems = next
	return nil
}

// GlobalSubsystemCount returns the number of registered global
// subsystems, for introspection/tooling.
func GlobalSubsystemCount() int {
	return len(globalSubsystems)
}
