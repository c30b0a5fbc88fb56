// Package apply implements the deterministic command applicator: it
// sorts a tick's queued commands into canonical order, dispatches each
// by schema ID, and offers a pre-apply observer hook for replay
// capture.
package apply

import (
	"sort"

	"dominium.dev/core/simcmd"
	"dominium.dev/core/wire"
)

// World is the target of command application: the subset of game
// state a BUILD_V1 or RESEARCH_V1 command can mutate.
type World interface {
	Builder
	Researcher
}

// Observer is called once per tick, after commands are sorted into
// canonical order but before any of them are applied. A replay writer
// registers an Observer to capture exactly what was applied, in the
// order it was applied.
type Observer func(tick uint64, sorted []simcmd.Command)

// Applicator dispatches sorted commands to a World by schema ID.
type Applicator struct {
	observer Observer
}

// NewApplicator returns an Applicator with no observer registered.
func NewApplicator() *Applicator {
	return &Applicator{}
}

// SetTickCmdsObserver installs (or, with nil, clears) the pre-apply
// observer, matching d_net_set_tick_cmds_observer.
func (a *Applicator) SetTickCmdsObserver(obs Observer) {
	a.observer = obs
}

// sortCommands sorts cmds in place by the canonical total order. The
// original comparator is not required to be stable; sort.Slice is
// used rather than sort.SliceStable to match that.
func sortCommands(cmds []simcmd.Command) {
	sort.Slice(cmds, func(i, j int) bool {
		return simcmd.Less(cmds[i], cmds[j])
	})
}

// ApplyOne dispatches a single command to world by schema ID. Unknown
// schema IDs are ignored deterministically and return nil.
func ApplyOne(world World, cmd simcmd.Command) error {
	switch cmd.SchemaID {
	case wire.SchemaCmdBuildV1:
		req, err := ParseBuild(cmd.Payload)
		if err != nil {
			return err
		}
		if err := world.BuildValidate(req); err != nil {
			return err
		}
		return world.BuildCommit(req)
	case wire.SchemaCmdBuildV2:
		req, err := ParseBuildV2(cmd.Payload)
		if err != nil {
			return err
		}
		// v2 validates only; no commit step exists for it.
		return world.BuildValidateV2(req)
	case wire.SchemaCmdResearch:
		req, err := ParseResearch(cmd.Payload)
		if err != nil {
			return err
		}
		return world.ResearchSetActive(req)
	default:
		return nil
	}
}

// ApplyForTick dequeues every command scheduled for tick, sorts them
// into canonical order, invokes the observer with the sorted slice,
// then applies each command in that order. It matches
// d_net_apply_for_tick's sequencing exactly: dequeue, sort, observe,
// apply.
func (a *Applicator) ApplyForTick(world World, queue *simcmd.Queue, tick uint64) error {
	cmds, err := queue.DequeueForTick(tick, simcmd.MaxCommandsPerTick)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		return nil
	}
	sortCommands(cmds)
	if a.observer != nil {
		a.observer(tick, cmds)
	}
	for _, cmd := range cmds {
		if err := ApplyOne(world, cmd); err != nil {
			return err
		}
	}
	return nil
}
