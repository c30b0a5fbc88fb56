package sim

import "dominium.dev/core/apply"

// System is one tick-ordered unit of simulation logic, registered
// with a Scheduler in the order it should run every tick. Tick
// receives the World passed into Scheduler.Step so a registered
// system can observe or mutate it, matching d_sim_step's subsystem
// callback signature of (world, ticks).
type System struct {
	ID       uint32
	Name     string
	Init     func() error
	Tick     func(world apply.World, ticks uint64) error
	Shutdown func() error
}

// maxSystems matches DSIM_MAX_SYSTEMS.
const maxSystems = 64

func registerInto(systems []System, s System) ([]System, error) {
	if s.Tick == nil {
		return systems, simErr(ErrNilSystem, "system.Tick must not be nil")
	}
	if s.ID == 0 {
		return systems, simErr(ErrZeroID, "system id must not be zero")
	}
	for _, existing := range systems {
		if existing.ID == s.ID {
			return systems, simErr(ErrDuplicateID, "system id already registered")
		}
	}
	if len(systems) >= maxSystems {
		return systems, simErr(ErrRegistryFull, "subsystem registry is full")
	}
	return append(systems, s), nil
}
