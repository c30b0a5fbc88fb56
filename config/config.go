// Package config loads the engine's YAML configuration surface: tick
// rate, command queue caps, history budget caps, and replay paths.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirrors the original engine's baked-in constants; a host
// overrides only the fields it cares about via a fileConfig overlay.
var Defaults = Runtime{
	TickRate:            60,
	InputDelayTicks:     2,
	CommandQueueGlobal:  8192,
	CommandQueuePerTick: 256,
	CommandPayloadMax:   256 * 1024,
	HistoryBudgetMax:    100000,
	ReplayPath:          "",
}

// Runtime is the resolved, in-memory engine configuration a host
// passes to Engine construction.
type Runtime struct {
	TickRate            uint32
	InputDelayTicks     uint32
	CommandQueueGlobal  int
	CommandQueuePerTick int
	CommandPayloadMax   int
	HistoryBudgetMax    uint64
	ReplayPath          string
}

// fileConfig is the YAML-facing shape: every field is an optional
// pointer override, following senomorf-oci-cpu-shaper's fileConfig
// convention so an absent key in the YAML document leaves the default
// untouched rather than zeroing it out.
type fileConfig struct {
	TickRate            *uint32 `yaml:"tickRate"`
	InputDelayTicks     *uint32 `yaml:"inputDelayTicks"`
	CommandQueueGlobal  *int    `yaml:"commandQueueGlobal"`
	CommandQueuePerTick *int    `yaml:"commandQueuePerTick"`
	CommandPayloadMax   *int    `yaml:"commandPayloadMax"`
	HistoryBudgetMax    *uint64 `yaml:"historyBudgetMax"`
	ReplayPath          *string `yaml:"replayPath"`
}

// Load reads a YAML config file at path and merges it over Defaults.
// A missing file is not an error; it simply yields Defaults.
func Load(path string) (Runtime, error) {
	rt := Defaults
	if path == "" {
		return rt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rt, nil
		}
		return Runtime{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Runtime{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyOverrides(&rt, fc)
	return rt, nil
}

func applyOverrides(rt *Runtime, fc fileConfig) {
	if fc.TickRate != nil {
		rt.TickRate = *fc.TickRate
	}
	if fc.InputDelayTicks != nil {
		rt.InputDelayTicks = *fc.InputDelayTicks
	}
	if fc.CommandQueueGlobal != nil {
		rt.CommandQueueGlobal = *fc.CommandQueueGlobal
	}
	if fc.CommandQueuePerTick != nil {
		rt.CommandQueuePerTick = *fc.CommandQueuePerTick
	}
	if fc.CommandPayloadMax != nil {
		rt.CommandPayloadMax = *fc.CommandPayloadMax
	}
	if fc.HistoryBudgetMax != nil {
		rt.HistoryBudgetMax = *fc.HistoryBudgetMax
	}
	if fc.ReplayPath != nil {
		rt.ReplayPath = *fc.ReplayPath
	}
}
