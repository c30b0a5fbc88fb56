package history

import "dominium.dev/core/fixedpoint"

// applyDecay reduces ev's confidence by
// confidence * decay_rate * max(tick_delta, 1) and raises its
// uncertainty by the same amount, the tick scaling computed in Q48.16
// to avoid overflowing the Q16.16 intermediate, then narrowed and
// clamped back. Both a non-positive decay rate and a non-positive
// confidence are no-ops, as is a decay amount that narrows to exactly
// zero. Matches dom_history_apply_decay.
func applyDecay(ev *Event, tick uint64, tickDelta uint64) bool {
	if ev.DecayRate <= 0 || ev.Confidence <= 0 {
		return false
	}
	delta := tickDelta
	if delta == 0 {
		delta = 1
	}
	decayPerTick := fixedpoint.MulQ16(ev.Confidence, ev.DecayRate)
	decayTotal := fixedpoint.MulWiden(decayPerTick, int64(delta))
	decayQ16 := decayTotal.Narrow()
	if decayQ16 == 0 {
		return false
	}
	ev.Confidence = fixedpoint.SubClamped(ev.Confidence, decayQ16)
	ev.Uncertainty = fixedpoint.AddClamped(ev.Uncertainty, decayQ16)
	ev.Flags |= eventFlagRevised
	ev.LastUpdateTick = tick
	return true
}

// applyProcess applies proc's queued operation to its target event —
// looked up by proc.TargetEventID in d — following the RECORD/FORGET/
// REVISE/MYTHOLOGIZE state machine, and accumulates the signed delta
// of each target field (after - before, in Q48.16) into the returned
// totals for Resolve's running averages. A process is skipped (and
// left unapplied) until proc.StartTick <= tick, or if its target
// cannot be found; once applied it is terminal until domain reset.
// Matches dom_history_apply_process.
func (d *Domain) applyProcess(proc *Event, tick uint64) (confDelta, uncDelta, biasDelta fixedpoint.Q48) {
	if proc.Origin != EventOriginProcess || proc.Applied {
		return 0, 0, 0
	}
	if proc.StartTick > tick {
		return 0, 0, 0
	}
	idx := d.findEventIndex(proc.TargetEventID)
	if idx < 0 {
		return 0, 0, 0
	}
	target := &d.Events[idx]

	confBefore, uncBefore, biasBefore := target.Confidence, target.Uncertainty, target.Bias

	switch proc.Process {
	case ProcessRecord:
		target.Confidence = fixedpoint.AddClamped(target.Confidence, proc.DeltaConfidence)
		if proc.DeltaUncertainty > 0 {
			target.Uncertainty = fixedpoint.SubClamped(target.Uncertainty, proc.DeltaUncertainty)
		}
		target.Flags |= eventFlagRecorded
	case ProcessForget:
		target.Confidence = fixedpoint.SubClamped(target.Confidence, proc.DeltaConfidence)
		target.Uncertainty = fixedpoint.AddClamped(target.Uncertainty, proc.DeltaUncertainty)
		target.Flags |= eventFlagForgotten
	case ProcessRevise:
		target.Bias = fixedpoint.AddClamped(target.Bias, proc.DeltaBias)
		target.Uncertainty = fixedpoint.AddClamped(target.Uncertainty, proc.DeltaUncertainty)
		target.Flags |= eventFlagRevised
	case ProcessMythologize:
		target.Bias = fixedpoint.AddClamped(target.Bias, proc.DeltaBias)
		target.Uncertainty = fixedpoint.AddClamped(target.Uncertainty, proc.DeltaUncertainty)
		target.Flags |= eventFlagMyth
	default:
		return 0, 0, 0
	}

	proc.Flags |= eventFlagApplied
	proc.Applied = true

	confDelta = target.Confidence.Widen() - confBefore.Widen()
	uncDelta = target.Uncertainty.Widen() - uncBefore.Widen()
	biasDelta = target.Bias.Widen() - biasBefore.Widen()
	return confDelta, uncDelta, biasDelta
}

// Event flag bits, matching dom_history_event_flag exactly.
const (
	eventFlagForgotten uint32 = 1 << 1
	eventFlagRevised   uint32 = 1 << 2
	eventFlagMyth      uint32 = 1 << 3
	eventFlagRecorded  uint32 = 1 << 4
	eventFlagApplied   uint32 = 1 << 5
)

// histBin maps a clamped ratio into one of HistBins buckets:
// bin = clamp_ratio(ratio) * (BINS-1) >> 16, clamped to BINS-1.
func histBin(ratio fixedpoint.Q16) int {
	r := fixedpoint.ClampRatio(ratio)
	bin := (int64(r) * (HistBins - 1)) >> 16
	if bin > HistBins-1 {
		bin = HistBins - 1
	}
	if bin < 0 {
		bin = 0
	}
	return int(bin)
}

// histBinRatio renormalizes a histogram bin count back to a Q16.16
// ratio of the total event count n.
func histBinRatio(binCount uint32, n uint32) fixedpoint.Q16 {
	if n == 0 {
		return 0
	}
	ratio := (int64(binCount) << 16) / int64(n)
	return fixedpoint.ClampRatio(fixedpoint.Q16(ratio))
}
