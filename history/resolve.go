package history

import "dominium.dev/core/fixedpoint"

// Status is the top-level outcome of a Resolve call.
type Status uint8

const (
	StatusOK Status = iota
	StatusRefused
)

// ResolveFlag is a bitmask of qualifiers on an otherwise-OK result.
type ResolveFlag uint32

// FlagPartial marks a result that skipped some entities — either
// because the query ran out of budget partway through, or because a
// whole-domain query skipped entities of collapsed regions or was
// answered from macro capsules alone.
const FlagPartial ResolveFlag = 1 << 0

// FlagDecayed marks a result in which at least one derived event's
// confidence/uncertainty was adjusted by the decay pass.
const FlagDecayed ResolveFlag = 1 << 1

// RefusalReason records why a Resolve call could not complete. Once
// set within a single Resolve call it is never overwritten by a later
// refusal in the same call — first-wins semantics.
type RefusalReason uint8

const (
	RefusalNone RefusalReason = iota
	RefusalDomainInactive
	RefusalBudgetExhausted
)

// ResolveResult is the full output of a budgeted history query.
type ResolveResult struct {
	Status        Status
	Flags         ResolveFlag
	RefusalReason RefusalReason

	CostUnits  uint64
	BudgetUsed uint64
	BudgetMax  uint64

	SourceCount uint32
	EventCount  uint32
	EpochCount  uint32
	GraphCount  uint32
	NodeCount   uint32
	EdgeCount   uint32

	AvgConfidence  fixedpoint.Q16
	AvgUncertainty fixedpoint.Q16
	AvgBias        fixedpoint.Q16
}

func refusedResult(d *Domain, reason RefusalReason) ResolveResult {
	return ResolveResult{
		Status:        StatusRefused,
		RefusalReason: reason,
		BudgetUsed:    d.UsedUnits,
		BudgetMax:     d.MaxUnits,
	}
}

func (r *ResolveResult) setFlag(f ResolveFlag) {
	r.Flags |= f
}

// noteBudgetExhausted sets the first-wins refusal reason and the PARTIAL flag
// on budget exhaustion encountered mid-walk.
func (r *ResolveResult) noteBudgetExhausted() {
	r.setFlag(FlagPartial)
	if r.RefusalReason == RefusalNone {
		r.RefusalReason = RefusalBudgetExhausted
	}
}

// spend debits cost from the domain's budget if affordable, returning
// false (without debiting) if it would exceed MaxUnits.
func (d *Domain) spend(cost uint64) bool {
	if d.UsedUnits+cost > d.MaxUnits {
		return false
	}
	d.UsedUnits += cost
	return true
}

// Resolve answers a budgeted history query scoped to region (0 means
// the whole domain), decaying and advancing process events by
// tickDelta ticks. It debits the domain's budget as it walks entity
// classes in the fixed order: sources, events (decay pass then
// process-apply pass), epochs, graphs, nodes, edges — matching
// dom_history_resolve's structure and spend order exactly.
func (d *Domain) Resolve(region uint32, tick uint64, tickDelta uint64) ResolveResult {
	if !d.IsActive() {
		return refusedResult(d, RefusalDomainInactive)
	}

	result := ResolveResult{Status: StatusOK, BudgetMax: d.MaxUnits}

	if !d.spend(d.Policy.costAnalytic()) {
		result.noteBudgetExhausted()
		result.Status = StatusRefused
		result.BudgetUsed = d.UsedUnits
		return result
	}

	if region == 0 {
		if whole := d.resolveFromCapsules(&result); whole {
			result.BudgetUsed = d.UsedUnits
			result.CostUnits = d.UsedUnits
			return result
		}
	}

	var confSum, uncSum, biasSum fixedpoint.Q48
	var eventsSeen, edgesSeen uint32

	for i := range d.Sources {
		s := &d.Sources[i]
		if !regionMatches(region, s.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costCoarse()) {
			result.noteBudgetExhausted()
			break
		}
		result.SourceCount++
	}

	// First event pass: decay DERIVED events and accumulate averages.
	for i := range d.Events {
		e := &d.Events[i]
		if e.Origin != EventOriginDerived {
			continue
		}
		if !regionMatches(region, e.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costMedium()) {
			result.noteBudgetExhausted()
			break
		}
		if applyDecay(e, tick, tickDelta) {
			result.setFlag(FlagDecayed)
		}
		result.EventCount++
		eventsSeen++
		confSum += e.Confidence.Widen()
		uncSum += e.Uncertainty.Widen()
		biasSum += e.Bias.Widen()
	}

	// Second event pass: apply queued PROCESS events.
	for i := range d.Events {
		e := &d.Events[i]
		if e.Origin != EventOriginProcess {
			continue
		}
		if !regionMatches(region, e.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costMedium()) {
			result.noteBudgetExhausted()
			break
		}
		cd, ud, bd := d.applyProcess(e, tick)
		confSum += cd
		uncSum += ud
		biasSum += bd
	}

	for i := range d.Epochs {
		e := &d.Epochs[i]
		if !regionMatches(region, e.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costCoarse()) {
			result.noteBudgetExhausted()
			break
		}
		result.EpochCount++
	}

	for i := range d.Graphs {
		g := &d.Graphs[i]
		if !regionMatches(region, g.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costCoarse()) {
			result.noteBudgetExhausted()
			break
		}
		result.GraphCount++
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		if !regionMatches(region, n.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costCoarse()) {
			result.noteBudgetExhausted()
			break
		}
		result.NodeCount++
	}

	for i := range d.Edges {
		e := &d.Edges[i]
		if !regionMatches(region, e.RegionID, d, &result) {
			continue
		}
		if !d.spend(d.Policy.costCoarse()) {
			result.noteBudgetExhausted()
			break
		}
		result.EdgeCount++
		edgesSeen++
	}

	if eventsSeen > 0 {
		result.AvgConfidence = fixedpoint.ClampRatio((confSum / fixedpoint.Q48(eventsSeen)).Narrow())
		result.AvgUncertainty = fixedpoint.ClampRatio((uncSum / fixedpoint.Q48(eventsSeen)).Narrow())
		result.AvgBias = fixedpoint.ClampRatio((biasSum / fixedpoint.Q48(eventsSeen)).Narrow())
	}

	if result.RefusalReason != RefusalNone {
		result.Status = StatusRefused
	}
	result.BudgetUsed = d.UsedUnits
	result.CostUnits = d.UsedUnits
	return result
}

// regionMatches reports whether an entity in entityRegion should be
// visited for a query scoped to queryRegion. queryRegion == 0 means
// "whole domain": entities already summarized into a different
// region's capsule are skipped with the PARTIAL flag rather than
// double-counted. A query for a specific region visits exactly the
// entities tagged with that region; it does not check whether that
// region is collapsed and sets no PARTIAL flag for it.
func regionMatches(queryRegion, entityRegion uint32, d *Domain, result *ResolveResult) bool {
	if queryRegion != 0 {
		return entityRegion == queryRegion
	}
	if d.regionCollapsed(entityRegion) {
		result.setFlag(FlagPartial)
		return false
	}
	return true
}

// resolveFromCapsules answers a whole-domain query entirely from
// existing macro capsules when every region under management is
// already collapsed, returning true if it produced the result (so the
// caller should not also walk live entities). It always sets PARTIAL,
// since a capsule-only view is necessarily coarser than a live walk.
func (d *Domain) resolveFromCapsules(result *ResolveResult) bool {
	if len(d.Capsules) == 0 {
		return false
	}
	// Capsule counts are taken at collapse time and entities are never
	// removed, so the counts cover every entity only when every entity's
	// region is collapsed.
	var summarized int
	for _, c := range d.Capsules {
		summarized += int(c.SourceCount + c.EventCount + c.EpochCount + c.GraphCount + c.NodeCount + c.EdgeCount)
	}
	if summarized < len(d.Sources)+len(d.Events)+len(d.Epochs)+len(d.Graphs)+len(d.Nodes)+len(d.Edges) {
		return false
	}
	result.setFlag(FlagPartial)
	for _, c := range d.Capsules {
		result.SourceCount += c.SourceCount
		result.EventCount += c.EventCount
		result.EpochCount += c.EpochCount
		result.GraphCount += c.GraphCount
		result.NodeCount += c.NodeCount
		result.EdgeCount += c.EdgeCount
	}
	return true
}
