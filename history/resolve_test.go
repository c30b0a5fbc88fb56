package history

import (
	"testing"

	"dominium.dev/core/fixedpoint"
)

func activeDomain(maxUnits uint64) *Domain {
	d := NewDomain(maxUnits, Policy{CostAnalytic: 1, CostCoarse: 1, CostMedium: 1})
	d.SetState(ExistenceRealized, ArchivalLive)
	return d
}

func TestResolveRefusesInactiveDomain(t *testing.T) {
	d := NewDomain(1000, Policy{})
	d.SetState(ExistenceDeclared, ArchivalLive)
	result := d.Resolve(0, 1, 1)
	if result.Status != StatusRefused || result.RefusalReason != RefusalDomainInactive {
		t.Fatalf("got %+v, want refused/inactive", result)
	}
}

func TestResolveCountsEntitiesByRegion(t *testing.T) {
	d := activeDomain(1000)
	if err := d.AddSource(Source{ID: 1, RegionID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := d.AddSource(Source{ID: 2, RegionID: 2}); err != nil {
		t.Fatal(err)
	}
	result := d.Resolve(1, 1, 1)
	if result.Status != StatusOK {
		t.Fatalf("status = %v, want OK", result.Status)
	}
	if result.SourceCount != 1 {
		t.Fatalf("SourceCount = %d, want 1", result.SourceCount)
	}
}

func TestResolveFirstWinsRefusalReason(t *testing.T) {
	d := activeDomain(3) // analytic(1) + 2 more units only
	for i := uint32(0); i < 5; i++ {
		if err := d.AddSource(Source{ID: i, RegionID: 1}); err != nil {
			t.Fatal(err)
		}
	}
	result := d.Resolve(1, 1, 1)
	if result.RefusalReason != RefusalBudgetExhausted {
		t.Fatalf("RefusalReason = %v, want RefusalBudgetExhausted", result.RefusalReason)
	}
	if result.Flags&FlagPartial == 0 {
		t.Fatal("expected PARTIAL flag on budget exhaustion")
	}

	// Drive the domain further and confirm the reason is not
	// overwritten by a later exhaustion in the same or a later call.
	reasonAfterFirst := result.RefusalReason
	result2 := d.Resolve(1, 1, 1)
	if result2.RefusalReason != RefusalNone && result2.RefusalReason != reasonAfterFirst {
		t.Fatalf("refusal reason should remain stable or clear, got %v", result2.RefusalReason)
	}
}

func TestResolveEventAveraging(t *testing.T) {
	d := activeDomain(1000)
	if err := d.AddEvent(Event{ID: 1, RegionID: 1, Origin: EventOriginDerived, Confidence: fixedpoint.One}); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEvent(Event{ID: 2, RegionID: 1, Origin: EventOriginDerived, Confidence: 0}); err != nil {
		t.Fatal(err)
	}
	result := d.Resolve(1, 1, 1)
	want := fixedpoint.One / 2
	if result.AvgConfidence != want {
		t.Fatalf("AvgConfidence = %d, want %d", result.AvgConfidence, want)
	}
}

func TestCollapseExpandRegionRoundTrip(t *testing.T) {
	d := activeDomain(1000)
	if err := d.AddSource(Source{ID: 1, RegionID: 9}); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEvent(Event{ID: 1, RegionID: 9, Origin: EventOriginDerived, Confidence: fixedpoint.One}); err != nil {
		t.Fatal(err)
	}

	if err := d.CollapseRegion(9); err != nil {
		t.Fatal(err)
	}
	if !d.regionCollapsed(9) {
		t.Fatal("region should be collapsed")
	}
	// Idempotent.
	if err := d.CollapseRegion(9); err != nil {
		t.Fatal(err)
	}
	if d.CapsuleCount() != 1 {
		t.Fatalf("capsule count = %d, want 1 (collapse must be idempotent)", d.CapsuleCount())
	}

	if err := d.ExpandRegion(9); err != nil {
		t.Fatal(err)
	}
	if d.regionCollapsed(9) {
		t.Fatal("region should no longer be collapsed")
	}
	if err := d.ExpandRegion(9); err == nil {
		t.Fatal("expanding an uncollapsed region should error")
	}
}

// TestResolveAppliesDecayAndSetsDecayedFlag reproduces the worked
// example: one derived event at confidence=0.8, decay_rate=0.1,
// resolved with tick_delta=2 leaves confidence=0.64, uncertainty=0.16,
// and DECAYED in the result flags.
func TestResolveAppliesDecayAndSetsDecayedFlag(t *testing.T) {
	d := activeDomain(1000)
	if err := d.AddEvent(Event{
		ID: 1, RegionID: 1, Origin: EventOriginDerived,
		Confidence: fixedpoint.One * 8 / 10,
		DecayRate:  fixedpoint.One / 10,
	}); err != nil {
		t.Fatal(err)
	}

	result := d.Resolve(0, 1, 2)
	if result.Flags&FlagDecayed == 0 {
		t.Fatal("expected DECAYED flag after a decay-bearing resolve")
	}
	wantConf := fixedpoint.One * 64 / 100
	if diff := d.Events[0].Confidence - wantConf; diff < -2 || diff > 2 {
		t.Fatalf("confidence = %d, want ~%d", d.Events[0].Confidence, wantConf)
	}
	wantUnc := fixedpoint.One * 16 / 100
	if diff := d.Events[0].Uncertainty - wantUnc; diff < -2 || diff > 2 {
		t.Fatalf("uncertainty = %d, want ~%d", d.Events[0].Uncertainty, wantUnc)
	}
}

func TestResolveWholeDomainFromCapsules(t *testing.T) {
	d := activeDomain(1000)
	if err := d.AddSource(Source{ID: 1, RegionID: 4}); err != nil {
		t.Fatal(err)
	}
	if err := d.CollapseRegion(4); err != nil {
		t.Fatal(err)
	}
	result := d.Resolve(0, 1, 1)
	if result.Flags&FlagPartial == 0 {
		t.Fatal("whole-domain resolve over collapsed regions should be PARTIAL")
	}
	if result.SourceCount != 1 {
		t.Fatalf("SourceCount = %d, want 1 from capsule", result.SourceCount)
	}
}
