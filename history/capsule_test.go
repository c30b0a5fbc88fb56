package history

import "testing"

// TestCollapseRegionHistogramsSumToOne reproduces the worked example:
// 3 derived events in one region across 2 categories (war, reform)
// collapse into one capsule whose event_count and category counts
// match, and whose 4-bin confidence/bias histograms each sum (in
// Q16.16) to RatioOne.
func TestCollapseRegionHistogramsSumToOne(t *testing.T) {
	d := activeDomain(1000)
	// All three land in the same histogram bin (confidence and bias
	// both RatioOne), so truncating division still renormalizes to
	// exactly RatioOne rather than leaving a rounding remainder.
	events := []Event{
		{ID: 1, RegionID: 7, Origin: EventOriginDerived, Category: EventCategoryWar, Confidence: RatioOne, Bias: RatioOne},
		{ID: 2, RegionID: 7, Origin: EventOriginDerived, Category: EventCategoryReform, Confidence: RatioOne, Bias: RatioOne},
		{ID: 3, RegionID: 7, Origin: EventOriginDerived, Category: EventCategoryReform, Confidence: RatioOne, Bias: RatioOne},
	}
	for _, e := range events {
		if err := d.AddEvent(e); err != nil {
			t.Fatal(err)
		}
	}

	if err := d.CollapseRegion(7); err != nil {
		t.Fatal(err)
	}
	capsule, ok := d.CapsuleAt(0)
	if !ok {
		t.Fatal("expected a capsule at index 0")
	}
	if capsule.EventCount != 3 {
		t.Fatalf("EventCount = %d, want 3", capsule.EventCount)
	}
	if got := capsule.EventCategoryCounts[EventCategoryWar] + capsule.EventCategoryCounts[EventCategoryReform]; got != 3 {
		t.Fatalf("war+reform category counts = %d, want 3", got)
	}

	var confSum, biasSum uint64
	for i := 0; i < HistBins; i++ {
		confSum += uint64(capsule.ConfidenceHist[i])
		biasSum += uint64(capsule.BiasHist[i])
	}
	if confSum != uint64(RatioOne) {
		t.Fatalf("confidence histogram sums to %#x, want %#x", confSum, uint64(RatioOne))
	}
	if biasSum != uint64(RatioOne) {
		t.Fatalf("bias histogram sums to %#x, want %#x", biasSum, uint64(RatioOne))
	}
}

func TestCollapseRegionIsIdempotent(t *testing.T) {
	d := activeDomain(1000)
	if err := d.AddEvent(Event{ID: 1, RegionID: 3, Origin: EventOriginDerived, Confidence: RatioOne}); err != nil {
		t.Fatal(err)
	}
	if err := d.CollapseRegion(3); err != nil {
		t.Fatal(err)
	}
	if err := d.CollapseRegion(3); err != nil {
		t.Fatal(err)
	}
	if d.CapsuleCount() != 1 {
		t.Fatalf("capsule count = %d, want 1", d.CapsuleCount())
	}
}
