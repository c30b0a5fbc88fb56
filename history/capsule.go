package history

// CollapseRegion synthesizes a MacroCapsule summarizing every entity
// tagged with region, then marks the region collapsed by appending the
// capsule. It is idempotent: collapsing an already-collapsed region
// returns nil without duplicating the capsule. Matches
// dom_history_domain_collapse_region.
func (d *Domain) CollapseRegion(region uint32) error {
	if d.regionCollapsed(region) {
		return nil
	}
	if len(d.Capsules) >= MaxCapsules {
		return histErr(ErrCapacity, "capsule capacity exhausted")
	}

	c := MacroCapsule{RegionID: region}

	var confBins, biasBins [HistBins]uint32
	var eventCount uint32

	for _, s := range d.Sources {
		if s.RegionID == region {
			c.SourceCount++
		}
	}
	for _, e := range d.Events {
		if e.RegionID != region {
			continue
		}
		c.EventCount++
		if e.Origin == EventOriginDerived {
			c.EventCategoryCounts[e.Category]++
			eventCount++
			confBins[histBin(e.Confidence)]++
			biasBins[histBin(e.Bias)]++
		}
	}
	for _, e := range d.Epochs {
		if e.RegionID == region {
			c.EpochCount++
		}
	}
	for _, g := range d.Graphs {
		if g.RegionID == region {
			c.GraphCount++
		}
	}
	for _, n := range d.Nodes {
		if n.RegionID == region {
			c.NodeCount++
		}
	}
	for _, e := range d.Edges {
		if e.RegionID == region {
			c.EdgeCount++
		}
	}

	if eventCount > 0 {
		for i := 0; i < HistBins; i++ {
			c.ConfidenceHist[i] = histBinRatio(confBins[i], eventCount)
			c.BiasHist[i] = histBinRatio(biasBins[i], eventCount)
		}
	}

	d.Capsules = append(d.Capsules, c)
	return nil
}

// ExpandRegion removes region's macro capsule, returning its live
// entities to ordinary resolution. It returns ErrNotFound if region is
// not currently collapsed. Matches dom_history_domain_expand_region's
// linear-scan-then-swap-remove behavior.
func (d *Domain) ExpandRegion(region uint32) error {
	idx, ok := d.findCapsule(region)
	if !ok {
		return histErr(ErrNotFound, "region is not collapsed")
	}
	last := len(d.Capsules) - 1
	d.Capsules[idx] = d.Capsules[last]
	d.Capsules = d.Capsules[:last]
	return nil
}
