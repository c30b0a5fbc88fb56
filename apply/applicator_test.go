package apply

import (
	"testing"

	"dominium.dev/core/fixedpoint"
	"dominium.dev/core/simcmd"
	"dominium.dev/core/tlv"
	"dominium.dev/core/wire"
)

type fakeWorld struct {
	built       []BuildRequest
	validated   []BuildRequest
	validatedV2 []BuildRequestV2
	researched  []ResearchRequest
}

func (w *fakeWorld) BuildValidate(req BuildRequest) error {
	w.validated = append(w.validated, req)
	return nil
}

func (w *fakeWorld) BuildCommit(req BuildRequest) error {
	w.built = append(w.built, req)
	return nil
}

func (w *fakeWorld) BuildValidateV2(req BuildRequestV2) error {
	w.validatedV2 = append(w.validatedV2, req)
	return nil
}

func (w *fakeWorld) ResearchSetActive(req ResearchRequest) error {
	w.researched = append(w.researched, req)
	return nil
}

func buildPayload(kind uint32) []byte {
	var p []byte
	p = tlv.AppendEntry(p, wire.TagBuildKind, tlv.PutU32LE(kind))
	return p
}

func researchPayload(org, active uint32) []byte {
	var p []byte
	p = tlv.AppendEntry(p, wire.TagResearchOrgID, tlv.PutU32LE(org))
	p = tlv.AppendEntry(p, wire.TagResearchActiveID, tlv.PutU32LE(active))
	return p
}

func TestApplyForTickOrderAndDispatch(t *testing.T) {
	q := simcmd.NewQueue()
	cmds := []simcmd.Command{
		{ID: 2, SourcePeer: 1, Tick: 5, SchemaID: wire.SchemaCmdBuildV1, SchemaVer: 1, Payload: buildPayload(1)},
		{ID: 1, SourcePeer: 1, Tick: 5, SchemaID: wire.SchemaCmdResearch, SchemaVer: 1, Payload: researchPayload(9, 3)},
		{ID: 1, SourcePeer: 1, Tick: 5, SchemaID: 0xFFFF, SchemaVer: 1, Payload: []byte("ignored")},
	}
	for _, c := range cmds {
		if err := q.Enqueue(c); err != nil {
			t.Fatal(err)
		}
	}

	var observedOrder []uint32
	a := NewApplicator()
	a.SetTickCmdsObserver(func(tick uint64, sorted []simcmd.Command) {
		for _, c := range sorted {
			observedOrder = append(observedOrder, c.SchemaID)
		}
	})

	w := &fakeWorld{}
	if err := a.ApplyForTick(w, q, 5); err != nil {
		t.Fatal(err)
	}

	if len(observedOrder) != 3 {
		t.Fatalf("observer saw %d commands, want 3", len(observedOrder))
	}
	// All three share source_peer 1, so canonical order falls to ID: the
	// research and unknown-schema commands both have id 1, so schema_id
	// breaks the tie; build (id=2) comes last.
	if observedOrder[2] != wire.SchemaCmdBuildV1 {
		t.Fatalf("expected build command last by id, got order %v", observedOrder)
	}

	if len(w.built) != 1 || len(w.researched) != 1 {
		t.Fatalf("got %d builds, %d research applications, want 1 each", len(w.built), len(w.researched))
	}
}

func TestApplyOneUnknownSchemaIgnored(t *testing.T) {
	w := &fakeWorld{}
	cmd := simcmd.Command{SchemaID: 0xBEEF, SchemaVer: 1, Payload: []byte("x")}
	if err := ApplyOne(w, cmd); err != nil {
		t.Fatalf("unknown schema should be ignored, got error: %v", err)
	}
	if len(w.built) != 0 || len(w.researched) != 0 {
		t.Fatal("unknown schema should not mutate world")
	}
}

func buildV2Payload(anchorKind uint32) []byte {
	var p []byte
	p = tlv.AppendEntry(p, wire.TagBuild2Kind, tlv.PutU32LE(1))
	p = tlv.AppendEntry(p, wire.TagBuild2AnchorKind, tlv.PutU32LE(anchorKind))
	p = tlv.AppendEntry(p, wire.TagBuild2TerrainU, tlv.PutI64LE(int64(fixedpoint.One)))
	return p
}

func TestApplyOneBuildV2ValidatesWithoutCommitting(t *testing.T) {
	w := &fakeWorld{}
	cmd := simcmd.Command{SchemaID: wire.SchemaCmdBuildV2, SchemaVer: 1, Payload: buildV2Payload(uint32(AnchorTerrain))}
	if err := ApplyOne(w, cmd); err != nil {
		t.Fatalf("ApplyOne: %v", err)
	}
	if len(w.validatedV2) != 1 {
		t.Fatalf("got %d v2 validations, want 1", len(w.validatedV2))
	}
	if w.validatedV2[0].Terrain.U != fixedpoint.One.Widen() {
		t.Fatalf("terrain.U = %d, want %d", w.validatedV2[0].Terrain.U, fixedpoint.One)
	}
	if len(w.built) != 0 {
		t.Fatal("BUILD_V2 must never reach BuildCommit")
	}
}
