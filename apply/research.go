package apply

import (
	"dominium.dev/core/tlv"
	"dominium.dev/core/wire"
)

// ResearchRequest is the parsed form of a RESEARCH_V1 command payload.
type ResearchRequest struct {
	OrgID    uint32
	ActiveID uint32
}

// ParseResearch decodes a RESEARCH_V1 TLV payload.
func ParseResearch(payload []byte) (ResearchRequest, error) {
	entries, err := tlv.ReadAll(payload)
	if err != nil {
		return ResearchRequest{}, err
	}
	var req ResearchRequest
	if v, ok, err := tlv.FindU32LE(entries, wire.TagResearchOrgID); err != nil {
		return ResearchRequest{}, err
	} else if ok {
		req.OrgID = v
	}
	if v, ok, err := tlv.FindU32LE(entries, wire.TagResearchActiveID); err != nil {
		return ResearchRequest{}, err
	} else if ok {
		req.ActiveID = v
	}
	return req, nil
}

// Researcher is the subset of World a RESEARCH_V1 command needs.
type Researcher interface {
	ResearchSetActive(req ResearchRequest) error
}
