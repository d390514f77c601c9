package transcript

import (
	"encoding/json"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
)

type rawSegment struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// decodeContent maps a JSON value onto the closed content union.
// Missing, null and non-string scalar values are invalid content.
func decodeContent(raw json.RawMessage) domain.Content {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.Content{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.StringContent(s)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return domain.Content{}
	}

	segments := make([]domain.Segment, 0, len(items))
	for _, item := range items {
		segments = append(segments, decodeSegment(item))
	}
	return domain.SegmentContent(segments...)
}

func decodeSegment(raw json.RawMessage) domain.Segment {
	var seg rawSegment
	if err := json.Unmarshal(raw, &seg); err != nil {
		// Partial decodes still carry a usable type tag.
		var tag struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(raw, &tag)
		return domain.Segment{Type: domain.SegmentUnknown, RawType: tag.Type}
	}

	switch domain.SegmentType(seg.Type) {
	case domain.SegmentText:
		return domain.Segment{Type: domain.SegmentText, Text: seg.Text}
	case domain.SegmentToolUse:
		return domain.Segment{Type: domain.SegmentToolUse, Name: seg.Name}
	case domain.SegmentToolResult:
		return domain.Segment{Type: domain.SegmentToolResult}
	default:
		return domain.Segment{Type: domain.SegmentUnknown, RawType: seg.Type}
	}
}

// decodeTimestamp accepts epoch milliseconds or an RFC 3339 string.
// Missing, zero and unparseable values fall back to now and report false.
func decodeTimestamp(raw json.RawMessage, now time.Time) (time.Time, bool) {
	if len(raw) == 0 {
		return now, false
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if ms == 0 {
			return now, false
		}
		return time.UnixMilli(int64(ms)), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, true
		}
	}
	return now, false
}
