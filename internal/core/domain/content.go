package domain

import "strings"

// ContentKind identifies which shape a message payload arrived in.
type ContentKind int

const (
	// ContentInvalid is any payload that is neither a string nor a segment list.
	ContentInvalid ContentKind = iota

	// ContentString is a plain string payload.
	ContentString

	// ContentSegments is an ordered list of typed segments.
	ContentSegments
)

// SegmentType is the closed set of segment variants a transcript can carry.
type SegmentType string

// Recognised segment types. Anything else decodes to SegmentUnknown.
const (
	SegmentText       SegmentType = "text"
	SegmentToolUse    SegmentType = "tool_use"
	SegmentToolResult SegmentType = "tool_result"
	SegmentUnknown    SegmentType = "unknown"
)

// Segment is one element of structured message content.
type Segment struct {
	// Type is the segment variant.
	Type SegmentType

	// Text is set for text segments.
	Text string

	// Name is the tool name for tool_use segments.
	Name string

	// RawType preserves the type tag of unknown segments for diagnostics.
	RawType string
}

// Content is a message payload: a string, a list of segments, or invalid.
type Content struct {
	Kind     ContentKind
	String   string
	Segments []Segment
}

// StringContent builds string content.
func StringContent(s string) Content {
	return Content{Kind: ContentString, String: s}
}

// SegmentContent builds segment content.
func SegmentContent(segments ...Segment) Content {
	return Content{Kind: ContentSegments, Segments: segments}
}

// Text flattens the content into a display string.
//
// String content is returned unchanged. Segment content renders each segment
// and joins the parts with a single space before trimming; unknown segments
// contribute an empty part. Invalid content yields "".
func (c Content) Text() string {
	switch c.Kind {
	case ContentString:
		return c.String
	case ContentSegments:
		parts := make([]string, len(c.Segments))
		for i, seg := range c.Segments {
			parts[i] = seg.render()
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	default:
		return ""
	}
}

// IsBlank reports whether the extracted text is empty or whitespace only.
func (c Content) IsBlank() bool {
	return strings.TrimSpace(c.Text()) == ""
}

func (s Segment) render() string {
	switch s.Type {
	case SegmentText:
		return s.Text
	case SegmentToolUse:
		return "[Tool: " + s.Name + "]"
	case SegmentToolResult:
		return "[Tool Result]"
	default:
		return ""
	}
}
