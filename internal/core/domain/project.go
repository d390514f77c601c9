package domain

import "strings"

// PathMarker replaces the path separator in encoded project directory names.
const PathMarker = "--"

// DecodeProjectName extracts a display label from an encoded directory name.
//
// The encoding collapses path separators into PathMarker, so the label is the
// last segment after splitting on it. The mapping is lossy: a directory whose
// real name contains the marker decodes to the part after its last marker.
// When no usable segment remains the input is returned unchanged.
func DecodeProjectName(encoded string) string {
	parts := strings.Split(encoded, PathMarker)
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return encoded
}
