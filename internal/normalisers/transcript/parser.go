package transcript

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.TranscriptParser = (*Parser)(nil)

// Skip reasons reported for unusable lines.
const (
	ReasonInvalidJSON  = "invalid json"
	ReasonUnknownShape = "no matching record shape"
)

// shape attempts to decode one record. ok is false when the record does not
// have this shape.
type shape func(rec map[string]json.RawMessage, now time.Time) (domain.Message, bool)

// shapes are tried in order; the first match wins.
var shapes = []shape{
	nestedShape,
	flatShape,
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used for records without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// Parser decodes transcript files.
type Parser struct {
	now func() time.Time
}

// New creates a new transcript parser.
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse folds ParseLine over every line of data.
// Blank lines are ignored without being reported.
func (p *Parser) Parse(data []byte) ([]domain.Message, []domain.SkippedLine) {
	var messages []domain.Message
	var skipped []domain.SkippedLine

	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		msg, reason := p.ParseLine(line)
		if reason != "" {
			skipped = append(skipped, domain.SkippedLine{Line: i + 1, Reason: reason})
			continue
		}
		messages = append(messages, msg)
	}

	return messages, skipped
}

// ParseLine decodes a single record. A non-empty reason means the line
// was not usable.
func (p *Parser) ParseLine(line []byte) (domain.Message, string) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(line, &rec); err != nil {
		return domain.Message{}, ReasonInvalidJSON
	}
	if rec == nil {
		return domain.Message{}, ReasonUnknownShape
	}

	now := p.now()
	for _, try := range shapes {
		if msg, ok := try(rec, now); ok {
			return msg, ""
		}
	}
	return domain.Message{}, ReasonUnknownShape
}

// nestedShape accepts {"type": "user"|"assistant", "message": {...}, "timestamp": ...}.
// The role comes from message.role when valid, otherwise from type.
func nestedShape(rec map[string]json.RawMessage, now time.Time) (domain.Message, bool) {
	role, ok := decodeRole(rec["type"])
	if !ok {
		return domain.Message{}, false
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(rec["message"], &inner); err != nil || inner == nil {
		return domain.Message{}, false
	}
	if r, ok := decodeRole(inner["role"]); ok {
		role = r
	}

	ts, tsOK := decodeTimestamp(rec["timestamp"], now)
	return domain.Message{
		Role:               role,
		Content:            decodeContent(inner["content"]),
		Timestamp:          ts,
		TimestampDefaulted: !tsOK,
	}, true
}

// flatShape accepts {"role": "user"|"assistant", "content": ..., "timestamp": ...}.
func flatShape(rec map[string]json.RawMessage, now time.Time) (domain.Message, bool) {
	role, ok := decodeRole(rec["role"])
	if !ok {
		return domain.Message{}, false
	}

	ts, tsOK := decodeTimestamp(rec["timestamp"], now)
	return domain.Message{
		Role:               role,
		Content:            decodeContent(rec["content"]),
		Timestamp:          ts,
		TimestampDefaulted: !tsOK,
	}, true
}

func decodeRole(raw json.RawMessage) (domain.Role, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	role := domain.Role(s)
	return role, role.IsValid()
}
