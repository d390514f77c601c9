package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure TranscriptCache implements the interface.
var _ driven.TranscriptCache = (*TranscriptCache)(nil)

// TranscriptCache persists parsed transcripts across invocations.
type TranscriptCache struct {
	db     *sql.DB
	dbPath string
	diag   driven.Diagnostics
}

func newTranscriptCache(db *sql.DB, dbPath string, diag driven.Diagnostics) *TranscriptCache {
	return &TranscriptCache{db: db, dbPath: dbPath, diag: diag}
}

// Get returns cached messages when path, modification time and size match.
func (c *TranscriptCache) Get(ctx context.Context, file domain.TranscriptFile) ([]domain.Message, bool) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT messages FROM transcript_cache WHERE path = ? AND mod_time = ? AND size = ?`,
		file.Path, file.ModTime.UnixNano(), file.Size,
	).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.report(file.Path, "read cache entry", err)
		}
		return nil, false
	}

	var records []messageRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		c.report(file.Path, "decode cache entry", err)
		return nil, false
	}
	return fromRecords(records), true
}

// Put stores messages for file, replacing any previous entry for its path.
func (c *TranscriptCache) Put(ctx context.Context, file domain.TranscriptFile, messages []domain.Message) {
	data, err := json.Marshal(toRecords(messages))
	if err != nil {
		c.report(file.Path, "encode cache entry", err)
		return
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO transcript_cache (path, mod_time, size, project, messages, cached_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			mod_time = excluded.mod_time,
			size = excluded.size,
			project = excluded.project,
			messages = excluded.messages,
			cached_at = excluded.cached_at
	`, file.Path, file.ModTime.UnixNano(), file.Size, file.ProjectKey, string(data))
	if err != nil {
		c.report(file.Path, "write cache entry", err)
	}
}

// Invalidate removes the entry for path.
func (c *TranscriptCache) Invalidate(ctx context.Context, path string) {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM transcript_cache WHERE path = ?`, path); err != nil {
		c.report(path, "invalidate cache entry", err)
	}
}

// Purge removes every entry.
func (c *TranscriptCache) Purge(ctx context.Context) {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM transcript_cache`); err != nil {
		c.report(c.dbPath, "purge cache", err)
	}
}

// Len returns the number of cached transcripts.
func (c *TranscriptCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcript_cache`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *TranscriptCache) report(path, reason string, err error) {
	if c.diag == nil {
		return
	}
	c.diag.Report(domain.DiagnosticEvent{
		Kind:   domain.DiagCacheFailure,
		Path:   path,
		Reason: reason,
		Err:    err,
	})
}

// messageRecord is the JSON form of a cached message.
type messageRecord struct {
	Role      string          `json:"role"`
	Kind      int             `json:"kind"`
	Text      string          `json:"text,omitempty"`
	Segments  []segmentRecord `json:"segments,omitempty"`
	Timestamp int64           `json:"ts"`
}

type segmentRecord struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Name    string `json:"name,omitempty"`
	RawType string `json:"raw_type,omitempty"`
}

func toRecords(messages []domain.Message) []messageRecord {
	records := make([]messageRecord, len(messages))
	for i, m := range messages {
		rec := messageRecord{
			Role:      m.Role.String(),
			Kind:      int(m.Content.Kind),
			Text:      m.Content.String,
			Timestamp: m.Timestamp.UnixNano(),
		}
		if m.Content.Kind == domain.ContentSegments {
			rec.Segments = make([]segmentRecord, len(m.Content.Segments))
			for j, s := range m.Content.Segments {
				rec.Segments[j] = segmentRecord{
					Type:    string(s.Type),
					Text:    s.Text,
					Name:    s.Name,
					RawType: s.RawType,
				}
			}
		}
		records[i] = rec
	}
	return records
}

func fromRecords(records []messageRecord) []domain.Message {
	messages := make([]domain.Message, len(records))
	for i, rec := range records {
		content := domain.Content{Kind: domain.ContentKind(rec.Kind)}
		switch content.Kind {
		case domain.ContentString:
			content.String = rec.Text
		case domain.ContentSegments:
			content.Segments = make([]domain.Segment, len(rec.Segments))
			for j, s := range rec.Segments {
				content.Segments[j] = domain.Segment{
					Type:    domain.SegmentType(s.Type),
					Text:    s.Text,
					Name:    s.Name,
					RawType: s.RawType,
				}
			}
		}
		messages[i] = domain.Message{
			Role:      domain.Role(rec.Role),
			Content:   content,
			Timestamp: time.Unix(0, rec.Timestamp).UTC(),
		}
	}
	return messages
}
