package domain

import "time"

const unknownDescription = "Unknown"

// CacheMode selects how parsed transcripts are cached between loads.
type CacheMode string

// Available cache modes.
const (
	// CacheModeNone parses every transcript on every query.
	CacheModeNone CacheMode = "none"

	// CacheModeMemory keeps recently parsed transcripts in an LRU.
	CacheModeMemory CacheMode = "memory"

	// CacheModeSQLite persists parsed transcripts across invocations.
	CacheModeSQLite CacheMode = "sqlite"
)

// IsValid returns true if the cache mode is recognised.
func (m CacheMode) IsValid() bool {
	switch m {
	case CacheModeNone, CacheModeMemory, CacheModeSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m CacheMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m CacheMode) Description() string {
	switch m {
	case CacheModeNone:
		return "None (parse on every query)"
	case CacheModeMemory:
		return "Memory (LRU, per process)"
	case CacheModeSQLite:
		return "SQLite (persistent)"
	default:
		return unknownDescription
	}
}

// LogFormat selects the diagnostics output encoding.
type LogFormat string

// Available log formats.
const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// IsValid returns true if the log format is recognised.
func (f LogFormat) IsValid() bool {
	return f == LogFormatText || f == LogFormatJSON
}

// String returns the string representation.
func (f LogFormat) String() string {
	return string(f)
}

// TranscriptSettings locates the transcripts tree.
type TranscriptSettings struct {
	// Root is the directory holding one subdirectory per project.
	Root string

	// Extension is the transcript file extension, including the dot.
	Extension string
}

// ScanSettings tunes directory scanning.
type ScanSettings struct {
	// Workers bounds the number of transcripts loaded in parallel.
	Workers int
}

// CacheSettings configures the transcript cache.
type CacheSettings struct {
	// Mode selects the cache implementation.
	Mode CacheMode

	// Size is the LRU capacity in transcripts.
	Size int
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	// Host is the listen host.
	Host string

	// Port is the listen port.
	Port int

	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit int
}

// LogSettings configures diagnostics output.
type LogSettings struct {
	// Format is the diagnostics encoding.
	Format LogFormat
}

// AppSettings holds all application settings.
type AppSettings struct {
	Transcripts TranscriptSettings
	Scan        ScanSettings
	Cache       CacheSettings
	Server      ServerSettings
	Log         LogSettings
}

// Default settings values.
const (
	DefaultExtension   = ".jsonl"
	DefaultWorkers     = 8
	DefaultCacheSize   = 512
	DefaultServerHost  = "localhost"
	DefaultServerPort  = 30010
	DefaultRateLimit   = 20
	DefaultWatchWindow = 500 * time.Millisecond
)

// DefaultAppSettings returns settings with sensible defaults.
// Root is left empty; the transcript store resolves it to ~/.claude/projects.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Transcripts: TranscriptSettings{
			Extension: DefaultExtension,
		},
		Scan: ScanSettings{
			Workers: DefaultWorkers,
		},
		Cache: CacheSettings{
			Mode: CacheModeMemory,
			Size: DefaultCacheSize,
		},
		Server: ServerSettings{
			Host:      DefaultServerHost,
			Port:      DefaultServerPort,
			RateLimit: DefaultRateLimit,
		},
		Log: LogSettings{
			Format: LogFormatText,
		},
	}
}
