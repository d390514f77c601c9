package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCacheMode_IsValid tests valid and invalid cache modes
func TestCacheMode_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		mode     CacheMode
		expected bool
	}{
		{name: "none is valid", mode: CacheModeNone, expected: true},
		{name: "memory is valid", mode: CacheModeMemory, expected: true},
		{name: "sqlite is valid", mode: CacheModeSQLite, expected: true},
		{name: "empty string is invalid", mode: CacheMode(""), expected: false},
		{name: "unknown mode is invalid", mode: CacheMode("redis"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.IsValid())
		})
	}
}

// TestCacheMode_Description tests human-readable descriptions
func TestCacheMode_Description(t *testing.T) {
	assert.Contains(t, CacheModeNone.Description(), "None")
	assert.Contains(t, CacheModeMemory.Description(), "LRU")
	assert.Contains(t, CacheModeSQLite.Description(), "SQLite")
	assert.Equal(t, "Unknown", CacheMode("bogus").Description())
	assert.Equal(t, "memory", CacheModeMemory.String())
}

// TestLogFormat_IsValid tests valid and invalid log formats
func TestLogFormat_IsValid(t *testing.T) {
	assert.True(t, LogFormatText.IsValid())
	assert.True(t, LogFormatJSON.IsValid())
	assert.False(t, LogFormat("xml").IsValid())
	assert.False(t, LogFormat("").IsValid())
	assert.Equal(t, "json", LogFormatJSON.String())
}

// TestDefaultAppSettings tests the default settings values
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Empty(t, s.Transcripts.Root)
	assert.Equal(t, ".jsonl", s.Transcripts.Extension)
	assert.Equal(t, 8, s.Scan.Workers)
	assert.Equal(t, CacheModeMemory, s.Cache.Mode)
	assert.Equal(t, 512, s.Cache.Size)
	assert.Equal(t, "localhost", s.Server.Host)
	assert.Equal(t, 30010, s.Server.Port)
	assert.Equal(t, 20, s.Server.RateLimit)
	assert.Equal(t, LogFormatText, s.Log.Format)
	assert.True(t, s.Cache.Mode.IsValid())
	assert.True(t, s.Log.Format.IsValid())
}
