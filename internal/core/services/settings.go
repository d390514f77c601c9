package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyTranscriptsRoot      = "transcripts.root"
	KeyTranscriptsExtension = "transcripts.extension"
	KeyScanWorkers          = "scan.workers"
	KeyCacheMode            = "cache.mode"
	KeyCacheSize            = "cache.size"
	KeyServerHost           = "server.host"
	KeyServerPort           = "server.port"
	KeyServerRateLimit      = "server.rate_limit"
	KeyLogFormat            = "log.format"
)

// settingKeys lists every key in display order.
var settingKeys = []string{
	KeyTranscriptsRoot,
	KeyTranscriptsExtension,
	KeyScanWorkers,
	KeyCacheMode,
	KeyCacheSize,
	KeyServerHost,
	KeyServerPort,
	KeyServerRateLimit,
	KeyLogFormat,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or invalid stored values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Transcripts: domain.TranscriptSettings{
			Root:      s.configStore.GetString(KeyTranscriptsRoot), // No default - resolved by the store
			Extension: s.getString(KeyTranscriptsExtension, defaults.Transcripts.Extension),
		},
		Scan: domain.ScanSettings{
			Workers: s.getPositiveInt(KeyScanWorkers, defaults.Scan.Workers),
		},
		Cache: domain.CacheSettings{
			Mode: s.getCacheMode(defaults.Cache.Mode),
			Size: s.getPositiveInt(KeyCacheSize, defaults.Cache.Size),
		},
		Server: domain.ServerSettings{
			Host:      s.getString(KeyServerHost, defaults.Server.Host),
			Port:      s.getPort(defaults.Server.Port),
			RateLimit: s.getNonNegativeInt(KeyServerRateLimit, defaults.Server.RateLimit),
		},
		Log: domain.LogSettings{
			Format: s.getLogFormat(defaults.Log.Format),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyTranscriptsRoot, settings.Transcripts.Root},
		{KeyTranscriptsExtension, settings.Transcripts.Extension},
		{KeyScanWorkers, settings.Scan.Workers},
		{KeyCacheMode, settings.Cache.Mode.String()},
		{KeyCacheSize, settings.Cache.Size},
		{KeyServerHost, settings.Server.Host},
		{KeyServerPort, settings.Server.Port},
		{KeyServerRateLimit, settings.Server.RateLimit},
		{KeyLogFormat, settings.Log.Format.String()},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var typed any
	switch key {
	case KeyTranscriptsRoot, KeyServerHost:
		typed = value
	case KeyTranscriptsExtension:
		if value == "" || strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("%s: %q: %w", key, value, domain.ErrInvalidSetting)
		}
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		typed = value
	case KeyScanWorkers, KeyCacheSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer: %w", key, domain.ErrInvalidSetting)
		}
		typed = n
	case KeyServerRateLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be zero or a positive integer: %w", key, domain.ErrInvalidSetting)
		}
		typed = n
	case KeyServerPort:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("%s must be between 1 and 65535: %w", key, domain.ErrInvalidSetting)
		}
		typed = n
	case KeyCacheMode:
		mode := domain.CacheMode(value)
		if !mode.IsValid() {
			return fmt.Errorf("invalid cache mode %q: %w", value, domain.ErrInvalidSetting)
		}
		typed = mode.String()
	case KeyLogFormat:
		format := domain.LogFormat(value)
		if !format.IsValid() {
			return fmt.Errorf("invalid log format %q: %w", value, domain.ErrInvalidSetting)
		}
		typed = format.String()
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidSetting)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Value returns the effective value of key. An unset root reads as empty.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyTranscriptsRoot:
		return settings.Transcripts.Root, nil
	case KeyTranscriptsExtension:
		return settings.Transcripts.Extension, nil
	case KeyScanWorkers:
		return strconv.Itoa(settings.Scan.Workers), nil
	case KeyCacheMode:
		return settings.Cache.Mode.String(), nil
	case KeyCacheSize:
		return strconv.Itoa(settings.Cache.Size), nil
	case KeyServerHost:
		return settings.Server.Host, nil
	case KeyServerPort:
		return strconv.Itoa(settings.Server.Port), nil
	case KeyServerRateLimit:
		return strconv.Itoa(settings.Server.RateLimit), nil
	case KeyLogFormat:
		return settings.Log.Format.String(), nil
	default:
		return "", fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidSetting)
	}
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch raw.(type) {
	case int, int64, float64:
		if val := s.configStore.GetInt(key); val >= 0 {
			return val
		}
	}
	return defaultVal
}

func (s *SettingsService) getPort(defaultVal int) int {
	if val := s.configStore.GetInt(KeyServerPort); val > 0 && val <= 65535 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getCacheMode(defaultVal domain.CacheMode) domain.CacheMode {
	if mode := domain.CacheMode(s.configStore.GetString(KeyCacheMode)); mode.IsValid() {
		return mode
	}
	return defaultVal
}

func (s *SettingsService) getLogFormat(defaultVal domain.LogFormat) domain.LogFormat {
	if format := domain.LogFormat(s.configStore.GetString(KeyLogFormat)); format.IsValid() {
		return format
	}
	return defaultVal
}
