package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/custodia-labs/recall/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall/internal/connectors/filesystem"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/services"
	"github.com/custodia-labs/recall/internal/logger"
	"github.com/custodia-labs/recall/internal/normalisers/transcript"
)

// dataDirName is the cache directory inside the config directory.
const dataDirName = "data"

// runtimeOptions are the flag overrides applied on top of stored settings.
type runtimeOptions struct {
	Root      string
	ConfigDir string
	Verbose   bool
}

// runtime holds the adapters and services built for one command invocation.
type runtime struct {
	settings        *domain.AppSettings
	configStore     *file.ConfigStore
	settingsService *services.SettingsService

	store  *filesystem.Store
	parser *transcript.Parser
	cache  driven.TranscriptCache
	diag   driven.Diagnostics
	zap    *zap.Logger

	conversations *services.ConversationService
	search        *services.SearchService
	actions       *services.ActionService

	closers []func() error
}

// newRuntime loads settings and wires the transcript pipeline.
func newRuntime(opts runtimeOptions) (*runtime, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if opts.Root != "" {
		settings.Transcripts.Root = opts.Root
	}

	r := &runtime{
		settings:        settings,
		configStore:     configStore,
		settingsService: settingsService,
	}

	r.zap, err = newZapLogger(settings.Log.Format, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	r.closers = append(r.closers, func() error {
		_ = r.zap.Sync()
		return nil
	})

	if settings.Log.Format == domain.LogFormatJSON {
		r.diag = diagnostics.NewZapSink(r.zap)
	} else {
		r.diag = diagnostics.NewLoggerSink()
	}

	r.store = filesystem.New(settings.Transcripts.Root, settings.Transcripts.Extension)
	r.parser = transcript.New()
	r.cache = r.openCache()

	loader := services.NewConversationLoader(r.store, r.parser,
		services.WithCache(r.cache),
		services.WithDiagnostics(r.diag),
	)
	r.conversations = services.NewConversationService(r.store, loader, r.diag, settings.Scan.Workers)
	r.search = services.NewSearchService(r.conversations, services.NewScorer(nil))
	r.actions = services.NewActionService()

	logger.Debug("Transcripts root: %s", r.store.Root())
	logger.Debug("Cache mode: %s", settings.Cache.Mode)
	return r, nil
}

// openCache returns the configured cache, or nil when caching is off or the
// cache cannot be opened.
func (r *runtime) openCache() driven.TranscriptCache {
	switch r.settings.Cache.Mode {
	case domain.CacheModeMemory:
		cache, err := memory.NewTranscriptCache(r.settings.Cache.Size)
		if err != nil {
			logger.Warn("%v: %v", domain.ErrCacheUnavailable, err)
			return nil
		}
		return cache
	case domain.CacheModeSQLite:
		store, err := sqlite.NewStore(filepath.Join(r.configStore.Dir(), dataDirName))
		if err != nil {
			logger.Warn("%v: %v", domain.ErrCacheUnavailable, err)
			return nil
		}
		r.closers = append(r.closers, store.Close)
		return store.TranscriptCache(r.diag)
	default:
		return nil
	}
}

// uncachedService builds a conversation service that parses every file and
// reports to diag. Used by doctor so cached results do not hide problems.
func (r *runtime) uncachedService(diag driven.Diagnostics) *services.ConversationService {
	loader := services.NewConversationLoader(r.store, r.parser, services.WithDiagnostics(diag))
	return services.NewConversationService(r.store, loader, diag, r.settings.Scan.Workers)
}

// startChangeFeed watches the transcripts root and fans changes out to
// subscribers until ctx ends. The watcher is released by Close.
func (r *runtime) startChangeFeed(ctx context.Context) (*services.ChangeFeed, error) {
	watcher := filesystem.NewWatcher(r.store, domain.DefaultWatchWindow)
	feed := services.NewChangeFeed(watcher, r.cache)
	if err := feed.Start(ctx); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	r.closers = append(r.closers, watcher.Close)
	return feed, nil
}

// Close releases resources in reverse order of acquisition.
func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// newZapLogger builds the structured logger used for diagnostics and
// HTTP request logs. Both formats write to stderr.
func newZapLogger(format domain.LogFormat, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if format == domain.LogFormatJSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
