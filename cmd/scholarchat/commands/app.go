// ABOUTME: Wires configuration into a library, resolver, completion client, and session
// ABOUTME: Shared by every command that talks to the assistant
package commands

import (
	"context"
	"time"

	"github.com/harper/scholarchat/internal/catalog"
	"github.com/harper/scholarchat/internal/config"
	"github.com/harper/scholarchat/internal/core"
	"github.com/harper/scholarchat/internal/fetch"
	"github.com/harper/scholarchat/internal/llm"
	"github.com/harper/scholarchat/internal/models"
	"go.uber.org/zap"
)

// app holds the wired components for one process
type app struct {
	cfg      *config.Config
	fetcher  *fetch.Fetcher
	library  *core.Library
	resolver *core.Resolver
	client   *llm.OpenAIClient
	session  *core.Session
}

// newLibrary loads the document feed. A feed failure is logged and leaves
// the library empty so personal questions still work.
func newLibrary(ctx context.Context, cfg *config.Config) (*core.Library, *fetch.Fetcher, error) {
	fetcher, err := fetch.New(fetch.Options{
		Root:    cfg.ContentRoot,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}

	library := core.NewLibrary(catalog.NewLoader(fetcher, cfg.PapersFeed, logger), logger)
	if err := library.Load(ctx); err != nil {
		logger.Warn(models.UserMessage(err), zap.Error(err))
	}
	return library, fetcher, nil
}

// newApp wires everything a session needs. notifier receives session events.
func newApp(ctx context.Context, cfg *config.Config, notifier models.Notifier) (*app, error) {
	library, fetcher, err := newLibrary(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resolver := core.NewResolver(fetcher, library, core.ResolverConfig{
		PersonalLocator: cfg.PersonalContext,
		PaperTextDir:    cfg.PaperTextDir,
		PaperTextExt:    cfg.PaperTextExt,
		OwnerName:       cfg.OwnerName,
	}, logger)

	clientCfg := llm.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.ChatModel = cfg.ChatModel
	clientCfg.Timeout = cfg.Timeout
	clientCfg.MaxRetries = cfg.MaxRetries
	clientCfg.RetryDelay = cfg.RetryDelay
	clientCfg.Logger = logger
	client, err := llm.NewOpenAIClientWithConfig(clientCfg)
	if err != nil {
		return nil, err
	}

	session := core.NewSession(library, resolver, client, core.SessionOptions{
		Settings: core.Settings{
			Temperature: float32(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
		},
		AutoRoute: cfg.AutoRoute,
		OwnerName: cfg.OwnerName,
		Notifier:  notifier,
		Logger:    logger,
	})

	return &app{
		cfg:      cfg,
		fetcher:  fetcher,
		library:  library,
		resolver: resolver,
		client:   client,
		session:  session,
	}, nil
}

// watchFeed starts the feed watcher when enabled and the feed is a local
// file. It returns once the watcher is running or was skipped.
func (a *app) watchFeed(ctx context.Context) {
	if !a.cfg.WatchFeed {
		return
	}
	if !a.fetcher.IsLocalFile(a.cfg.PapersFeed) {
		logger.Warn("WATCH_FEED ignored: feed is not a local file", zap.String("feed", a.cfg.PapersFeed))
		return
	}

	path, err := a.fetcher.Resolve(a.cfg.PapersFeed)
	if err != nil {
		logger.Warn("WATCH_FEED ignored", zap.Error(err))
		return
	}
	watcher, err := catalog.NewWatcher(path, a.library, catalog.DefaultDebounce, logger)
	if err != nil {
		logger.Warn("WATCH_FEED ignored", zap.Error(err))
		return
	}

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Error("feed watcher stopped", zap.Error(err))
		}
	}()

	select {
	case <-watcher.Ready():
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		logger.Warn("feed watcher slow to start")
	}
}

// multiNotifier fans one event out to several notifiers
type multiNotifier []models.Notifier

func (m multiNotifier) Notify(e models.Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(e)
		}
	}
}

// logNotifier records session events in the log
func logNotifier() models.Notifier {
	return models.NotifierFunc(func(e models.Event) {
		fields := []zap.Field{zap.String("event", string(e.Kind))}
		if e.ContextID != "" {
			fields = append(fields, zap.String("context", e.ContextID))
		}
		switch e.Kind {
		case models.EventContextLoadFailed, models.EventRequestFailed:
			logger.Error(e.Message, append(fields, zap.Error(e.Err))...)
		default:
			logger.Info(e.Message, fields...)
		}
	})
}
