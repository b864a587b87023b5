package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/bctl/internal/audio"
	"github.com/five82/bctl/internal/catalog"
	"github.com/five82/bctl/internal/config"
	"github.com/five82/bctl/internal/eventloop"
	"github.com/five82/bctl/internal/logging"
	"github.com/five82/bctl/internal/media"
	"github.com/five82/bctl/internal/playback"
	"github.com/five82/bctl/internal/prefs"
	"github.com/five82/bctl/internal/queue"
	"github.com/five82/bctl/internal/state"
	"github.com/five82/bctl/internal/ui"
)

// Options configure the bctl application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/bctl/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the bctl TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logger, closer, err := logging.New(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := start(ctx, cfg, userPrefs, logger, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info().
		Str("server", rt.client.BaseURL()).
		Str("theme", userPrefs.Theme).
		Msg("bctl started")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Catalog:   rt.client,
		Player:    rt.controller,
		Loop:      rt.loop,
		Store:     rt.store,
		Logger:    logging.Component(logger, "ui"),
		LogPath:   cfg.LogPath(),
		PrefsPath: opts.PrefsPath,
		Prefs:     userPrefs,
	})
	logger.Info().Err(err).Msg("bctl stopped")
	return err
}

// runtime is the set of long-lived components behind the UI.
type runtime struct {
	client     *catalog.Client
	store      *state.Store
	loop       *eventloop.Loop
	element    *audio.Element
	controller *playback.Controller
	loopDone   chan struct{}
}

// start builds the catalog client, event loop, audio element and playback
// controller and starts the loop and the liveness poller. output may be nil
// to use the system audio device.
func start(ctx context.Context, cfg config.Config, p prefs.Prefs, logger zerolog.Logger, output audio.Output) (*runtime, error) {
	client, err := catalog.NewClient(catalog.Options{
		APIBind: cfg.APIBind,
		Prefix:  cfg.APIPrefix,
		Logger:  logging.Component(logger, "catalog"),
	})
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	store := &state.Store{}
	client.OnConnectivityChange(func(connected bool) {
		logger.Info().Bool("connected", connected).Msg("server connectivity changed")
		store.SetConnected(connected)
	})

	loop := eventloop.New()

	element := audio.New(audio.Options{
		HTTPClient: &http.Client{},
		Output:     output,
		Logger:     logging.Component(logger, "audio"),
	})

	playLog := logging.Component(logger, "playback")
	controller, err := playback.New(playback.Options{
		Queue:            queue.New(),
		Surface:          element,
		Locator:          client,
		Clock:            loop,
		Logger:           playLog,
		PlayDelay:        cfg.PlayDelay,
		ProgressInterval: cfg.ProgressInterval,
		Repeat:           p.Repeat,
		Random:           p.Random,
		OnChange:         store.SetPlayback,
		OnError: func(err *playback.MediaError) {
			playLog.Error().Err(err).Str("track", string(err.TrackID)).Msg("track failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init playback: %w", err)
	}

	// Media events arrive on audio goroutines; the controller only runs on
	// the loop.
	element.SetSink(func(ev media.Event) {
		loop.Post(func() { controller.HandleEvent(ev) })
	})

	rt := &runtime{
		client:     client,
		store:      store,
		loop:       loop,
		element:    element,
		controller: controller,
		loopDone:   make(chan struct{}),
	}
	go func() {
		defer close(rt.loopDone)
		loop.Run(ctx)
	}()

	client.StartPoller(ctx, cfg.PollInterval)
	return rt, nil
}

// Close stops audio output. The loop stops with the start context.
func (rt *runtime) Close() {
	rt.element.Close()
}
