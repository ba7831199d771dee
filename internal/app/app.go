// Package app implements the application layer for depot.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/depot/internal/adapters/render"  //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/version" //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/engine/cache"
	"go.trai.ch/depot/internal/engine/history"
	"go.trai.ch/depot/internal/engine/matcher"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	opener       ports.SourceOpener
	sessions     ports.SessionStore
	committer    ports.Committer
	logger       ports.Logger
	telemetry    ports.Telemetry
	metrics      ports.Metrics

	out      io.Writer
	renderer *render.Renderer
	workDir  string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	opener ports.SourceOpener,
	sessions ports.SessionStore,
	committer ports.Committer,
	logger ports.Logger,
	telemetry ports.Telemetry,
	metrics ports.Metrics,
) *App {
	return &App{
		configLoader: loader,
		opener:       opener,
		sessions:     sessions,
		committer:    committer,
		logger:       logger,
		telemetry:    telemetry,
		metrics:      metrics,
		out:          os.Stdout,
		renderer:     render.New(os.Stdout),
		workDir:      ".",
	}
}

// WithOutput redirects command output to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	a.renderer = render.New(w)
	return a
}

// WithWorkDir sets where the configuration is searched for. A path naming a
// file loads that file directly.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// Settings holds the global command line options.
type Settings struct {
	// ConfigFile is loaded instead of searching for depot.yaml when set.
	ConfigFile string
	LogJSON    bool
	Verbose    bool
}

// Configure applies the global options. Logger modes only apply to loggers
// supporting them.
func (a *App) Configure(s Settings) {
	if s.ConfigFile != "" {
		a.workDir = s.ConfigFile
	}
	if l, ok := a.logger.(interface {
		SetJSON(enable bool)
		SetVerbose(enable bool)
	}); ok {
		l.SetJSON(s.LogJSON)
		l.SetVerbose(s.Verbose)
	}
}

// workspace is the state a command operates on: the configuration, a loaded
// cache and the persisted session.
type workspace struct {
	cfg     *domain.Config
	cache   *cache.Cache
	matcher *matcher.Matcher
	history *history.History
	current *domain.ChangeSet
}

// open loads the configuration, builds the cache from the given channels and
// restores the session. Nil channels means every enabled channel.
func (a *App) open(ctx context.Context, channels []domain.Channel) (*workspace, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if channels == nil {
		channels = cfg.EnabledChannels()
	}

	cmp, err := version.New(cfg.Comparator)
	if err != nil {
		return nil, err
	}

	a.renderer.SetComparator(cmp)

	c, _, err := a.load(ctx, cfg, cmp, channels)
	if err != nil {
		return nil, err
	}

	sess, err := a.sessions.Get(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	ws := &workspace{
		cfg:     cfg,
		cache:   c,
		matcher: matcher.New(c),
		history: history.FromSession(sess, cfg.UndoDepth),
		current: domain.NewChangeSet(),
	}
	if err := ws.current.SetPersistentState(c, sess.Current); err != nil {
		a.logger.Warn("discarding marked changes: " + err.Error())
		ws.history.Clear()
	}
	return ws, nil
}

// load builds a cache from channels. Sources that fail are logged as warnings
// and counted in failed.
func (a *App) load(ctx context.Context, cfg *domain.Config, cmp ports.VersionComparator, channels []domain.Channel) (c *cache.Cache, failed int, err error) {
	ctx, vertex := a.telemetry.Record(ctx, string(domain.PhaseLoad))

	loaders, err := a.opener.Open(ctx, cfg.Root, channels)
	if err != nil {
		vertex.Complete(err)
		return nil, 0, zerr.Wrap(err, "failed to open channels")
	}

	c = cache.New(cmp)
	for _, l := range loaders {
		c.AddLoader(l)
	}
	if err := c.Load(); err != nil {
		for _, e := range flatten(err) {
			failed++
			a.logger.Warn(e.Error())
			vertex.Log(domain.LogLevelWarn, e.Error())
		}
	}

	packages, relations := c.Stats()
	a.metrics.ObserveCache(packages, relations)
	a.logger.Debug(fmt.Sprintf("loaded %d packages and %d relations from %d channels", packages, relations, len(loaders)))
	vertex.Complete(nil)
	return c, failed, nil
}

// flatten returns the errors joined in err.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// persist writes the session of ws and flushes metrics.
func (a *App) persist(ws *workspace) error {
	if err := a.sessions.Put(ws.cfg.StateDir, ws.history.Session(ws.current.PersistentState())); err != nil {
		return err
	}
	counts := make(map[string]int, len(domain.Actions))
	for _, pkg := range ws.current.Packages() {
		action, _ := ws.current.Get(pkg)
		counts[action.String()]++
	}
	a.metrics.ObserveChangeSet(counts)
	if err := a.metrics.Flush(ws.cfg.MetricsFile); err != nil {
		a.logger.Warn(err.Error())
	}
	return nil
}

// mark replaces the marked changes of ws by next, saving the previous state
// for undo, and prints what changed.
func (a *App) mark(ws *workspace, next *domain.ChangeSet) error {
	diff := next.Diff(ws.current)
	ws.history.Save(ws.current.PersistentState())
	ws.current.SetState(next)
	if err := a.renderer.Diff(diff); err != nil {
		return err
	}
	return a.persist(ws)
}

func (a *App) println(s string) error {
	_, err := fmt.Fprintln(a.out, s)
	return err
}

// timed runs fn and reports its duration and result to metrics.
func (a *App) timed(ctx context.Context, policy string, fn func() error) error {
	_, vertex := a.telemetry.Record(ctx, string(domain.PhaseResolve))
	start := time.Now()
	err := fn()
	a.metrics.ObserveResolve(policy, time.Since(start), err)
	vertex.Complete(err)
	return err
}

// isNothingToDo reports whether err only says the history stack is empty.
func isNothingToDo(err error) bool {
	return errors.Is(err, domain.ErrNothingToUndo) || errors.Is(err, domain.ErrNothingToRedo)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
