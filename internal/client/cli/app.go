package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/config"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/connectivity"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/attachments"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/queue"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/services"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/culvertcrawlers/fieldsurvey/internal/netx"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// subscriber starts following the link and returns a function that stops it.
type subscriber func(ctx context.Context, onRestored func(ctx context.Context)) (cancel func())

type App struct {
	config   *config.Config
	reports  services.ReportService
	sync     services.SyncService
	queue    queue.Repository
	online   func() bool
	follow   subscriber
	reader   *bufio.Reader
	out      io.Writer
	log      logging.Logger
	reporter string
	now      func() time.Time
	closers  []func() error
}

// NewApp opens the local store and wires the client stack for cfg.
func NewApp(ctx context.Context, cfg *config.Config, l logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config: cfg,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		log:    l.With("module", "cli"),
		now:    time.Now,
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		a.out = io.Discard
	}

	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, l)
	a.closers = append(a.closers, db.Close, api.Close)

	pinger, err := a.pinger(cfg, api)
	if err != nil {
		a.Close()
		return nil, err
	}

	q := queue.NewSQLiteRepository(db, l)
	st := attachments.NewSQLiteRepository(db, l)
	if cfg.LinkCheckShared() {
		l.Warn(ctx, "link check dials the survey server; set -l to tell a lost link from a server outage", "addr", cfg.LinkAddr())
	}
	monitor := connectivity.NewMonitor(netx.NewLinkWatcher(cfg.LinkAddr(), cfg.LinkCheckInterval), l)
	policy := services.ProbePolicy{Attempts: cfg.ProbeAttempts, Delay: cfg.ProbeDelay}

	a.queue = q
	a.online = monitor.Online
	a.follow = monitor.Subscribe
	a.sync = services.NewSyncService(api, q, st, connectivity.NewProber(pinger, l), policy, a.notify, l)
	a.reports = services.NewReportService(a.sync, api, q, st, monitor.Online, l)

	return a, nil
}

// pinger picks the reachability probe transport. The gRPC health check is
// used when an address is configured, the HTTP ping otherwise.
func (a *App) pinger(cfg *config.Config, api *client.HTTPClient) (client.Pinger, error) {
	if cfg.HealthGRPCAddr == "" {
		return api, nil
	}
	hp, err := client.NewHealthPinger(cfg.HealthGRPCAddr)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, hp.Close)
	return hp, nil
}

// Run follows the link, greets the user and blocks in the REPL until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	stop := a.follow(ctx, a.sync.OnConnectivityRestored)
	defer stop()

	printlnFn("Culvert Crawlers field survey (type 'help' for commands)")
	a.pendingHint(ctx)

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader, a.out)
}

// Close releases the server connections and the local database.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) mode() Mode {
	if a.online() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) getStatus(ctx context.Context) string {
	n, err := a.queue.Count(ctx)
	if err != nil || n == 0 {
		return fmt.Sprintf("(%s)", a.mode())
	}
	return fmt.Sprintf("(%s, %d queued)", a.mode(), n)
}

func (a *App) pendingHint(ctx context.Context) {
	n, err := a.queue.Count(ctx)
	if err != nil {
		a.log.Error(ctx, "cannot read offline queue", "error", err)
		return
	}
	if n > 0 {
		printlnFn(fmt.Sprintf("%d offline submission(s) waiting. They will be sent when the connection returns; type 'sync' to send now.", n))
	}
}

// notify shows the outcome of drains started by a link restore.
func (a *App) notify(_ context.Context, r models.DrainResult) {
	printlnFn()
	printlnFn(r.Summary())
}
