package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/campus/internal/client/api"
	"github.com/dmitrijs2005/campus/internal/client/config"
	"github.com/dmitrijs2005/campus/internal/client/models"
	"github.com/dmitrijs2005/campus/internal/client/router"
	"github.com/dmitrijs2005/campus/internal/client/securestore"
	"github.com/dmitrijs2005/campus/internal/client/services"
	"github.com/dmitrijs2005/campus/internal/client/session"
	"github.com/dmitrijs2005/campus/internal/client/vault"
	"github.com/dmitrijs2005/campus/internal/common"
	"github.com/dmitrijs2005/campus/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type sessionIface interface {
	State() session.State
	Restore(ctx context.Context) (session.State, error)
	SignIn(ctx context.Context, identifier, password string) (session.State, error)
	Register(ctx context.Context, req models.RegisterRequest) (session.State, error)
	SignOut(ctx context.Context) (session.State, error)
}

type courseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
}

type enrollmentService interface {
	List(ctx context.Context) ([]models.Enrollment, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	Enroll(ctx context.Context, courseID string) (*models.Enrollment, error)
	Cancel(ctx context.Context, id string) error
}

type notificationService interface {
	List(ctx context.Context) ([]models.Notification, error)
	Get(ctx context.Context, id string) (*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader
	clock  clockwork.Clock

	session       sessionIface
	nav           *router.Stack
	guard         *router.Guard
	courses       courseService
	enrollments   enrollmentService
	notifications notificationService
	pinger        pinger

	checkInterval time.Duration
	closers       []io.Closer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the secure store and wires the client. The store passphrase
// is asked interactively when the configuration has none.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	a := &App{
		log:           log.With("component", "cli"),
		out:           os.Stdout,
		reader:        bufio.NewReader(os.Stdin),
		clock:         clockwork.NewRealClock(),
		checkInterval: cfg.OnlineCheckInterval,
		mode:          ModeOffline,
	}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)

	v := vault.New(store, log)

	// set below; the handler only runs once requests are made
	var mgr *session.Manager
	opts := []api.Option{
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log),
		api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())),
		api.WithDefaultHeaders(http.Header{
			"Accept":     {"application/json"},
			"User-Agent": {"campus-cli"},
		}),
	}
	if cfg.ExpireOnUnauthorized {
		opts = append(opts, api.WithUnauthorizedHandler(func(ctx context.Context) {
			if _, err := mgr.Expire(ctx); err != nil {
				a.log.Debug(ctx, "expire skipped", "error", err)
			}
		}))
	}

	client, err := api.New(api.EnvResolver{
		Override: cfg.APIURL,
		Platform: api.Platform(cfg.Platform),
		LANHost:  cfg.LANHost,
		Port:     cfg.APIPort,
	}, v, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configure api client: %w", err)
	}
	a.log.Info(ctx, "api client configured", "base_url", client.BaseURL())

	mgr = session.NewManager(v, services.NewAuthService(client), log)
	a.session = mgr
	a.nav = router.NewStack(router.RouteHome)
	a.guard = router.NewGuard(mgr, a.nav, router.DefaultTable(), log)
	a.courses = services.NewCourseService(client)
	a.enrollments = services.NewEnrollmentService(client)
	a.notifications = services.NewNotificationService(client)
	a.pinger = client

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (*securestore.SQLiteStore, error) {
	passphrase := []byte(cfg.StorePassphrase)
	if len(passphrase) == 0 {
		pw, err := getPassword(a.out, "Clave del almacén seguro")
		if err != nil {
			return nil, fmt.Errorf("read store passphrase: %w", err)
		}
		passphrase = pw
	}
	defer common.WipeByteArray(passphrase)

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	store, err := securestore.OpenSQLite(ctx, cfg.StorePath, passphrase)
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	return store, nil
}

// Run restores the session and serves the REPL until EOF, "exit" or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.guard.Start()
	defer a.guard.Stop()

	st, err := a.session.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	fmt.Fprintln(a.out, "Campus CLI (escribe 'help' para ver los comandos)")
	if st.Authenticated() {
		fmt.Fprintf(a.out, "Sesión restaurada: %s\n", st.User.FullName())
	}

	a.checkOnline(ctx)
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.checkInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.pinger.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

// getStatus renders the prompt status, e.g. "(11111111-1 online) /courses".
func (a *App) getStatus() string {
	s := string(a.Mode())
	if st := a.session.State(); st.User != nil {
		s = st.User.Rut + " " + s
	}
	return fmt.Sprintf("(%s) %s", s, a.nav.Current())
}
