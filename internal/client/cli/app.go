package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/backup"
	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/client/config"
	"github.com/dmitrijs2005/loveops/internal/client/localdb"
	"github.com/dmitrijs2005/loveops/internal/client/services"
	"github.com/dmitrijs2005/loveops/internal/client/store"
	"github.com/dmitrijs2005/loveops/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "local"
)

const (
	pingTimeout   = 3 * time.Second
	uploadTimeout = time.Minute
)

// syncEngine is the part of services.SyncService the CLI drives.
type syncEngine interface {
	Start(ctx context.Context)
	Stop()
	SyncNow(ctx context.Context) error
	PullNow(ctx context.Context) (bool, error)
	InitialPull(ctx context.Context) (bool, error)
	Foreground(ctx context.Context) (bool, error)
	Status(ctx context.Context) services.SyncStatus
}

type photoUploader interface {
	AddToPerson(ctx context.Context, personID, fileName, contentType string, data []byte) (string, error)
	AddToDate(ctx context.Context, dateID, fileName, contentType string, data []byte) (string, error)
}

type App struct {
	config *config.Config
	db     *sql.DB
	api    client.Client

	store  *store.Store
	codec  *backup.Codec
	auth   services.AuthService
	sync   syncEngine
	photos photoUploader

	log       logging.Logger
	logCloser io.Closer
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time

	modeMu sync.Mutex
	Mode   Mode
}

// NewApp opens the local database and builds every service. With an empty
// server address the remote client is never created.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, closer := logging.NewFileLogger(logging.FileOptions{
		Path:       c.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Level:      logging.ParseLevel(c.LogLevel),
	})

	db, err := localdb.Open(ctx, c.DBPath)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config:    c,
		db:        db,
		log:       log,
		logCloser: closer,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		now:       time.Now,
		Mode:      ModeDisabled,
	}

	var (
		remote    services.Remote
		presigner services.Presigner
	)
	if c.SyncEnabled() {
		g, err := client.NewGRPCClient(c.ServerEndpointAddr)
		if err != nil {
			_ = db.Close()
			_ = closer.Close()
			return nil, err
		}
		a.api, remote, presigner = g, g, g
		a.Mode = ModeOffline
	}

	a.store = store.New(db, log)
	a.codec = backup.NewCodec(a.store, log)
	a.auth = services.NewAuthService(a.api, a.store, log)
	a.sync = services.NewSyncService(remote, a.codec, a.store, a.auth, services.SyncOptions{
		Debounce:     c.SyncDebounce,
		RetryDelay:   c.SyncRetryDelay,
		OnDataPulled: func() { fmt.Fprintln(a.out, "Data refreshed from server.") },
	}, log)
	a.photos = services.NewPhotoService(presigner, a.auth, a.store.Persons, a.store.Dates,
		&http.Client{Timeout: uploadTimeout}, log)

	return a, nil
}

// Close releases the remote connection, the database and the log file.
func (a *App) Close() {
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *App) setMode(mode Mode) bool {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode == mode {
		return false
	}
	a.Mode = mode
	fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	return true
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.Current()
	return ok
}

func (a *App) getStatus() string {
	s := ""
	if sess, ok := a.auth.Current(); ok {
		s = sess.Username + " "
	}
	s += string(a.mode())
	if a.sync.Status(context.Background()).Syncing {
		s += " syncing"
	}
	return fmt.Sprintf("(%s)", s)
}

// Run restores the saved session, starts sync and the connectivity
// watcher, and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to LoveOps (type 'help' for commands)")

	if sess, ok, err := a.auth.Restore(ctx); err != nil {
		a.log.Error(ctx, "failed to restore session", "error", err)
	} else if ok {
		fmt.Fprintf(a.out, "Signed in as %s\n", sess.Username)
	}

	a.sync.Start(ctx)
	defer a.sync.Stop()

	if a.config.SyncEnabled() {
		if a.isLoggedIn() {
			a.initialPull(ctx)
		}
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	a.printDueReminders(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) initialPull(ctx context.Context) {
	if ok, err := a.sync.InitialPull(ctx); err != nil {
		fmt.Fprintln(a.out, "Initial pull failed:", err)
	} else if !ok {
		fmt.Fprintln(a.out, "No remote data yet.")
	}
}

// checkOnline pings once and updates Mode. Coming back online triggers a
// silent pull.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	if a.setMode(ModeOnline) && a.isLoggedIn() {
		if _, err := a.sync.Foreground(ctx); err != nil {
			a.log.Warn(ctx, "refresh after reconnect failed", "error", err)
		}
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = pingTimeout
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
