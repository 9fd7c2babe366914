package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/backup"
	"github.com/dmitrijs2005/loveops/internal/client/client"
	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/store"
	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/logging"
)

const (
	DefaultDebounce   = 1500 * time.Millisecond
	DefaultRetryDelay = 2 * time.Second
)

// Remote is the part of the server client used by sync.
type Remote interface {
	Push(ctx context.Context, doc []byte) (string, error)
	Pull(ctx context.Context) ([]byte, error)
}

// Codec exports and imports the whole local document.
type Codec interface {
	Export(ctx context.Context) (models.BackupData, error)
	Import(ctx context.Context, d models.BackupData, opts ...backup.ImportOption) error
}

// SyncStore is the part of the local store used by sync.
type SyncStore interface {
	SetObserver(o store.Observer)
	ClearObserver()
	LastSyncedAt(ctx context.Context) (string, error)
	SetLastSyncedAt(ctx context.Context, ts string) error
}

type SyncOptions struct {
	Debounce   time.Duration
	RetryDelay time.Duration
	// OnDataPulled runs after a pulled document has been imported.
	OnDataPulled func()
}

// SyncStatus is a snapshot of the sync state for display.
type SyncStatus struct {
	Configured   bool
	LoggedIn     bool
	Syncing      bool
	Error        string
	LastSyncedAt string
}

type timer interface {
	Stop() bool
}

// SyncService keeps the remote copy of the document in step with the local
// store. Reconciliation is whole-document, last write wins.
type SyncService struct {
	remote   Remote
	codec    Codec
	store    SyncStore
	identity Identity
	opts     SyncOptions
	log      logging.Logger

	afterFunc func(d time.Duration, f func()) timer
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time

	mu      sync.Mutex
	pending timer
	// gen identifies the armed timer; a callback from any older one is stale.
	gen     uint64
	baseCtx context.Context
	syncing int
	lastErr string
}

// NewSyncService builds the engine. remote may be nil when no server is
// configured, in which case every operation reports common.ErrNotConfigured.
func NewSyncService(remote Remote, codec Codec, st SyncStore, id Identity, opts SyncOptions, log logging.Logger) *SyncService {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &SyncService{
		remote:   remote,
		codec:    codec,
		store:    st,
		identity: id,
		opts:     opts,
		log:      log.With("component", "sync"),
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		sleep: sleepCtx,
		now:   time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *SyncService) configured() bool { return s.remote != nil }

func (s *SyncService) loggedIn() bool {
	_, ok := s.identity.Current()
	return ok
}

// Start subscribes to local saves. Writes after Start schedule a
// debounced push while a session exists. ctx is used for those pushes.
func (s *SyncService) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	s.store.SetObserver(s.afterSave)
}

// Stop unsubscribes and drops a pending push. In-flight calls run to
// completion.
func (s *SyncService) Stop() {
	s.store.ClearObserver()
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.gen++
	s.mu.Unlock()
}

func (s *SyncService) afterSave(ctx context.Context, key string) {
	s.SchedulePush()
}

// SchedulePush (re)arms the debounce timer. Only the last call inside the
// window results in a push, of the state at fire time.
func (s *SyncService) SchedulePush() {
	if !s.configured() || !s.loggedIn() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending = s.afterFunc(s.opts.Debounce, func() { s.fire(gen) })
}

// fire pushes for the timer armed as gen. A timer that expired while being
// replaced or stopped finds a newer gen and does nothing.
func (s *SyncService) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	ctx := s.baseCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.SyncNow(ctx); err != nil {
		s.log.Warn(ctx, "auto push failed", "error", err)
	}
}

func (s *SyncService) begin() {
	s.mu.Lock()
	s.syncing++
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *SyncService) end(err error) {
	s.mu.Lock()
	s.syncing--
	if err != nil {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
}

func (s *SyncService) precheck() error {
	if !s.configured() {
		return common.ErrNotConfigured
	}
	if !s.loggedIn() {
		return client.ErrUnauthorized
	}
	return nil
}

// SyncNow pushes the current document immediately. A pending debounced
// push is left armed.
func (s *SyncService) SyncNow(ctx context.Context) (err error) {
	if err := s.precheck(); err != nil {
		return err
	}
	s.begin()
	defer func() { s.end(err) }()

	d, err := s.codec.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	doc, err := backup.Encode(d)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := s.remote.Push(ctx, doc); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	if err := s.markSynced(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "pushed", "bytes", len(doc))
	return nil
}

// PullNow fetches the remote document and imports it. It reports whether
// anything was imported; no remote data is not an error.
func (s *SyncService) PullNow(ctx context.Context) (ok bool, err error) {
	if err := s.precheck(); err != nil {
		return false, err
	}
	s.begin()
	defer func() { s.end(err) }()
	return s.pull(ctx)
}

// InitialPull is PullNow run right after login, retried once after the
// configured delay when the first attempt fails.
func (s *SyncService) InitialPull(ctx context.Context) (bool, error) {
	ok, err := s.PullNow(ctx)
	if err == nil || errors.Is(err, common.ErrNotConfigured) || errors.Is(err, client.ErrUnauthorized) {
		return ok, err
	}

	s.log.Warn(ctx, "initial pull failed, retrying", "error", err, "delay", s.opts.RetryDelay)
	if serr := s.sleep(ctx, s.opts.RetryDelay); serr != nil {
		return false, serr
	}
	return s.PullNow(ctx)
}

// Foreground is the silent pull run when the app regains the server.
// It does not touch the syncing indicator or the error slot.
func (s *SyncService) Foreground(ctx context.Context) (bool, error) {
	if err := s.precheck(); err != nil {
		return false, err
	}
	ok, err := s.pull(ctx)
	if err != nil {
		s.log.Warn(ctx, "foreground refresh failed", "error", err)
	}
	return ok, err
}

func (s *SyncService) pull(ctx context.Context) (bool, error) {
	raw, err := s.remote.Pull(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pull: %w", err)
	}
	if len(raw) == 0 {
		return false, nil
	}

	d, err := backup.Decode(raw)
	if err == nil {
		err = backup.Validate(d)
	}
	if err != nil {
		s.log.Warn(ctx, "ignoring invalid remote document", "error", err)
		return false, nil
	}

	if err := s.codec.Import(ctx, d, backup.Quiet()); err != nil {
		return false, err
	}
	if err := s.markSynced(ctx); err != nil {
		return false, err
	}
	s.log.Info(ctx, "pulled", "persons", len(d.Persons))
	if s.opts.OnDataPulled != nil {
		s.opts.OnDataPulled()
	}
	return true, nil
}

func (s *SyncService) markSynced(ctx context.Context) error {
	if err := s.store.SetLastSyncedAt(ctx, models.Timestamp(s.now())); err != nil {
		return fmt.Errorf("save last synced: %w", err)
	}
	return nil
}

func (s *SyncService) Status(ctx context.Context) SyncStatus {
	last, err := s.store.LastSyncedAt(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read last synced", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{
		Configured:   s.configured(),
		LoggedIn:     s.loggedIn(),
		Syncing:      s.syncing > 0,
		Error:        s.lastErr,
		LastSyncedAt: last,
	}
}
