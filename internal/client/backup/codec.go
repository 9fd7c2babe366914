// Package backup converts the whole local store to and from the versioned
// backup document. The same document is the payload of remote sync.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/store"
	"github.com/dmitrijs2005/loveops/internal/logging"
)

// ErrInvalidBackup is returned for documents that fail validation. Nothing
// is written when it is returned.
var ErrInvalidBackup = errors.New("invalid backup file format")

// Store is the part of the entity store the codec needs.
type Store interface {
	Snapshot(ctx context.Context) (models.BackupData, error)
	ReplaceAll(ctx context.Context, d models.BackupData, notify bool) error
}

type Codec struct {
	store Store
	log   logging.Logger
	now   func() time.Time
}

func NewCodec(store Store, log logging.Logger) *Codec {
	return &Codec{store: store, log: log.With("component", "backup"), now: time.Now}
}

// Export snapshots every collection. It never writes.
func (c *Codec) Export(ctx context.Context) (models.BackupData, error) {
	d, err := c.store.Snapshot(ctx)
	if err != nil {
		return models.BackupData{}, fmt.Errorf("snapshot: %w", err)
	}
	d.Version = models.BackupVersion
	d.ExportedAt = models.Timestamp(c.now())
	return d, nil
}

// Validate applies the minimal acceptance check: a non-zero version and a
// persons array. Other collections may be absent.
func Validate(d models.BackupData) error {
	if d.Version == 0 || d.Persons == nil {
		return ErrInvalidBackup
	}
	return nil
}

// Decode parses a document. Malformed JSON is reported as ErrInvalidBackup.
// Flat date records written by older versions are upgraded first.
func Decode(raw []byte) (models.BackupData, error) {
	raw, err := upgradeDates(raw)
	if err != nil {
		return models.BackupData{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	var d models.BackupData
	if err := json.Unmarshal(raw, &d); err != nil {
		return models.BackupData{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := Validate(d); err != nil {
		return models.BackupData{}, err
	}
	return d, nil
}

// upgradeDates runs the date array through the legacy migration while it is
// still raw JSON. The typed DateRecord has no flat fields, so decoding first
// would lose them.
func upgradeDates(raw []byte) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	dates, ok := doc["dates"]
	if !ok || bytes.Equal(bytes.TrimSpace(dates), []byte("null")) {
		return raw, nil
	}

	migrated, changed, err := store.MigrateDates(dates, models.NewID)
	if err != nil {
		return nil, fmt.Errorf("dates: %w", err)
	}
	if !changed {
		return raw, nil
	}
	doc["dates"] = migrated
	return json.Marshal(doc)
}

// Encode renders a document as indented JSON.
func Encode(d models.BackupData) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

type importOptions struct {
	quiet bool
}

type ImportOption func(*importOptions)

// Quiet suppresses after-save notifications. Used when the data came from
// the remote copy, so importing it does not schedule a push of the same data.
func Quiet() ImportOption {
	return func(o *importOptions) { o.quiet = true }
}

// Import validates d and then replaces every collection with its contents.
// Missing collections become empty. The replacement is all-or-nothing.
func (c *Codec) Import(ctx context.Context, d models.BackupData, opts ...ImportOption) error {
	var o importOptions
	for _, fn := range opts {
		fn(&o)
	}

	if err := Validate(d); err != nil {
		return err
	}
	if err := c.store.ReplaceAll(ctx, d, !o.quiet); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	c.log.Info(ctx, "backup imported",
		"persons", len(d.Persons), "dates", len(d.Dates), "quiet", o.quiet)
	return nil
}

// ImportBytes decodes and imports raw.
func (c *Codec) ImportBytes(ctx context.Context, raw []byte, opts ...ImportOption) error {
	d, err := Decode(raw)
	if err != nil {
		return err
	}
	return c.Import(ctx, d, opts...)
}

// FileName is the default name of a backup exported at t.
func FileName(t time.Time) string {
	return "love-ops-backup-" + t.Format(time.DateOnly) + ".json"
}

// WriteFile exports the store to path.
func (c *Codec) WriteFile(ctx context.Context, path string) error {
	d, err := c.Export(ctx)
	if err != nil {
		return err
	}
	b, err := Encode(d)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ReadFile imports the backup at path.
func (c *Codec) ReadFile(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	return c.ImportBytes(ctx, b)
}
