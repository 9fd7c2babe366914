package store

import (
	"context"

	"github.com/dmitrijs2005/loveops/internal/client/repositories/kv"
)

// Auxiliary values are plain strings outside the backup document. Writing
// them never notifies the observer.

func (s *Store) getString(ctx context.Context, key string) (string, error) {
	var v []byte
	err := s.read(ctx, func(ctx context.Context, repo kv.Repository) error {
		var err error
		v, err = repo.Get(ctx, key)
		return err
	})
	return string(v), err
}

func (s *Store) setString(ctx context.Context, key, value string) error {
	_, err := s.mutate(ctx, false, false, nil, func(ctx context.Context, repo kv.Repository) (bool, error) {
		return true, repo.Set(ctx, key, []byte(value))
	})
	return err
}

func (s *Store) Theme(ctx context.Context) (string, error) { return s.getString(ctx, KeyTheme) }

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.setString(ctx, KeyTheme, theme)
}

// LastSyncedAt is the timestamp of the last successful push or pull, or "".
func (s *Store) LastSyncedAt(ctx context.Context) (string, error) {
	return s.getString(ctx, KeyLastSynced)
}

func (s *Store) SetLastSyncedAt(ctx context.Context, ts string) error {
	return s.setString(ctx, KeyLastSynced, ts)
}

// GetRaw and SetRaw give services a private slot, such as the saved session.
func (s *Store) GetRaw(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.read(ctx, func(ctx context.Context, repo kv.Repository) error {
		var err error
		v, err = repo.Get(ctx, key)
		return err
	})
	return v, err
}

func (s *Store) SetRaw(ctx context.Context, key string, value []byte) error {
	_, err := s.mutate(ctx, false, false, nil, func(ctx context.Context, repo kv.Repository) (bool, error) {
		return true, repo.Set(ctx, key, value)
	})
	return err
}

func (s *Store) DeleteRaw(ctx context.Context, key string) error {
	_, err := s.mutate(ctx, false, false, nil, func(ctx context.Context, repo kv.Repository) (bool, error) {
		return true, repo.Delete(ctx, key)
	})
	return err
}
