package store

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/repositories/kv"
)

// Snapshot reads all eight collections under one lock, so the result is a
// consistent view. Version and ExportedAt are left for the caller.
func (s *Store) Snapshot(ctx context.Context) (models.BackupData, error) {
	var d models.BackupData
	err := s.read(ctx, func(ctx context.Context, repo kv.Repository) error {
		var err error
		if d.Persons, err = s.Persons.load(ctx, repo); err != nil {
			return err
		}
		if d.Dates, err = s.Dates.load(ctx, repo); err != nil {
			return err
		}
		if d.Milestones, err = s.Milestones.load(ctx, repo); err != nil {
			return err
		}
		if d.Impressions, err = s.Impressions.load(ctx, repo); err != nil {
			return err
		}
		if d.Questions, err = s.Questions.load(ctx, repo); err != nil {
			return err
		}
		if d.Plans, err = s.Plans.load(ctx, repo); err != nil {
			return err
		}
		if d.Decisions, err = s.Decisions.load(ctx, repo); err != nil {
			return err
		}
		d.Reminders, err = s.Reminders.load(ctx, repo)
		return err
	})
	return d, err
}

// ReplaceAll overwrites every collection with the contents of d in one
// transaction. Nil slices are stored as empty arrays. With notify false the
// observer is not told about the writes.
func (s *Store) ReplaceAll(ctx context.Context, d models.BackupData, notify bool) error {
	_, err := s.mutate(ctx, true, notify, DataKeys, func(ctx context.Context, repo kv.Repository) (bool, error) {
		err := errors.Join(
			s.Persons.save(ctx, repo, d.Persons),
			s.Dates.save(ctx, repo, d.Dates),
			s.Milestones.save(ctx, repo, d.Milestones),
			s.Impressions.save(ctx, repo, d.Impressions),
			s.Questions.save(ctx, repo, d.Questions),
			s.Plans.save(ctx, repo, d.Plans),
			s.Decisions.save(ctx, repo, d.Decisions),
			s.Reminders.save(ctx, repo, d.Reminders),
		)
		return err == nil, err
	})
	return err
}
