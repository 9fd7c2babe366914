package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/repositories/kv"
)

type Persons struct {
	*Collection[models.Person]
}

// DeleteWithData removes the person together with every record that
// references them. Either everything is removed or nothing is.
func (p *Persons) DeleteWithData(ctx context.Context, personID string) error {
	s := p.s
	keys := append([]string{KeyPersons}, scopedKeys(s)...)
	_, err := s.mutate(ctx, true, true, keys, func(ctx context.Context, repo kv.Repository) (bool, error) {
		for _, c := range s.scoped {
			if err := c.removePerson(ctx, repo, personID); err != nil {
				return false, err
			}
		}
		list, err := p.load(ctx, repo)
		if err != nil {
			return false, err
		}
		list = slices.DeleteFunc(list, func(v models.Person) bool { return v.ID == personID })
		return true, p.save(ctx, repo, list)
	})
	return err
}

func scopedKeys(s *Store) []string {
	keys := make([]string, len(s.scoped))
	for i, c := range s.scoped {
		keys[i] = c.Key()
	}
	return keys
}

// Dates are ordered newest first.
type Dates struct {
	*ScopedCollection[models.DateRecord]
}

// Milestones are ordered oldest first.
type Milestones struct {
	*ScopedCollection[models.Milestone]
}

type Impressions struct {
	*ScopedCollection[models.Impression]
}

// ForPerson returns the person's current impression.
func (c *Impressions) ForPerson(ctx context.Context, personID string) (models.Impression, bool, error) {
	return c.first(ctx, personID)
}

// Upsert replaces the person's impression, or adds one if they have none.
func (c *Impressions) Upsert(ctx context.Context, imp models.Impression) (models.Impression, error) {
	_, err := c.write(ctx, func(ctx context.Context, repo kv.Repository) (bool, error) {
		list, err := c.load(ctx, repo)
		if err != nil {
			return false, err
		}
		i := slices.IndexFunc(list, func(v models.Impression) bool { return v.PersonID == imp.PersonID })
		if i >= 0 {
			list[i] = imp
		} else {
			list = append(list, imp)
		}
		return true, c.save(ctx, repo, list)
	})
	return imp, err
}

// Questions are ordered newest first.
type Questions struct {
	*ScopedCollection[models.PendingQuestion]
}

// Resolve marks a question answered with an optional note.
func (c *Questions) Resolve(ctx context.Context, id, note string) (bool, error) {
	now := models.Now()
	return c.Update(ctx, id, func(q models.PendingQuestion) models.PendingQuestion {
		q.Resolved = true
		q.ResolvedNote = note
		q.ResolvedAt = now
		return q
	})
}

// Reopen clears a resolution.
func (c *Questions) Reopen(ctx context.Context, id string) (bool, error) {
	return c.Update(ctx, id, func(q models.PendingQuestion) models.PendingQuestion {
		q.Resolved = false
		q.ResolvedNote = ""
		q.ResolvedAt = ""
		return q
	})
}

type Plans struct {
	*ScopedCollection[models.NextPlan]
}

// ForPerson returns the most recently updated plan.
func (c *Plans) ForPerson(ctx context.Context, personID string) (models.NextPlan, bool, error) {
	return c.first(ctx, personID)
}

// Upsert drops the person's previous plans and stores p.
func (c *Plans) Upsert(ctx context.Context, p models.NextPlan) (models.NextPlan, error) {
	_, err := c.write(ctx, func(ctx context.Context, repo kv.Repository) (bool, error) {
		list, err := c.load(ctx, repo)
		if err != nil {
			return false, err
		}
		list = slices.DeleteFunc(list, func(v models.NextPlan) bool { return v.PersonID == p.PersonID })
		return true, c.save(ctx, repo, append(list, p))
	})
	return p, err
}

// Decisions keep the full history, newest first.
type Decisions struct {
	*ScopedCollection[models.Decision]
}

// ForPerson returns the latest decision.
func (c *Decisions) ForPerson(ctx context.Context, personID string) (models.Decision, bool, error) {
	return c.first(ctx, personID)
}

// History lists every decision about the person, newest first.
func (c *Decisions) History(ctx context.Context, personID string) ([]models.Decision, error) {
	return c.ByPerson(ctx, personID)
}

// Reminders are ordered by date, soonest first.
type Reminders struct {
	*ScopedCollection[models.Reminder]
}

// Due lists undismissed reminders dated on or before today (YYYY-MM-DD).
func (c *Reminders) Due(ctx context.Context, today string) ([]models.Reminder, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	due := make([]models.Reminder, 0)
	for _, r := range all {
		if r.IsDue(today) {
			due = append(due, r)
		}
	}
	slices.SortStableFunc(due, c.order)
	return due, nil
}

// Dismiss sets Triggered. Dismissing twice is harmless.
func (c *Reminders) Dismiss(ctx context.Context, id string) (bool, error) {
	return c.Update(ctx, id, func(r models.Reminder) models.Reminder {
		r.Triggered = true
		return r
	})
}
