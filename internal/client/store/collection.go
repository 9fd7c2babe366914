package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/loveops/internal/client/repositories/kv"
)

// Entity is anything stored in a collection.
type Entity interface {
	GetID() string
}

// Scoped is an entity that belongs to a person.
type Scoped interface {
	Entity
	GetPersonID() string
}

// Collection is a JSON array of T stored under one key.
type Collection[T Entity] struct {
	s   *Store
	key string

	// upgrade rewrites the raw blob before decoding and reports whether it
	// changed anything.
	upgrade func(raw []byte) ([]byte, bool, error)
}

func newCollection[T Entity](s *Store, key string) *Collection[T] {
	return &Collection[T]{s: s, key: key}
}

// Key is the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) load(ctx context.Context, repo kv.Repository) ([]T, error) {
	raw, err := repo.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	if c.upgrade != nil {
		upgraded, changed, err := c.upgrade(raw)
		if err != nil {
			c.s.quarantine(ctx, repo, c.key, raw, err)
			return []T{}, nil
		}
		if changed {
			if err := repo.Set(ctx, c.key, upgraded); err != nil {
				return nil, fmt.Errorf("persist migrated %s: %w", c.key, err)
			}
			c.s.log.Info(ctx, "migrated legacy records", "key", c.key)
		}
		raw = upgraded
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		c.s.quarantine(ctx, repo, c.key, raw, err)
		return []T{}, nil
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func (c *Collection[T]) save(ctx context.Context, repo kv.Repository, list []T) error {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return repo.Set(ctx, c.key, b)
}

func (c *Collection[T]) write(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) (bool, error)) (bool, error) {
	return c.s.mutate(ctx, false, true, []string{c.key}, fn)
}

// GetAll returns the whole collection; a missing key reads as empty.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	var list []T
	err := c.s.read(ctx, func(ctx context.Context, repo kv.Repository) error {
		var err error
		list, err = c.load(ctx, repo)
		return err
	})
	return list, err
}

// Get looks up one record by id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	list, err := c.GetAll(ctx)
	if err != nil {
		return zero, false, err
	}
	i := slices.IndexFunc(list, func(v T) bool { return v.GetID() == id })
	if i < 0 {
		return zero, false, nil
	}
	return list[i], true, nil
}

// Save overwrites the collection with list.
func (c *Collection[T]) Save(ctx context.Context, list []T) error {
	_, err := c.write(ctx, func(ctx context.Context, repo kv.Repository) (bool, error) {
		return true, c.save(ctx, repo, list)
	})
	return err
}

// Add appends v and returns it.
func (c *Collection[T]) Add(ctx context.Context, v T) (T, error) {
	_, err := c.write(ctx, func(ctx context.Context, repo kv.Repository) (bool, error) {
		list, err := c.load(ctx, repo)
		if err != nil {
			return false, err
		}
		return true, c.save(ctx, repo, append(list, v))
	})
	return v, err
}

// Update replaces the record with the given id by fn(record). It reports
// false, and writes nothing, when no record has that id.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T) T) (bool, error) {
	return c.write(ctx, func(ctx context.Context, repo kv.Repository) (bool, error) {
		list, err := c.load(ctx, repo)
		if err != nil {
			return false, err
		}
		i := slices.IndexFunc(list, func(v T) bool { return v.GetID() == id })
		if i < 0 {
			return false, nil
		}
		list[i] = fn(list[i])
		return true, c.save(ctx, repo, list)
	})
}

// Delete removes the record with the given id, if any.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.write(ctx, func(ctx context.Context, repo kv.Repository) (bool, error) {
		list, err := c.load(ctx, repo)
		if err != nil {
			return false, err
		}
		kept := slices.DeleteFunc(list, func(v T) bool { return v.GetID() == id })
		return true, c.save(ctx, repo, kept)
	})
	return err
}

// ScopedCollection adds person-scoped queries to a collection.
type ScopedCollection[T Scoped] struct {
	*Collection[T]
	order func(a, b T) int
}

func newScoped[T Scoped](c *Collection[T], order func(a, b T) int) *ScopedCollection[T] {
	return &ScopedCollection[T]{Collection: c, order: order}
}

// ByPerson returns the person's records in the collection's display order.
func (c *ScopedCollection[T]) ByPerson(ctx context.Context, personID string) ([]T, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, v := range all {
		if v.GetPersonID() == personID {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, c.order)
	return out, nil
}

func (c *ScopedCollection[T]) first(ctx context.Context, personID string) (T, bool, error) {
	var zero T
	list, err := c.ByPerson(ctx, personID)
	if err != nil || len(list) == 0 {
		return zero, false, err
	}
	return list[0], true, nil
}

func (c *ScopedCollection[T]) removePerson(ctx context.Context, repo kv.Repository, personID string) error {
	list, err := c.load(ctx, repo)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(list, func(v T) bool { return v.GetPersonID() == personID })
	return c.save(ctx, repo, kept)
}

type personScoped interface {
	Key() string
	removePerson(ctx context.Context, repo kv.Repository, personID string) error
}

func compareAsc(a, b string) int  { return cmp.Compare(a, b) }
func compareDesc(a, b string) int { return cmp.Compare(b, a) }
