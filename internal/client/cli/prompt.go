package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/store"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errNotFound  = errors.New("no such record")
	errAmbiguous = errors.New("ambiguous reference, type more of the id")
	errCancelled = errors.New("cancelled")
)

const clearValue = "-"

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askDefault shows cur in brackets. Empty input keeps cur, "-" clears it.
func (a *App) askDefault(prompt, cur string) (string, error) {
	if cur != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, cur)
	}
	v, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	switch v {
	case "":
		return cur, nil
	case clearValue:
		return "", nil
	}
	return v, nil
}

func (a *App) confirm(prompt string) (bool, error) {
	v, err := a.ask(prompt + " (yes/no)")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "yes") || strings.EqualFold(v, "y"), nil
}

// askChoice lets the user pick one of values by number or by value. Empty
// input keeps cur.
func askChoice[E ~string](a *App, prompt string, values []E, label func(E) string, cur E) (E, error) {
	var b strings.Builder
	b.WriteString(prompt)
	for i, v := range values {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, label(v))
	}
	if cur != "" {
		fmt.Fprintf(&b, "\n[%s]", label(cur))
	}

	in, err := a.ask(b.String())
	if err != nil {
		return "", err
	}
	switch in {
	case "":
		return cur, nil
	case clearValue:
		return "", nil
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(values) {
		return values[n-1], nil
	}
	for _, v := range values {
		if strings.EqualFold(string(v), in) || strings.EqualFold(label(v), in) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownValue, in)
}

var parties = []models.Party{models.PartyMe, models.PartyThem}

func (a *App) askParty(prompt string, cur models.Party) (models.Party, error) {
	return askChoice(a, prompt, parties, models.Party.Label, cur)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolve finds the entity whose id equals ref or, failing that, the only
// one whose id starts with ref.
func resolve[T store.Entity](list []T, ref string) (T, error) {
	var zero T
	if ref == "" {
		return zero, errNotFound
	}
	var hits []T
	for _, v := range list {
		if v.GetID() == ref {
			return v, nil
		}
		if strings.HasPrefix(v.GetID(), ref) {
			hits = append(hits, v)
		}
	}
	switch len(hits) {
	case 0:
		return zero, errNotFound
	case 1:
		return hits[0], nil
	}
	return zero, errAmbiguous
}

// findPerson accepts an id, an id prefix or a name (case-insensitive).
func (a *App) findPerson(ctx context.Context, args []string, usage string) (models.Person, error) {
	if len(args) == 0 {
		return models.Person{}, usageError(usage)
	}
	ref := strings.Join(args, " ")

	persons, err := a.store.Persons.GetAll(ctx)
	if err != nil {
		return models.Person{}, err
	}
	p, err := resolve(persons, ref)
	if err == nil {
		return p, nil
	}

	var named []models.Person
	for _, q := range persons {
		if strings.EqualFold(q.Name, ref) {
			named = append(named, q)
		}
	}
	switch len(named) {
	case 0:
		return models.Person{}, err
	case 1:
		return named[0], nil
	}
	return models.Person{}, errAmbiguous
}

// findIn resolves args[0] in the collection c.
func findIn[T store.Entity](ctx context.Context, c *store.Collection[T], args []string, usage string) (T, error) {
	var zero T
	if len(args) == 0 {
		return zero, usageError(usage)
	}
	list, err := c.GetAll(ctx)
	if err != nil {
		return zero, err
	}
	return resolve(list, args[0])
}
