// Package search finds persons whose records mention a query.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/loveops/internal/client/models"
)

const snippetLen = 80

type Kind string

const (
	KindProfile    Kind = "profile"
	KindDate       Kind = "date"
	KindImpression Kind = "impression"
	KindQuestion   Kind = "question"
	KindMilestone  Kind = "milestone"
)

type Match struct {
	Person  models.Person
	Kind    Kind
	Snippet string
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > snippetLen {
		return string(r[:snippetLen])
	}
	return s
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Run matches query case-insensitively against d. Each person yields at
// most one profile and one date match; impression, question and milestone
// matches are reported only for persons with no earlier match.
func Run(d models.BackupData, query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	var out []Match
	for _, p := range d.Persons {
		found := false
		add := func(k Kind, s string) {
			out = append(out, Match{Person: p, Kind: k, Snippet: snippet(s)})
			found = true
		}

		for _, f := range []string{p.Name, p.Job, p.Hobbies, p.FamilyBg, p.Matchmaker, p.Education} {
			if f != "" && has(f) {
				add(KindProfile, f)
				break
			}
		}

		for _, dr := range personDates(d.Dates, p.ID) {
			items := make([]string, len(dr.Items))
			for i, it := range dr.Items {
				items[i] = joinNonEmpty(it.Location, it.Activity)
			}
			misc := make([]string, len(dr.MiscExpenses))
			for i, m := range dr.MiscExpenses {
				misc[i] = m.Activity
			}
			text := strings.Join(items, " ") + " " + strings.Join(misc, " ") + " " + dr.Notes
			if has(text) {
				add(KindDate, text)
				break
			}
		}

		if imp, ok := latestImpression(d.Impressions, p.ID); ok && !found {
			parts := slices.Concat(imp.Pros, imp.Cons, imp.ToObserve, []string{imp.Personality, imp.Values, imp.Habits})
			if text := joinNonEmpty(parts...); has(text) {
				add(KindImpression, text)
			}
		}

		if !found {
			for _, qq := range d.Questions {
				if qq.PersonID == p.ID && has(joinNonEmpty(qq.Question, qq.ResolvedNote)) {
					add(KindQuestion, joinNonEmpty(qq.Question, qq.ResolvedNote))
					break
				}
			}
		}

		if !found {
			for _, m := range d.Milestones {
				if m.PersonID == p.ID && has(joinNonEmpty(m.Title, m.Notes)) {
					add(KindMilestone, joinNonEmpty(m.Title, m.Notes))
					break
				}
			}
		}
	}
	return out
}

func personDates(all []models.DateRecord, personID string) []models.DateRecord {
	var out []models.DateRecord
	for _, dr := range all {
		if dr.PersonID == personID {
			out = append(out, dr)
		}
	}
	slices.SortStableFunc(out, func(a, b models.DateRecord) int { return cmp.Compare(b.Date, a.Date) })
	return out
}

func latestImpression(all []models.Impression, personID string) (models.Impression, bool) {
	var best models.Impression
	ok := false
	for _, imp := range all {
		if imp.PersonID == personID && (!ok || imp.UpdatedAt > best.UpdatedAt) {
			best, ok = imp, true
		}
	}
	return best, ok
}
