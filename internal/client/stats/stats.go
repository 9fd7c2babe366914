// Package stats aggregates dates and spending for the overview screen.
package stats

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/models"
)

const (
	RecentLimit = 10
	TrendLimit  = 15
)

type StageCount struct {
	Stage models.Stage
	Count int
}

// TrendPoint is the spending of one date, split by payer.
type TrendPoint struct {
	Date  string
	Me    float64
	Them  float64
	Total float64
}

type Summary struct {
	Persons     int
	Dates       int
	TotalCost   float64
	CostByMe    float64
	CostByThem  float64
	AverageCost float64
	ByStage     []StageCount
	// Recent holds the latest dates, newest first.
	Recent []models.DateRecord
	// Trend holds the latest dates oldest first, for charting.
	Trend []TrendPoint
}

// Compute summarizes d. A non-empty personID restricts every figure to
// that person.
func Compute(d models.BackupData, personID string) Summary {
	var s Summary

	dates := make([]models.DateRecord, 0, len(d.Dates))
	for _, dr := range d.Dates {
		if personID == "" || dr.PersonID == personID {
			dates = append(dates, dr)
		}
	}

	counts := map[models.Stage]int{}
	for _, p := range d.Persons {
		if personID != "" && p.ID != personID {
			continue
		}
		s.Persons++
		counts[p.EffectiveStage()]++
	}
	for _, st := range models.Stages {
		if n := counts[st]; n > 0 {
			s.ByStage = append(s.ByStage, StageCount{Stage: st, Count: n})
		}
	}

	s.Dates = len(dates)
	for _, dr := range dates {
		s.TotalCost += dr.TotalCost()
		s.CostByMe += dr.CostBy(models.PartyMe)
		s.CostByThem += dr.CostBy(models.PartyThem)
	}
	if s.Dates > 0 {
		s.AverageCost = s.TotalCost / float64(s.Dates)
	}

	desc := slices.Clone(dates)
	slices.SortStableFunc(desc, func(a, b models.DateRecord) int { return cmp.Compare(b.Date, a.Date) })
	s.Recent = desc[:min(RecentLimit, len(desc))]

	asc := slices.Clone(dates)
	slices.SortStableFunc(asc, func(a, b models.DateRecord) int { return cmp.Compare(a.Date, b.Date) })
	for _, dr := range asc[max(0, len(asc)-TrendLimit):] {
		s.Trend = append(s.Trend, TrendPoint{
			Date:  dr.Date,
			Me:    dr.CostBy(models.PartyMe),
			Them:  dr.CostBy(models.PartyThem),
			Total: dr.TotalCost(),
		})
	}
	return s
}

// Suggestion is an anniversary worth turning into a reminder.
type Suggestion struct {
	Key   string
	Title string
}

// Anniversaries proposes reminders from a person's dates: every full week
// and every full 30 days since the first date, and every fifth date.
func Anniversaries(dates []models.DateRecord, today time.Time) []Suggestion {
	if len(dates) == 0 {
		return nil
	}

	first := dates[0].Date
	for _, dr := range dates[1:] {
		if dr.Date < first {
			first = dr.Date
		}
	}

	var days int
	if t, err := time.Parse(time.DateOnly, first); err == nil {
		y, m, dd := today.Date()
		day := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
		days = int(day.Sub(t).Hours() / 24)
	}

	var out []Suggestion
	seen := map[string]bool{}
	add := func(key, title string) {
		if !seen[key] {
			seen[key] = true
			out = append(out, Suggestion{Key: key, Title: title})
		}
	}

	if days >= 7 {
		n := days / 7 * 7
		add(fmt.Sprintf("days-%d", n), fmt.Sprintf("Known for %d days", n))
	}
	if days >= 30 {
		n := days / 30 * 30
		add(fmt.Sprintf("days-%d", n), fmt.Sprintf("Known for %d days", n))
	}
	if len(dates) >= 5 {
		n := len(dates) / 5 * 5
		add(fmt.Sprintf("dates-%d", n), fmt.Sprintf("%d dates", n))
	}
	return out
}

// Reminder turns s into a reminder for today.
func Reminder(p models.Person, s Suggestion, now time.Time) models.Reminder {
	return models.Reminder{
		ID:        models.NewID(),
		PersonID:  p.ID,
		Title:     p.Name + " - " + s.Title,
		Date:      now.UTC().Format(time.DateOnly),
		CreatedAt: models.Timestamp(now),
	}
}
