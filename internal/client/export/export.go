// Package export renders a person's records, or everyone's, as a Markdown
// or plain-text document.
package export

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/loveops/internal/client/models"
)

type Format string

const (
	Markdown Format = "md"
	Text     Format = "txt"
)

// Separator goes between persons in a combined export.
const Separator = "\n\n---\n\n"

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Markdown, Text:
		return f, nil
	case "markdown":
		return Markdown, nil
	case "text":
		return Text, nil
	}
	return "", ErrUnknownFormat
}

var headingPrefix = regexp.MustCompile(`^#+\s*`)

// Person renders one person's document from the snapshot d.
func Person(d models.BackupData, p models.Person, f Format) string {
	lines := personLines(d, p)
	if f == Text {
		for i, l := range lines {
			lines[i] = headingPrefix.ReplaceAllString(l, "")
		}
	}
	return strings.Join(lines, "\n")
}

// All renders every person in d, in stored order.
func All(d models.BackupData, f Format) string {
	chunks := make([]string, len(d.Persons))
	for i, p := range d.Persons {
		chunks[i] = Person(d, p, f)
	}
	return strings.Join(chunks, Separator)
}

// FileName is the suggested name of an export. An empty person name means
// the combined export.
func FileName(personName string, f Format, now time.Time) string {
	if personName == "" {
		return fmt.Sprintf("records-export-%s.%s", now.Format(time.DateOnly), f)
	}
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, personName)
	return fmt.Sprintf("%s-records.%s", safe, f)
}

func formatCost(v float64) string {
	return fmt.Sprintf("¥%.2f", v)
}

func formatDay(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func ofPerson[T interface{ GetPersonID() string }](list []T, personID string, order func(a, b T) int) []T {
	out := make([]T, 0)
	for _, v := range list {
		if v.GetPersonID() == personID {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, order)
	return out
}

func personLines(d models.BackupData, p models.Person) []string {
	dates := ofPerson(d.Dates, p.ID, func(a, b models.DateRecord) int { return cmp.Compare(b.Date, a.Date) })
	milestones := ofPerson(d.Milestones, p.ID, func(a, b models.Milestone) int { return cmp.Compare(a.Date, b.Date) })
	impressions := ofPerson(d.Impressions, p.ID, func(a, b models.Impression) int { return cmp.Compare(b.UpdatedAt, a.UpdatedAt) })
	questions := ofPerson(d.Questions, p.ID, func(a, b models.PendingQuestion) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) })
	plans := ofPerson(d.Plans, p.ID, func(a, b models.NextPlan) int { return cmp.Compare(b.UpdatedAt, a.UpdatedAt) })
	decisions := ofPerson(d.Decisions, p.ID, func(a, b models.Decision) int { return cmp.Compare(b.DecidedAt, a.DecidedAt) })

	var l []string
	add := func(format string, args ...any) { l = append(l, fmt.Sprintf(format, args...)) }

	add("# %s records", p.Name)
	add("")
	add("## Profile")
	add("- Name: %s", p.Name)
	if p.Age != nil && *p.Age > 0 {
		add("- Age: %d", *p.Age)
	}
	for _, f := range []struct{ label, value string }{
		{"Job", p.Job},
		{"Education", p.Education},
	} {
		if f.value != "" {
			add("- %s: %s", f.label, f.value)
		}
	}
	if p.Stage != "" {
		add("- Stage: %s", p.Stage.Label())
	}
	for _, f := range []struct{ label, value string }{
		{"Hobbies", p.Hobbies},
		{"Family", p.FamilyBg},
		{"Contact", p.Contact},
		{"Introduced by", p.Matchmaker},
	} {
		if f.value != "" {
			add("- %s: %s", f.label, f.value)
		}
	}
	if p.MeetChannel != "" {
		add("- Channel: %s", p.MeetChannel.Label())
	}
	add("")

	add("## Dates")
	for _, dr := range dates {
		add("### %s", formatDay(dr.Date))
		for _, it := range dr.Items {
			var b strings.Builder
			b.WriteString("- ")
			if it.Time != "" {
				fmt.Fprintf(&b, "[%s] ", it.Time)
			}
			if it.Location != "" {
				fmt.Fprintf(&b, "%s - ", it.Location)
			}
			b.WriteString(it.Activity)
			if c := it.CostValue(); c > 0 {
				fmt.Fprintf(&b, " %s", formatCost(c))
				if it.PaidBy != "" {
					fmt.Fprintf(&b, " (%s)", it.PaidBy.Label())
				}
			}
			l = append(l, b.String())
		}
		for _, m := range dr.MiscExpenses {
			add("- [misc] %s %s (%s)", m.Activity, formatCost(m.Cost), m.PaidBy.Label())
		}
		if total := dr.TotalCost(); total > 0 {
			add("- Total: %s", formatCost(total))
		}
		if dr.Notes != "" {
			add("- Thoughts: %s", dr.Notes)
		}
		add("")
	}

	if len(milestones) > 0 {
		add("## Milestones")
		for _, m := range milestones {
			line := fmt.Sprintf("- %s %s", formatDay(m.Date), m.Title)
			if m.Notes != "" {
				line += ": " + m.Notes
			}
			l = append(l, line)
		}
		add("")
	}

	if len(impressions) > 0 {
		imp := impressions[0]
		add("## Impression")
		for _, f := range []struct {
			label  string
			values []string
		}{
			{"Pros", imp.Pros},
			{"Cons", imp.Cons},
			{"To observe", imp.ToObserve},
			{"Tags", imp.Tags},
		} {
			if len(f.values) > 0 {
				add("%s: %s", f.label, strings.Join(f.values, ", "))
			}
		}
		add("")
	}

	if len(questions) > 0 {
		add("## Open questions")
		for _, q := range questions {
			line := "- " + q.Question
			if q.Resolved {
				line += " ✓ " + q.ResolvedNote
			}
			l = append(l, line)
		}
		add("")
	}

	if len(plans) > 0 {
		plan := plans[0]
		add("## Next plan")
		add("- Date: %s", orDash(plan.PlannedDate))
		add("- Place: %s", orDash(plan.PlannedLocation))
		add("- Activity: %s", orDash(plan.PlannedActivity))
		add("")
	}

	if len(decisions) > 0 {
		dec := decisions[0]
		add("## Continue?")
		add("- %s", dec.Decision.Label())
		if dec.Reason != "" {
			add("- Reason: %s", dec.Reason)
		}
	}

	return l
}
