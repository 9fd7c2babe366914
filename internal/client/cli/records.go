package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/stats"
	"github.com/dmitrijs2005/loveops/internal/timex"
)

func (a *App) ListDates(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "dates <person>")
	if err != nil {
		return err
	}
	dates, err := a.store.Dates.ByPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No dates yet.")
	}
	for _, d := range dates {
		fmt.Fprintf(a.out, "%s %s  %s\n", shortID(d.ID), d.Date, d.Summary())
		for _, it := range d.Items {
			fmt.Fprintf(a.out, "    %s %s %s", it.Time, it.Location, it.Activity)
			if it.Cost != nil {
				fmt.Fprintf(a.out, "  %.2f %s", *it.Cost, it.PaidBy.Label())
			}
			fmt.Fprintln(a.out)
		}
		for _, m := range d.MiscExpenses {
			fmt.Fprintf(a.out, "    + %s %.2f %s\n", m.Activity, m.Cost, m.PaidBy.Label())
		}
		fmt.Fprintf(a.out, "    total %.2f (me %.2f, them %.2f)\n", d.TotalCost(), d.CostBy(models.PartyMe), d.CostBy(models.PartyThem))
		if d.Notes != "" {
			fmt.Fprintf(a.out, "    %s\n", d.Notes)
		}
	}
	return nil
}

// AddDate records a date: the itinerary stops first, then loose expenses.
func (a *App) AddDate(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "adddate <person>")
	if err != nil {
		return err
	}

	now := models.Timestamp(a.now())
	d := models.DateRecord{ID: models.NewID(), PersonID: p.ID, CreatedAt: now, UpdatedAt: now}
	if d.Date, err = a.askDefault("Date (YYYY-MM-DD)", timex.Today(a.now())); err != nil {
		return err
	}
	if d.InitiatedBy, err = a.askParty("Who suggested it", ""); err != nil {
		return err
	}

	for {
		var it models.DateRecordItem
		if it.Activity, err = a.ask("Activity (empty to finish)"); err != nil {
			return err
		}
		if it.Activity == "" {
			break
		}
		if it.Location, err = a.ask("Location"); err != nil {
			return err
		}
		if it.Time, err = a.ask("Time (HH:MM)"); err != nil {
			return err
		}
		cost, err := a.ask("Cost")
		if err != nil {
			return err
		}
		if it.Cost, err = ParseOptionalFloat(cost); err != nil {
			return err
		}
		if it.Cost != nil {
			if it.PaidBy, err = a.askParty("Paid by", models.PartyMe); err != nil {
				return err
			}
		}
		it.ID = models.NewID()
		d.Items = append(d.Items, it)
	}

	for {
		var m models.DateMiscExpense
		if m.Activity, err = a.ask("Other expense (empty to finish)"); err != nil {
			return err
		}
		if m.Activity == "" {
			break
		}
		cost, err := a.ask("Cost")
		if err != nil {
			return err
		}
		c, err := ParseOptionalFloat(cost)
		if err != nil {
			return err
		}
		if c != nil {
			m.Cost = *c
		}
		if m.PaidBy, err = a.askParty("Paid by", models.PartyMe); err != nil {
			return err
		}
		m.ID = models.NewID()
		d.MiscExpenses = append(d.MiscExpenses, m)
	}

	if d.Notes, err = a.ask("Thoughts"); err != nil {
		return err
	}
	tags, err := a.ask("Tags (comma separated)")
	if err != nil {
		return err
	}
	d.Tags = SplitList(tags)

	if err := d.Normalize(); err != nil {
		return err
	}
	if _, err := a.store.Dates.Add(ctx, d); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved date %s: %s, total %.2f\n", shortID(d.ID), d.Summary(), d.TotalCost())
	return nil
}

func (a *App) DeleteDate(ctx context.Context, args []string) error {
	d, err := findIn(ctx, a.store.Dates.Collection, args, "deldate <id>")
	if err != nil {
		return err
	}
	if err := a.store.Dates.Delete(ctx, d.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted date %s.\n", d.Date)
	return nil
}

func (a *App) AddMilestone(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "milestone <person>")
	if err != nil {
		return err
	}
	m := models.Milestone{ID: models.NewID(), PersonID: p.ID, CreatedAt: models.Timestamp(a.now())}
	if m.Title, err = a.ask("Title"); err != nil {
		return err
	}
	if strings.TrimSpace(m.Title) == "" {
		return models.ErrNameRequired
	}
	if m.Date, err = a.askDefault("Date (YYYY-MM-DD)", timex.Today(a.now())); err != nil {
		return err
	}
	if m.Notes, err = a.ask("Notes"); err != nil {
		return err
	}
	if _, err := a.store.Milestones.Add(ctx, m); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Milestone saved.")
	return nil
}

func (a *App) DeleteMilestone(ctx context.Context, args []string) error {
	m, err := findIn(ctx, a.store.Milestones.Collection, args, "delmilestone <id>")
	if err != nil {
		return err
	}
	return a.store.Milestones.Delete(ctx, m.ID)
}

// SetImpression edits the person's single impression in place.
func (a *App) SetImpression(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "impression <person>")
	if err != nil {
		return err
	}
	imp, ok, err := a.store.Impressions.ForPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		imp = models.Impression{ID: models.NewID(), PersonID: p.ID}
	}

	for _, f := range []struct {
		prompt string
		dst    *[]string
	}{
		{"Pros (comma separated)", &imp.Pros},
		{"Cons (comma separated)", &imp.Cons},
		{"To observe (comma separated)", &imp.ToObserve},
		{"Tags (comma separated)", &imp.Tags},
	} {
		v, err := a.askDefault(f.prompt, strings.Join(*f.dst, ", "))
		if err != nil {
			return err
		}
		*f.dst = SplitList(v)
	}
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Personality", &imp.Personality},
		{"Values", &imp.Values},
		{"Habits", &imp.Habits},
	} {
		if *f.dst, err = a.askDefault(f.prompt, *f.dst); err != nil {
			return err
		}
	}

	imp.UpdatedAt = models.Timestamp(a.now())
	if _, err := a.store.Impressions.Upsert(ctx, imp); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Impression saved.")
	return nil
}

func (a *App) AddQuestion(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "question <person>")
	if err != nil {
		return err
	}
	text, err := a.ask("Question")
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errCancelled
	}
	q := models.PendingQuestion{ID: models.NewID(), PersonID: p.ID, Question: text, CreatedAt: models.Timestamp(a.now())}
	if _, err := a.store.Questions.Add(ctx, q); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Question %s saved.\n", shortID(q.ID))
	return nil
}

func (a *App) ResolveQuestion(ctx context.Context, args []string) error {
	q, err := findIn(ctx, a.store.Questions.Collection, args, "resolve <id>")
	if err != nil {
		return err
	}
	note, err := a.ask("Answer")
	if err != nil {
		return err
	}
	_, err = a.store.Questions.Resolve(ctx, q.ID, note)
	return err
}

func (a *App) ReopenQuestion(ctx context.Context, args []string) error {
	q, err := findIn(ctx, a.store.Questions.Collection, args, "reopen <id>")
	if err != nil {
		return err
	}
	_, err = a.store.Questions.Reopen(ctx, q.ID)
	return err
}

// SetPlan replaces the person's next plan.
func (a *App) SetPlan(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "plan <person>")
	if err != nil {
		return err
	}
	now := models.Timestamp(a.now())
	plan, ok, err := a.store.Plans.ForPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		plan = models.NextPlan{ID: models.NewID(), PersonID: p.ID, CreatedAt: now}
	}
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Date (YYYY-MM-DD)", &plan.PlannedDate},
		{"Location", &plan.PlannedLocation},
		{"Activity", &plan.PlannedActivity},
		{"Notes", &plan.Notes},
	} {
		if *f.dst, err = a.askDefault(f.prompt, *f.dst); err != nil {
			return err
		}
	}
	plan.UpdatedAt = now
	if _, err := a.store.Plans.Upsert(ctx, plan); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Plan saved.")
	return nil
}

var decisions = []models.ContinueDecision{
	models.DecisionContinue, models.DecisionPause, models.DecisionEnd, models.DecisionUndecided,
}

// Decide appends to the decision history; the newest one is current.
func (a *App) Decide(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "decide <person>")
	if err != nil {
		return err
	}
	d := models.Decision{ID: models.NewID(), PersonID: p.ID}
	if d.Decision, err = askChoice(a, "Keep seeing them?", decisions, models.ContinueDecision.Label, ""); err != nil {
		return err
	}
	if d.Decision == "" {
		return errCancelled
	}
	if d.Reason, err = a.ask("Reason"); err != nil {
		return err
	}
	d.DecidedAt = models.Timestamp(a.now())
	if _, err := a.store.Decisions.Add(ctx, d); err != nil {
		return err
	}

	history, err := a.store.Decisions.History(ctx, p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Decision saved (%d in history).\n", len(history))
	return nil
}

func (a *App) AddReminder(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "remind <person>")
	if err != nil {
		return err
	}
	r := models.Reminder{ID: models.NewID(), PersonID: p.ID, CreatedAt: models.Timestamp(a.now())}
	if r.Title, err = a.ask("Title"); err != nil {
		return err
	}
	if strings.TrimSpace(r.Title) == "" {
		return errCancelled
	}
	if r.Date, err = a.askDefault("Date (YYYY-MM-DD)", timex.Today(a.now())); err != nil {
		return err
	}
	if r.Time, err = a.ask("Time (HH:MM)"); err != nil {
		return err
	}
	if r.Notes, err = a.ask("Notes"); err != nil {
		return err
	}
	if _, err := a.store.Reminders.Add(ctx, r); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Reminder set for %s.\n", r.Date)
	return nil
}

func (a *App) personNames(ctx context.Context) (map[string]string, error) {
	persons, err := a.store.Persons.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.Name
	}
	return names, nil
}

// ListReminders shows due reminders, or every reminder with "all".
func (a *App) ListReminders(ctx context.Context, args []string) error {
	var (
		list []models.Reminder
		err  error
	)
	if len(args) > 0 && args[0] == "all" {
		list, err = a.store.Reminders.GetAll(ctx)
	} else {
		list, err = a.store.Reminders.Due(ctx, timex.Today(a.now()))
	}
	if err != nil {
		return err
	}
	names, err := a.personNames(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No reminders.")
	}
	for _, r := range list {
		state := ""
		if r.Triggered {
			state = " (dismissed)"
		}
		fmt.Fprintf(a.out, "%s %s %s  %s: %s%s\n", shortID(r.ID), r.Date, r.Time, names[r.PersonID], r.Title, state)
	}
	return nil
}

func (a *App) printDueReminders(ctx context.Context) {
	due, err := a.store.Reminders.Due(ctx, timex.Today(a.now()))
	if err != nil {
		a.log.Error(ctx, "failed to read reminders", "error", err)
		return
	}
	if len(due) > 0 {
		fmt.Fprintf(a.out, "You have %d due reminder(s). Type 'reminders' to see them.\n", len(due))
	}
}

func (a *App) DismissReminder(ctx context.Context, args []string) error {
	r, err := findIn(ctx, a.store.Reminders.Collection, args, "dismiss <id>")
	if err != nil {
		return err
	}
	_, err = a.store.Reminders.Dismiss(ctx, r.ID)
	return err
}

// Suggest offers anniversary reminders and adds the ones picked.
func (a *App) Suggest(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "suggest <person>")
	if err != nil {
		return err
	}
	dates, err := a.store.Dates.ByPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	sugg := stats.Anniversaries(dates, a.now())
	if len(sugg) == 0 {
		fmt.Fprintln(a.out, "Nothing to suggest yet.")
		return nil
	}
	for i, s := range sugg {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, s.Title)
	}
	pick, err := a.ask("Add which (numbers, comma separated)")
	if err != nil {
		return err
	}
	for _, n := range SplitList(pick) {
		i, err := strconv.Atoi(n)
		if err != nil || i < 1 || i > len(sugg) {
			return fmt.Errorf("%w: %q", models.ErrUnknownValue, n)
		}
		if _, err := a.store.Reminders.Add(ctx, stats.Reminder(p, sugg[i-1], a.now())); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added reminder %q\n", sugg[i-1].Title)
	}
	return nil
}
