package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/timex"
)

func (a *App) ListPersons(ctx context.Context, _ []string) error {
	persons, err := a.store.Persons.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(persons) == 0 {
		fmt.Fprintln(a.out, "No persons yet. Use 'addperson'.")
		return nil
	}
	for _, p := range persons {
		line := fmt.Sprintf("%s  %-20s %s", shortID(p.ID), p.Name, p.EffectiveStage().Label())
		if p.Age != nil {
			line += fmt.Sprintf(", %d", *p.Age)
		}
		if p.Job != "" {
			line += ", " + p.Job
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// personForm prompts for every profile field, offering current values.
func (a *App) personForm(p *models.Person) error {
	var err error
	if p.Name, err = a.askDefault("Name", p.Name); err != nil {
		return err
	}

	age := ""
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}
	if age, err = a.askDefault("Age", age); err != nil {
		return err
	}
	if p.Age, err = ParseOptionalInt(age); err != nil {
		return err
	}

	if p.Stage, err = askChoice(a, "Stage", models.Stages, models.Stage.Label, p.Stage); err != nil {
		return err
	}
	if p.MeetChannel, err = askChoice(a, "How did you meet", meetChannels, models.MeetChannel.Label, p.MeetChannel); err != nil {
		return err
	}

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Channel details", &p.MeetChannelNote},
		{"Job", &p.Job},
		{"Education", &p.Education},
		{"Hobbies", &p.Hobbies},
		{"Family background", &p.FamilyBg},
		{"Contact", &p.Contact},
		{"Introduced by", &p.Matchmaker},
		{"Introducer contact", &p.MatchmakerContact},
	} {
		if *f.dst, err = a.askDefault(f.prompt, *f.dst); err != nil {
			return err
		}
	}
	return p.Validate()
}

var meetChannels = []models.MeetChannel{
	models.MeetFriend, models.MeetBlindDate, models.MeetDatingApp,
	models.MeetMatchmaker, models.MeetFamily, models.MeetOther,
}

func (a *App) AddPerson(ctx context.Context, _ []string) error {
	now := models.Timestamp(a.now())
	p := models.Person{ID: models.NewID(), Stage: models.StageInitial, CreatedAt: now, UpdatedAt: now}
	if err := a.personForm(&p); err != nil {
		return err
	}
	if _, err := a.store.Persons.Add(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", p.Name, shortID(p.ID))
	return nil
}

func (a *App) EditPerson(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "editperson <person>")
	if err != nil {
		return err
	}
	if err := a.personForm(&p); err != nil {
		return err
	}
	p.UpdatedAt = models.Timestamp(a.now())
	if _, err := a.store.Persons.Update(ctx, p.ID, func(models.Person) models.Person { return p }); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved.")
	return nil
}

func (a *App) SetStage(ctx context.Context, args []string) error {
	const usage = "stage <person> <stage>"
	if len(args) < 2 {
		return usageError(usage)
	}
	stage := models.Stage(args[len(args)-1])
	if !stage.Valid() {
		names := make([]string, len(models.Stages))
		for i, s := range models.Stages {
			names[i] = string(s)
		}
		return fmt.Errorf("%w: stage must be one of %s", models.ErrUnknownValue, strings.Join(names, ", "))
	}
	p, err := a.findPerson(ctx, args[:len(args)-1], usage)
	if err != nil {
		return err
	}
	now := models.Timestamp(a.now())
	if _, err := a.store.Persons.Update(ctx, p.ID, func(p models.Person) models.Person {
		p.Stage = stage
		p.UpdatedAt = now
		return p
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %q\n", p.Name, stage.Label())
	return nil
}

// DeletePerson removes the person and everything recorded about them.
func (a *App) DeletePerson(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "delperson <person>")
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("Delete %s and all their records?", p.Name))
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	if err := a.store.Persons.DeleteWithData(ctx, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", p.Name)
	return nil
}

// ShowPerson prints the profile followed by every record kind, with short
// ids usable by the other commands.
func (a *App) ShowPerson(ctx context.Context, args []string) error {
	p, err := a.findPerson(ctx, args, "person <person>")
	if err != nil {
		return err
	}
	w := a.out
	fmt.Fprintf(w, "%s  [%s]  %s\n", p.Name, shortID(p.ID), p.EffectiveStage().Label())
	if p.Age != nil {
		fmt.Fprintf(w, "  Age: %d\n", *p.Age)
	}
	for _, f := range []struct{ label, value string }{
		{"Job", p.Job}, {"Education", p.Education}, {"Hobbies", p.Hobbies},
		{"Family", p.FamilyBg}, {"Contact", p.Contact}, {"Introduced by", p.Matchmaker},
	} {
		if f.value != "" {
			fmt.Fprintf(w, "  %s: %s\n", f.label, f.value)
		}
	}
	if p.MeetChannel != "" {
		fmt.Fprintf(w, "  Met via: %s %s\n", p.MeetChannel.Label(), p.MeetChannelNote)
	}
	if len(p.Photos) > 0 {
		fmt.Fprintf(w, "  Photos: %d\n", len(p.Photos))
	}

	dates, err := a.store.Dates.ByPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Dates (%d):\n", len(dates))
	for _, d := range dates {
		fmt.Fprintf(w, "  %s %s  %s  %.2f\n", shortID(d.ID), d.Date, d.Summary(), d.TotalCost())
	}

	milestones, err := a.store.Milestones.ByPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(milestones) > 0 {
		fmt.Fprintln(w, "Milestones:")
		for _, m := range milestones {
			fmt.Fprintf(w, "  %s %s  %s\n", shortID(m.ID), m.Date, m.Title)
		}
	}

	if imp, ok, err := a.store.Impressions.ForPerson(ctx, p.ID); err != nil {
		return err
	} else if ok {
		fmt.Fprintln(w, "Impression:")
		fmt.Fprintf(w, "  + %s\n  - %s\n  ? %s\n", strings.Join(imp.Pros, ", "), strings.Join(imp.Cons, ", "), strings.Join(imp.ToObserve, ", "))
	}

	questions, err := a.store.Questions.ByPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(questions) > 0 {
		fmt.Fprintln(w, "Questions:")
		for _, q := range questions {
			mark := " "
			if q.Resolved {
				mark = "✓"
			}
			fmt.Fprintf(w, "  %s [%s] %s %s\n", shortID(q.ID), mark, q.Question, q.ResolvedNote)
		}
	}

	if plan, ok, err := a.store.Plans.ForPerson(ctx, p.ID); err != nil {
		return err
	} else if ok {
		fmt.Fprintf(w, "Next plan: %s %s %s\n", plan.PlannedDate, plan.PlannedLocation, plan.PlannedActivity)
	}

	if dec, ok, err := a.store.Decisions.ForPerson(ctx, p.ID); err != nil {
		return err
	} else if ok {
		fmt.Fprintf(w, "Decision: %s %s\n", dec.Decision.Label(), dec.Reason)
	}

	reminders, err := a.store.Reminders.ByPerson(ctx, p.ID)
	if err != nil {
		return err
	}
	today := timex.Today(a.now())
	for _, r := range reminders {
		if !r.Triggered {
			due := ""
			if r.IsDue(today) {
				due = " (due)"
			}
			fmt.Fprintf(w, "Reminder %s %s %s%s\n", shortID(r.ID), r.Date, r.Title, due)
		}
	}
	return nil
}
