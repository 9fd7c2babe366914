package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/loveops/internal/client/backup"
	"github.com/dmitrijs2005/loveops/internal/client/export"
	"github.com/dmitrijs2005/loveops/internal/client/search"
	"github.com/dmitrijs2005/loveops/internal/client/stats"
	"github.com/dmitrijs2005/loveops/internal/filex"
)

const chartWidth = 30

func (a *App) Stats(ctx context.Context, args []string) error {
	personID := ""
	if len(args) > 0 {
		p, err := a.findPerson(ctx, args, "stats [person]")
		if err != nil {
			return err
		}
		personID = p.ID
	}
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	s := stats.Compute(snap, personID)

	w := a.out
	fmt.Fprintf(w, "Persons: %d   Dates: %d\n", s.Persons, s.Dates)
	fmt.Fprintf(w, "Spent: %.2f (me %.2f, them %.2f), average %.2f per date\n",
		s.TotalCost, s.CostByMe, s.CostByThem, s.AverageCost)
	for _, sc := range s.ByStage {
		fmt.Fprintf(w, "  %-16s %d\n", sc.Stage.Label(), sc.Count)
	}

	if len(s.Trend) > 0 {
		peak := 1.0
		for _, t := range s.Trend {
			peak = max(peak, t.Total)
		}
		fmt.Fprintln(w, "Spending trend:")
		for _, t := range s.Trend {
			me := int(t.Me / peak * chartWidth)
			them := int(t.Them / peak * chartWidth)
			fmt.Fprintf(w, "  %s %s%s %.2f\n", t.Date, strings.Repeat("#", me), strings.Repeat("=", them), t.Total)
		}
		fmt.Fprintln(w, "  (# me, = them)")
	}

	if len(s.Recent) > 0 {
		names, err := a.personNames(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "Recent dates:")
		for _, d := range s.Recent {
			fmt.Fprintf(w, "  %s %-16s %s\n", d.Date, names[d.PersonID], d.Summary())
		}
	}
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("search <text>")
	}
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	matches := search.Run(snap, strings.Join(args, " "))
	if len(matches) == 0 {
		fmt.Fprintln(a.out, "Nothing found.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(a.out, "%s %s [%s] %s...\n", shortID(m.Person.ID), m.Person.Name, m.Kind, m.Snippet)
	}
	return nil
}

// Export writes one person or everyone to the export directory.
func (a *App) Export(ctx context.Context, args []string) error {
	const usage = "export <md|txt> [person]"
	if len(args) == 0 {
		return usageError(usage)
	}
	f, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return err
	}

	var content, name string
	if len(args) > 1 {
		p, err := a.findPerson(ctx, args[1:], usage)
		if err != nil {
			return err
		}
		content = export.Person(snap, p, f)
		name = export.FileName(p.Name, f, a.now())
	} else {
		content = export.All(snap, f)
		name = export.FileName("", f, a.now())
	}

	path, err := filex.WriteFile(a.config.ExportDir, name, []byte(content))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Exported to", path)
	return nil
}

// Backup writes the full backup document, by default into the export
// directory.
func (a *App) Backup(ctx context.Context, args []string) error {
	path := filepath.Join(a.config.ExportDir, backup.FileName(a.now()))
	if len(args) > 0 {
		path = args[0]
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	if err := a.codec.WriteFile(ctx, path); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Backup written to", path)
	return nil
}

// Restore replaces all local data with a backup file.
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("restore <file>")
	}
	ok, err := a.confirm("This replaces all local records. Continue?")
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	if err := a.codec.ReadFile(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Backup restored.")
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		t, err := a.store.Theme(ctx)
		if err != nil {
			return err
		}
		if t == "" {
			t = "light"
		}
		fmt.Fprintln(a.out, "Theme:", t)
		return nil
	}
	switch args[0] {
	case "light", "dark":
		return a.store.SetTheme(ctx, args[0])
	}
	return usageError("theme [light|dark]")
}
