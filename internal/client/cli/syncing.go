package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Sync pushes the local document right away.
func (a *App) Sync(ctx context.Context, _ []string) error {
	if err := a.sync.SyncNow(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Synced.")
	return nil
}

// Pull replaces local data with the server copy, if there is one.
func (a *App) Pull(ctx context.Context, _ []string) error {
	ok, err := a.sync.PullNow(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "No remote data.")
	}
	return nil
}

// Refresh is the silent pull also run when the server comes back.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	_, err := a.sync.Foreground(ctx)
	return err
}

func (a *App) SyncStatus(ctx context.Context, _ []string) error {
	st := a.sync.Status(ctx)
	w := a.out
	switch {
	case !st.Configured:
		fmt.Fprintln(w, "Sync: not configured (local only)")
		return nil
	case !st.LoggedIn:
		fmt.Fprintln(w, "Sync: not logged in")
	case st.Syncing:
		fmt.Fprintln(w, "Sync: in progress")
	default:
		fmt.Fprintln(w, "Sync: idle")
	}
	fmt.Fprintln(w, "Connection:", a.mode())
	if st.LastSyncedAt != "" {
		fmt.Fprintln(w, "Last synced:", st.LastSyncedAt)
	}
	if st.Error != "" {
		fmt.Fprintln(w, "Last error:", st.Error)
	}
	return nil
}

// Photo uploads an image file and attaches it to a person or a date.
func (a *App) Photo(ctx context.Context, args []string) error {
	const usage = "photo <person|date> <id> <file>"
	if len(args) != 3 {
		return usageError(usage)
	}
	data, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	name := filepath.Base(args[2])
	ctype := http.DetectContentType(data)

	var url string
	switch args[0] {
	case "person":
		p, err := a.findPerson(ctx, args[1:2], usage)
		if err != nil {
			return err
		}
		url, err = a.photos.AddToPerson(ctx, p.ID, name, ctype, data)
		if err != nil {
			return err
		}
	case "date":
		d, err := findIn(ctx, a.store.Dates.Collection, args[1:2], usage)
		if err != nil {
			return err
		}
		url, err = a.photos.AddToDate(ctx, d.ID, name, ctype, data)
		if err != nil {
			return err
		}
	default:
		return usageError(usage)
	}
	fmt.Fprintln(a.out, "Uploaded:", url)
	return nil
}
