package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/loveops/internal/common"
)

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register creates a server account. It does not log in.
func (a *App) Register(ctx context.Context, _ []string) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, userName, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! You can now login.")
	return nil
}

// Login authenticates and then pulls the remote copy, retrying once.
func (a *App) Login(ctx context.Context, _ []string) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", sess.Username)
	a.setMode(ModeOnline)
	a.initialPull(ctx)
	return nil
}

// Logout forgets the session. Local records stay on this device.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out. Local data is kept.")
	return nil
}
