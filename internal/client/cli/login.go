package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kasir/internal/client/client"
)

func (a *App) readCredentials() (string, string, error) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return userName, password, nil
}

func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	token, err := a.api.Login(ctx, userName, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}

	a.userName = userName
	fmt.Fprintf(a.out, "Login successful, session valid until %s\n", formatTime(token.ExpiresAt))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// checkSession reports err and drops the session on 401.
func (a *App) checkSession(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.api.Logout()
		a.userName = ""
		fmt.Fprintln(a.out, "Session expired, please login again")
		return err
	}
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}
