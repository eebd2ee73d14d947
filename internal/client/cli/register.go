package cli

import (
	"context"
	"fmt"
)

func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	if err := a.api.Register(ctx, userName, password); err != nil {
		fmt.Fprintf(a.out, "Registration unsuccessful: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Registration successful, you can login now")
	return nil
}
