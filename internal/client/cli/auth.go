package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/salesdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. A failed login is reported
// to the user and is not an error.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.Success {
		fmt.Fprintln(a.out, "Login failed: "+res.Error)
		return nil
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Snapshot().User.DisplayName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.history = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.session.IsAuthenticated(ctx) {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	u := a.session.Snapshot().User
	fmt.Fprintf(a.out, "%s <%s> id=%s\n", u.DisplayName(), u.Email, u.ID)
	return nil
}
