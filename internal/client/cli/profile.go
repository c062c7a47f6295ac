package cli

import (
	"context"

	"github.com/dmitrijs2005/authportal/internal/client/client"
)

// Profile prints the logged-in user.
func (a *App) Profile(ctx context.Context) error {
	u := a.store.Current()
	if u == nil {
		a.say("Please log in to see your profile.")
		return nil
	}

	a.say("ID:         %s", u.ID)
	a.say("Email:      %s", u.Email)
	a.say("Username:   %s", u.Username)
	a.say("First Name: %s", orDash(u.FirstName))
	a.say("Last Name:  %s", orDash(u.LastName))
	return nil
}

// Refresh re-fetches the current user. A rejected session is cleared.
func (a *App) Refresh(ctx context.Context) error {
	u, err := a.store.Refresh(ctx, a.api.CurrentUser)
	if err != nil {
		if a.store.LoggedIn() {
			a.say("Could not refresh profile: %s", client.Message(err))
		} else {
			a.say("You are not logged in.")
		}
		return err
	}

	a.say("Logged in as %s", u.DisplayName())
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
