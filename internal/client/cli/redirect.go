package cli

import (
	"context"

	"github.com/dmitrijs2005/authportal/internal/client/flow"
)

// follow carries out a redirect produced by a flow step.
func (a *App) follow(ctx context.Context, r *flow.Redirect) error {
	if r == nil {
		return nil
	}

	a.log.Debug(ctx, "redirect", "to", r.String())

	switch r.Path {
	case flow.PathRegister:
		return a.Register(ctx, r.Email)
	case flow.PathProfile:
		return a.Profile(ctx)
	case flow.PathConfirmLogin:
		a.say("We sent a login link to %s. Paste it here with: confirm <token|link>", r.Email)
	case flow.PathRegisterSuccess:
		a.say("We sent a verification link to %s. Paste it here with: verify <token|link>, or type 'resend' for a new one.", r.Email)
	case flow.PathLogin:
		a.say("You can now log in with: login")
	}
	return nil
}
