package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authportal/internal/client/flow"
	"github.com/dmitrijs2005/authportal/internal/common"
)

// Login asks for an email, then for a password if the account exists. An
// unknown email continues into registration with the email filled in. A
// user who is already logged in is shown the profile instead.
func (a *App) Login(ctx context.Context) error {
	if a.store.LoggedIn() {
		return a.follow(ctx, &flow.Redirect{Path: flow.PathProfile})
	}

	a.login.Abandon()

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	out, err := a.login.SubmitEmail(ctx, email)
	if err != nil {
		a.report(out, err)
		return err
	}
	if out.State == flow.Redirected {
		a.say("No account found for %s.", out.Redirect.Email)
		return a.follow(ctx, out.Redirect)
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out, err = a.login.SubmitPassword(ctx, string(password))
	if err != nil {
		a.report(out, err)
		return err
	}

	a.say("%s", out.Message)
	switch out.State {
	case flow.ConfirmationPending:
		return a.follow(ctx, out.Redirect)
	case flow.VerificationRequired:
		if confirmPrompt(a.reader, "Resend verification email?", a.out) {
			msg, _ := a.login.ResendVerification(ctx)
			a.say("%s", msg)
		}
	}
	return nil
}

// Register collects the sign-up form. A non-empty email is used as given.
func (a *App) Register(ctx context.Context, email string) error {
	a.register.Abandon()

	var (
		form flow.RegisterForm
		err  error
	)

	if email != "" {
		form.Email = email
		a.say("Email: %s", email)
	} else if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if form.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if form.LastName, err = getSimpleText(a.reader, "Enter last name (optional)", a.out); err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	repeat, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeat)

	form.Password, form.RepeatPassword = string(password), string(repeat)

	out, err := a.register.Submit(ctx, form)
	if err != nil {
		a.report(out, err)
		return err
	}

	a.say("%s", out.Message)
	return a.follow(ctx, out.Redirect)
}

// Confirm finishes a login with the token from the confirmation email.
func (a *App) Confirm(ctx context.Context, link string) error {
	a.showSubject(link)

	out, err := a.login.Confirm(ctx, link)
	if err != nil {
		a.report(out, err)
		return err
	}

	a.say("%s", out.Message)
	return a.follow(ctx, out.Redirect)
}

// Verify activates a new account with the token from the verification email.
func (a *App) Verify(ctx context.Context, link string) error {
	a.showSubject(link)

	out, err := a.register.Verify(ctx, link)
	if err != nil {
		a.report(out, err)
		if errors.Is(err, flow.ErrTokenUsed) {
			_ = a.follow(ctx, out.Redirect)
		}
		return err
	}

	a.say("%s", out.Message)
	return a.follow(ctx, out.Redirect)
}

// Resend requests a new verification email for whichever flow is waiting
// on one.
func (a *App) Resend(ctx context.Context) error {
	var (
		msg string
		err error
	)

	switch {
	case a.register.State() == flow.Registered:
		msg, err = a.register.ResendVerification(ctx)
	case a.login.State() == flow.VerificationRequired:
		msg, err = a.login.ResendVerification(ctx)
	default:
		a.say("Nothing to resend. Log in or register first.")
		return flow.ErrWrongState
	}

	a.say("%s", msg)
	return err
}

// Logout ends the session; the local session is cleared even if the server
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	detail, err := flow.Logout(ctx, a.api, a.store)
	if err != nil {
		a.log.Warn(ctx, "logout failed", "error", err)
		a.say("Logged out locally.")
		return err
	}
	if detail == "" {
		detail = "Logged out."
	}
	a.say("%s", detail)
	return nil
}

// report prints the message of a failed step, or the error itself when the
// step has none.
func (a *App) report(out flow.Outcome, err error) {
	if out.Message != "" {
		a.say("%s", out.Message)
		return
	}
	a.say("Error: %v", err)
}

func (a *App) showSubject(link string) {
	if sub, ok := flow.TokenSubject(flow.ExtractToken(link)); ok {
		a.say("Link issued for %s", sub)
	}
}
