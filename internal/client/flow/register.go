package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/models"
	"github.com/dmitrijs2005/authportal/internal/logging"
)

// RegisterForm is the sign-up form as typed by the user.
type RegisterForm struct {
	Email          string
	Username       string
	FirstName      string
	LastName       string
	Password       string
	RepeatPassword string
}

func (r RegisterForm) validate() error {
	if r.Password != r.RepeatPassword {
		return ErrPasswordMismatch
	}

	required := []struct{ name, value string }{
		{"email", r.Email},
		{"username", r.Username},
		{"first name", r.FirstName},
		{"password", r.Password},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	if !ValidEmail(strings.TrimSpace(r.Email)) {
		return ErrInvalidEmail
	}
	return nil
}

// RegisterFlow drives account creation and the emailed verification that
// follows it.
type RegisterFlow struct {
	guard
	api       client.Client
	log       logging.Logger
	clientURL string

	state State
	email string
}

func NewRegisterFlow(api client.Client, clientURL string, log logging.Logger) *RegisterFlow {
	return &RegisterFlow{api: api, log: log, clientURL: clientURL, state: CollectingDetails}
}

func (f *RegisterFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the address of the account just registered, if any.
func (f *RegisterFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Submit validates form locally and, if it passes, creates the account. The
// new account stays unverified until Verify succeeds.
func (f *RegisterFlow) Submit(ctx context.Context, form RegisterForm) (Outcome, error) {
	if err := form.validate(); err != nil {
		return Outcome{State: f.State(), Message: validationMessage(err)}, err
	}

	reg := models.Registration{
		Email:     strings.TrimSpace(form.Email),
		Username:  strings.TrimSpace(form.Username),
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Password:  form.Password,
	}

	f.mu.Lock()
	gen, err := f.begin()
	if err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	f.state = Submitting
	f.mu.Unlock()

	user, detail, err := f.api.Register(ctx, reg, callbackURL(f.clientURL, PathVerifyProfile))

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.end(gen) {
		return Outcome{}, ErrAbandoned
	}

	if err != nil {
		f.state = Failed
		return Outcome{State: f.state, Message: client.Message(err)}, err
	}

	f.state = Registered
	f.email = reg.Email
	if user != nil && user.Email != "" {
		f.email = user.Email
	}
	f.log.Debug(ctx, "account registered", "email", f.email)

	return Outcome{
		State:    f.state,
		Message:  detail,
		Redirect: &Redirect{Path: PathRegisterSuccess, Email: f.email},
	}, nil
}

// ResendVerification emails a new verification link for the account just
// registered.
func (f *RegisterFlow) ResendVerification(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != Registered || f.email == "" {
		f.mu.Unlock()
		return "", ErrWrongState
	}
	gen, err := f.begin()
	if err != nil {
		f.mu.Unlock()
		return "", err
	}
	email := f.email
	f.mu.Unlock()

	detail, err := f.api.ResendVerification(ctx, email, callbackURL(f.clientURL, PathVerifyProfile))

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.end(gen) {
		return "", ErrAbandoned
	}
	return resendMessage(detail, err), err
}

// Verify redeems the token from a verification email. It can run in any
// state, since the link may be opened long after registering.
func (f *RegisterFlow) Verify(ctx context.Context, token string) (Outcome, error) {
	token = ExtractToken(token)
	if token == "" {
		return Outcome{State: f.State(), Message: "Missing verification token."}, ErrMissingToken
	}

	f.mu.Lock()
	gen, err := f.begin()
	if err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	f.state = Submitting
	f.mu.Unlock()

	detail, err := f.api.VerifyProfile(ctx, token)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.end(gen) {
		return Outcome{}, ErrAbandoned
	}

	login := &Redirect{Path: PathLogin}
	switch {
	case err == nil:
		f.state = Verified
		return Outcome{State: f.state, Message: detail, Redirect: login}, nil
	case tokenUsed(err):
		f.state = Failed
		return Outcome{State: f.state, Message: msgVerificationUsed, Redirect: login}, ErrTokenUsed
	default:
		f.state = Failed
		return Outcome{State: f.state, Message: client.Message(err)}, err
	}
}

// Abandon discards the form and ignores results of calls still in flight.
func (f *RegisterFlow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abandon()
	f.state = CollectingDetails
	f.email = ""
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address."
	default:
		return strings.ToUpper(err.Error()[:1]) + err.Error()[1:] + "."
	}
}
