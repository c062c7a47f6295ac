package flow

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/session"
	"github.com/dmitrijs2005/authportal/internal/logging"
)

// LoginFlow drives email/password login. A successful password submit only
// means the server emailed a confirmation link; the session is established
// by Confirm once that link's token comes back.
type LoginFlow struct {
	guard
	api       client.Client
	store     *session.Store
	log       logging.Logger
	clientURL string

	state State
	email string
}

func NewLoginFlow(api client.Client, store *session.Store, clientURL string, log logging.Logger) *LoginFlow {
	return &LoginFlow{
		api:       api,
		store:     store,
		log:       log,
		clientURL: clientURL,
		state:     CollectingEmail,
	}
}

func (f *LoginFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the address the flow is working with, if any.
func (f *LoginFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// SubmitEmail checks whether an account exists for email. Known users move
// on to the password step, unknown ones are redirected to registration.
// Lookup failures count as "does not exist".
func (f *LoginFlow) SubmitEmail(ctx context.Context, email string) (Outcome, error) {
	email = strings.TrimSpace(email)

	f.mu.Lock()
	if !ValidEmail(email) {
		state := f.state
		f.mu.Unlock()
		return Outcome{State: state, Message: "Please enter a valid email address."}, ErrInvalidEmail
	}
	gen, err := f.begin()
	if err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	f.mu.Unlock()

	exists, err := f.api.UserExists(ctx, email)
	if err != nil {
		f.log.Debug(ctx, "user existence check failed", "email", email, "error", err)
		exists = false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.end(gen) {
		return Outcome{}, ErrAbandoned
	}

	f.email = email
	if exists {
		f.state = CollectingPassword
		return Outcome{State: f.state}, nil
	}

	f.state = Redirected
	return Outcome{State: f.state, Redirect: &Redirect{Path: PathRegister, Email: email}}, nil
}

// SubmitPassword sends the credentials. It never creates a session.
func (f *LoginFlow) SubmitPassword(ctx context.Context, password string) (Outcome, error) {
	f.mu.Lock()
	state := f.state
	switch {
	case f.email == "":
		f.mu.Unlock()
		return Outcome{State: state}, ErrWrongState
	case state != CollectingPassword && state != VerificationRequired && state != Failed:
		f.mu.Unlock()
		return Outcome{State: state}, ErrWrongState
	case password == "":
		f.mu.Unlock()
		return Outcome{State: state, Message: "Please enter your password."}, ErrEmptyPassword
	}
	gen, err := f.begin()
	if err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	f.state = Submitting
	email := f.email
	f.mu.Unlock()

	detail, err := f.api.Login(ctx, email, password, callbackURL(f.clientURL, PathAuthorizeLogin))

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.end(gen) {
		return Outcome{}, ErrAbandoned
	}

	switch {
	case err == nil:
		f.state = ConfirmationPending
		return Outcome{
			State:    f.state,
			Message:  detail,
			Redirect: &Redirect{Path: PathConfirmLogin, Email: email},
		}, nil
	case client.IsStatus(err, http.StatusForbidden):
		f.state = VerificationRequired
		return Outcome{State: f.state, Message: detailOr(err, msgNotVerified)}, nil
	default:
		f.state = Failed
		return Outcome{State: f.state, Message: client.Message(err)}, err
	}
}

// ResendVerification asks the server to email a new verification link to an
// account that tried to log in unverified.
func (f *LoginFlow) ResendVerification(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != VerificationRequired {
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

// Confirm redeems the token from a login confirmation email and loads the
// now-authenticated user into the session.
func (f *LoginFlow) Confirm(ctx context.Context, token string) (Outcome, error) {
	token = ExtractToken(token)
	if token == "" {
		return Outcome{State: f.State(), Message: "Missing confirmation token."}, ErrMissingToken
	}

	f.mu.Lock()
	gen, err := f.begin()
	if err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	f.state = Submitting
	f.mu.Unlock()

	detail, err := f.api.ConfirmLogin(ctx, token)
	if err == nil && f.current(gen) {
		_, err = f.store.Refresh(ctx, f.api.CurrentUser)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.end(gen) {
		return Outcome{}, ErrAbandoned
	}

	switch {
	case err == nil:
		f.state = Authenticated
		return Outcome{State: f.state, Message: detail, Redirect: &Redirect{Path: PathProfile}}, nil
	case tokenUsed(err):
		f.state = Failed
		return Outcome{State: f.state, Message: detailOr(err, msgLinkUsed)}, ErrTokenUsed
	default:
		f.state = Failed
		return Outcome{State: f.state, Message: client.Message(err)}, err
	}
}

// Abandon discards the form and ignores results of calls still in flight.
func (f *LoginFlow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abandon()
	f.state = CollectingEmail
	f.email = ""
}

func (f *LoginFlow) current(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen == gen
}
