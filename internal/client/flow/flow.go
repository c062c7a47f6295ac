// Package flow implements the interactive authentication flows of the
// client: login with emailed confirmation, registration with emailed
// verification, and logout.
//
// Each flow is a small state machine. A step that calls the server marks the
// flow busy until the call returns; a second step in the meantime fails with
// ErrBusy. Abandon resets the flow and makes the results of calls still in
// flight fail with ErrAbandoned instead of changing state.
package flow

import (
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/authportal/internal/client/client"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingField     = errors.New("required field is empty")
	ErrMissingToken     = errors.New("token is required")
	ErrTokenUsed        = errors.New("link has already been used")
	ErrBusy             = errors.New("a request is already in progress")
	ErrAbandoned        = errors.New("flow was abandoned")
	ErrWrongState       = errors.New("step is not available now")
)

// Client routes. They name the screens a Redirect leads to and form the
// callback links the server emails.
const (
	PathLogin           = "/login"
	PathRegister        = "/register"
	PathRegisterSuccess = "/register-success"
	PathConfirmLogin    = "/confirm-login"
	PathProfile         = "/profile"
	PathVerifyProfile   = "/verify-profile"
	PathAuthorizeLogin  = "/authorize-login"
)

const (
	msgResendFailed     = "Failed to request email."
	msgNotVerified      = "User not verified. Please check your email."
	msgLinkUsed         = "This link has already been used."
	msgVerificationUsed = "This verification link has already been used"
)

type State int

const (
	CollectingEmail State = iota
	CollectingPassword
	CollectingDetails
	Submitting
	ConfirmationPending
	VerificationRequired
	Authenticated
	Registered
	Verified
	Failed
	Redirected
)

func (s State) String() string {
	switch s {
	case CollectingEmail:
		return "collecting email"
	case CollectingPassword:
		return "collecting password"
	case CollectingDetails:
		return "collecting details"
	case Submitting:
		return "submitting"
	case ConfirmationPending:
		return "confirmation pending"
	case VerificationRequired:
		return "verification required"
	case Authenticated:
		return "authenticated"
	case Registered:
		return "registered"
	case Verified:
		return "verified"
	case Failed:
		return "failed"
	case Redirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Redirect names the screen to show next, optionally carrying an email.
type Redirect struct {
	Path  string
	Email string
}

// String renders the redirect as a client route, e.g.
// "/register?email=new@x.com".
func (r Redirect) String() string {
	if r.Email == "" {
		return r.Path
	}
	return r.Path + "?email=" + url.PathEscape(r.Email)
}

// Outcome is the result of one flow step.
type Outcome struct {
	State    State
	Message  string
	Redirect *Redirect
}

// ValidEmail reports whether s is a bare email address.
func ValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return validDomain(s[at+1:])
}

// validDomain accepts dotted host names only: no IP literals, no single
// label hosts like "localhost", and a top-level label of at least two letters.
func validDomain(d string) bool {
	labels := strings.Split(d, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" || strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return false
		}
		for _, r := range l {
			if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return false
			}
		}
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if r >= '0' && r <= '9' || r == '-' {
			return false
		}
	}
	return true
}

func callbackURL(clientURL, path string) string {
	return strings.TrimRight(clientURL, "/") + path
}

// tokenUsed reports whether err means a one-time link was already consumed.
func tokenUsed(err error) bool {
	if client.IsStatus(err, http.StatusConflict) {
		return true
	}
	msg := strings.ToLower(client.Message(err))
	return strings.Contains(msg, "already been used") || strings.Contains(msg, "already used")
}

// resendMessage turns the result of a resend call into the text shown to
// the user.
func resendMessage(detail string, err error) string {
	if err == nil {
		return detail
	}
	if _, ok := client.StatusCode(err); ok {
		return client.Message(err)
	}
	return msgResendFailed
}

// detailOr returns the message the server sent with err, or fallback when
// there is none.
func detailOr(err error, fallback string) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" && httpErr.Message != http.StatusText(httpErr.Status) {
		return httpErr.Message
	}
	return fallback
}

// guard serializes the server calls of a flow and tracks abandonment.
type guard struct {
	mu   sync.Mutex
	gen  uint64
	busy bool
}

// begin must be called with mu held.
func (g *guard) begin() (uint64, error) {
	if g.busy {
		return 0, ErrBusy
	}
	g.busy = true
	return g.gen, nil
}

// end must be called with mu held. It reports false when the flow was
// abandoned after begin returned gen.
func (g *guard) end(gen uint64) bool {
	if gen != g.gen {
		return false
	}
	g.busy = false
	return true
}

// abandon must be called with mu held.
func (g *guard) abandon() {
	g.gen++
	g.busy = false
}
