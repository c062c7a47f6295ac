package flow

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authportal/internal/client/models"
	"github.com/dmitrijs2005/authportal/internal/client/session"
	"github.com/dmitrijs2005/authportal/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for flow tests. When block is set,
// every call signals started and then waits until block is closed.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	started chan string
	block   chan struct{}

	existsRet bool
	existsErr error

	loginDetail   string
	loginErr      error
	loginEmail    string
	loginPassword string
	loginCallback string

	confirmFn func(token string) (string, error)
	verifyFn  func(token string) (string, error)

	resendDetail   string
	resendErr      error
	resendUser     string
	resendCallback string

	registerUser     *models.User
	registerDetail   string
	registerErr      error
	registerReg      models.Registration
	registerCallback string

	currentUser *models.User
	currentErr  error

	logoutDetail string
	logoutErr    error
}

func (f *fakeClient) enter(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if f.block != nil {
		if f.started != nil {
			f.started <- name
		}
		<-f.block
	}
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Register(_ context.Context, reg models.Registration, callbackURL string) (*models.User, string, error) {
	f.enter("Register")
	f.registerReg = reg
	f.registerCallback = callbackURL
	return f.registerUser, f.registerDetail, f.registerErr
}

func (f *fakeClient) ResendVerification(_ context.Context, username, callbackURL string) (string, error) {
	f.enter("ResendVerification")
	f.resendUser = username
	f.resendCallback = callbackURL
	return f.resendDetail, f.resendErr
}

func (f *fakeClient) VerifyProfile(_ context.Context, token string) (string, error) {
	f.enter("VerifyProfile")
	return f.verifyFn(token)
}

func (f *fakeClient) Login(_ context.Context, email, password, callbackURL string) (string, error) {
	f.enter("Login")
	f.loginEmail = email
	f.loginPassword = password
	f.loginCallback = callbackURL
	return f.loginDetail, f.loginErr
}

func (f *fakeClient) ConfirmLogin(_ context.Context, token string) (string, error) {
	f.enter("ConfirmLogin")
	return f.confirmFn(token)
}

func (f *fakeClient) Logout(context.Context) (string, error) {
	f.enter("Logout")
	return f.logoutDetail, f.logoutErr
}

func (f *fakeClient) UserExists(context.Context, string) (bool, error) {
	f.enter("UserExists")
	return f.existsRet, f.existsErr
}

func (f *fakeClient) UserVerified(context.Context, string) (bool, error) {
	f.enter("UserVerified")
	return true, nil
}

func (f *fakeClient) CurrentUser(context.Context) (*models.User, error) {
	f.enter("CurrentUser")
	return f.currentUser, f.currentErr
}

// memRepo is an in-memory metadata.Repository.
type memRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func newStore(t *testing.T) (*session.Store, *memRepo) {
	t.Helper()
	repo := &memRepo{data: map[string][]byte{}}
	s, err := session.New(context.Background(), repo, logging.Nop())
	require.NoError(t, err)
	return s, repo
}
