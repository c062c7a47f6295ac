package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/authportal/internal/client/models"
)

const (
	EndpointRegister           = "/auth/register"
	EndpointResendVerification = "/auth/resend-verification"
	EndpointVerifyProfile      = "/auth/verify"
	EndpointLogin              = "/auth/login"
	EndpointConfirmLogin       = "/auth/confirm-login"
	EndpointLogout             = "/auth/logout"
	EndpointUserExists         = "/users/check-exists"
	EndpointUserVerified       = "/users/check-verified"
	EndpointCurrentUser        = "/users/get-current"
)

// Client is the contract of the authentication API.
//
// callbackURL arguments are client addresses the server embeds, with a
// one-time token, in the links it emails.
type Client interface {
	Register(ctx context.Context, reg models.Registration, callbackURL string) (*models.User, string, error)
	ResendVerification(ctx context.Context, username, callbackURL string) (string, error)
	VerifyProfile(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, email, password, callbackURL string) (string, error)
	ConfirmLogin(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context) (string, error)
	UserExists(ctx context.Context, email string) (bool, error)
	UserVerified(ctx context.Context, email string) (bool, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// RESTClient implements Client over a Gateway.
type RESTClient struct {
	gw *Gateway
}

func NewRESTClient(gw *Gateway) *RESTClient {
	return &RESTClient{gw: gw}
}

func (c *RESTClient) Register(ctx context.Context, reg models.Registration, callbackURL string) (*models.User, string, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, "", err
	}

	env, err := Fetch[*models.User](ctx, c.gw, Request{
		Method:   http.MethodPost,
		Endpoint: EndpointRegister,
		Query:    url.Values{"clientUrl": {callbackURL}},
		Body:     body,
	})
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Detail, nil
}

func (c *RESTClient) ResendVerification(ctx context.Context, username, callbackURL string) (string, error) {
	return c.detail(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: EndpointResendVerification,
		Query:    url.Values{"username": {username}, "clientUrl": {callbackURL}},
	})
}

func (c *RESTClient) VerifyProfile(ctx context.Context, token string) (string, error) {
	return c.detail(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: EndpointVerifyProfile,
		Query:    url.Values{"token": {token}},
	})
}

func (c *RESTClient) Login(ctx context.Context, email, password, callbackURL string) (string, error) {
	form := url.Values{"username": {email}, "password": {password}}

	return c.detail(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: EndpointLogin,
		Query:    url.Values{"clientUrl": {callbackURL}},
		Header:   http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		Body:     []byte(form.Encode()),
	})
}

func (c *RESTClient) ConfirmLogin(ctx context.Context, token string) (string, error) {
	return c.detail(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: EndpointConfirmLogin,
		Query:    url.Values{"token": {token}},
	})
}

func (c *RESTClient) Logout(ctx context.Context) (string, error) {
	return c.detail(ctx, Request{Method: http.MethodPost, Endpoint: EndpointLogout})
}

func (c *RESTClient) UserExists(ctx context.Context, email string) (bool, error) {
	return c.flag(ctx, EndpointUserExists, email)
}

func (c *RESTClient) UserVerified(ctx context.Context, email string) (bool, error) {
	return c.flag(ctx, EndpointUserVerified, email)
}

func (c *RESTClient) CurrentUser(ctx context.Context) (*models.User, error) {
	env, err := Fetch[*models.User](ctx, c.gw, Request{Method: http.MethodGet, Endpoint: EndpointCurrentUser})
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("current user: %w", ErrEmptyPayload)
	}
	return env.Data, nil
}

func (c *RESTClient) detail(ctx context.Context, r Request) (string, error) {
	env, err := c.gw.Do(ctx, r)
	if err != nil {
		return "", err
	}
	return env.Detail, nil
}

// flag reads a "true"/"false" payload. The API sends it as a string, but a
// JSON boolean is accepted too.
func (c *RESTClient) flag(ctx context.Context, endpoint, email string) (bool, error) {
	env, err := c.gw.Do(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: endpoint,
		Query:    url.Values{"username": {email}},
	})
	if err != nil {
		return false, err
	}

	var s string
	if err := json.Unmarshal(env.Data, &s); err != nil {
		var b bool
		if err := json.Unmarshal(env.Data, &b); err != nil {
			return false, fmt.Errorf("decode %s payload: %w", endpoint, err)
		}
		return b, nil
	}
	return strings.EqualFold(strings.TrimSpace(s), "true"), nil
}
