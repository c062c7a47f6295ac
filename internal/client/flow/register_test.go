package flow

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/models"
	"github.com/dmitrijs2005/authportal/internal/logging"
	"github.com/stretchr/testify/require"
)

func validForm() RegisterForm {
	return RegisterForm{
		Email:          " new@x.com ",
		Username:       "newbie",
		FirstName:      "New",
		LastName:       "User",
		Password:       "pw",
		RepeatPassword: "pw",
	}
}

func TestRegisterFlow_Submit_LocalValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterForm)
		want   error
	}{
		{"mismatch", func(f *RegisterForm) { f.RepeatPassword = "other" }, ErrPasswordMismatch},
		{"no email", func(f *RegisterForm) { f.Email = " " }, ErrMissingField},
		{"no username", func(f *RegisterForm) { f.Username = "" }, ErrMissingField},
		{"no first name", func(f *RegisterForm) { f.FirstName = "" }, ErrMissingField},
		{"no password", func(f *RegisterForm) { f.Password, f.RepeatPassword = "", "" }, ErrMissingField},
		{"bad email", func(f *RegisterForm) { f.Email = "nope" }, ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			f := NewRegisterFlow(fc, testClientURL, logging.Nop())

			form := validForm()
			tt.mutate(&form)

			out, err := f.Submit(context.Background(), form)
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, CollectingDetails, out.State)
			require.NotEmpty(t, out.Message)
			require.Empty(t, fc.Calls())
		})
	}
}

func TestRegisterFlow_Submit_LastNameOptional(t *testing.T) {
	fc := &fakeClient{registerDetail: "Registered."}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())

	form := validForm()
	form.LastName = ""
	_, err := f.Submit(context.Background(), form)
	require.NoError(t, err)
}

func TestRegisterFlow_Submit_Success(t *testing.T) {
	fc := &fakeClient{
		registerUser:   &models.User{ID: "u9", Email: "new@x.com", Username: "newbie"},
		registerDetail: "Account created. Check your email to verify it.",
	}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())

	out, err := f.Submit(context.Background(), validForm())
	require.NoError(t, err)
	require.Equal(t, Registered, out.State)
	require.Equal(t, "Account created. Check your email to verify it.", out.Message)
	require.Equal(t, "/register-success?email=new@x.com", out.Redirect.String())

	require.Equal(t, models.Registration{
		Email: "new@x.com", Username: "newbie", FirstName: "New", LastName: "User", Password: "pw",
	}, fc.registerReg)
	require.Equal(t, "http://app.test/verify-profile", fc.registerCallback)
}

func TestRegisterFlow_Submit_ServerFailure(t *testing.T) {
	fc := &fakeClient{registerErr: &client.HTTPError{Status: http.StatusBadRequest, Message: "Email already registered."}}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())

	out, err := f.Submit(context.Background(), validForm())
	require.True(t, client.IsStatus(err, http.StatusBadRequest))
	require.Equal(t, Failed, out.State)
	require.Equal(t, "Email already registered.", out.Message)

	_, err = f.ResendVerification(context.Background())
	require.ErrorIs(t, err, ErrWrongState)
}

func TestRegisterFlow_ResendVerification(t *testing.T) {
	fc := &fakeClient{resendDetail: "Verification email sent."}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())

	_, err := f.ResendVerification(context.Background())
	require.ErrorIs(t, err, ErrWrongState)

	_, err = f.Submit(context.Background(), validForm())
	require.NoError(t, err)

	msg, err := f.ResendVerification(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Verification email sent.", msg)
	require.Equal(t, "new@x.com", fc.resendUser)

	fc.resendErr = client.ErrUnavailable
	msg, err = f.ResendVerification(context.Background())
	require.Error(t, err)
	require.Equal(t, "Failed to request email.", msg)
}

func TestRegisterFlow_Verify(t *testing.T) {
	used := map[string]bool{}
	fc := &fakeClient{verifyFn: func(token string) (string, error) {
		if used[token] {
			return "", &client.HTTPError{Status: http.StatusConflict, Message: "This link has already been used."}
		}
		used[token] = true
		return "Profile verified.", nil
	}}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())
	ctx := context.Background()

	out, err := f.Verify(ctx, "http://app.test/verify-profile?token=v1")
	require.NoError(t, err)
	require.Equal(t, Verified, out.State)
	require.Equal(t, "Profile verified.", out.Message)
	require.Equal(t, "/login", out.Redirect.String())

	out, err = f.Verify(ctx, "v1")
	require.ErrorIs(t, err, ErrTokenUsed)
	require.Equal(t, Failed, out.State)
	require.Equal(t, "This verification link has already been used", out.Message)
	require.Equal(t, "/login", out.Redirect.String())
}

func TestRegisterFlow_Verify_OtherFailure(t *testing.T) {
	fc := &fakeClient{verifyFn: func(string) (string, error) {
		return "", &client.HTTPError{Status: http.StatusBadRequest, Message: "Invalid token."}
	}}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())

	out, err := f.Verify(context.Background(), "bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTokenUsed)
	require.Equal(t, "Invalid token.", out.Message)
	require.Nil(t, out.Redirect)

	_, err = f.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestRegisterFlow_AbandonDropsLateResult(t *testing.T) {
	fc := &fakeClient{
		registerDetail: "ok",
		started:        make(chan string, 1),
		block:          make(chan struct{}),
	}
	f := NewRegisterFlow(fc, testClientURL, logging.Nop())

	errs := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), validForm())
		errs <- err
	}()

	require.Equal(t, "Register", <-fc.started)
	_, err := f.Verify(context.Background(), "tok")
	require.ErrorIs(t, err, ErrBusy)

	f.Abandon()
	close(fc.block)

	require.ErrorIs(t, <-errs, ErrAbandoned)
	require.Equal(t, CollectingDetails, f.State())
	require.Empty(t, f.Email())
}
