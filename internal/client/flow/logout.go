package flow

import (
	"context"

	"github.com/dmitrijs2005/authportal/internal/client/client"
	"github.com/dmitrijs2005/authportal/internal/client/session"
)

// Logout ends the session on the server and then locally. The local session
// is cleared even when the server call fails; that failure is still
// returned.
func Logout(ctx context.Context, c client.Client, store *session.Store) (string, error) {
	detail, err := c.Logout(ctx)
	clearErr := store.Clear(ctx)

	if err != nil {
		return "", err
	}
	if clearErr != nil {
		return detail, clearErr
	}
	return detail, nil
}
