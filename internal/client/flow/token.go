package flow

import (
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractToken accepts either a bare token or a link pasted from an email
// and returns the token. A link without a token query parameter yields "".
func ExtractToken(input string) string {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, "://") && !strings.Contains(input, "?") {
		return input
	}

	u, err := url.Parse(input)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("token"))
}

// TokenSubject returns the subject of a JWT without verifying its
// signature. It is used only to show whose link is being confirmed.
func TokenSubject(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
