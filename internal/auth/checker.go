package auth

import (
	"context"
	"net/http"
	"strings"
)

// TokenHeader carries the session token. Authorization: Bearer is accepted as well.
const TokenHeader = "X-GYMLOG-TOKEN"

var _ Checker = (*Service)(nil)

type Checker interface {
	UserForToken(ctx context.Context, token string) (int, error)
}

// TokenFromRequest returns the session token of the request, or "".
func TokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
