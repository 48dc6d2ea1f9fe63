package echoportal

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brainbuddy/portal/core/session"
)

const (
	tokenCookie   = "bb_token"
	sessionCookie = "bb_sid"
)

var authRoutePrefixes = []string{"/login", "/register"}

// authGate is the per-navigation boolean gate: no token off the auth pages
// sends the visitor to login with the intended destination preserved, a token
// on the auth pages sends them to the dashboard, and the root path resolves
// by token presence. Stateless and synchronous, no retries.
func authGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			if gateExempt(path) {
				return next(ctx)
			}

			token := authToken(ctx)
			isAuth := isAuthRoute(path)

			if token == "" && !isAuth {
				return ctx.Redirect(http.StatusFound, "/login?next="+path)
			}
			if token != "" && isAuth {
				return ctx.Redirect(http.StatusFound, "/dashboard")
			}
			if path == "/" {
				// only reachable with a token; the first rule catches the rest
				return ctx.Redirect(http.StatusFound, "/dashboard")
			}
			return next(ctx)
		}
	}
}

func isAuthRoute(path string) bool {
	for _, prefix := range authRoutePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func gateExempt(path string) bool {
	return path == "/status.json" || path == "/favicon.ico"
}

// authToken returns the bearer token from the auth cookie. A token whose
// claims say it already expired counts as absent, sparing a doomed round-trip
// to the API.
func authToken(ctx echo.Context) string {
	cookie, err := ctx.Cookie(tokenCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if claims, err := parseClaims(cookie.Value); err == nil && claims.Expired() {
		return ""
	}
	return cookie.Value
}

const stateKey = "portalSessionState"

// withSession pins a portal session id cookie on the browser and stashes the
// matching conversation state on the request context.
func (p *portal) withSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sid := sessionID(ctx)
		if sid == "" {
			sid = p.sessions.NewID()
			ctx.SetCookie(&http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx.Set(stateKey, p.sessions.Get(sid))
		return next(ctx)
	}
}

func sessionID(ctx echo.Context) string {
	cookie, err := ctx.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// state returns the request's conversation state, tolerating handlers hit
// outside withSession (tests mostly).
func (p *portal) state(ctx echo.Context) *session.State {
	if st, ok := ctx.Get(stateKey).(*session.State); ok {
		return st
	}
	return p.sessions.Get(sessionID(ctx))
}
