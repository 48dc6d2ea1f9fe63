package echoportal

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brainbuddy/portal/core/profile"
)

// cacheCookieMaxAge keeps the profile cache around long enough to matter but
// not forever; the resolver refreshes it on any bypass.
const cacheCookieMaxAge = 180 * 24 * time.Hour

// cookieStore implements profile.Store over the visitor's cookies: the
// server-side stand-in for the storage namespace the old web client kept in
// localStorage (same keys, so existing visitors keep their cache).
// Writes within a request are overlaid so a write-through is immediately
// readable before the browser round-trips.
type cookieStore struct {
	ctx     echo.Context
	pending map[string]string
	cleared map[string]bool
}

var _ profile.Store = (*cookieStore)(nil)

func newCookieStore(ctx echo.Context) *cookieStore {
	return &cookieStore{
		ctx:     ctx,
		pending: make(map[string]string),
		cleared: make(map[string]bool),
	}
}

func (s *cookieStore) Get(key string) (string, bool) {
	if s.cleared[key] {
		return "", false
	}
	if v, ok := s.pending[key]; ok {
		return v, true
	}
	cookie, err := s.ctx.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if v, err := url.QueryUnescape(cookie.Value); err == nil {
		return v, true
	}
	return cookie.Value, true
}

func (s *cookieStore) Set(key, value string) {
	s.pending[key] = value
	delete(s.cleared, key)
	s.ctx.SetCookie(&http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(cacheCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *cookieStore) Clear(key string) {
	delete(s.pending, key)
	s.cleared[key] = true
	s.ctx.SetCookie(&http.Cookie{
		Name:   key,
		Path:   "/",
		MaxAge: -1,
	})
}

func setAuthCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:   tokenCookie,
		Path:   "/",
		MaxAge: -1,
	})
}
