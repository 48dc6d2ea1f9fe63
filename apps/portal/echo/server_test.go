package echoportal

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
	"github.com/brainbuddy/portal/core/health"
	"github.com/brainbuddy/portal/core/session"
	testutil "github.com/brainbuddy/portal/tests"
)

func newTestServer(t *testing.T, api *testutil.FakeAPI) Server {
	t.Helper()

	conf := testutil.NewConfig(api.URL())
	client := backend.NewClient(conf, testutil.NopLogger{})

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	return NewServer(ServerDeps{
		Conf:           conf,
		Logger:         testutil.NopLogger{},
		Client:         client,
		Sessions:       session.NewManager(conf.Session.TTL),
		Checker:        health.NewChecker(client, conf, testutil.NopLogger{}),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
}

func doRequest(t *testing.T, srv Server, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var encoded string
	if form != nil {
		encoded = form.Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(encoded))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func authCookie() *http.Cookie {
	return &http.Cookie{Name: tokenCookie, Value: "test-token"}
}

func TestAuthGate(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	srv := newTestServer(t, api)

	tests := []struct {
		name         string
		path         string
		withToken    bool
		wantCode     int
		wantLocation string
	}{
		{name: "dashboard without token", path: "/dashboard", wantCode: http.StatusFound, wantLocation: "/login?next=/dashboard"},
		{name: "protected page without token", path: "/study-plan", wantCode: http.StatusFound, wantLocation: "/login?next=/study-plan"},
		{name: "unrouted path without token", path: "/made-up-page", wantCode: http.StatusFound, wantLocation: "/login?next=/made-up-page"},
		{name: "root without token", path: "/", wantCode: http.StatusFound, wantLocation: "/login?next=/"},
		{name: "root with token", path: "/", withToken: true, wantCode: http.StatusFound, wantLocation: "/dashboard"},
		{name: "login with token", path: "/login", withToken: true, wantCode: http.StatusFound, wantLocation: "/dashboard"},
		{name: "register with token", path: "/register", withToken: true, wantCode: http.StatusFound, wantLocation: "/dashboard"},
		{name: "login without token", path: "/login", wantCode: http.StatusOK},
		{name: "status.json is exempt", path: "/status.json", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.withToken {
				cookies = append(cookies, authCookie())
			}
			rec := doRequest(t, srv, http.MethodGet, tt.path, nil, cookies...)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				if got := rec.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("/api/auth/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("username") != "kip" || r.PostForm.Get("password") != "s3cret" {
			testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"access_token": "tok123", "token_type": "bearer"})
	})
	srv := newTestServer(t, api)

	t.Run("success sets the auth cookie", func(t *testing.T) {
		form := url.Values{"username": {"kip"}, "password": {"s3cret"}, "next": {"/tutor"}}
		rec := doRequest(t, srv, http.MethodPost, "/login", form)

		if rec.Code != http.StatusFound {
			t.Fatalf("code = %d, body: %s", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Location"); got != "/tutor" {
			t.Errorf("Location = %q, want /tutor", got)
		}
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == tokenCookie && c.Value == "tok123" && c.HttpOnly {
				found = true
			}
		}
		if !found {
			t.Error("auth cookie not set")
		}
	})

	t.Run("bad credentials stay on the page", func(t *testing.T) {
		form := url.Values{"username": {"kip"}, "password": {"wrong"}}
		rec := doRequest(t, srv, http.MethodPost, "/login", form)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Incorrect username or password") {
			t.Error("API error message not surfaced")
		}
	})

	t.Run("off-site next is ignored", func(t *testing.T) {
		form := url.Values{"username": {"kip"}, "password": {"s3cret"}, "next": {"https://evil.test/"}}
		rec := doRequest(t, srv, http.MethodPost, "/login", form)

		if got := rec.Header().Get("Location"); got != "/dashboard" {
			t.Errorf("Location = %q, want /dashboard", got)
		}
	})
}

func TestLogout(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	srv := newTestServer(t, api)

	rec := doRequest(t, srv, http.MethodGet, "/logout", nil, authCookie())
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("code = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookie && c.MaxAge >= 0 {
			t.Error("auth cookie not cleared")
		}
	}
}

func TestDashboard(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleJSON("/api/auth/me", map[string]interface{}{"class_std": 8})
	srv := newTestServer(t, api)

	t.Run("resolves the linked class", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/dashboard", nil, authCookie())
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Class 8") {
			t.Error("linked class not rendered")
		}
	})

	t.Run("cached class skips the probe", func(t *testing.T) {
		before := api.Hits("/api/auth/me")
		rec := doRequest(t, srv, http.MethodGet, "/dashboard", nil, authCookie(),
			&http.Cookie{Name: "bb_class_std", Value: "5"})
		if !strings.Contains(rec.Body.String(), "Class 5") {
			t.Error("cached class not rendered")
		}
		if api.Hits("/api/auth/me") != before {
			t.Error("cache hit still probed the API")
		}
	})
}

func TestProfileLink(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleJSON("/api/auth/students/link", map[string]string{"status": "linked"})
	srv := newTestServer(t, api)

	t.Run("links and writes the cache through", func(t *testing.T) {
		form := url.Values{"email": {"kid@test.cd"}, "class_std": {"6"}}
		rec := doRequest(t, srv, http.MethodPost, "/profile-link", form, authCookie())

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, body: %s", rec.Code, rec.Body.String())
		}
		var classCookie string
		for _, c := range rec.Result().Cookies() {
			if c.Name == "bb_class_std" {
				classCookie = c.Value
			}
		}
		if classCookie != "6" {
			t.Errorf("bb_class_std cookie = %q, want 6", classCookie)
		}
	})

	t.Run("rejects an out-of-range class", func(t *testing.T) {
		form := url.Values{"email": {"kid@test.cd"}, "class_std": {"42"}}
		rec := doRequest(t, srv, http.MethodPost, "/profile-link", form, authCookie())

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "class must be between 1 and 12") {
			t.Error("range error not surfaced")
		}
		if n := api.Hits("/api/auth/students/link"); n != 1 {
			t.Errorf("link endpoint hit %d times, want the 1 from the valid case", n)
		}
	})
}
