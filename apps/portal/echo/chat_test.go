package echoportal

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	testutil "github.com/brainbuddy/portal/tests"
)

func decodeJSONBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("decoding request body failed: %v", err)
	}
	return body
}

// sessionCookies extracts the portal session cookie from a response so a
// follow-up request lands on the same conversation state.
func sessionCookies(t *testing.T, cookies []*http.Cookie) []*http.Cookie {
	t.Helper()
	out := []*http.Cookie{authCookie()}
	for _, c := range cookies {
		if c.Name == sessionCookie {
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

func TestTutorAsk_sessionContinuity(t *testing.T) {
	api := testutil.NewFakeAPI(t)

	var seenSessionIDs []interface{}
	api.Handle("/api/aitutor/ask", func(w http.ResponseWriter, r *http.Request) {
		body := decodeJSONBody(t, r)
		seenSessionIDs = append(seenSessionIDs, body["session_id"])
		testutil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": "sess-42",
			"answer":     "Gravity pulls things down.",
		})
	})
	srv := newTestServer(t, api)

	form := url.Values{"question": {"what is gravity"}}
	rec := doRequest(t, srv, http.MethodPost, "/tutor/ask", form, authCookie())
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Gravity pulls things down.") {
		t.Error("answer not rendered")
	}

	// second turn on the same portal session carries the adopted id
	cookies := sessionCookies(t, rec.Result().Cookies())
	form = url.Values{"question": {"and on the moon?"}}
	rec = doRequest(t, srv, http.MethodPost, "/tutor/ask", form, cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	if len(seenSessionIDs) != 2 {
		t.Fatalf("API saw %d asks, want 2", len(seenSessionIDs))
	}
	if seenSessionIDs[0] != nil {
		t.Errorf("first ask carried session_id %v, want none", seenSessionIDs[0])
	}
	if seenSessionIDs[1] != "sess-42" {
		t.Errorf("second ask carried session_id %v, want sess-42", seenSessionIDs[1])
	}
}

func TestTutorReset(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleJSON("/api/aitutor/ask", map[string]interface{}{"session_id": "sess-1", "answer": "hi"})
	srv := newTestServer(t, api)

	rec := doRequest(t, srv, http.MethodPost, "/tutor/ask", url.Values{"question": {"q"}}, authCookie())
	cookies := sessionCookies(t, rec.Result().Cookies())

	rec = doRequest(t, srv, http.MethodPost, "/tutor/reset", nil, cookies...)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/tutor" {
		t.Fatalf("code = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = doRequest(t, srv, http.MethodGet, "/tutor", nil, cookies...)
	if strings.Contains(rec.Body.String(), "hi") && strings.Contains(rec.Body.String(), `class="msg`) {
		t.Error("conversation survived the reset")
	}
}

func TestYoutube(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleJSON("/api/ytchat/load", map[string]interface{}{
		"video_id":   "vid-1",
		"title":      "Photosynthesis in 10 minutes",
		"transcript": "plants make food",
	})
	api.Handle("/api/ytchat/ask", func(w http.ResponseWriter, r *http.Request) {
		body := decodeJSONBody(t, r)
		if body["video_id"] != "vid-1" {
			t.Errorf("ask body = %v, want video_id vid-1", body)
		}
		_, _ = w.Write([]byte("It is about plants."))
	})
	srv := newTestServer(t, api)

	t.Run("ask before load is rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/youtube/ask", url.Values{"question": {"q"}}, authCookie())
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Load a video first.") {
			t.Errorf("code = %d, body missing the guard message", rec.Code)
		}
	})

	t.Run("load then ask", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/youtube/load",
			url.Values{"input": {"https://youtu.be/vid-1"}}, authCookie())
		if rec.Code != http.StatusOK {
			t.Fatalf("load code = %d, body: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Photosynthesis in 10 minutes") {
			t.Error("video title not rendered")
		}

		cookies := sessionCookies(t, rec.Result().Cookies())
		rec = doRequest(t, srv, http.MethodPost, "/youtube/ask", url.Values{"question": {"what is it about"}}, cookies...)
		if rec.Code != http.StatusOK {
			t.Fatalf("ask code = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "It is about plants.") {
			t.Error("answer not rendered")
		}
	})
}

func TestEduChat(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleJSON("/api/educhat/chat", map[string]interface{}{
		"chat_id": "chat-7",
		"answer":  "Here is the idea.",
	})
	srv := newTestServer(t, api)

	rec := doRequest(t, srv, http.MethodPost, "/educhat/ask", url.Values{"question": {"explain sets"}}, authCookie())
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Here is the idea.") {
		t.Error("answer not rendered")
	}
}
