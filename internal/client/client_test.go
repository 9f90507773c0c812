package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/snooze/internal/domain"
)

var ctx = context.Background()
var creds = domain.Credentials{Username: "alice", Token: "t0k3n"}

func newClient(t *testing.T, h http.Handler) *HttpClient {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	c := New(u, &http.Client{Timeout: time.Second}, 3)
	c.retryDelay = time.Millisecond
	return c
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("failed to decode request body: %s", err)
	}
	return body
}

func expectRequest(t *testing.T, r *http.Request, method, path string) {
	t.Helper()
	if r.Method != method {
		t.Errorf("expected method %s, got %s", method, r.Method)
	}
	if r.URL.Path != path {
		t.Errorf("expected path %s, got %s", path, r.URL.Path)
	}
}

func TestGetStories(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectRequest(t, r, http.MethodGet, "/stories")
		if l := r.URL.Query().Get("limit"); l != "25" {
			t.Errorf("expected limit 25, got %q", l)
		}
		if r.URL.Query().Has("skip") {
			t.Error("skip should be omitted when zero")
		}
		if ua := r.Header.Get("User-Agent"); ua != UserAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		io.WriteString(w, `{"stories":[
			{"storyId":"1","title":"T","author":"A","url":"http://x.com","username":"alice","createdAt":"2024-01-02T03:04:05.000Z"},
			{"storyId":"2","title":"U","author":"B","url":"https://y.org/p","username":"bob"}
		]}`)
	}))

	stories, err := c.GetStories(ctx, 0, 25)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	expected := []domain.Story{
		{StoryID: "1", Title: "T", Author: "A", URL: "http://x.com", Username: "alice",
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{StoryID: "2", Title: "U", Author: "B", URL: "https://y.org/p", Username: "bob"},
	}
	if diff := cmp.Diff(expected, stories); diff != "" {
		t.Errorf("unexpected stories (-want +got):\n%s", diff)
	}
}

func TestAddStory(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		expectRequest(t, r, http.MethodPost, "/stories")
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}

		expected := map[string]any{
			"token": "t0k3n",
			"story": map[string]any{"title": "T", "author": "A", "url": "http://x.com"},
		}
		if diff := cmp.Diff(expected, decodeBody(t, r)); diff != "" {
			t.Errorf("unexpected request body (-want +got):\n%s", diff)
		}

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"story":{"storyId":"new","title":"T","author":"A","url":"http://x.com","username":"alice"}}`)
	}))

	s, err := c.AddStory(ctx, creds, domain.NewStory{Title: "T", Author: "A", URL: "http://x.com"})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if s.StoryID != "new" || s.Username != "alice" {
		t.Errorf("unexpected story %+v", s)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestDeleteStory(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectRequest(t, r, http.MethodDelete, "/stories/abc")
		if diff := cmp.Diff(map[string]any{"token": "t0k3n"}, decodeBody(t, r)); diff != "" {
			t.Errorf("unexpected request body (-want +got):\n%s", diff)
		}
		io.WriteString(w, `{"message":"deleted","story":{"storyId":"abc"}}`)
	}))

	s, err := c.DeleteStory(ctx, creds, "abc")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if s.StoryID != "abc" {
		t.Errorf("expected deleted story abc, got %q", s.StoryID)
	}
}

func TestLoginAndSignUp(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		user, _ := body["user"].(map[string]any)
		if user["username"] != "alice" || user["password"] != "secret" {
			t.Errorf("unexpected credentials %v", user)
		}

		switch r.URL.Path {
		case "/login":
			if _, ok := user["name"]; ok {
				t.Error("login should not send a name")
			}
		case "/signup":
			if user["name"] != "Alice" {
				t.Errorf("expected name Alice, got %v", user["name"])
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		io.WriteString(w, `{"token":"t0k3n","user":{"username":"alice","name":"Alice",
			"favorites":[{"storyId":"f"}],"stories":[{"storyId":"s"}]}}`)
	}))

	for name, auth := range map[string]func() (domain.User, error){
		"login":  func() (domain.User, error) { return c.Login(ctx, "alice", "secret") },
		"signup": func() (domain.User, error) { return c.SignUp(ctx, "alice", "secret", "Alice") },
	} {
		t.Run(name, func(t *testing.T) {
			u, err := auth()
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			expected := domain.User{
				Username:   "alice",
				Name:       "Alice",
				Token:      "t0k3n",
				Favorites:  []domain.Story{{StoryID: "f"}},
				OwnStories: []domain.Story{{StoryID: "s"}},
			}
			if diff := cmp.Diff(expected, u); diff != "" {
				t.Errorf("unexpected user (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectRequest(t, r, http.MethodGet, "/users/alice")
		if tok := r.URL.Query().Get("token"); tok != "t0k3n" {
			t.Errorf("expected token query parameter, got %q", tok)
		}
		io.WriteString(w, `{"user":{"username":"alice"}}`)
	}))

	u, err := c.GetUser(ctx, creds)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if u.Token != creds.Token {
		t.Errorf("expected the token to be kept on the user, got %q", u.Token)
	}
}

func TestFavorites(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice/favorites/abc" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if diff := cmp.Diff(map[string]any{"token": "t0k3n"}, decodeBody(t, r)); diff != "" {
			t.Errorf("unexpected request body (-want +got):\n%s", diff)
		}

		switch r.Method {
		case http.MethodPost:
			io.WriteString(w, `{"message":"added","user":{"username":"alice","favorites":[{"storyId":"abc"}]}}`)
		case http.MethodDelete:
			io.WriteString(w, `{"message":"removed","user":{"username":"alice","favorites":[]}}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	u, err := c.AddFavorite(ctx, creds, "abc")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !u.IsFavorite("abc") {
		t.Error("expected abc to be a favorite after adding it")
	}

	u, err = c.RemoveFavorite(ctx, creds, "abc")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if u.IsFavorite("abc") {
		t.Error("expected abc not to be a favorite after removing it")
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"status":401,"title":"Unauthorized","message":"Invalid credentials"}}`, ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"error":{"status":404,"title":"Not Found","message":"No story"}}`, ErrNotFound},
		{"conflict", http.StatusConflict, `{"error":{"status":409,"title":"Conflict","message":"taken"}}`, ErrConflict},
		{"forbidden", http.StatusForbidden, `{"error":{"status":403,"title":"Forbidden"}}`, ErrForbidden},
		{"bad request, plain body", http.StatusBadRequest, "nope", ErrBadRequest},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				io.WriteString(w, c.body)
			}))

			_, err := cl.Login(ctx, "alice", "secret")
			if !errors.Is(err, c.err) {
				t.Errorf("expected %v, got %v", c.err, err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Status != c.status {
				t.Errorf("expected an APIError with status %d, got %#v", c.status, err)
			}
		})
	}
}

func TestRetries(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"story":{"storyId":"abc"}}`)
	}))

	s, err := c.GetStory(ctx, "abc")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if s.StoryID != "abc" {
		t.Errorf("unexpected story %+v", s)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestNoRetries(t *testing.T) {
	cases := []struct {
		name   string
		status int
		call   func(c *HttpClient) error
	}{
		{"client error on read", http.StatusNotFound, func(c *HttpClient) error {
			_, err := c.GetStory(ctx, "abc")
			return err
		}},
		{"server error on write", http.StatusInternalServerError, func(c *HttpClient) error {
			_, err := c.AddFavorite(ctx, creds, "abc")
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
			}))

			if err := tc.call(c); err == nil {
				t.Fatal("expected an error")
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("expected a single attempt, got %d", n)
			}
		})
	}
}

func TestUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	u, _ := url.Parse(server.URL)
	server.Close()

	c := New(u, &http.Client{Timeout: time.Second}, 2)
	c.retryDelay = time.Millisecond

	_, err := c.GetStories(ctx, 0, 10)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRedact(t *testing.T) {
	u, _ := url.Parse("http://api.test/users/alice?token=secret")
	if r := redact(u); r != "http://api.test/users/alice?token=%2A%2A%2A" {
		t.Errorf("token not redacted: %s", r)
	}
	if u.Query().Get("token") != "secret" {
		t.Error("redact modified the original url")
	}
}
