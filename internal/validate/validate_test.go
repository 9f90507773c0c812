package validate

import (
	"strings"
	"testing"
)

func TestURL(t *testing.T) {
	cases := []struct {
		url   string
		valid bool
	}{
		{"http://x.com", true},
		{"https://news.ycombinator.com/item?id=1", true},
		{"http://localhost:8080/path", true},
		{"", false},
		{"x.com", false},
		{"ftp://x.com/file", false},
		{"javascript:alert(1)", false},
		{"http://x.com and more", false},
		{"see http://x.com", false},
		{"https://example.com/wiki/Hello!", true},
		{"https://example.com/foo.", true},
		{"https://example.com/a,b,", true},
		{"https://en.wikipedia.org/wiki/Set_(mathematics)", true},
		{"https://" + strings.Repeat("a", MaxURLLen) + ".com", false},
	}

	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			err := URL(c.url)
			if c.valid && err != nil {
				t.Errorf("unexpected error: %s", err)
			} else if !c.valid && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStoryForm(t *testing.T) {
	if err := StoryForm("T", "A", "http://x.com"); err != nil {
		t.Errorf("unexpected error: %s", err)
	}

	err := StoryForm("", "", "nope")
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, fragment := range []string{"empty title", "empty author", "not a valid"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected error to mention %q, got %q", fragment, err)
		}
	}
}

func TestSignUpForm(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		fullName string
		valid    bool
	}{
		{"valid", "alice", "correct horse", "Alice", true},
		{"short password", "alice", "short", "Alice", false},
		{"empty name", "alice", "correct horse", "", false},
		{"space in username", "al ice", "correct horse", "Alice", false},
		{"long username", strings.Repeat("a", MaxUsernameLen+1), "correct horse", "Alice", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := SignUpForm(c.username, c.password, c.fullName)
			if c.valid && err != nil {
				t.Errorf("unexpected error: %s", err)
			} else if !c.valid && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoginForm(t *testing.T) {
	if err := LoginForm("alice", "x"); err != nil {
		t.Errorf("short passwords are accepted on login, got: %s", err)
	}
	if err := LoginForm("alice", ""); err == nil {
		t.Error("expected an error for an empty password")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"plain title", "plain title"},
		{"  spaced \t out  ", "spaced out"},
		{"line\nbreak", "line break"},
		{"Why the <canvas> element is slow", "Why the <canvas> element is slow"},
		{"<b>bold</b> move", "<b>bold</b> move"},
		{"Fish & Chips", "Fish & Chips"},
		{"a &lt; b", "a &lt; b"},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.expected {
			t.Errorf("Normalize(%q): expected %q, got %q", c.in, c.expected, got)
		}
	}
}
