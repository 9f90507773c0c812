package domain

import "testing"

func TestHostname(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		expected string
	}{
		{"plain", "http://x.com", "x.com"},
		{"with path", "https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"with port", "http://localhost:8080/a", "localhost:8080"},
		{"subdomain", "https://www.example.org/", "www.example.org"},
		{"no scheme", "example.org/path", "example.org/path"},
		{"empty", "", ""},
		{"unparsable", "http://[::1", "http://[::1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := Story{URL: c.url}
			if h := s.Hostname(); h != c.expected {
				t.Errorf("expected hostname %q, got %q", c.expected, h)
			}
		})
	}
}

func TestStoryListFind(t *testing.T) {
	list := NewStoryList([]Story{
		{StoryID: "a", Title: "first"},
		{StoryID: "b", Title: "second"},
	})

	if list.Len() != 2 {
		t.Fatalf("expected 2 stories, got %d", list.Len())
	}

	s, ok := list.Find("b")
	if !ok || s.Title != "second" {
		t.Errorf("expected to find story b, got %+v (found: %t)", s, ok)
	}
	if list.Contains("c") {
		t.Error("list should not contain story c")
	}
	if (StoryList{}).Contains("a") {
		t.Error("empty list should not contain anything")
	}
}
