package domain

import "testing"

func favorites(ids ...string) []Story {
	stories := make([]Story, 0, len(ids))
	for _, id := range ids {
		stories = append(stories, Story{StoryID: id})
	}
	return stories
}

func TestIsFavorite(t *testing.T) {
	cases := []struct {
		name      string
		favorites []Story
		id        string
		expected  bool
	}{
		{"empty favorites", nil, "a", false},
		{"single, present", favorites("a"), "a", true},
		{"single, absent", favorites("a"), "b", false},
		{"multiple, first", favorites("a", "b", "c"), "a", true},
		{"multiple, last", favorites("a", "b", "c"), "c", true},
		{"multiple, absent", favorites("a", "b", "c"), "d", false},
		{"empty id", favorites("a"), "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u := User{Username: "alice", Favorites: c.favorites}
			if got := u.IsFavorite(c.id); got != c.expected {
				t.Errorf("IsFavorite(%q): expected %t, got %t", c.id, c.expected, got)
			}
		})
	}
}

func TestIsOwn(t *testing.T) {
	u := User{OwnStories: favorites("mine")}
	if !u.IsOwn("mine") {
		t.Error("expected story to be recognized as the user's own")
	}
	if u.IsOwn("theirs") {
		t.Error("story posted by someone else recognized as own")
	}
}

func TestFavoriteSet(t *testing.T) {
	var nobody *User
	if len(nobody.FavoriteSet()) != 0 {
		t.Error("nil user should have no favorites")
	}

	u := &User{Favorites: favorites("a", "b")}
	set := u.FavoriteSet()
	if _, ok := set["a"]; !ok || len(set) != 2 {
		t.Errorf("unexpected favorite set %v", set)
	}
}

func TestCredentials(t *testing.T) {
	u := User{Username: "alice", Token: "t0k3n"}
	c := u.Credentials()
	if !c.Valid() {
		t.Errorf("expected valid credentials, got %+v", c)
	}
	if (Credentials{Username: "alice"}).Valid() {
		t.Error("credentials without token should not be valid")
	}
}
