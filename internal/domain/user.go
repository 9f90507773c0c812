package domain

import (
	"time"

	"github.com/samber/lo"
)

// Credentials identify an authenticated user to the stories API. They are what is kept in the session cookie.
type Credentials struct {
	Username string
	Token    string
}

func (c Credentials) Valid() bool {
	return c.Username != "" && c.Token != ""
}

// User is an authenticated user along with their favorite stories and the stories they posted.
type User struct {
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	Favorites  []Story   `json:"favorites"`
	OwnStories []Story   `json:"stories"`
	Token      string    `json:"-"`
}

func (u User) Credentials() Credentials {
	return Credentials{
		Username: u.Username,
		Token:    u.Token,
	}
}

// IsFavorite reports whether the story with the given id is among the user's favorites.
func (u User) IsFavorite(storyID string) bool {
	return lo.ContainsBy(u.Favorites, func(s Story) bool {
		return s.StoryID == storyID
	})
}

// IsOwn reports whether the user posted the story with the given id.
func (u User) IsOwn(storyID string) bool {
	return lo.ContainsBy(u.OwnStories, func(s Story) bool {
		return s.StoryID == storyID
	})
}

// FavoriteSet returns the ids of the user's favorite stories. A nil user has no favorites.
func (u *User) FavoriteSet() map[string]struct{} {
	set := map[string]struct{}{}
	if u == nil {
		return set
	}
	for _, s := range u.Favorites {
		set[s.StoryID] = struct{}{}
	}
	return set
}
