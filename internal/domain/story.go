package domain

import (
	"net/url"
	"time"
)

// Story is a single submitted link, as returned by the stories API.
type Story struct {
	StoryID   string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Hostname returns the host part of the story's URL, port included. If the URL cannot be parsed or has no
// host, the raw URL is returned so that something is still displayed.
func (s Story) Hostname() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" {
		return s.URL
	}
	return u.Host
}

// NewStory holds the fields a user fills in when submitting a story.
type NewStory struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// StoryList is an ordered collection of stories, kept in the order the API returned them.
type StoryList struct {
	Stories []Story
}

func NewStoryList(stories []Story) StoryList {
	return StoryList{Stories: stories}
}

func (l StoryList) Len() int {
	return len(l.Stories)
}

// Find returns the story with the given id.
func (l StoryList) Find(id string) (Story, bool) {
	for _, s := range l.Stories {
		if s.StoryID == id {
			return s, true
		}
	}
	return Story{}, false
}

func (l StoryList) Contains(id string) bool {
	_, ok := l.Find(id)
	return ok
}
