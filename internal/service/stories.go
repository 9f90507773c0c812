package service

import (
	"context"

	"github.com/sidereusnuntius/snooze/internal/domain"
)

type StoryService interface {
	// GetStories fetches the list of stories from the backend, replacing the one held by the service.
	GetStories(ctx context.Context) (domain.StoryList, error)
	// Stories returns the list obtained by the last successful call to GetStories.
	Stories() domain.StoryList
	GetStory(ctx context.Context, id string) (domain.Story, error)
	// AddStory normalizes and validates the submitted story before posting it on behalf of the user. Errors
	// caused by invalid fields wrap ErrInvalidInput.
	AddStory(ctx context.Context, creds domain.Credentials, story domain.NewStory) (domain.Story, error)
	DeleteStory(ctx context.Context, creds domain.Credentials, id string) error
}
