package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/snooze/internal/domain"
	"github.com/sidereusnuntius/snooze/internal/service"
	"github.com/sidereusnuntius/snooze/internal/validate"
)

func (s *AppService) GetStories(ctx context.Context) (domain.StoryList, error) {
	stories, err := s.API.GetStories(ctx, 0, s.Config.StoriesLimit)
	if err != nil {
		return domain.StoryList{}, err
	}

	list := domain.NewStoryList(stories)
	s.setStories(list)
	log.Debug().Int("count", list.Len()).Msg("story list refreshed")
	return list, nil
}

func (s *AppService) Stories() domain.StoryList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stories
}

func (s *AppService) setStories(list domain.StoryList) {
	s.mu.Lock()
	s.stories = list
	s.mu.Unlock()
}

func (s *AppService) GetStory(ctx context.Context, id string) (domain.Story, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Story{}, invalid(validateID(id))
	}

	if story, ok := s.Stories().Find(id); ok {
		return story, nil
	}
	return s.API.GetStory(ctx, id)
}

func (s *AppService) AddStory(ctx context.Context, creds domain.Credentials, story domain.NewStory) (domain.Story, error) {
	if !creds.Valid() {
		return domain.Story{}, service.ErrUnauthenticated
	}

	story = domain.NewStory{
		Title:  validate.Normalize(story.Title),
		Author: validate.Normalize(story.Author),
		URL:    strings.TrimSpace(story.URL),
	}
	if err := validate.StoryForm(story.Title, story.Author, story.URL); err != nil {
		return domain.Story{}, invalid(err)
	}

	created, err := s.API.AddStory(ctx, creds, story)
	if err != nil {
		return domain.Story{}, unauthenticated(err)
	}

	s.users.Invalidate(creds.Username)
	log.Info().
		Str("story", created.StoryID).
		Str("user", creds.Username).
		Msg("story submitted")
	return created, nil
}

func (s *AppService) DeleteStory(ctx context.Context, creds domain.Credentials, id string) error {
	if !creds.Valid() {
		return service.ErrUnauthenticated
	}
	if err := validateID(id); err != nil {
		return invalid(err)
	}

	if _, err := s.API.DeleteStory(ctx, creds, id); err != nil {
		return unauthenticated(err)
	}

	// The story may be among the favorites of any user, not only its author's.
	s.users.Purge()
	// Only a fetch from the backend gives a new list; until then there is none.
	s.setStories(domain.StoryList{})

	log.Info().
		Str("story", id).
		Str("user", creds.Username).
		Msg("story deleted")
	return nil
}
