package core

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/snooze/internal/domain"
	"github.com/sidereusnuntius/snooze/internal/service"
	"github.com/sidereusnuntius/snooze/internal/validate"
)

func (s *AppService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if err := validate.LoginForm(username, password); err != nil {
		return domain.User{}, invalid(err)
	}

	u, err := s.API.Login(ctx, username, password)
	if err != nil {
		return domain.User{}, err
	}

	s.users.Set(u.Username, u, 0)
	log.Info().Str("user", u.Username).Msg("user logged in")
	return u, nil
}

func (s *AppService) SignUp(ctx context.Context, username, password, name string) (domain.User, error) {
	username = strings.TrimSpace(username)
	name = validate.Normalize(name)
	if err := validate.SignUpForm(username, password, name); err != nil {
		return domain.User{}, invalid(err)
	}

	u, err := s.API.SignUp(ctx, username, password, name)
	if err != nil {
		return domain.User{}, err
	}

	s.users.Set(u.Username, u, 0)
	log.Info().Str("user", u.Username).Msg("user signed up")
	return u, nil
}

func (s *AppService) GetUser(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if !creds.Valid() {
		return domain.User{}, service.ErrUnauthenticated
	}

	if u, ok := s.users.Get(creds.Username); ok && u.Token == creds.Token {
		return u, nil
	}

	u, err := s.API.GetUser(ctx, creds)
	if err != nil {
		return domain.User{}, unauthenticated(err)
	}

	s.users.Set(creds.Username, u, 0)
	return u, nil
}

func (s *AppService) Logout(ctx context.Context, creds domain.Credentials) {
	s.users.Invalidate(creds.Username)
	log.Info().Str("user", creds.Username).Msg("user logged out")
}

func (s *AppService) AddFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error) {
	if err := checkFavorite(creds, storyID); err != nil {
		return domain.User{}, err
	}

	unlock := s.locks.Lock(favoriteKey(creds, storyID))
	defer unlock()
	return s.addFavorite(ctx, creds, storyID)
}

func (s *AppService) RemoveFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error) {
	if err := checkFavorite(creds, storyID); err != nil {
		return domain.User{}, err
	}

	unlock := s.locks.Lock(favoriteKey(creds, storyID))
	defer unlock()
	return s.removeFavorite(ctx, creds, storyID)
}

func (s *AppService) ToggleFavorite(ctx context.Context, creds domain.Credentials, storyID string) (u domain.User, favorite bool, err error) {
	if err = checkFavorite(creds, storyID); err != nil {
		return
	}

	unlock := s.locks.Lock(favoriteKey(creds, storyID))
	defer unlock()

	// Decided while holding the lock, so a second toggle sees the outcome of the first.
	u, err = s.GetUser(ctx, creds)
	if err != nil {
		return
	}

	if u.IsFavorite(storyID) {
		u, err = s.removeFavorite(ctx, creds, storyID)
	} else {
		u, err = s.addFavorite(ctx, creds, storyID)
	}
	if err != nil {
		return
	}
	return u, u.IsFavorite(storyID), nil
}

func (s *AppService) addFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error) {
	u, err := s.API.AddFavorite(ctx, creds, storyID)
	return s.favoriteChanged(creds, storyID, u, err)
}

func (s *AppService) removeFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error) {
	u, err := s.API.RemoveFavorite(ctx, creds, storyID)
	return s.favoriteChanged(creds, storyID, u, err)
}

func (s *AppService) favoriteChanged(creds domain.Credentials, storyID string, u domain.User, err error) (domain.User, error) {
	if err != nil {
		// The outcome is unknown; the next read goes to the API.
		s.users.Invalidate(creds.Username)
		log.Error().Err(err).
			Str("user", creds.Username).
			Str("story", storyID).
			Msg("failed to update favorites")
		return domain.User{}, unauthenticated(err)
	}

	s.users.Set(creds.Username, u, 0)
	log.Debug().
		Str("user", creds.Username).
		Str("story", storyID).
		Bool("favorite", u.IsFavorite(storyID)).
		Msg("favorites updated")
	return u, nil
}

func checkFavorite(creds domain.Credentials, storyID string) error {
	if !creds.Valid() {
		return service.ErrUnauthenticated
	}
	return invalid(validateID(storyID))
}

func favoriteKey(creds domain.Credentials, storyID string) string {
	return creds.Username + "/" + storyID
}

func validateID(id string) error {
	if id == "" {
		return errors.New("empty story id")
	}
	if strings.ContainsAny(id, "/?# ") {
		return errors.New("malformed story id")
	}
	return nil
}
