package service

import (
	"context"

	"github.com/sidereusnuntius/snooze/internal/domain"
)

type UserService interface {
	// Login and SignUp return the authenticated user with their token set; validation errors wrap
	// ErrInvalidInput.
	Login(ctx context.Context, username, password string) (domain.User, error)
	SignUp(ctx context.Context, username, password, name string) (domain.User, error)
	// GetUser resolves the user behind the credentials stored in a session, along with their favorites and
	// stories. Invalid credentials yield ErrUnauthenticated.
	GetUser(ctx context.Context, creds domain.Credentials) (domain.User, error)
	Logout(ctx context.Context, creds domain.Credentials)
	AddFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error)
	RemoveFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error)
	// ToggleFavorite adds the story to the user's favorites if it is not among them, and removes it otherwise.
	// Concurrent toggles of the same story by the same user are applied one after the other. favorite is the
	// state of the story once the operation is done.
	ToggleFavorite(ctx context.Context, creds domain.Credentials, storyID string) (u domain.User, favorite bool, err error)
}
