package web

import (
	"time"

	"github.com/alexedwards/scs"
	"github.com/sidereusnuntius/snooze/internal/config"
	"github.com/sidereusnuntius/snooze/internal/service"
)

const (
	LoginRoute     = "/login"
	SignUpRoute    = "/signup"
	LogoutRoute    = "/logout"
	FavoritesRoute = "/favorites"
	MyStoriesRoute = "/my-stories"
	SubmitRoute    = "/submit"
	StoriesPath    = "/stories"
)

type Handler struct {
	Config         *config.Configuration
	service        service.Service
	SessionManager *scs.Manager
	// Now is the clock used to render the age of stories.
	Now func() time.Time
}

func New(config *config.Configuration, service service.Service, manager *scs.Manager) Handler {
	return Handler{
		Config:         config,
		service:        service,
		SessionManager: manager,
		Now:            time.Now,
	}
}
