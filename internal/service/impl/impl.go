package core

import (
	"errors"
	"fmt"
	"sync"

	"codeberg.org/gruf/go-mutexes"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/sidereusnuntius/snooze/internal/client"
	"github.com/sidereusnuntius/snooze/internal/config"
	"github.com/sidereusnuntius/snooze/internal/domain"
	"github.com/sidereusnuntius/snooze/internal/service"
	"github.com/sidereusnuntius/snooze/internal/state"
)

const MaxCachedUsers = 1024

type AppService struct {
	Config config.Configuration
	API    client.API
	// users caches resolved users by username.
	users cache.Cache[string, domain.User]
	// locks serializes favorite changes by user and story.
	locks *mutexes.MutexMap

	mu      sync.RWMutex
	stories domain.StoryList
}

func New(state state.State) service.Service {
	locks := mutexes.MutexMap{}
	return &AppService{
		Config: state.Config,
		API:    state.API,
		users: cache.NewCache[string, domain.User]().
			WithTTL(state.Config.UserCacheTTL).
			WithMaxKeys(MaxCachedUsers),
		locks: &locks,
	}
}

// invalid wraps validation errors so that callers can recognize them with errors.Is.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
}

// unauthenticated translates the API's rejection of a token into ErrUnauthenticated.
func unauthenticated(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", service.ErrUnauthenticated, err)
	}
	return err
}
