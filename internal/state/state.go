package state

import (
	"github.com/sidereusnuntius/snooze/internal/client"
	"github.com/sidereusnuntius/snooze/internal/config"
)

type State struct {
	API    client.API
	Config config.Configuration
}
