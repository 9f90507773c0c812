package service

import (
	"errors"
)

//go:generate go tool mockgen -destination=../mocks/mock_service.go -package=mocks github.com/sidereusnuntius/snooze/internal/service Service

var (
	ErrInvalidInput    = errors.New("invalid")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type Service interface {
	StoryService
	UserService
}
