package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sidereusnuntius/snooze/internal/domain"
)

type storiesResponse struct {
	Stories []domain.Story `json:"stories"`
}

type storyResponse struct {
	Message string       `json:"message,omitempty"`
	Story   domain.Story `json:"story"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type addStoryBody struct {
	Token string          `json:"token"`
	Story domain.NewStory `json:"story"`
}

func (c *HttpClient) GetStories(ctx context.Context, skip, limit int) ([]domain.Story, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var res storiesResponse
	err := c.do(ctx, request{
		endpoint:   "stories.list",
		method:     http.MethodGet,
		path:       []string{"stories"},
		query:      query,
		idempotent: true,
	}, &res)
	return res.Stories, err
}

func (c *HttpClient) GetStory(ctx context.Context, id string) (domain.Story, error) {
	var res storyResponse
	err := c.do(ctx, request{
		endpoint:   "stories.get",
		method:     http.MethodGet,
		path:       []string{"stories", id},
		idempotent: true,
	}, &res)
	return res.Story, err
}

func (c *HttpClient) AddStory(ctx context.Context, creds domain.Credentials, story domain.NewStory) (domain.Story, error) {
	var res storyResponse
	err := c.do(ctx, request{
		endpoint: "stories.add",
		method:   http.MethodPost,
		path:     []string{"stories"},
		body: addStoryBody{
			Token: creds.Token,
			Story: story,
		},
	}, &res)
	return res.Story, err
}

func (c *HttpClient) DeleteStory(ctx context.Context, creds domain.Credentials, id string) (domain.Story, error) {
	var res storyResponse
	err := c.do(ctx, request{
		endpoint: "stories.delete",
		method:   http.MethodDelete,
		path:     []string{"stories", id},
		body:     tokenBody{Token: creds.Token},
	}, &res)
	return res.Story, err
}
