package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sidereusnuntius/snooze/internal/domain"
)

type userResponse struct {
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    domain.User `json:"user"`
}

type userFields struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authBody struct {
	User userFields `json:"user"`
}

func (c *HttpClient) Login(ctx context.Context, username, password string) (domain.User, error) {
	return c.authenticate(ctx, "login", userFields{
		Username: username,
		Password: password,
	})
}

func (c *HttpClient) SignUp(ctx context.Context, username, password, name string) (domain.User, error) {
	return c.authenticate(ctx, "signup", userFields{
		Username: username,
		Password: password,
		Name:     name,
	})
}

func (c *HttpClient) authenticate(ctx context.Context, path string, fields userFields) (domain.User, error) {
	var res userResponse
	err := c.do(ctx, request{
		endpoint: "users." + path,
		method:   http.MethodPost,
		path:     []string{path},
		body:     authBody{User: fields},
	}, &res)
	if err != nil {
		return domain.User{}, err
	}

	res.User.Token = res.Token
	return res.User, nil
}

func (c *HttpClient) GetUser(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	var res userResponse
	err := c.do(ctx, request{
		endpoint:   "users.get",
		method:     http.MethodGet,
		path:       []string{"users", creds.Username},
		query:      url.Values{"token": {creds.Token}},
		idempotent: true,
	}, &res)
	if err != nil {
		return domain.User{}, err
	}

	res.User.Token = creds.Token
	return res.User, nil
}

func (c *HttpClient) AddFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error) {
	return c.favorite(ctx, http.MethodPost, "users.favorites.add", creds, storyID)
}

func (c *HttpClient) RemoveFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error) {
	return c.favorite(ctx, http.MethodDelete, "users.favorites.remove", creds, storyID)
}

func (c *HttpClient) favorite(ctx context.Context, method, endpoint string, creds domain.Credentials, storyID string) (domain.User, error) {
	var res userResponse
	err := c.do(ctx, request{
		endpoint: endpoint,
		method:   method,
		path:     []string{"users", creds.Username, "favorites", storyID},
		body:     tokenBody{Token: creds.Token},
	}, &res)
	if err != nil {
		return domain.User{}, err
	}

	res.User.Token = creds.Token
	return res.User, nil
}
