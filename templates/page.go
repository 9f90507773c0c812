package templates

import (
	"github.com/a-h/templ"
)

//go:generate go tool templ generate

type Place int

const (
	PlaceAll Place = iota
	PlaceFavorites
	PlaceOwn
	PlaceSubmit
	PlaceAuth
	PlaceStory
)

type PageData struct {
	SiteName      string
	Authenticated bool
	Username      string
	PageTitle     string
	Place         Place
	// Alert, if not empty, is displayed above the page's content.
	Alert string
	Child templ.Component
}

func (d PageData) title() string {
	if d.PageTitle == "" {
		return d.SiteName
	}
	return d.PageTitle + " | " + d.SiteName
}
