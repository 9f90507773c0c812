package web

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/sidereusnuntius/snooze/internal/domain"
	"github.com/sidereusnuntius/snooze/internal/service"
	"github.com/sidereusnuntius/snooze/templates"
)

// respond writes d's content as a fragment to htmx requests, and as a full page otherwise.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, d templates.PageData) {
	if !isFragment(r) {
		h.render(w, r, status, d)
		return
	}
	if d.Alert != "" {
		h.alert(w, r, status, d.Alert, d.Child)
		return
	}
	h.fragment(w, r, status, d.Child)
}

func viewer(u domain.User, ok bool) templates.PageData {
	if !ok {
		return templates.PageData{}
	}
	return templates.PageData{Authenticated: true, Username: u.Username}
}

// stories fetches the list of stories, falling back to the last one fetched if the backend fails.
func (h *Handler) stories(r *http.Request) (domain.StoryList, error) {
	list, err := h.service.GetStories(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to fetch stories")
		return h.service.Stories(), err
	}
	return list, nil
}

// failed fills in the status and alert of a page after err.
func failed(d *templates.PageData, status *int, err error) {
	*status = GetCode(err)
	d.Alert = userMessage(err)
}

func AllStories(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		u, ok, userErr := h.currentUser(w, r)
		d := viewer(u, ok)
		d.Place = templates.PlaceAll

		list, err := h.stories(r)
		if err != nil {
			failed(&d, &status, err)
		} else if userErr != nil {
			hlog.FromRequest(r).Error().Err(userErr).Msg("failed to resolve user")
			failed(&d, &status, userErr)
		}

		d.Child = templates.StoryList(list.Stories, templates.AllStories, u.FavoriteSet(), h.Now())
		h.respond(w, r, status, d)
	}
}

// userPage renders a page made from the user's data, which cannot be shown if the user is not resolved.
func (h *Handler) userPage(w http.ResponseWriter, r *http.Request, d templates.PageData, child func(domain.User) templ.Component) {
	status := http.StatusOK
	u, ok, err := h.currentUser(w, r)
	if !ok {
		h.loginRequired(w, r, SessionExpiredMessage)
		return
	}

	page := viewer(u, ok)
	page.PageTitle, page.Place, page.Alert = d.PageTitle, d.Place, d.Alert
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to resolve user")
		failed(&page, &status, err)
	} else {
		page.Child = child(u)
	}
	h.respond(w, r, status, page)
}

func Favorites(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.userPage(w, r, templates.PageData{PageTitle: "Favorites", Place: templates.PlaceFavorites}, h.favoritesList)
	}
}

func (h *Handler) favoritesList(u domain.User) templ.Component {
	return templates.StoryList(u.Favorites, templates.Favorites, u.FavoriteSet(), h.Now())
}

func MyStories(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.userPage(w, r, templates.PageData{PageTitle: "My stories", Place: templates.PlaceOwn}, h.ownList)
	}
}

func (h *Handler) ownList(u domain.User) templ.Component {
	return templates.StoryList(u.OwnStories, templates.OwnStories, u.FavoriteSet(), h.Now())
}

func SubmitView(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderSubmit(w, r, http.StatusOK, domain.NewStory{}, "")
	}
}

// renderSubmit shows the submission form, pre-filled with story, above the list of all stories.
func (h *Handler) renderSubmit(w http.ResponseWriter, r *http.Request, status int, story domain.NewStory, alert string) {
	u, ok, userErr := h.currentUser(w, r)
	if !ok {
		h.loginRequired(w, r, SessionExpiredMessage)
		return
	}
	d := viewer(u, ok)
	d.PageTitle, d.Place, d.Alert = "Submit", templates.PlaceSubmit, alert

	list, err := h.stories(r)
	if alert == "" {
		if err == nil {
			err = userErr
		}
		if err != nil {
			failed(&d, &status, err)
		}
	}

	d.Child = templates.Sections(
		templates.SubmitForm(story.Title, story.Author, story.URL),
		templates.StoryList(list.Stories, templates.AllStories, u.FavoriteSet(), h.Now()),
	)
	h.render(w, r, status, d)
}

// SubmitStory posts a story, then shows the list of all stories, fetched again so that it includes the new
// story along with any posted by others in the meantime.
func SubmitStory(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)
		s, _ := GetSession(ctx)

		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseForm(); err != nil {
			h.submitFailed(w, r, http.StatusBadRequest, domain.NewStory{}, "failed to parse form body")
			return
		}

		story := domain.NewStory{
			Title:  r.Form.Get("title"),
			Author: r.Form.Get("author"),
			URL:    r.Form.Get("url"),
		}
		created, err := h.service.AddStory(ctx, s.Credentials(), story)
		if err != nil {
			logger.Info().Err(err).Str("user", s.Username).Msg("failed to submit story")
			if errors.Is(err, service.ErrUnauthenticated) {
				h.destroySession(w, r)
				h.loginRequired(w, r, SessionExpiredMessage)
				return
			}
			h.submitFailed(w, r, GetCode(err), story, userMessage(err))
			return
		}

		if !isFragment(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		u, _, _ := h.currentUser(w, r)
		status := http.StatusOK
		list, err := h.stories(r)
		if err != nil {
			status = GetCode(err)
		}
		stories := list.Stories
		if !list.Contains(created.StoryID) {
			stories = append([]domain.Story{created}, stories...)
		}

		c := templates.StoryList(stories, templates.AllStories, u.FavoriteSet(), h.Now())
		if err != nil {
			h.alert(w, r, status, userMessage(err), c)
			return
		}
		h.fragment(w, r, status, c)
	}
}

func (h *Handler) submitFailed(w http.ResponseWriter, r *http.Request, status int, story domain.NewStory, message string) {
	if isFragment(r) {
		h.alert(w, r, status, message, nil)
		return
	}
	h.renderSubmit(w, r, status, story, message)
}

// DeleteStory removes one of the user's stories, then shows their stories again.
func DeleteStory(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s, _ := GetSession(ctx)
		id := chi.URLParam(r, "id")

		err := h.service.DeleteStory(ctx, s.Credentials(), id)
		if err != nil {
			hlog.FromRequest(r).Info().Err(err).Str("story", id).Msg("failed to delete story")
			if errors.Is(err, service.ErrUnauthenticated) {
				h.destroySession(w, r)
				h.loginRequired(w, r, SessionExpiredMessage)
				return
			}
			if isFragment(r) {
				h.alert(w, r, GetCode(err), userMessage(err), nil)
				return
			}
			h.userPage(w, r, templates.PageData{
				PageTitle: "My stories",
				Place:     templates.PlaceOwn,
				Alert:     userMessage(err),
			}, h.ownList)
			return
		}

		if !isFragment(r) {
			http.Redirect(w, r, MyStoriesRoute, http.StatusSeeOther)
			return
		}
		h.userPage(w, r, templates.PageData{}, h.ownList)
	}
}

var contextRoutes = map[string]string{
	templates.AllStories.Name: "/",
	templates.Favorites.Name:  FavoritesRoute,
	templates.OwnStories.Name: MyStoriesRoute,
}

// ToggleFavorite adds the story to the user's favorites or removes it from them, and renders the star once
// the backend has confirmed the change. Stars shown in the favorites list re-render the whole list, from
// which the story may have been removed.
func ToggleFavorite(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)
		id := chi.URLParam(r, "id")
		lc := templates.ContextByName(r.URL.Query().Get("ctx"))

		unchanged := func(favorite bool) templ.Component {
			if lc == templates.Favorites {
				return nil
			}
			return templates.Star(id, lc, favorite)
		}

		u, ok, err := h.currentUser(w, r)
		if !ok {
			if isFragment(r) {
				h.alert(w, r, http.StatusUnauthorized, FavoriteLoginMessage, unchanged(false))
			} else {
				http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
			}
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to resolve user")
			h.favoriteFailed(w, r, lc, err, nil)
			return
		}

		previous := u.IsFavorite(id)
		u, favorite, err := h.service.ToggleFavorite(ctx, u.Credentials(), id)
		if err != nil {
			logger.Error().Err(err).Str("story", id).Bool("favorite", previous).Msg("failed to toggle favorite")
			if errors.Is(err, service.ErrUnauthenticated) {
				h.destroySession(w, r)
			}
			h.favoriteFailed(w, r, lc, err, unchanged(previous))
			return
		}

		if !isFragment(r) {
			http.Redirect(w, r, contextRoutes[lc.Name], http.StatusSeeOther)
			return
		}
		if lc == templates.Favorites {
			h.fragment(w, r, http.StatusOK, h.favoritesList(u))
			return
		}
		h.fragment(w, r, http.StatusOK, templates.Star(id, lc, favorite))
	}
}

func (h *Handler) favoriteFailed(w http.ResponseWriter, r *http.Request, lc templates.ListContext, err error, c templ.Component) {
	if !isFragment(r) {
		http.Redirect(w, r, contextRoutes[lc.Name], http.StatusSeeOther)
		return
	}
	h.alert(w, r, GetCode(err), userMessage(err), c)
}

func GetStory(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		id := chi.URLParam(r, "id")
		u, ok, userErr := h.currentUser(w, r)
		d := viewer(u, ok)
		d.Place = templates.PlaceStory

		story, err := h.service.GetStory(r.Context(), id)
		if err != nil {
			hlog.FromRequest(r).Info().Err(err).Str("story", id).Msg("failed to fetch story")
			failed(&d, &status, err)
			h.respond(w, r, status, d)
			return
		}
		if userErr != nil {
			failed(&d, &status, userErr)
		}

		d.PageTitle = story.Title
		d.Child = templates.StoryDetail(story, u.IsFavorite(story.StoryID), h.Now())
		h.respond(w, r, status, d)
	}
}
