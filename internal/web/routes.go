package web

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

func (h *Handler) Mount(r chi.Router) {
	authenticated := AuthenticatedMiddleware(h)
	r.Use(middleware.RealIP, middleware.Recoverer)
	r.Use(SessionMiddleware(h))

	r.Get("/", AllStories(h))
	r.Get(LoginRoute, GetLogin(h))
	r.Post(LoginRoute, Login(h))
	r.Get(SignUpRoute, GetSignup(h))
	r.Post(SignUpRoute, SignUp(h))
	r.Get(LogoutRoute, Logout(h))
	r.Post(LogoutRoute, Logout(h))

	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Get(FavoritesRoute, Favorites(h))
		r.Get(MyStoriesRoute, MyStories(h))
		r.Get(SubmitRoute, SubmitView(h))
		r.Post(StoriesPath, SubmitStory(h))
	})

	r.Route(StoriesPath+"/{id}", func(r chi.Router) {
		r.Get("/", GetStory(h))
		// Anonymous users get an alert from the handler itself.
		r.Post("/favorite", ToggleFavorite(h))
		r.With(authenticated).Post("/delete", DeleteStory(h))
		r.With(authenticated).Delete("/", DeleteStory(h))
	})

	h.MountStaticRoutes(r)
	r.Handle("/metrics", promhttp.Handler())
}

func (h *Handler) MountStaticRoutes(r chi.Router) {
	wd, _ := os.Getwd()
	wd = filepath.Join(wd, h.Config.StaticDir)
	if filepath.IsAbs(h.Config.StaticDir) {
		wd = h.Config.StaticDir
	}
	f := os.DirFS(wd)

	fileServer := http.FileServer(http.FS(f))
	r.Handle("/static/{name}", http.StripPrefix(
		"/static/",
		fileServer,
	))
}

// RequestLogger logs every request handled by next, along with an id also returned to the client.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		})
		return hlog.NewHandler(logger)(
			hlog.RequestIDHandler("request_id", "X-Request-Id")(access(next)),
		)
	}
}
