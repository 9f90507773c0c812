package web

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/alexedwards/scs"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/snooze/internal/client"
	"github.com/sidereusnuntius/snooze/internal/config"
	"github.com/sidereusnuntius/snooze/internal/domain"
	"github.com/sidereusnuntius/snooze/internal/service"
	"github.com/sidereusnuntius/snooze/templates"
)

const SessionKey = "user"

const maxFormSize = 64 * 1024

const (
	LoginRequiredMessage  = "Please log in first."
	FavoriteLoginMessage  = "Please log in to add a story to favorites."
	SessionExpiredMessage = "Your session has expired, please log in again."
	InvalidLoginMessage   = "Invalid username or password."
	UsernameTakenMessage  = "username already taken"
)

// Session is what the session cookie holds: enough to resolve the user on each request, never the user
// itself.
type Session struct {
	Username string
	Token    string
}

func (s Session) Credentials() domain.Credentials {
	return domain.Credentials{Username: s.Username, Token: s.Token}
}

// NewSessionManager returns the manager of the encrypted session cookie, whose attributes come from cfg.
func NewSessionManager(cfg *config.Configuration, key string) *scs.Manager {
	manager := scs.NewCookieManager(key)
	manager.Lifetime(cfg.SessionLifetime)
	manager.Secure(cfg.SecureCookies)
	manager.HttpOnly(true)
	manager.SameSite(cfg.SameSite)
	return manager
}

func init() {
	gob.Register(Session{})
}

type key struct{}

func GetSession(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(key{}).(Session)
	return s, ok
}

func SessionMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			zero := Session{}
			session := handler.SessionManager.Load(r)
			var s Session
			err := session.GetObject(SessionKey, &s)
			if err != nil {
				log.Debug().Err(err).Msg("discarding unreadable session")
			}
			if s != zero && err == nil {
				ctx := r.Context()
				ctx = context.WithValue(ctx, key{}, s)
				r = r.WithContext(ctx)
			}

			h.ServeHTTP(w, r)
		})
	}
}

// AuthenticatedMiddleware sends requests without a session to the login page. Fragment requests are
// answered with an alert instead.
func AuthenticatedMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSession(r.Context()); ok {
				h.ServeHTTP(w, r)
				return
			}
			handler.loginRequired(w, r, LoginRequiredMessage)
		})
	}
}

func (h *Handler) loginRequired(w http.ResponseWriter, r *http.Request, message string) {
	if isFragment(r) {
		h.alert(w, r, http.StatusUnauthorized, message, nil)
		return
	}
	http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
}

// currentUser resolves the user behind the request's session. A session whose token the backend rejects is
// destroyed and the request treated as anonymous.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool, error) {
	ctx := r.Context()
	s, ok := GetSession(ctx)
	if !ok {
		return domain.User{}, false, nil
	}

	u, err := h.service.GetUser(ctx, s.Credentials())
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			log.Info().Str("user", s.Username).Msg("session rejected by the stories api")
			h.destroySession(w, r)
			return domain.User{}, false, nil
		}
		return domain.User{Username: s.Username, Token: s.Token}, true, err
	}
	return u, true, nil
}

func (h *Handler) destroySession(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionManager.Load(r).Destroy(w); err != nil {
		log.Error().Err(err).Msg("failed to destroy session")
	}
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u domain.User) error {
	return h.SessionManager.Load(r).PutObject(w, SessionKey, Session{
		Username: u.Username,
		Token:    u.Token,
	})
}

func Logout(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s, ok := GetSession(ctx); ok {
			handler.service.Logout(ctx, s.Credentials())
		}
		handler.destroySession(w, r)
		redirect(w, r, "/")
	}
}

func Login(handler *Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseForm(); err != nil {
			handler.renderLogin(w, r, http.StatusBadRequest, "", "failed to parse form body")
			return
		}

		username := r.Form.Get("username")
		password := r.Form.Get("password")
		u, err := handler.service.Login(ctx, username, password)
		if err != nil {
			log.Info().Err(err).Str("user", username).Msg("login failed")
			handler.renderLogin(w, r, GetCode(err), username, loginMessage(err))
			return
		}

		if err = handler.startSession(w, r, u); err != nil {
			log.Error().Err(err).Msg("failed to create session")
			handler.renderLogin(w, r, http.StatusInternalServerError, username, "failed to create and load session")
			return
		}
		redirect(w, r, "/")
	})
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNotFound):
		return InvalidLoginMessage
	default:
		return userMessage(err)
	}
}

func GetLogin(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		handler.renderLogin(w, r, http.StatusOK, "", "")
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, username, alert string) {
	h.render(w, r, status, templates.PageData{
		PageTitle: "Login",
		Place:     templates.PlaceAuth,
		Alert:     alert,
		Child:     templates.AuthForms(username),
	})
}
