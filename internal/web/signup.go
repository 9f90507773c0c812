package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/snooze/internal/client"
	"github.com/sidereusnuntius/snooze/internal/service"
	"github.com/sidereusnuntius/snooze/templates"
)

func SignUp(s *Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		err := r.ParseForm()
		if err != nil {
			s.renderSignup(w, r, http.StatusBadRequest, "failed to parse form body")
			return
		}

		username := r.Form.Get("username")
		password := r.Form.Get("password")
		name := r.Form.Get("name")

		u, err := s.service.SignUp(ctx, username, password, name)
		if err != nil {
			log.Info().Err(err).Str("user", username).Msg("signup failed")
			message := userMessage(err)
			if errors.Is(err, client.ErrConflict) {
				message = UsernameTakenMessage
			}
			s.renderSignup(w, r, GetCode(err), message)
			return
		}

		if err = s.startSession(w, r, u); err != nil {
			log.Error().Err(err).Msg("failed to create session")
			s.renderSignup(w, r, http.StatusInternalServerError, "failed to create and load session")
			return
		}
		redirect(w, r, "/")
	})
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, status int, alert string) {
	h.render(w, r, status, templates.PageData{
		PageTitle: "Signup",
		Place:     templates.PlaceAuth,
		Alert:     alert,
		Child:     templates.AuthForms(""),
	})
}

// GetSignup shows the same page as GetLogin, which carries both forms.
func GetSignup(handler *Handler) http.HandlerFunc {
	return GetLogin(handler)
}

// GetCode maps errors returned by the service to the status of the response.
func GetCode(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, client.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, client.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, client.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, client.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, client.ErrUnavailable), errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is what an alert tells the user about err.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
		return strings.ReplaceAll(msg, "\n", "; ")
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, client.ErrUnauthorized):
		return SessionExpiredMessage
	case errors.Is(err, client.ErrNotFound):
		return "Story not found."
	case errors.Is(err, client.ErrForbidden):
		return "You can only delete your own stories."
	case GetCode(err) == http.StatusBadGateway:
		return "The stories service is unavailable, please try again later."
	default:
		return "Something went wrong, please try again."
	}
}
