package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/hlog"
	"github.com/sidereusnuntius/snooze/templates"
)

// isFragment reports whether the request was made by htmx, which expects a piece of markup to swap into the
// page instead of a full page.
func isFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isFragment(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// render writes a full page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, d templates.PageData) {
	d.SiteName = h.Config.Name
	h.write(w, r, status, templates.Layout(d))
}

// fragment writes components one after the other, for htmx to swap into the page.
func (h *Handler) fragment(w http.ResponseWriter, r *http.Request, status int, c ...templ.Component) {
	h.write(w, r, status, templates.Sections(c...))
}

// alert writes c, if any, along with an alert swapped into the page's alerts. Without c, htmx leaves the
// target of the request untouched.
func (h *Handler) alert(w http.ResponseWriter, r *http.Request, status int, message string, c templ.Component) {
	if c == nil {
		w.Header().Set("HX-Reswap", "none")
	}
	h.fragment(w, r, status, c, templates.OOBAlert(message))
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to render response")
	}
}
