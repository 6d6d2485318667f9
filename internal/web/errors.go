package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/reing/internal/csrf"
	"github.com/yanizio/reing/internal/logger"
	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/view"
)

// errBot marks question submissions from crawlers.
var errBot = errors.New("web: automated submission")

// statusFor maps domain errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, qa.ErrBlankBody):
		return http.StatusBadRequest
	case errors.Is(err, qa.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, qa.ErrAlreadyAnswered):
		return http.StatusConflict
	case errors.Is(err, csrf.ErrInvalid), errors.Is(err, errBot):
		return http.StatusForbidden
	case errors.Is(err, qa.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail renders the error page for err.  5xx are logged at ERROR.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		logger.FromContext(r.Context()).Errorw("request failed", "path", r.URL.Path, "err", err)
	}
	if rerr := h.Views.Render(w, status, "error", view.Data{Status: status}); rerr != nil {
		http.Error(w, http.StatusText(status), status)
	}
}

// idParam parses {id}; a malformed id reads as not found.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, qa.ErrNotFound
	}
	return id, nil
}
