// internal/web/router.go
//
// HTTP surface of Reing.
//
// Context
// -------
// One chi router serves the public timeline, the question form, the
// answer detail pages and card images, a small JSON API, the Basic-auth
// admin panel, embedded static assets, /metrics, and /healthz.
//
// Middleware order (outermost first)
// ----------------------------------
//  1. chi RequestID + Recoverer.
//  2. RequestLog    – zap line per request, Prometheus counters.
//  3. ForceHTTPS    – 308 when X-Forwarded-Proto is http.
//  4. Security      – default security headers.
//  5. Enrich        – client IP and parsed UA in the context.
//
// Notes
// -----
// • Handlers never block on notifications; they only Enqueue.
// • Oxford commas, two spaces after periods.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/reing/internal/auth"
	"github.com/yanizio/reing/internal/csrf"
	"github.com/yanizio/reing/internal/middleware"
	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/repository"
	"github.com/yanizio/reing/internal/requestinfo"
	"github.com/yanizio/reing/internal/view"
)

// Notifier is the slice of notify.Dispatcher the handlers use.
type Notifier interface {
	EnqueueQuestion(q qa.Question) error
	EnqueueAnswer(q qa.Question) error
}

// CardSource returns the JPEG for a question.
type CardSource interface {
	For(q qa.Question) ([]byte, error)
}

// Pinger reports store reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Repo       repository.Repository
	Notifier   Notifier
	Cards      CardSource
	CSRF       *csrf.Signer
	Views      *view.Engine
	Admin      auth.Credentials
	DB         Pinger
	Log        *zap.SugaredLogger
	Domain     string
	PageSize   int
	ForceHTTPS bool
}

type handler struct {
	Deps
}

// NewRouter builds the full handler tree.
func NewRouter(d Deps) http.Handler {
	if d.PageSize <= 0 {
		d.PageSize = qa.DefaultPageSize
	}
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	h := &handler{Deps: d}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(d.Log))
	r.Use(middleware.ForceHTTPS(d.ForceHTTPS))
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	r.Get("/", h.timeline)
	r.Get("/search", h.search)
	r.Post("/questions", h.submitQuestion)
	r.Get("/question/{id}", h.questionDetail)
	r.Get("/question/{id}/card.jpg", h.questionCard)

	r.Get("/api/question/{id}", h.apiQuestion)

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Basic(d.Admin))
		r.Get("/", h.adminQueue)
		r.Get("/question/{id}", h.adminQuestion)
		r.Post("/question/{id}/answer", h.adminAnswer)
		r.Post("/question/{id}/hide", h.adminHide)
	})

	r.Handle("/static/*", staticHandler())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.healthz)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, r, qa.ErrNotFound)
	})
	return r
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
