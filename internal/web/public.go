package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yanizio/reing/internal/head"
	"github.com/yanizio/reing/internal/logger"
	"github.com/yanizio/reing/internal/metrics"
	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/requestinfo"
	"github.com/yanizio/reing/internal/view"
)

// maxFormBytes caps question and answer POST bodies.
const maxFormBytes = 64 << 10

// base fills the per-request fields every page needs.
func (h *handler) base(r *http.Request) view.Data {
	d := view.Data{Query: r.URL.Query().Get("q")}
	if tok, err := h.CSRF.Token(); err == nil {
		d.CSRF = tok
	} else {
		logger.FromContext(r.Context()).Errorw("csrf token", "err", err)
	}
	return d
}

func (h *handler) timeline(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("page"))
	d := h.base(r)
	if r.URL.Query().Get("posted") == "1" {
		d.Flash = "質問を受け付けました"
	}
	h.renderTimeline(w, r, http.StatusOK, n, d)
}

func (h *handler) renderTimeline(w http.ResponseWriter, r *http.Request, status, number int, d view.Data) {
	total, err := h.Repo.CountAnsweredQuestions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page := qa.NewPage(number, h.PageSize, total)

	qs, err := h.Repo.AnsweredQuestions(r.Context(), page.Offset(), page.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d.Page = &page
	d.Questions = qs
	h.render(w, r, status, "timeline", d)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	d := h.base(r)
	qs, err := h.Repo.SearchQuestions(r.Context(), d.Query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d.Questions = qs
	h.render(w, r, http.StatusOK, "search", d)
}

// submitQuestion stores a visitor question.  Blank bodies re-render the
// timeline with the error; crawlers are refused outright.
func (h *handler) submitQuestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := h.CSRF.Check(r); err != nil {
		h.fail(w, r, err)
		return
	}
	info := requestinfo.For(r)
	if info.UA.IsBot {
		logger.FromContext(r.Context()).Infow("bot question rejected", "ip", info.IP, "ua", r.UserAgent())
		h.fail(w, r, errBot)
		return
	}

	body := r.PostFormValue("body")
	q, err := h.Repo.StoreQuestion(r.Context(), body, info.IP)
	if errors.Is(err, qa.ErrBlankBody) {
		d := h.base(r)
		d.Error = "質問を入力してください"
		d.Draft = body
		h.renderTimeline(w, r, http.StatusBadRequest, 0, d)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.QuestionsStored.Inc()
	logger.FromContext(r.Context()).Infow("question stored", "id", q.ID, "ip", q.IPAddress)
	if h.Notifier != nil {
		if err := h.Notifier.EnqueueQuestion(q); err != nil {
			logger.FromContext(r.Context()).Errorw("question notification not queued", "id", q.ID, "err", err)
		}
	}
	http.Redirect(w, r, "/?posted=1", http.StatusSeeOther)
}

// publicQuestion loads an answered, visible question or returns
// ErrNotFound.
func (h *handler) publicQuestion(r *http.Request) (qa.Question, error) {
	id, err := idParam(r)
	if err != nil {
		return qa.Question{}, err
	}
	q, err := h.Repo.FindQuestion(r.Context(), id)
	if err != nil {
		return qa.Question{}, err
	}
	if !q.Answered() || q.Hidden {
		return qa.Question{}, qa.ErrNotFound
	}
	return q, nil
}

// neighbours returns the next and previous answered questions, nil at
// either boundary.
func (h *handler) neighbours(r *http.Request, id int64) (next, prev *qa.Question, err error) {
	n, err := h.Repo.FindNextQuestion(r.Context(), id)
	switch {
	case err == nil:
		next = &n
	case !errors.Is(err, qa.ErrNotFound):
		return nil, nil, err
	}
	p, err := h.Repo.FindPrevQuestion(r.Context(), id)
	switch {
	case err == nil:
		prev = &p
	case !errors.Is(err, qa.ErrNotFound):
		return nil, nil, err
	}
	return next, prev, nil
}

func (h *handler) questionDetail(w http.ResponseWriter, r *http.Request) {
	q, err := h.publicQuestion(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	next, prev, err := h.neighbours(r, q.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := h.base(r)
	d.Question, d.Next, d.Prev = &q, next, prev
	d.Head = h.shareTags(q)
	h.render(w, r, http.StatusOK, "question", d)
}

// questionCard serves the JPEG for any visible question so the admin can
// preview it before answering.
func (h *handler) questionCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.Repo.FindQuestion(r.Context(), id)
	if err == nil && q.Hidden {
		err = qa.ErrNotFound
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.Cards == nil {
		h.fail(w, r, qa.ErrNotFound)
		return
	}

	img, err := h.Cards.For(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

// shareTags describes the answer page for link previews.  Without a
// configured domain there is no absolute URL to advertise.
func (h *handler) shareTags(q qa.Question) *head.Builder {
	if h.Domain == "" {
		return nil
	}
	page := fmt.Sprintf("https://%s/question/%d", h.Domain, q.ID)
	img := ""
	if h.Cards != nil {
		img = page + "/card.jpg"
	}
	return head.New().Share(q.Body, q.Answer.Body, page, img)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, name string, d view.Data) {
	if err := h.Views.Render(w, status, name, d); err != nil {
		logger.FromContext(r.Context()).Errorw("render failed", "page", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
