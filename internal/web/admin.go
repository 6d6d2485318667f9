package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yanizio/reing/internal/logger"
	"github.com/yanizio/reing/internal/metrics"
	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/view"
)

func (h *handler) adminData(r *http.Request) view.Data {
	d := h.base(r)
	d.Admin = true
	return d
}

func (h *handler) adminQueue(w http.ResponseWriter, r *http.Request) {
	qs, err := h.Repo.NotAnsweredQuestions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := h.adminData(r)
	d.Questions = qs
	h.render(w, r, http.StatusOK, "admin", d)
}

func (h *handler) adminQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.Repo.FindQuestion(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := h.adminData(r)
	d.Question = &q
	h.render(w, r, http.StatusOK, "admin_question", d)
}

// adminAnswer stores the answer and queues the social post.
func (h *handler) adminAnswer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := h.CSRF.Check(r); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body := r.PostFormValue("body")
	q, err := h.Repo.StoreAnswer(r.Context(), id, body)
	if errors.Is(err, qa.ErrBlankBody) {
		h.reshowAnswerForm(w, r, id, body)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.AnswersStored.Inc()
	logger.FromContext(r.Context()).Infow("answer stored", "question", q.ID, "answer", q.Answer.ID)
	if h.Notifier != nil {
		if err := h.Notifier.EnqueueAnswer(q); err != nil {
			logger.FromContext(r.Context()).Errorw("answer notification not queued", "question", q.ID, "err", err)
		}
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *handler) reshowAnswerForm(w http.ResponseWriter, r *http.Request, id int64, draft string) {
	q, err := h.Repo.FindQuestion(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := h.adminData(r)
	d.Question = &q
	d.Draft = draft
	d.Error = "回答を入力してください"
	h.render(w, r, http.StatusBadRequest, "admin_question", d)
}

func (h *handler) adminHide(w http.ResponseWriter, r *http.Request) {
	if err := h.CSRF.Check(r); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Repo.HideQuestion(r.Context(), id); err != nil {
		h.fail(w, r, fmt.Errorf("hide %d: %w", id, err))
		return
	}
	logger.FromContext(r.Context()).Infow("question hidden", "id", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
