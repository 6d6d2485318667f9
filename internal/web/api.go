package web

import (
	"encoding/json"
	"net/http"
	"time"
)

type questionJSON struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type answerJSON struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type detailJSON struct {
	Question questionJSON `json:"question"`
	Answer   answerJSON   `json:"answer"`
	Next     *int64      `json:"next"`
	Prev     *int64      `json:"prev"`
}

// apiQuestion returns one answered question with its neighbours' ids.
func (h *handler) apiQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.publicQuestion(r)
	if err != nil {
		h.failJSON(w, r, err)
		return
	}
	next, prev, err := h.neighbours(r, q.ID)
	if err != nil {
		h.failJSON(w, r, err)
		return
	}

	out := detailJSON{
		Question: questionJSON{ID: q.ID, Body: q.Body, CreatedAt: q.CreatedAt},
		Answer:   answerJSON{ID: q.Answer.ID, Body: q.Answer.Body, CreatedAt: q.Answer.CreatedAt},
	}
	if next != nil {
		out.Next = &next.ID
	}
	if prev != nil {
		out.Prev = &prev.ID
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) failJSON(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		h.Log.Errorw("api request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
