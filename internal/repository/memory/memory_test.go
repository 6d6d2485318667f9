package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yanizio/reing/internal/qa"
)

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func mustQuestion(t *testing.T, s *Store, body string) qa.Question {
	t.Helper()
	q, err := s.StoreQuestion(context.Background(), body, "127.0.0.1")
	if err != nil {
		t.Fatalf("StoreQuestion(%q): %v", body, err)
	}
	return q
}

func mustAnswer(t *testing.T, s *Store, id int64, body string) qa.Question {
	t.Helper()
	q, err := s.StoreAnswer(context.Background(), id, body)
	if err != nil {
		t.Fatalf("StoreAnswer(%d): %v", id, err)
	}
	return q
}

func TestBlankQuestionRejected(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, body := range []string{"", "  ", "　\n"} {
		if _, err := s.StoreQuestion(ctx, body, ""); !errors.Is(err, qa.ErrBlankBody) {
			t.Fatalf("StoreQuestion(%q) err = %v, want ErrBlankBody", body, err)
		}
	}
	if n := len(s.questions); n != 0 {
		t.Fatalf("row count = %d after blank submissions", n)
	}
}

func TestStoreQuestionDefaults(t *testing.T) {
	s := New(WithClock(tick()))
	q := mustQuestion(t, s, "hello")
	if q.ID != 1 || q.Hidden || q.Answered() || q.CreatedAt.IsZero() {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestAnswerVisibleThroughFind(t *testing.T) {
	s := New(WithClock(tick()))
	q := mustQuestion(t, s, "why?")
	mustAnswer(t, s, q.ID, "because")

	got, err := s.FindQuestion(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("FindQuestion: %v", err)
	}
	if got.Answer == nil || got.Answer.Body != "because" || got.Answer.QuestionID != q.ID {
		t.Fatalf("answer not attached: %+v", got.Answer)
	}
}

func TestAnswerMissingParent(t *testing.T) {
	s := New()
	if _, err := s.StoreAnswer(context.Background(), 42, "orphan"); !errors.Is(err, qa.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if s.nextAID != 0 {
		t.Fatal("answer id allocated for missing parent")
	}
}

func TestAnswerTwice(t *testing.T) {
	s := New()
	q := mustQuestion(t, s, "once")
	mustAnswer(t, s, q.ID, "first")
	if _, err := s.StoreAnswer(context.Background(), q.ID, "second"); !errors.Is(err, qa.ErrAlreadyAnswered) {
		t.Fatalf("err = %v, want ErrAlreadyAnswered", err)
	}
}

func TestBlankAnswerRejected(t *testing.T) {
	s := New()
	q := mustQuestion(t, s, "q")
	if _, err := s.StoreAnswer(context.Background(), q.ID, " "); !errors.Is(err, qa.ErrBlankBody) {
		t.Fatalf("err = %v, want ErrBlankBody", err)
	}
}

func TestSearch(t *testing.T) {
	s := New(WithClock(tick()))
	ctx := context.Background()
	a := mustQuestion(t, s, "好きな映画は?")
	mustAnswer(t, s, a.ID, "ジブリです")
	b := mustQuestion(t, s, "好きな音楽は?")
	mustAnswer(t, s, b.ID, "ジャズ")
	mustQuestion(t, s, "好きな映画 unanswered")

	cases := []struct {
		query string
		want  []int64
	}{
		{"映画", []int64{a.ID}},
		{"好き", []int64{b.ID, a.ID}},
		{"好き　ジブリ", []int64{a.ID}},
		{"映画 ジャズ", []int64{}},
		{"", []int64{b.ID, a.ID}},
		{"%", []int64{}},
	}
	for _, c := range cases {
		got, err := s.SearchQuestions(ctx, c.query)
		if err != nil {
			t.Fatalf("SearchQuestions(%q): %v", c.query, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("SearchQuestions(%q) = %d results, want %d", c.query, len(got), len(c.want))
		}
		for i := range got {
			if got[i].ID != c.want[i] {
				t.Errorf("SearchQuestions(%q)[%d] = %d, want %d", c.query, i, got[i].ID, c.want[i])
			}
		}
	}
}

func TestPaginationOrder(t *testing.T) {
	s := New(WithClock(tick()))
	ctx := context.Background()
	qa1 := mustQuestion(t, s, "A")
	qb := mustQuestion(t, s, "B")
	qc := mustQuestion(t, s, "C")
	mustAnswer(t, s, qa1.ID, "a")
	mustAnswer(t, s, qb.ID, "b")
	mustAnswer(t, s, qc.ID, "c")

	first, _ := s.AnsweredQuestions(ctx, 0, 2)
	if len(first) != 2 || first[0].Body != "C" || first[1].Body != "B" {
		t.Fatalf("page 0 = %v", bodies(first))
	}
	second, _ := s.AnsweredQuestions(ctx, 2, 2)
	if len(second) != 1 || second[0].Body != "A" {
		t.Fatalf("page 1 = %v", bodies(second))
	}
	beyond, _ := s.AnsweredQuestions(ctx, 10, 2)
	if len(beyond) != 0 {
		t.Fatalf("beyond end = %v", bodies(beyond))
	}
	if n, _ := s.CountAnsweredQuestions(ctx); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestHideKeepsDirectLookup(t *testing.T) {
	s := New()
	ctx := context.Background()
	q := mustQuestion(t, s, "spam")

	if err := s.HideQuestion(ctx, q.ID); err != nil {
		t.Fatalf("HideQuestion: %v", err)
	}
	got, err := s.FindQuestion(ctx, q.ID)
	if err != nil || !got.Hidden {
		t.Fatalf("FindQuestion after hide = %+v, %v", got, err)
	}
	queue, _ := s.NotAnsweredQuestions(ctx)
	if len(queue) != 0 {
		t.Fatalf("hidden question still queued: %v", bodies(queue))
	}
	if err := s.HideQuestion(ctx, 99); !errors.Is(err, qa.ErrNotFound) {
		t.Fatalf("hide missing: %v", err)
	}
}

func TestUpdateQuestionOnlyModeration(t *testing.T) {
	s := New()
	ctx := context.Background()
	q := mustQuestion(t, s, "original")

	if err := s.UpdateQuestion(ctx, qa.Question{ID: q.ID, Body: "changed", Hidden: true}); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	got, _ := s.FindQuestion(ctx, q.ID)
	if got.Body != "original" || !got.Hidden {
		t.Fatalf("got %+v", got)
	}
}

func TestNextPrevBoundaries(t *testing.T) {
	s := New(WithClock(tick()))
	ctx := context.Background()
	q1 := mustQuestion(t, s, "1")
	q2 := mustQuestion(t, s, "2")
	q3 := mustQuestion(t, s, "3")
	mustAnswer(t, s, q1.ID, "a")
	mustAnswer(t, s, q3.ID, "c")

	next, err := s.FindNextQuestion(ctx, q1.ID)
	if err != nil || next.ID != q3.ID {
		t.Fatalf("next(1) = %d, %v; want 3 (2 is unanswered)", next.ID, err)
	}
	prev, err := s.FindPrevQuestion(ctx, q3.ID)
	if err != nil || prev.ID != q1.ID {
		t.Fatalf("prev(3) = %d, %v", prev.ID, err)
	}
	if _, err := s.FindNextQuestion(ctx, q3.ID); !errors.Is(err, qa.ErrNotFound) {
		t.Fatalf("next(last): %v", err)
	}
	if _, err := s.FindPrevQuestion(ctx, q1.ID); !errors.Is(err, qa.ErrNotFound) {
		t.Fatalf("prev(first): %v", err)
	}
	_ = q2
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := New()
	q := mustQuestion(t, s, "q")
	got := mustAnswer(t, s, q.ID, "a")
	got.Answer.Body = "mutated"

	again, _ := s.FindQuestion(context.Background(), q.ID)
	if again.Answer.Body != "a" {
		t.Fatal("caller mutation leaked into store")
	}
}

func bodies(qs []qa.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Body
	}
	return out
}
