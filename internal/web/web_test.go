package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/reing/internal/auth"
	"github.com/yanizio/reing/internal/csrf"
	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/repository/memory"
	"github.com/yanizio/reing/internal/view"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type fakeNotifier struct {
	mu        sync.Mutex
	questions []int64
	answers   []int64
}

func (f *fakeNotifier) EnqueueQuestion(q qa.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, q.ID)
	return nil
}

func (f *fakeNotifier) EnqueueAnswer(q qa.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, q.ID)
	return nil
}

type fakeCards struct{}

func (fakeCards) For(q qa.Question) ([]byte, error) { return []byte{0xff, 0xd8, 0xff}, nil }

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	t      *testing.T
	repo   *memory.Store
	notify *fakeNotifier
	signer *csrf.Signer
	h      http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	views, err := view.New(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	f := &fixture{
		t:      t,
		repo:   memory.New(),
		notify: &fakeNotifier{},
		signer: csrf.New("0123456789abcdef0123456789abcdef"),
	}
	f.h = NewRouter(Deps{
		Repo:     f.repo,
		Notifier: f.notify,
		Cards:    fakeCards{},
		CSRF:     f.signer,
		Views:    views,
		Admin:    auth.Credentials{Username: "admin", PasswordHash: string(hash)},
		DB:       fakePinger{},
		Domain:   "reing.test",
		PageSize: 2,
	})
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", browserUA)
	return f.do(req)
}

func (f *fixture) post(path string, form url.Values, admin bool) *httptest.ResponseRecorder {
	if form.Get(csrf.FieldName) == "" {
		tok, err := f.signer.Token()
		if err != nil {
			f.t.Fatalf("token: %v", err)
		}
		form.Set(csrf.FieldName, tok)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", browserUA)
	if admin {
		req.SetBasicAuth("admin", "secret")
	}
	return f.do(req)
}

func (f *fixture) answered(body, answer string) qa.Question {
	f.t.Helper()
	ctx := context.Background()
	q, err := f.repo.StoreQuestion(ctx, body, "192.0.2.1")
	if err != nil {
		f.t.Fatalf("StoreQuestion: %v", err)
	}
	q, err = f.repo.StoreAnswer(ctx, q.ID, answer)
	if err != nil {
		f.t.Fatalf("StoreAnswer: %v", err)
	}
	return q
}

/*──────────────────────────── public ────────────────────────────*/

func TestTimelineListsAnswered(t *testing.T) {
	f := newFixture(t)
	f.answered("好きな食べ物は", "カレー")
	if _, err := f.repo.StoreQuestion(context.Background(), "未回答の質問", "192.0.2.2"); err != nil {
		t.Fatal(err)
	}

	rec := f.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "カレー") {
		t.Fatalf("answer missing from timeline")
	}
	if strings.Contains(body, "未回答の質問") {
		t.Fatalf("unanswered question leaked onto timeline")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("security headers missing: %q", got)
	}
}

func TestTimelinePaging(t *testing.T) {
	f := newFixture(t)
	for _, s := range []string{"一", "二", "三"} {
		f.answered("質問"+s, "回答"+s)
	}

	first := f.get("/").Body.String()
	if !strings.Contains(first, "/?page=1") {
		t.Fatalf("first page should link to page 1")
	}
	second := f.get("/?page=1").Body.String()
	if !strings.Contains(second, "回答一") || strings.Contains(second, "回答三") {
		t.Fatalf("page 1 has wrong items")
	}
}

func TestSubmitQuestion(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/questions", url.Values{"body": {"こんにちは"}}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if loc := rec.Header().Get("Location"); loc != "/?posted=1" {
		t.Fatalf("Location = %q", loc)
	}
	if len(f.notify.questions) != 1 {
		t.Fatalf("notifications = %v", f.notify.questions)
	}
	qs, _ := f.repo.NotAnsweredQuestions(context.Background())
	if len(qs) != 1 || qs[0].Body != "こんにちは" || qs[0].IPAddress != "192.0.2.1" {
		t.Fatalf("stored = %+v", qs)
	}

	if !strings.Contains(f.get("/?posted=1").Body.String(), "質問を受け付けました") {
		t.Fatalf("flash missing")
	}
}

func TestSubmitQuestionRejections(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/questions", url.Values{"body": {"  \n "}}, false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "質問を入力してください") {
		t.Fatalf("blank: error message missing")
	}

	rec = f.post("/questions", url.Values{"body": {"hi"}, csrf.FieldName: {"forged"}}, false)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("csrf: status = %d", rec.Code)
	}

	tok, _ := f.signer.Token()
	form := url.Values{"body": {"hi"}, csrf.FieldName: {tok}}
	req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := f.do(req); rec.Code != http.StatusForbidden {
		t.Fatalf("bot: status = %d", rec.Code)
	}

	if n, _ := f.repo.NotAnsweredQuestions(context.Background()); len(n) != 0 {
		t.Fatalf("rejected submissions were stored: %+v", n)
	}
	if len(f.notify.questions) != 0 {
		t.Fatalf("rejected submissions notified")
	}
}

func TestQuestionDetail(t *testing.T) {
	f := newFixture(t)
	a := f.answered("一つ目", "A")
	b := f.answered("二つ目", "B")
	c := f.answered("三つ目", "C")

	rec := f.get("/question/" + itoa(b.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/question/"+itoa(c.ID)) || !strings.Contains(body, "/question/"+itoa(a.ID)) {
		t.Fatalf("neighbour links missing:\n%s", body)
	}

	if !strings.Contains(body, `content="https://reing.test/question/`+itoa(b.ID)+`/card.jpg"`) {
		t.Fatalf("share card meta missing")
	}

	if rec := f.get("/question/" + itoa(a.ID)); rec.Code != http.StatusOK {
		t.Fatalf("boundary question: status = %d", rec.Code)
	}
}

func TestQuestionDetailNotFound(t *testing.T) {
	f := newFixture(t)
	open, _ := f.repo.StoreQuestion(context.Background(), "まだ", "192.0.2.1")
	hidden := f.answered("隠す", "x")
	if err := f.repo.HideQuestion(context.Background(), hidden.ID); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{
		"/question/" + itoa(open.ID),
		"/question/" + itoa(hidden.ID),
		"/question/9999",
		"/question/abc",
		"/no/such/page",
	} {
		if rec := f.get(p); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d", p, rec.Code)
		}
	}
}

func TestQuestionCard(t *testing.T) {
	f := newFixture(t)
	q := f.answered("画像", "回答")

	rec := f.get("/question/" + itoa(q.ID) + "/card.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Header().Get("Cache-Control"), "max-age=86400") {
		t.Fatalf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.answered("猫は好き", "はい")
	f.answered("犬は好き", "いいえ")

	body := f.get("/search?q=" + url.QueryEscape("猫")).Body.String()
	if !strings.Contains(body, "猫は好き") || strings.Contains(body, "犬は好き") {
		t.Fatalf("search results wrong:\n%s", body)
	}
}

func TestAPIQuestion(t *testing.T) {
	f := newFixture(t)
	a := f.answered("最初", "1")
	b := f.answered("最後", "2")

	rec := f.get("/api/question/" + itoa(a.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got detailJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Question.Body != "最初" || got.Answer.Body != "1" {
		t.Fatalf("payload = %+v", got)
	}
	if got.Next == nil || *got.Next != b.ID || got.Prev != nil {
		t.Fatalf("neighbours = %v, %v", got.Next, got.Prev)
	}

	rec = f.get("/api/question/404")
	if rec.Code != http.StatusNotFound || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("missing: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

/*──────────────────────────── admin ─────────────────────────────*/

func TestAdminRequiresAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/admin")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("challenge missing")
	}
}

func TestAdminAnswerFlow(t *testing.T) {
	f := newFixture(t)
	q, _ := f.repo.StoreQuestion(context.Background(), "答えて", "192.0.2.1")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("admin", "secret")
	rec := f.do(req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "答えて") {
		t.Fatalf("queue: %d", rec.Code)
	}

	path := "/admin/question/" + itoa(q.ID) + "/answer"
	if rec := f.post(path, url.Values{"body": {" "}}, true); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank answer: status = %d", rec.Code)
	}

	rec = f.post(path, url.Values{"body": {"答えました"}}, true)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("answer: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(f.notify.answers) != 1 || f.notify.answers[0] != q.ID {
		t.Fatalf("answer notifications = %v", f.notify.answers)
	}

	if rec := f.post(path, url.Values{"body": {"again"}}, true); rec.Code != http.StatusConflict {
		t.Fatalf("second answer: status = %d", rec.Code)
	}
	if rec := f.post("/admin/question/9999/answer", url.Values{"body": {"x"}}, true); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown question: status = %d", rec.Code)
	}
	if rec := f.get("/question/" + itoa(q.ID)); rec.Code != http.StatusOK {
		t.Fatalf("answered question not public: %d", rec.Code)
	}
}

func TestAdminHide(t *testing.T) {
	f := newFixture(t)
	q, _ := f.repo.StoreQuestion(context.Background(), "スパム", "192.0.2.1")

	rec := f.post("/admin/question/"+itoa(q.ID)+"/hide", url.Values{}, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	got, _ := f.repo.FindQuestion(context.Background(), q.ID)
	if !got.Hidden {
		t.Fatalf("question not hidden")
	}
	if qs, _ := f.repo.NotAnsweredQuestions(context.Background()); len(qs) != 0 {
		t.Fatalf("hidden question still queued")
	}
	if rec := f.post("/admin/question/9999/hide", url.Values{}, true); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown: status = %d", rec.Code)
	}
}

/*──────────────────────────── ops ───────────────────────────────*/

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	if rec := f.get("/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	h := NewRouter(Deps{Repo: memory.New(), CSRF: f.signer, DB: fakePinger{err: errors.New("down")}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("down: status = %d", rec.Code)
	}
}

func TestStatic(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/static/reing.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Cache-Control"), "max-age") {
		t.Fatalf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		qa.ErrBlankBody:       http.StatusBadRequest,
		qa.ErrNotFound:        http.StatusNotFound,
		qa.ErrAlreadyAnswered: http.StatusConflict,
		csrf.ErrInvalid:       http.StatusForbidden,
		errBot:                http.StatusForbidden,
		&qa.StorageError{Op: "x", Err: errors.New("boom")}: http.StatusServiceUnavailable,
		errors.New("other"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Errorf("statusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
