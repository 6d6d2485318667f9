// internal/notify/social.go
//
// Social poster for new answers.
//
// Context
// -------
// Targets the Mastodon-compatible REST API:
//
//	POST /api/v2/media     multipart "file" → {"id": "..."}
//	POST /api/v1/statuses  form status, media_ids[] → 200
//
// Both calls carry `Authorization: Bearer <token>` and go through a
// go-retryablehttp client, so 5xx and connection errors are retried with
// backoff; 4xx is final.  The status text is
// "{answer body} #{hashtag} https://{domain}/question/{id}".
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/yanizio/reing/internal/qa"
)

// CardSource supplies the JPEG attached to the status.
type CardSource interface {
	For(q qa.Question) ([]byte, error)
}

// SocialConfig holds API settings.
type SocialConfig struct {
	BaseURL string
	Token   string
	Hashtag string
	Domain  string
}

// Poster implements AnswerNotifier.
type Poster struct {
	cfg   SocialConfig
	cards CardSource
	http  *retryablehttp.Client
}

// NewPoster builds a Poster.  cards may be nil to post text only.
func NewPoster(cfg SocialConfig, cards CardSource, log *zap.SugaredLogger) *Poster {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 5 * time.Second
	c.HTTPClient.Timeout = 20 * time.Second
	c.Logger = nil
	if log != nil {
		c.Logger = retryLogger{log.With("component", "social")}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Poster{cfg: cfg, cards: cards, http: c}
}

// QuestionURL is the public permalink for q.
func QuestionURL(domain string, id int64) string {
	return fmt.Sprintf("https://%s/question/%d", domain, id)
}

// StatusText builds the post body.
func StatusText(q qa.Question, hashtag, domain string) string {
	body := ""
	if q.Answer != nil {
		body = q.Answer.Body
	}
	parts := []string{body}
	if hashtag != "" {
		parts = append(parts, "#"+strings.TrimPrefix(hashtag, "#"))
	}
	parts = append(parts, QuestionURL(domain, q.ID))
	return strings.Join(parts, " ")
}

// NotifyAnswer uploads the card (when available) and posts the status.
func (p *Poster) NotifyAnswer(ctx context.Context, q qa.Question) error {
	if !q.Answered() {
		return fmt.Errorf("notify: question %d has no answer", q.ID)
	}

	form := url.Values{"status": {StatusText(q, p.cfg.Hashtag, p.cfg.Domain)}}
	if p.cards != nil {
		img, err := p.cards.For(q)
		if err != nil {
			return fmt.Errorf("notify: card: %w", err)
		}
		id, err := p.uploadMedia(ctx, img, fmt.Sprintf("question-%d.jpg", q.ID))
		if err != nil {
			return err
		}
		form.Add("media_ids[]", id)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/api/v1/statuses", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", fmt.Sprintf("reing-answer-%d", q.ID))

	if _, err := p.do(req, "status"); err != nil {
		return err
	}
	return nil
}

func (p *Poster) uploadMedia(ctx context.Context, img []byte, name string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("notify: media form: %w", err)
	}
	if _, err := fw.Write(img); err != nil {
		return "", fmt.Errorf("notify: media form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("notify: media form: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/api/v2/media", body.Bytes())
	if err != nil {
		return "", fmt.Errorf("notify: media request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := p.do(req, "media")
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.ID == "" {
		return "", fmt.Errorf("notify: media response %q: %v", truncate(raw), err)
	}
	return out.ID, nil
}

func (p *Poster) do(req *retryablehttp.Request, what string) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notify: %s: %w", what, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("notify: %s: status %d: %s", what, resp.StatusCode, truncate(raw))
	}
	return raw, nil
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}

// retryLogger adapts zap to retryablehttp.LeveledLogger.
type retryLogger struct{ l *zap.SugaredLogger }

func (r retryLogger) Error(msg string, kv ...any) { r.l.Errorw(msg, kv...) }
func (r retryLogger) Info(msg string, kv ...any)  { r.l.Debugw(msg, kv...) }
func (r retryLogger) Debug(msg string, kv ...any) { r.l.Debugw(msg, kv...) }
func (r retryLogger) Warn(msg string, kv ...any)  { r.l.Warnw(msg, kv...) }
