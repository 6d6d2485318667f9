package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/reing/internal/qa"
)

// QuestionSubject is the subject line of the admin email.
const QuestionSubject = "質問が投稿されました"

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Domain   string // public site host, used in the admin link
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer emails the admin when a question arrives.  It implements
// QuestionNotifier.
type Mailer struct {
	cfg  MailConfig
	send sendFunc
	now  func() time.Time
}

// NewMailer returns a Mailer that delivers through smtp.SendMail.
func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// NotifyQuestion sends one plain-text message.  smtp.SendMail has no
// context parameter, so ctx is only checked before dialing.
func (m *Mailer) NotifyQuestion(ctx context.Context, q qa.Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.To}, m.message(q)); err != nil {
		return fmt.Errorf("notify: smtp %s: %w", addr, err)
	}
	return nil
}

// AdminURL links to the answer form for q.
func AdminURL(domain string, id int64) string {
	return fmt.Sprintf("https://%s/admin/question/%d", domain, id)
}

func (m *Mailer) message(q qa.Question) []byte {
	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }

	header("From", m.cfg.From)
	header("To", m.cfg.To)
	header("Subject", mime.BEncoding.Encode("UTF-8", QuestionSubject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), m.cfg.Domain))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	b.WriteString(q.Body)
	b.WriteString("\r\n\r\n")
	b.WriteString(AdminURL(m.cfg.Domain, q.ID))
	b.WriteString("\r\n")
	return b.Bytes()
}
