package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"go.uber.org/zap"
)

// Message is a plain-text email
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer sends email
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// DefaultTimeout bounds one SMTP exchange when no timeout is configured
const DefaultTimeout = 10 * time.Second

// New builds the mailer selected by EMAIL_BACKEND
func New(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.EmailBackend == "smtp" {
		return &SMTPMailer{
			Host:     cfg.EmailHost,
			Port:     cfg.EmailPort,
			Username: cfg.EmailHostUser,
			Password: cfg.EmailHostPassword,
			Timeout:  cfg.EmailTimeout,
		}
	}
	return &ConsoleMailer{Log: log}
}

// SMTPMailer delivers through an SMTP relay, using STARTTLS when offered
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	// Timeout bounds the whole exchange; zero means DefaultTimeout
	Timeout time.Duration
}

// Send delivers msg. The exchange ends at the earlier of ctx's deadline and
// the mailer's Timeout.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s failed: %w", addr, err)
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("mail: set deadline: %w", err)
	}
	// cancellation before the deadline unblocks any pending read or write
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if err := m.deliver(conn, msg); err != nil {
		cause := ctx.Err()
		if cause == nil && errors.Is(err, os.ErrDeadlineExceeded) {
			cause = context.DeadlineExceeded
		}
		if cause != nil {
			return fmt.Errorf("mail: send to %s aborted: %w", strings.Join(msg.To, ","), cause)
		}
		return fmt.Errorf("mail: send to %s failed: %w", strings.Join(msg.To, ","), err)
	}
	return nil
}

// deliver runs the SMTP conversation on conn and closes it
func (m *SMTPMailer) deliver(conn net.Conn, msg Message) error {
	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return err
		}
	}
	if m.Password != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return fmt.Errorf("server does not support AUTH")
		}
		if err := c.Auth(smtp.PlainAuth("", m.Username, m.Password, m.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(Render(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// Render formats msg as an RFC 5322 message
func Render(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// ConsoleMailer writes messages to the log instead of sending them
type ConsoleMailer struct {
	Log *zap.Logger
}

// Send logs msg
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.Log.Info("email",
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
