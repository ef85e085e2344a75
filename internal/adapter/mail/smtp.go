package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/rl1809/jewelry-storefront/internal/port"
)

const defaultSendTimeout = 15 * time.Second

type Config struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
}

// Configured reports whether outbound mail has a host to talk to.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.Host) != ""
}

// SMTPMailer delivers messages over SMTP, dialing per message.
type SMTPMailer struct {
	cfg    Config
	domain string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	domain := "localhost"
	if at := strings.LastIndex(cfg.From, "@"); at >= 0 && at < len(cfg.From)-1 {
		domain = strings.Trim(cfg.From[at+1:], "> ")
	}
	return &SMTPMailer{cfg: cfg, domain: domain}
}

var _ port.Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, msg port.MailMessage) (string, error) {
	message := gomail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}
	message.Subject(msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		message.SetBodyString(gomail.TypeTextPlain, msg.Text)
		message.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		message.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		message.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}

	messageID := fmt.Sprintf("%s@%s", uuid.NewString(), m.domain)
	message.SetMessageIDWithValue(messageID)

	client, err := m.client()
	if err != nil {
		return "", err
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return "<" + messageID + ">", nil
}

func (m *SMTPMailer) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(defaultSendTimeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}
