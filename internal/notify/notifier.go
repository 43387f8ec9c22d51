package notify

import (
	"bytes"
	"context"
	"html/template"

	"github.com/lshigami/quizgate/config"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Notifier delivers invitation links. It reports delivery success rather
// than an error; callers decide how to surface a failed send.
type Notifier interface {
	SendInvitation(ctx context.Context, recipientEmail, recipientName, testTitle, invitationLink string) bool
}

// NewNotifier picks SMTP delivery when SMTP_HOST is configured and falls back
// to logging the link otherwise.
func NewNotifier(cfg *config.Config) Notifier {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST is not set. Invitations will only be logged.")
		return LogNotifier{}
	}
	return NewSMTPNotifier(cfg.SMTP)
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`<p>Hello {{.Name}},</p>
<p>You have been invited to take the test <strong>{{.Title}}</strong>.</p>
<p><a href="{{.Link}}">Start the test</a></p>
<p>The link can be used once and expires automatically.</p>`))

type invitationData struct {
	Name  string
	Title string
	Link  string
}

func renderInvitation(name, title, link string) (string, error) {
	var buf bytes.Buffer
	if err := invitationTemplate.Execute(&buf, invitationData{Name: name, Title: title, Link: link}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	dialer   sender
	from     string
	fromName string
}

func NewSMTPNotifier(cfg config.SMTP) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
	}
}

func (n *SMTPNotifier) SendInvitation(ctx context.Context, recipientEmail, recipientName, testTitle, invitationLink string) bool {
	if ctx.Err() != nil {
		return false
	}
	body, err := renderInvitation(recipientName, testTitle, invitationLink)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render invitation email")
		return false
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, n.fromName)
	m.SetAddressHeader("To", recipientEmail, recipientName)
	m.SetHeader("Subject", "Test invitation: "+testTitle)
	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("recipient", recipientEmail).Msg("Failed to send invitation email")
		return false
	}
	log.Info().Str("recipient", recipientEmail).Msg("Invitation email sent")
	return true
}

// LogNotifier writes the invitation to the log. Used in development.
type LogNotifier struct{}

func (LogNotifier) SendInvitation(_ context.Context, recipientEmail, recipientName, testTitle, invitationLink string) bool {
	log.Info().
		Str("recipient", recipientEmail).
		Str("name", recipientName).
		Str("test", testTitle).
		Str("link", invitationLink).
		Msg("Invitation (not emailed)")
	return true
}
