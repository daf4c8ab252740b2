package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/edubooster/backend/config"
	"github.com/edubooster/backend/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer delivers transactional email over SMTP. Message bodies are
// rendered from the embedded HTML templates.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	appName   string
	templates *template.Template
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	tmpl, err := template.New("mail").Funcs(sprig.HtmlFuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &Mailer{
		dialer:    gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password),
		from:      cfg.Mail.From,
		appName:   cfg.App.Name,
		templates: tmpl,
	}, nil
}

type mailData struct {
	AppName   string
	FirstName string
	LastName  string
	Code      string
	TTL       string
}

// SendVerificationCode emails the account verification one-time code.
func (m *Mailer) SendVerificationCode(ctx context.Context, email, firstName, lastName, code string) error {
	data := mailData{
		AppName:   m.appName,
		FirstName: firstName,
		LastName:  lastName,
		Code:      code,
	}
	return m.send(ctx, email, "Verify your email address", "verification.html", data)
}

// SendResetCode emails the password reset one-time code.
func (m *Mailer) SendResetCode(ctx context.Context, email, firstName, lastName, code string) error {
	data := mailData{
		AppName:   m.appName,
		FirstName: firstName,
		LastName:  lastName,
		Code:      code,
	}
	return m.send(ctx, email, "Reset your password", "reset.html", data)
}

func (m *Mailer) send(ctx context.Context, to, subject, templateName string, data mailData) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	logger.DebugWithContext(ctx, "Email delivered").
		String("to", to).
		String("template", templateName).
		Log()

	return nil
}
