package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

//go:embed templates/*.html
var templates embed.FS

var notificationTmpl = template.Must(template.ParseFS(templates, "templates/prospect_notification.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

type notificationData struct {
	RecipientName string
	BudgetLabel   string
	Prospect      queue.ProspectSubmittedPayload
}

func (s *EmailSender) SendProspectNotification(to, recipientName string, prospect queue.ProspectSubmittedPayload) error {
	body, err := renderNotification(recipientName, prospect)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Reply-To", prospect.Email)
	m.SetHeader("Subject", fmt.Sprintf("New prospect: %s (%s)", prospect.Name, prospect.BudgetRange.Label()))
	m.SetBody("text/html", body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send SMTP email: %w", err)
	}

	return nil
}

func renderNotification(recipientName string, prospect queue.ProspectSubmittedPayload) (string, error) {
	var body bytes.Buffer
	err := notificationTmpl.Execute(&body, notificationData{
		RecipientName: recipientName,
		BudgetLabel:   prospect.BudgetRange.Label(),
		Prospect:      prospect,
	})
	if err != nil {
		return "", fmt.Errorf("render notification template: %w", err)
	}
	return body.String(), nil
}
