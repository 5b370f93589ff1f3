package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier delivers notifications over SMTP as HTML mail
type EmailNotifier struct {
	config   config.EmailConfig
	tmpl     *template.Template
	sendMail sendMailFunc
}

// NewEmailNotifier creates an SMTP channel
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{
		config:   cfg,
		tmpl:     template.Must(template.New("notification").Parse(notificationTemplate)),
		sendMail: smtp.SendMail,
	}
}

func (n *EmailNotifier) Type() enum.NotificationType {
	return enum.NotificationTypeEmail
}

func (n *EmailNotifier) Send(ctx context.Context, user *entity.User, message, subject string) error {
	if user.Email == "" {
		return service.ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := n.render(user.Name, subject, message)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", n.config.SMTPHost, n.config.SMTPPort)
	var auth smtp.Auth
	if n.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", n.config.SMTPUsername, n.config.SMTPPassword, n.config.SMTPHost)
	}

	msg := n.buildHTMLEmail(user.Email, subject, body)
	if err := n.sendMail(addr, auth, n.config.FromEmail, []string{user.Email}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		n.config.FromName,
		n.config.FromEmail,
		to,
		subject,
	)
	return []byte(headers + htmlBody)
}

func (n *EmailNotifier) render(name, subject, message string) (string, error) {
	data := struct {
		Name    string
		Subject string
		Lines   []string
		AppName string
	}{
		Name:    name,
		Subject: subject,
		Lines:   strings.Split(message, "\n"),
		AppName: n.config.FromName,
	}

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const notificationTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Subject}}</title></head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px;">
        <tr>
            <td style="padding: 32px;">
                <h2 style="color: #1a1a2e; margin: 0 0 16px 0;">{{.Subject}}</h2>
                <p style="color: #4a5568;">Hello {{.Name}},</p>
                <p style="color: #4a5568; line-height: 1.6;">{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
            </td>
        </tr>
        <tr>
            <td style="padding: 16px 32px; color: #a0aec0; font-size: 12px; border-top: 1px solid #e2e8f0;">
                This email was sent by {{.AppName}}
            </td>
        </tr>
    </table>
</body>
</html>
`
