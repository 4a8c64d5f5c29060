package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/mailx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type confirmationEmail struct {
	Lang    string
	Subject string
	Text    string
	URLName string
	Token   string
	Link    string
}

// MailService renders and sends the account mails in the caller's locale.
type MailService struct {
	Sender mailx.Sender

	// ConfirmURL is the client page that confirms a registration. The token
	// is appended as the "token" query parameter.
	ConfirmURL string

	Metrics *Metrics
}

// SendVerificationMessage mails the registration confirmation link for token.
func (s *MailService) SendVerificationMessage(ctx context.Context, to, token string) error {
	subject := i18nx.T(ctx, "email.registration.confirmation.subject")
	data := confirmationEmail{
		Lang:    i18nx.Locale(ctx).String(),
		Subject: subject,
		Text:    i18nx.T(ctx, "email.registration.confirmation.text"),
		URLName: i18nx.T(ctx, "email.registration.confirmation.url.name"),
		Token:   token,
		Link:    s.confirmLink(token),
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "confirmation-email.html", data); err != nil {
		return newError(KindMail, errors.Join(ErrMailFailed, err), i18nx.T(ctx, "email.error.send.msg", to, subject))
	}

	err := s.Sender.Send(ctx, mailx.Message{To: to, Subject: subject, HTML: body.String()})
	s.Metrics.mailSent(err)
	if err != nil {
		slogx.FromContext(ctx).Error("confirmation mail not sent", slog.String("to", to), slog.Any("err", err))
		return &Error{
			Kind:    KindMail,
			Message: i18nx.T(ctx, "email.error.send.msg", to, subject),
			Err:     errors.Join(ErrMailFailed, err),
		}
	}
	return nil
}

func (s *MailService) confirmLink(token string) string {
	u, err := url.Parse(s.ConfirmURL)
	if err != nil || s.ConfirmURL == "" {
		return "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
