// Package mail sends outbound notifications over SMTP. Every send is
// fire-and-forget: delivery happens on a background goroutine and failures
// are logged, never returned, so the write path that triggered the mail is
// already committed by the time SMTP is involved.
package mail

import (
	"fmt"
	"log/slog"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/readmodel"
	gomail "github.com/wneessen/go-mail"
)

type Sender struct {
	cfg           internal.MailConfig
	users         *readmodel.Users
	firms         *readmodel.Catalog
	modifications *readmodel.Catalog
	logger        *slog.Logger
}

func NewSender(cfg internal.MailConfig, users *readmodel.Users, firms, modifications *readmodel.Catalog, logger *slog.Logger) *Sender {
	return &Sender{
		cfg:           cfg,
		users:         users,
		firms:         firms,
		modifications: modifications,
		logger:        logger,
	}
}

// SendEmailConfirmation mails the confirmation link for a freshly set
// address.
func (s *Sender) SendEmailConfirmation(email, name, confirmURL string) {
	subject := "Confirm your email address"
	body := fmt.Sprintf("Hello, %s!\n\nFollow the link to confirm your email address:\n%s\n", name, confirmURL)
	s.send(email, subject, body)
}

// SendNewWorkNotification mails every opted-in member of a department about
// a workflow that just landed there. Titles are resolved from the caches;
// a missing title falls back to the raw id rather than blocking the mail.
// Workflow placement lives outside this service set, so this method has no
// in-process producer; it is the integration point that service calls.
func (s *Sender) SendNewWorkNotification(departmentID, firmID, modificationID, workflowTitle string) {
	recipients := s.users.EmailRecipientsForDepartment(departmentID)
	if len(recipients) == 0 {
		return
	}

	firmTitle := s.titleOrID(s.firms, firmID)
	modificationTitle := s.titleOrID(s.modifications, modificationID)

	subject := "New work: " + workflowTitle
	body := fmt.Sprintf("A new work arrived in your department.\n\nFirm: %s\nModification: %s\nTitle: %s\n",
		firmTitle, modificationTitle, workflowTitle)

	for _, recipient := range recipients {
		s.send(recipient.Email, subject, "Hello, "+recipient.Name+"!\n\n"+body)
	}
}

func (s *Sender) titleOrID(cache *readmodel.Catalog, id string) string {
	title, err := cache.GetTitle(id)
	if err != nil {
		return id
	}
	return title
}

func (s *Sender) send(to, subject, body string) {
	if !s.cfg.Enabled {
		s.logger.Debug("mail disabled, skipping send", "to", to, "subject", subject)
		return
	}

	message := gomail.NewMsg()
	if err := message.From(s.cfg.From); err != nil {
		s.logger.Error("mail: invalid from address", "from", s.cfg.From, "error", err)
		return
	}
	if err := message.To(to); err != nil {
		s.logger.Error("mail: invalid recipient address", "to", to, "error", err)
		return
	}
	message.Subject(subject)
	message.SetBodyString(gomail.TypeTextPlain, body)

	go func() {
		client, err := gomail.NewClient(s.cfg.Host,
			gomail.WithPort(s.cfg.Port),
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
		if err != nil {
			s.logger.Error("mail: failed to build client", "error", err)
			return
		}
		if err := client.DialAndSend(message); err != nil {
			s.logger.Error("mail: delivery failed", "to", to, "subject", subject, "error", err)
			return
		}
		s.logger.Info("mail sent", "to", to, "subject", subject)
	}()
}
