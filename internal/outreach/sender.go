package outreach

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/store"
)

type Sender struct {
	db  *store.DB
	cfg config.Config
	now func() time.Time

	// password fetches the SMTP app password; injectable so tests
	// don't touch the OS keychain.
	password func() (string, error)
	// sendMail defaults to smtp.SendMail, which upgrades to STARTTLS
	// when the server offers it.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(db *store.DB, cfg config.Config, password func() (string, error)) *Sender {
	return &Sender{
		db:       db,
		cfg:      cfg,
		now:      time.Now,
		password: password,
		sendMail: smtp.SendMail,
	}
}

func (s *Sender) render(lead domain.Lead, tmpl, city, service string, ch domain.Channel) (Rendered, error) {
	return Render(tmpl, ch, TemplateData{
		BusinessName: lead.Name,
		City:         city,
		Service:      service,
		Sender:       s.cfg.Outreach.Sender,
		Phone:        s.cfg.Outreach.SMTPUser,
	})
}

// SendEmail delivers the named template to a lead over SMTP. On
// success the message is logged as `sent` and the lead moves to
// `contacted`; a delivery failure is logged as `failed` and the lead
// is left untouched.
func (s *Sender) SendEmail(ctx context.Context, leadID int64, tmpl, city, service string) error {
	lead, err := s.db.GetLead(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Email == "" {
		return fmt.Errorf("outreach: lead %d has no email address", leadID)
	}

	msg, err := s.render(lead, tmpl, city, service, domain.ChannelEmail)
	if err != nil {
		return err
	}

	if s.cfg.Outreach.SMTPHost == "" || s.cfg.Outreach.SMTPUser == "" {
		// No mail identity configured. Log the draft so the operator
		// can send it by hand, and say why nothing went out.
		s.logMessage(ctx, leadID, tmpl, msg.Subject+"\n\n"+msg.Body, domain.ChannelEmail, domain.MessagePending)
		return fmt.Errorf("outreach: smtp not configured; message logged as pending")
	}

	pw, err := s.password()
	if err != nil {
		return fmt.Errorf("outreach: %w", err)
	}

	raw := buildEmail(s.cfg.Outreach.SMTPUser, lead.Email, msg.Subject, msg.Body)
	addr := fmt.Sprintf("%s:%d", s.cfg.Outreach.SMTPHost, s.cfg.Outreach.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.Outreach.SMTPUser, pw, s.cfg.Outreach.SMTPHost)

	if err := s.sendMail(addr, auth, s.cfg.Outreach.SMTPUser, []string{lead.Email}, raw); err != nil {
		s.logMessage(ctx, leadID, tmpl, msg.Subject+"\n\n"+msg.Body, domain.ChannelEmail, domain.MessageFailed)
		s.db.Audit(ctx, "ERROR", "outreach", fmt.Sprintf("email to lead %d failed: %v", leadID, err))
		return fmt.Errorf("outreach: send: %w", err)
	}

	s.logMessage(ctx, leadID, tmpl, msg.Subject+"\n\n"+msg.Body, domain.ChannelEmail, domain.MessageSent)
	if err := s.db.MarkLeadContacted(ctx, leadID, s.now()); err != nil {
		return err
	}
	s.db.Audit(ctx, "INFO", "outreach", fmt.Sprintf("email sent to lead %d", leadID))
	return nil
}

// PreviewChat renders the chat variant for manual delivery. There is
// no chat gateway here; the operator copies the text into the chat
// app, so the message is logged as `pending` rather than `sent`.
func (s *Sender) PreviewChat(ctx context.Context, leadID int64, tmpl, city, service string) (string, error) {
	lead, err := s.db.GetLead(ctx, leadID)
	if err != nil {
		return "", err
	}
	if lead.Phone == "" {
		return "", fmt.Errorf("outreach: lead %d has no phone number", leadID)
	}

	msg, err := s.render(lead, tmpl, city, service, domain.ChannelChat)
	if err != nil {
		return "", err
	}

	s.logMessage(ctx, leadID, tmpl, msg.Body, domain.ChannelChat, domain.MessagePending)
	return msg.Body, nil
}

func (s *Sender) logMessage(ctx context.Context, leadID int64, tmpl, content string, ch domain.Channel, st domain.MessageStatus) {
	_, err := s.db.InsertMessage(ctx, domain.Message{
		LeadID: leadID, Channel: ch, Template: tmpl,
		Content: content, Status: st, SentAt: s.now(),
	})
	if err != nil {
		s.db.Audit(ctx, "ERROR", "outreach", fmt.Sprintf("log message for lead %d: %v", leadID, err))
	}
}

// buildEmail assembles a minimal RFC 5322 message. Subject and
// addresses have already been sanitized upstream.
func buildEmail(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
