package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/logger"
)

type Sender interface {
	Send(invite model.InviteEmailJob) error
}

// SMTPSender delivers invite mail through a plain relay. Auth-less on
// purpose, the relay is internal and unreachable from outside.
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{addr: addr, from: from}
}

func (s *SMTPSender) Send(invite model.InviteEmailJob) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: You have been invited\r\n\r\n"+
		"Hi %s,\r\n\r\n"+
		"An account has been opened for you. Pick your password here:\r\n%s\r\n",
		s.from, invite.Email, invite.FirstName, invite.SignupURL)
	return smtp.SendMail(s.addr, nil, s.from, []string{invite.Email}, []byte(msg))
}

// LogSender stands in for a relay in dev environments.
type LogSender struct{}

func (LogSender) Send(invite model.InviteEmailJob) error {
	logger.Info("invite mail (dry run)", "email", invite.Email, "signup_url", invite.SignupURL)
	return nil
}
