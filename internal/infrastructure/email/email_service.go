package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/litblc/account-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Service sends verification emails over SMTP.
type Service struct {
	config *config.Config
	log    *zap.Logger
}

func NewService(cfg *config.Config, log *zap.Logger) *Service {
	return &Service{
		config: cfg,
		log:    log,
	}
}

func (s *Service) SendVerificationEmail(ctx context.Context, address, code string) error {
	subject := "FMock registration"
	body := fmt.Sprintf(`Hi,

Your registration verification code is:
%s

The code expires in 10 minutes. If you didn't sign up, you can safely
ignore this email.
`, code)

	return s.send(address, subject, body)
}

func (s *Service) SendPasswordResetEmail(ctx context.Context, address, code string) error {
	subject := "FMock password reset"
	body := fmt.Sprintf(`Hi,

We received a request to reset your password. Your verification code is:
%s

The code expires in 10 minutes. If you didn't request a reset, please
ignore this email.
`, code)

	return s.send(address, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.config.SMTPFrom
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := e.Send(addr, auth); err != nil {
		s.log.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}

	s.log.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
