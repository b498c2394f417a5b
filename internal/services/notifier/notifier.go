// Package notifier содержит бизнес-логику почтовых уведомлений:
// письма об успешном отклике на вакансию и о списании с кошелька.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/smtp"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// UserRepository нужен, чтобы найти адрес получателя по UID:
// событие списания почту не переносит.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// NotifierService отправляет письма по событиям из очереди.
type NotifierService struct {
	transport smtp.TransportInterface
	users     UserRepository
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(transport smtp.TransportInterface, users UserRepository, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		users:     users,
		log:       log,
	}
}

// SendApplicationSubmitted отправляет подтверждение отклика на вакансию.
func (s *NotifierService) SendApplicationSubmitted(body []byte) error {
	var event models.ApplicationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal application event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := "Your job application has been submitted"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour application for job %s was submitted on %s.\n\nGood luck!",
		event.Username, event.JobID, event.AppliedAt.Format("02 Jan 2006 15:04 MST"))

	return s.sendEmail(to, subject, bodyText)
}

// SendWalletDebited отправляет уведомление о списании платы за отклик.
func (s *NotifierService) SendWalletDebited(body []byte) error {
	var event models.WalletDebitedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal wallet event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	user, err := s.users.GetUser(context.Background(), event.UserUID)
	if err != nil {
		s.log.Error("failed to load user for wallet notification", sl.Err(err))
		return fmt.Errorf("error loading user: %w", err)
	}

	to := []string{user.Email}
	subject := "Wallet charged for a job application"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour wallet was charged %d for applying to job %s.\nYour new balance is %d.",
		user.Username, event.Amount, event.JobID, event.NewBalance)

	return s.sendEmail(to, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
