package tasks

import (
	"context"
	"fmt"
	"log"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/attendance/internal/entities"
	"github.com/mrlokans/attendance/internal/mailer"
)

// VerificationIssuer provides what the mail task needs from the auth layer.
type VerificationIssuer interface {
	IssueToken(userID uint) (string, error)
	VerificationURL(token string) string
}

// UserGetter loads the recipient account.
type UserGetter interface {
	GetUserByID(id uint) (*entities.User, error)
}

// SendVerificationMailTask delivers an email verification link to a
// freshly registered lecturer.
type SendVerificationMailTask struct {
	UserID uint `json:"user_id"`
}

func (t SendVerificationMailTask) Config() backlite.QueueConfig {
	s := currentQueueSettings()
	return backlite.QueueConfig{
		Name:        "send_verification_mail",
		MaxAttempts: s.MaxRetries,
		Backoff:     s.RetryDelay,
		Timeout:     s.TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   s.RetentionDuration,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendVerificationMailProcessor creates a processor for verification mail
// delivery. A fresh token is issued per attempt so a retried delivery
// never mails a stale link.
func SendVerificationMailProcessor(users UserGetter, issuer VerificationIssuer, mail mailer.Mailer) backlite.QueueProcessor[SendVerificationMailTask] {
	return func(ctx context.Context, task SendVerificationMailTask) error {
		user, err := users.GetUserByID(task.UserID)
		if err != nil {
			return fmt.Errorf("get user %d: %w", task.UserID, err)
		}
		if user.EmailVerified {
			log.Printf("[TASK] User %s already verified, skipping mail", user.Username)
			return nil
		}

		token, err := issuer.IssueToken(user.ID)
		if err != nil {
			return fmt.Errorf("issue verification token for user %d: %w", user.ID, err)
		}

		body := fmt.Sprintf(
			"Dear %s,\n\n"+
				"Thank you for registering with the QR Attendance System!\n\n"+
				"Please open the link below to verify your email address:\n%s\n\n"+
				"This link will expire in 24 hours.\n\n"+
				"If you didn't create this account, please ignore this email.\n",
			user.FullName(), issuer.VerificationURL(token),
		)

		if err := mail.Send(user.Email, "Verify Your Email - QR Attendance System", body); err != nil {
			return fmt.Errorf("send verification mail to %s: %w", user.Email, err)
		}

		log.Printf("[TASK] Verification mail sent to %s", user.Email)
		return nil
	}
}

// NewSendVerificationMailQueue creates a backlite queue for verification mails.
func NewSendVerificationMailQueue(users UserGetter, issuer VerificationIssuer, mail mailer.Mailer) backlite.Queue {
	return backlite.NewQueue(SendVerificationMailProcessor(users, issuer, mail))
}

// Enqueuer adapts the client to the auth package's mail enqueue interface.
type Enqueuer struct {
	client *Client
}

// NewEnqueuer wraps a client for use by the auth handlers.
func NewEnqueuer(client *Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueVerificationMail schedules a verification mail for the user.
func (e *Enqueuer) EnqueueVerificationMail(userID uint) error {
	_, err := e.client.Add(SendVerificationMailTask{UserID: userID}).Save()
	return err
}
