// Package notifier mirrors in-app notifications to outbound channels.
// Delivery is always best-effort: the durable row is the source of truth.
package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"jobboard/internal/common/config"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

// Interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type ProfileGetter interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

type Outbound struct {
	cfg      config.NotificationConfig
	ses      SESService
	sns      SNSService
	profiles ProfileGetter
	logger   logger.Logger
}

func NewOutbound(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, profiles ProfileGetter, log logger.Logger) *Outbound {
	return &Outbound{
		cfg:      cfg,
		ses:      sesClient,
		sns:      snsClient,
		profiles: profiles,
		logger:   log.WithFields(map[string]interface{}{"component": "outbound-notifier"}),
	}
}

// Deliver sends the notification message to the recipient's email and,
// for staff notifications, their phone. Disabled channels are skipped.
func (o *Outbound) Deliver(ctx context.Context, recipientID string, n *models.Notification) error {
	profile, err := o.profiles.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", recipientID, err)
	}

	subject := "Nouvelle notification"
	if n.Type == models.TypeNewApplication {
		subject = "Nouvelle candidature reçue"
	}

	if o.cfg.EmailEnabled && o.ses != nil && profile.Email != "" {
		if err := o.sendEmail(ctx, profile.Email, subject, n.Message); err != nil {
			return apperrors.NewNotificationSendFailedError(err)
		}
	}

	if o.cfg.SMSEnabled && o.sns != nil && profile.Phone != "" && n.Type == models.TypeNewApplication {
		if err := o.sendSMS(ctx, profile.Phone, n.Message); err != nil {
			return apperrors.NewNotificationSendFailedError(err)
		}
	}

	return nil
}

func (o *Outbound) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := o.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(o.cfg.FromEmail),
	})
	return err
}

func (o *Outbound) sendSMS(ctx context.Context, to, message string) error {
	_, err := o.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
