// internal/notifier/outbound_test.go
package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common/config"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &sns.PublishOutput{}, nil
}

type mockProfiles struct {
	profile *models.Profile
	err     error
}

func (m *mockProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return m.profile, m.err
}

func testConfig() config.NotificationConfig {
	return config.NotificationConfig{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "no-reply@example.com",
	}
}

func adminProfile() *models.Profile {
	return &models.Profile{
		ID:    "admin-1",
		Email: "admin@example.com",
		Phone: "+212612345678",
		Role:  models.RoleAdmin,
	}
}

func newApplicationNotification() *models.Notification {
	return &models.Notification{
		ID:      "notif-1",
		AdminID: "admin-1",
		Message: `Yasmine Berrada a postulé pour le poste "Développeur Go"`,
		Type:    models.TypeNewApplication,
	}
}

// ==========================
// Delivery Tests
// ==========================

func TestDeliver_NewApplication_EmailAndSMS(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	o := NewOutbound(testConfig(), sesMock, snsMock, &mockProfiles{profile: adminProfile()}, logger.NewTestLogger(t))

	err := o.Deliver(context.Background(), "admin-1", newApplicationNotification())
	require.NoError(t, err)

	require.Len(t, sesMock.inputs, 1)
	email := sesMock.inputs[0]
	assert.Equal(t, []string{"admin@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "Nouvelle candidature reçue", *email.Message.Subject.Data)
	assert.Equal(t, "no-reply@example.com", *email.Source)

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+212612345678", *snsMock.inputs[0].PhoneNumber)
}

func TestDeliver_StatusChange_NoSMS(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	profiles := &mockProfiles{profile: &models.Profile{ID: "user-1", Email: "user@example.com", Phone: "+212600000000"}}
	o := NewOutbound(testConfig(), sesMock, snsMock, profiles, logger.NewTestLogger(t))

	n := &models.Notification{
		ID:      "notif-2",
		UserID:  "user-1",
		Message: "Félicitations ! Votre candidature a été acceptée",
		Type:    models.TypeStatusChange,
	}
	err := o.Deliver(context.Background(), "user-1", n)
	require.NoError(t, err)

	require.Len(t, sesMock.inputs, 1)
	assert.Equal(t, "Nouvelle notification", *sesMock.inputs[0].Message.Subject.Data)
	assert.Empty(t, snsMock.inputs, "SMS is reserved for staff notifications")
}

func TestDeliver_DisabledChannelsSkip(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	cfg := testConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	o := NewOutbound(cfg, sesMock, snsMock, &mockProfiles{profile: adminProfile()}, logger.NewTestLogger(t))

	err := o.Deliver(context.Background(), "admin-1", newApplicationNotification())
	require.NoError(t, err)
	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestDeliver_ProfileWithoutPhone(t *testing.T) {
	snsMock := &mockSNS{}
	profile := adminProfile()
	profile.Phone = ""
	o := NewOutbound(testConfig(), &mockSES{}, snsMock, &mockProfiles{profile: profile}, logger.NewTestLogger(t))

	err := o.Deliver(context.Background(), "admin-1", newApplicationNotification())
	require.NoError(t, err)
	assert.Empty(t, snsMock.inputs)
}

func TestDeliver_SendFailureReported(t *testing.T) {
	sesMock := &mockSES{err: errors.New("throttled")}
	o := NewOutbound(testConfig(), sesMock, &mockSNS{}, &mockProfiles{profile: adminProfile()}, logger.NewTestLogger(t))

	err := o.Deliver(context.Background(), "admin-1", newApplicationNotification())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationSendFailed))
}

func TestDeliver_UnknownRecipient(t *testing.T) {
	o := NewOutbound(testConfig(), &mockSES{}, &mockSNS{}, &mockProfiles{err: errors.New("no rows")}, logger.NewTestLogger(t))

	err := o.Deliver(context.Background(), "ghost", newApplicationNotification())
	assert.Error(t, err)
}
