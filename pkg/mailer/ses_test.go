package mailer

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/stretchr/testify/assert"
)

type stubSES struct {
	sendOut *sesv2.SendEmailOutput
	sendErr error

	accountOut *sesv2.GetAccountOutput
	accountErr error

	sendCalls int
}

func (s *stubSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	s.sendCalls++
	return s.sendOut, s.sendErr
}

func (s *stubSES) GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error) {
	return s.accountOut, s.accountErr
}

func sesTestProvider(stub *stubSES) *sesProvider {
	return &sesProvider{
		cfg: Config{
			FromEmail: "noreply@example.com",
			FromName:  "Integration",
		},
		client: stub,
		log:    slog.Default(),
	}
}

func TestSES_Send_Success(t *testing.T) {
	t.Parallel()

	stub := &stubSES{
		sendOut: &sesv2.SendEmailOutput{MessageId: aws.String("0102018d-msg")},
	}
	p := sesTestProvider(stub)

	res := p.Send(context.Background(), testMessage())
	assert.True(t, res.Success)
	assert.Equal(t, "ses", res.Provider)
	assert.Equal(t, "0102018d-msg", res.MessageID)
	assert.Zero(t, res.StatusCode, "SDK path has no HTTP status to report")
	assert.Equal(t, 1, stub.sendCalls)
}

func TestSES_Send_LimitExceededIsQuota(t *testing.T) {
	t.Parallel()

	stub := &stubSES{sendErr: &sestypes.LimitExceededException{Message: aws.String("sending limit exceeded")}}
	p := sesTestProvider(stub)

	res := p.Send(context.Background(), testMessage())
	assert.False(t, res.Success)
	assert.True(t, res.QuotaExceeded)
}

func TestSES_Send_ThrottleTextIsQuota(t *testing.T) {
	t.Parallel()

	stub := &stubSES{sendErr: errors.New("Throttling: Daily message quota exceeded")}
	p := sesTestProvider(stub)

	res := p.Send(context.Background(), testMessage())
	assert.False(t, res.Success)
	assert.True(t, res.QuotaExceeded)
}

func TestSES_Send_GenericErrorIsNotQuota(t *testing.T) {
	t.Parallel()

	stub := &stubSES{sendErr: errors.New("MessageRejected: Email address is not verified")}
	p := sesTestProvider(stub)

	res := p.Send(context.Background(), testMessage())
	assert.False(t, res.Success)
	assert.False(t, res.QuotaExceeded)
	assert.Contains(t, res.Err, "not verified")
}

func TestSES_TestConnection(t *testing.T) {
	t.Parallel()

	t.Run("sending enabled", func(t *testing.T) {
		t.Parallel()
		p := sesTestProvider(&stubSES{accountOut: &sesv2.GetAccountOutput{SendingEnabled: true}})

		res := p.TestConnection(context.Background())
		assert.True(t, res.OK)
	})

	t.Run("sending disabled", func(t *testing.T) {
		t.Parallel()
		p := sesTestProvider(&stubSES{accountOut: &sesv2.GetAccountOutput{SendingEnabled: false}})

		res := p.TestConnection(context.Background())
		assert.False(t, res.OK)
		assert.Contains(t, res.Detail, "disabled")
	})

	t.Run("credentials rejected", func(t *testing.T) {
		t.Parallel()
		p := sesTestProvider(&stubSES{accountErr: errors.New("InvalidClientTokenId")})

		res := p.TestConnection(context.Background())
		assert.False(t, res.OK)
	})
}
