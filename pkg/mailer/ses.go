package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the slice of the SESv2 client the adapter uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

// sesProvider sends through Amazon SES via the AWS SDK. Success is an SDK
// call returning no error and a message id; there is no HTTP status code to
// inspect, so failed results carry the SDK error text instead.
type sesProvider struct {
	cfg    Config
	client sesAPI
	log    *slog.Logger
}

func newSES(ctx context.Context, cfg Config, log *slog.Logger) (*sesProvider, error) {
	if cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" {
		return nil, fmt.Errorf("%w: AWSAccessKeyID and AWSSecretAccessKey are required", ErrInvalidConfig)
	}
	if !ValidEmail(cfg.FromEmail) {
		return nil, fmt.Errorf("%w: FromEmail must be a valid email address", ErrInvalidConfig)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &sesProvider{
		cfg:    cfg,
		client: sesv2.NewFromConfig(awsCfg),
		log:    log,
	}, nil
}

func (p *sesProvider) Name() string { return string(ProviderSES) }

func (p *sesProvider) Send(ctx context.Context, msg Message) DeliveryResult {
	if err := msg.Validate(); err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", p.cfg.FromName, p.cfg.FromEmail)),
		Destination: &sestypes.Destination{
			ToAddresses: msg.Recipients,
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &sestypes.Body{
					Html: &sestypes.Content{
						Data:    aws.String(msg.BodyHTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	out, err := p.client.SendEmail(ctx, input)
	if err != nil {
		return DeliveryResult{
			Provider:      p.Name(),
			Err:           err.Error(),
			QuotaExceeded: sesQuotaExceeded(err),
		}
	}

	messageID := ""
	if out.MessageId != nil {
		messageID = *out.MessageId
	}
	// No HTTP status on the SDK path; StatusCode stays zero either way.
	return DeliveryResult{
		Success:   true,
		Provider:  p.Name(),
		MessageID: messageID,
	}
}

// sesQuotaExceeded is a best-effort heuristic over SES sending-limit errors.
// The SDK surfaces them as typed LimitExceeded errors or as throttling
// messages naming the daily quota or max send rate.
func sesQuotaExceeded(err error) bool {
	var limitErr *sestypes.LimitExceededException
	if errors.As(err, &limitErr) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "daily message quota") ||
		strings.Contains(lower, "maximum sending rate exceeded")
}

// TestConnection reads the SES account sending status. No mail is sent.
func (p *sesProvider) TestConnection(ctx context.Context) ConnectivityResult {
	out, err := p.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}
	if !out.SendingEnabled {
		return ConnectivityResult{Provider: p.Name(), Detail: "credentials valid but sending is disabled for this SES account"}
	}
	return ConnectivityResult{OK: true, Provider: p.Name(), Detail: "account sending enabled"}
}
