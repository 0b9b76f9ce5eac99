package mailer

import "time"

// Config holds mailer configuration for all providers. Only the credentials
// of the selected provider are required at runtime; TestAll reports a
// per-provider construction failure for any provider left unconfigured.
type Config struct {
	Provider    string        `env:"EMAIL_PROVIDER" envDefault:"brevo"`
	FromEmail   string        `env:"EMAIL_FROM,required"`
	FromName    string        `env:"EMAIL_FROM_NAME" envDefault:"Laguna Integration"`
	HTTPTimeout time.Duration `env:"EMAIL_HTTP_TIMEOUT" envDefault:"30s"`

	BrevoAPIKey  string `env:"BREVO_API_KEY"`
	BrevoBaseURL string `env:"BREVO_BASE_URL" envDefault:"https://api.brevo.com"`

	GmailClientID     string `env:"GMAIL_CLIENT_ID"`
	GmailClientSecret string `env:"GMAIL_CLIENT_SECRET"`
	GmailRefreshToken string `env:"GMAIL_REFRESH_TOKEN"`
	GmailTokenURL     string `env:"GMAIL_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	GmailBaseURL      string `env:"GMAIL_BASE_URL" envDefault:"https://gmail.googleapis.com"`

	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
}
