package email

// Provider selects the outbound email backend.
type Provider string

const (
	ProviderPostmark Provider = "postmark"
	ProviderSES      Provider = "ses"
	ProviderDev      Provider = "dev"
)

// Config holds email service configuration. Only the credentials of the
// selected provider need to be set; SenderEmail establishes the From
// identity for every outbound message.
type Config struct {
	Provider    Provider `env:"EMAIL_PROVIDER" envDefault:"postmark"`
	SenderEmail string   `env:"SENDER_EMAIL,required"`
	ReplyTo     string   `env:"REPLY_TO_EMAIL"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	AWSRegion          string `env:"AWS_REGION" envDefault:"eu-west-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	DevOutputDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// NewSender builds the EmailSender selected by cfg.Provider.
func NewSender(cfg Config) (EmailSender, error) {
	switch cfg.Provider {
	case ProviderSES:
		return NewSESClient(cfg)
	case ProviderDev:
		return NewDevSender(cfg.DevOutputDir), nil
	default:
		return NewPostmarkClient(cfg)
	}
}
