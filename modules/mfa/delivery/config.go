package delivery

// Config holds the transactional email configuration for challenge delivery.
// Tokens are optional so development environments can run on the dev sender
// without Postmark credentials.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	ProductName          string `env:"PRODUCT_NAME" envDefault:"MindWell"`
}
