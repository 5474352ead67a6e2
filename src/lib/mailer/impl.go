package mailer

import (
	"os"

	"ftm/src/lib"
	awslib "ftm/src/lib/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// NewMailerMessage delivers a message through the configured transport.
// MAIL_PROVIDER=ses routes through SES; everything else goes out over
// SMTP. Call sites run this in a goroutine and only log failures.
func NewMailerMessage(input *lib.SendMailInput) error {
	provider := os.Getenv("MAIL_PROVIDER")
	if provider == "ses" {
		charset := "UTF-8"
		destination := &sestypes.Destination{
			ToAddresses:  input.To,
			CcAddresses:  input.Cc,
			BccAddresses: input.Bcc,
		}
		content := &sestypes.Content{Data: aws.String(input.Body), Charset: aws.String(charset)}
		body := &sestypes.Body{}
		if input.Html {
			body.Html = content
		} else {
			body.Text = content
		}
		message := &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(input.Subject), Charset: aws.String(charset)},
			Body:    body,
		}
		return awslib.SESSendMessage(aws.String(input.From), destination, message)
	}
	return lib.SendMail(input)
}
