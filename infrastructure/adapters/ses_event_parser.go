package adapters

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/jamieforrest/speakyer-proc/domain"
)

// ParseSESNotification reads the first record of an SES receipt event, either delivered
// directly or wrapped in an SNS notification.
func ParseSESNotification(payload []byte) (domain.InboundEmail, error) {
	var sesEvent events.SimpleEmailEvent
	if err := json.Unmarshal(payload, &sesEvent); err == nil &&
		len(sesEvent.Records) > 0 && sesEvent.Records[0].SES.Mail.MessageID != "" {
		return InboundEmailFromSES(sesEvent.Records[0].SES.Mail)
	}

	var snsEvent events.SNSEvent
	if err := json.Unmarshal(payload, &snsEvent); err == nil &&
		len(snsEvent.Records) > 0 && snsEvent.Records[0].SNS.Message != "" {
		var notification events.SimpleEmailService
		if err := json.Unmarshal([]byte(snsEvent.Records[0].SNS.Message), &notification); err != nil {
			return domain.InboundEmail{}, domain.InvalidInput("SNS message is not an SES notification: %s", err)
		}
		return InboundEmailFromSES(notification.Mail)
	}

	return domain.InboundEmail{}, domain.InvalidInput("event has no SES record")
}

// InboundEmailFromSES keeps the mail object as the stored metadata.
func InboundEmailFromSES(mail events.SimpleEmailMessage) (domain.InboundEmail, error) {
	metadata, err := json.Marshal(mail)
	if err != nil {
		return domain.InboundEmail{}, err
	}
	return domain.InboundEmail{
		MessageID: mail.MessageID,
		Sender:    mail.Source,
		Metadata:  metadata,
	}, nil
}
