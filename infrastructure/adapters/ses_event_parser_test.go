package adapters

import (
	"encoding/json"
	"testing"

	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sesMail = `{"source":"jamie@example.com","messageId":"o3vrnil0e2ic28trm7dfhrc2v0clambda4nbp0g1","destination":["podcast@speakyer.com"]}`

func TestParseSESNotification_Direct(t *testing.T) {
	payload := `{"Records":[{"eventSource":"aws:ses","eventVersion":"1.0","ses":{"mail":` + sesMail + `,"receipt":{}}}]}`

	email, err := ParseSESNotification([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "o3vrnil0e2ic28trm7dfhrc2v0clambda4nbp0g1", email.MessageID)
	assert.Equal(t, "jamie@example.com", email.Sender)

	var metadata map[string]interface{}
	require.NoError(t, json.Unmarshal(email.Metadata, &metadata))
	assert.Equal(t, "jamie@example.com", metadata["source"])
	assert.Equal(t, "o3vrnil0e2ic28trm7dfhrc2v0clambda4nbp0g1", metadata["messageId"])
}

func TestParseSESNotification_SNSWrapped(t *testing.T) {
	message, err := json.Marshal(`{"notificationType":"Received","mail":` + sesMail + `,"receipt":{}}`)
	require.NoError(t, err)
	payload := `{"Records":[{"EventSource":"aws:sns","Sns":{"Type":"Notification","Message":` + string(message) + `}}]}`

	email, err := ParseSESNotification([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", email.Sender)
	assert.Equal(t, "o3vrnil0e2ic28trm7dfhrc2v0clambda4nbp0g1", email.MessageID)
}

func TestParseSESNotification_Invalid(t *testing.T) {
	for _, payload := range []string{`{}`, `{"Records":[]}`, `not json`} {
		_, err := ParseSESNotification([]byte(payload))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, payload)
	}
}
