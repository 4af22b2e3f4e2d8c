package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/jamieforrest/speakyer-proc/infrastructure/adapters"
	"github.com/jamieforrest/speakyer-proc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderFilter_AcceptsAllowedSenderCaseInsensitively(t *testing.T) {
	store := mock.NewMemoryBlobStore()
	filter := NewSenderFilter(adapters.NewNopLogger(), store, "inbound", []string{" Jamie@Example.com "})

	response := filter.Accept(context.Background(), domain.InboundEmail{
		MessageID: "abc123",
		Sender:    "jamie@example.COM",
		Metadata:  []byte(`{"messageId":"abc123"}`),
	})

	assert.Equal(t, domain.SuccessResponse("Email from jamie@example.COM accepted and stored."), response)
	stored, ok := store.Get("inbound", "emails/abc123.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"messageId":"abc123"}`, string(stored))
}

func TestSenderFilter_RejectsWithoutTouchingStore(t *testing.T) {
	store := mock.NewMemoryBlobStore()
	filter := NewSenderFilter(adapters.NewNopLogger(), store, "inbound", []string{"jamie@example.com"})

	response := filter.Accept(context.Background(), domain.InboundEmail{
		MessageID: "abc123",
		Sender:    "spam@example.net",
		Metadata:  []byte(`{}`),
	})

	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Equal(t, "Email from spam@example.net rejected.", response.Body)
	assert.Zero(t, store.TotalWrites())
}

func TestSenderFilter_MalformedEmail(t *testing.T) {
	store := mock.NewMemoryBlobStore()
	filter := NewSenderFilter(adapters.NewNopLogger(), store, "inbound", []string{"jamie@example.com"})

	response := filter.Accept(context.Background(), domain.InboundEmail{Sender: "jamie@example.com"})

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Zero(t, store.TotalWrites())
}
