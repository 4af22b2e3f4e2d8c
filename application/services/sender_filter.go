package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type senderFilter struct {
	logger   outbound.LoggerPort
	store    outbound.BlobStorePort
	location string
	allowed  map[string]struct{}
}

func NewSenderFilter(logger outbound.LoggerPort, store outbound.BlobStorePort, location string, allowList []string) inbound.SenderFilterPort {
	allowed := make(map[string]struct{}, len(allowList))
	for _, sender := range allowList {
		sender = strings.ToLower(strings.TrimSpace(sender))
		if sender != "" {
			allowed[sender] = struct{}{}
		}
	}
	return &senderFilter{
		logger:   logger,
		store:    store,
		location: location,
		allowed:  allowed,
	}
}

// Accept stores the metadata of mail from an allowed sender. Rejected mail never
// touches the store.
func (s *senderFilter) Accept(ctx context.Context, email domain.InboundEmail) domain.Response {
	if email.Sender == "" || email.MessageID == "" {
		err := domain.InvalidInput("message id and sender are required")
		s.logger.Error(err, "Malformed inbound email")
		return domain.ErrorResponse(fmt.Sprintf("Error processing email: %s", err))
	}

	if _, ok := s.allowed[strings.ToLower(strings.TrimSpace(email.Sender))]; !ok {
		s.logger.WarnWithFields("Sender rejected", map[string]interface{}{
			"sender":     email.Sender,
			"message_id": email.MessageID,
			"reason":     domain.ErrForbiddenSender.Error(),
		})
		return domain.ForbiddenResponse(fmt.Sprintf("Email from %s rejected.", email.Sender))
	}

	if err := s.store.WriteBytes(ctx, s.location, email.StorageKey(), email.Metadata); err != nil {
		s.logger.ErrorWithFields(err, "Failed to store inbound email", map[string]interface{}{
			"key": email.StorageKey(),
		})
		return domain.ErrorResponse(fmt.Sprintf("Error processing email: %s", err))
	}

	s.logger.InfoWithFields("Sender accepted", map[string]interface{}{
		"sender": email.Sender,
		"key":    email.StorageKey(),
	})
	return domain.SuccessResponse(fmt.Sprintf("Email from %s accepted and stored.", email.Sender))
}
