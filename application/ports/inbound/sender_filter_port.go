package inbound

import (
	"context"

	"github.com/jamieforrest/speakyer-proc/domain"
)

type SenderFilterPort interface {
	Accept(ctx context.Context, email domain.InboundEmail) domain.Response
}
