package inbound

import "context"

type FeedRebuilderPort interface {
	Rebuild(ctx context.Context, location string) (int, error)
}
