package channel_utils

import "context"

// Collect drains values until it is closed and returns the first error seen on errs.
// Both channels must be closed by the producer once it is done.
func Collect[T any](ctx context.Context, values <-chan T, errs <-chan error) ([]T, error) {
	collected := make([]T, 0)
	for values != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return nil, err
		case value, ok := <-values:
			if !ok {
				values = nil
				continue
			}
			collected = append(collected, value)
		}
	}

	if errs != nil {
		for err := range errs {
			return nil, err
		}
	}

	return collected, nil
}
