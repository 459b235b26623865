package translate

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retrying retries failed translations with exponential backoff.
//
// Errors a StatusError marks as non-temporary (4xx other than 429) are not
// retried. Cancelling ctx stops retrying.
type Retrying struct {
	Next Translator

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialInterval is the first backoff delay. Zero means 200ms.
	InitialInterval time.Duration
}

// Translate implements Translator.
func (r *Retrying) Translate(ctx context.Context, text, source, target string) (string, error) {
	var out string
	op := func() error {
		s, err := r.Next.Translate(ctx, text, source, target)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Temporary() {
				return backoff.Permanent(err)
			}
			return err
		}
		out = s
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	if r.InitialInterval > 0 {
		eb.InitialInterval = r.InitialInterval
	}
	eb.MaxElapsedTime = 0

	retries := r.MaxRetries
	if retries < 0 {
		retries = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)

	if err := backoff.Retry(op, b); err != nil {
		return "", err
	}
	return out, nil
}
