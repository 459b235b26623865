package translate

import (
	"context"
	"fmt"
)

// Translator translates a single piece of text.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Func adapts an ordinary function to the Translator interface.
type Func func(ctx context.Context, text, source, target string) (string, error)

// Translate calls f.
func (f Func) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// Static returns a Translator that looks text up in table and fails for
// anything missing. Useful for fixtures and offline runs.
func Static(table map[string]string) Translator {
	return Func(func(_ context.Context, text, _, _ string) (string, error) {
		if out, ok := table[text]; ok {
			return out, nil
		}
		return "", fmt.Errorf("no translation for %q", text)
	})
}

// StatusError is returned when a translation service answers with a non-2xx
// HTTP status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("translation service returned status %d", e.Code)
	}
	return fmt.Sprintf("translation service returned status %d: %s", e.Code, e.Body)
}

// Temporary reports whether retrying the same request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}
