package translation

import (
	"errors"
	"log/slog"

	"codeberg.org/snonux/rstedit/internal"
	"codeberg.org/snonux/rstedit/internal/render"
)

// Stats counts cache hits and misses
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Translator renders markup through a publisher and memoizes the results
type Translator struct {
	pub   render.Publisher
	cache *Cache
	stats Stats
}

// NewTranslator creates a translator with an empty cache
func NewTranslator(pub render.Publisher) *Translator {
	return &Translator{
		pub:   pub,
		cache: NewCache(),
	}
}

// Translate returns the rendered form of text. Render failures never escape:
// the diagnostic message becomes the output instead. Fatal diagnostics are
// cached like any other output; other failures (renderer missing, timeout)
// are not, so the next edit tries again.
func (t *Translator) Translate(text string) string {
	key := internal.ContentDigest(text)
	if output, ok := t.cache.Get(key); ok {
		t.stats.Hits++
		return output
	}
	t.stats.Misses++

	output, err := t.pub.Publish(text)
	if err != nil {
		var fatal *render.FatalError
		if !errors.As(err, &fatal) {
			slog.Warn("Render failed", "publisher", t.pub.Name(), "error", err)
			return err.Error()
		}
		slog.Debug("Render aborted by fatal diagnostic", "digest", key.Short())
		output = fatal.Message
	}

	t.cache.Add(key, output)
	return output
}

// Stats returns a snapshot of the cache counters
func (t *Translator) Stats() Stats {
	s := t.stats
	s.Entries = t.cache.Len()
	return s
}

// Publisher returns the publisher in use
func (t *Translator) Publisher() render.Publisher {
	return t.pub
}

// Close clears the cache and releases the publisher. Translate must not be
// called afterwards.
func (t *Translator) Close() error {
	t.cache.Clear()
	return t.pub.Close()
}
