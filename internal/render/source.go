package render

import (
	"fmt"
	"html"
)

// SourcePublisher echoes the markup inside a <pre> block. It is used when no
// renderer is installed and in tests.
type SourcePublisher struct{}

// NewSourcePublisher creates a source publisher
func NewSourcePublisher() *SourcePublisher {
	return &SourcePublisher{}
}

// Publish wraps the escaped source in a page
func (p *SourcePublisher) Publish(source string) (string, error) {
	return fmt.Sprintf(pageTemplate, "Source", "<pre>"+html.EscapeString(source)+"</pre>\n"), nil
}

// Name returns the publisher name
func (p *SourcePublisher) Name() string {
	return "source"
}

// Close is a no-op
func (p *SourcePublisher) Close() error {
	return nil
}
