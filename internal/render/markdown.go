package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// MarkdownPublisher renders Markdown in-process with goldmark
type MarkdownPublisher struct {
	md goldmark.Markdown
}

// NewMarkdownPublisher creates a Markdown publisher with GitHub flavoured extensions
func NewMarkdownPublisher() *MarkdownPublisher {
	return &MarkdownPublisher{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Publish renders source as a standalone HTML page
func (p *MarkdownPublisher) Publish(source string) (string, error) {
	var body bytes.Buffer
	if err := p.md.Convert([]byte(source), &body); err != nil {
		return "", &FatalError{Message: fmt.Sprintf("markdown conversion failed: %v", err)}
	}
	return fmt.Sprintf(pageTemplate, "Document", body.String()), nil
}

// Name returns the publisher name
func (p *MarkdownPublisher) Name() string {
	return "markdown (goldmark)"
}

// Close is a no-op
func (p *MarkdownPublisher) Close() error {
	return nil
}
