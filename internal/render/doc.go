// Package render turns markup source into HTML. The reStructuredText
// pipeline delegates to an external docutils front end; Markdown is
// rendered in-process with goldmark.
package render
