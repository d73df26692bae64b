package gui

import (
	"net/url"
	"strings"
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/net/html"
)

// SourceSegments shows output verbatim in a monospace block
func SourceSegments(output string) []widget.RichTextSegment {
	return []widget.RichTextSegment{
		&widget.TextSegment{Style: widget.RichTextStyleCodeBlock, Text: output},
	}
}

// HTMLSegments converts a rendered HTML page into rich text segments. Only
// the structure docutils and goldmark emit is understood; other elements
// fall back to their text content. Input that is not an HTML page, such as
// a diagnostic message, is shown verbatim.
func HTMLSegments(src string) []widget.RichTextSegment {
	if !looksLikeHTML(src) {
		return SourceSegments(src)
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return SourceSegments(src)
	}

	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}

	c := &converter{}
	c.block(root)
	c.flush()

	if len(c.segments) == 0 {
		return []widget.RichTextSegment{&widget.TextSegment{Style: widget.RichTextStyleParagraph}}
	}
	return c.segments
}

// inlineStyle tracks nested inline formatting
type inlineStyle struct {
	bold, italic, mono bool
}

func (s inlineStyle) richText() widget.RichTextStyle {
	return widget.RichTextStyle{
		ColorName: theme.ColorNameForeground,
		Inline:    true,
		SizeName:  theme.SizeNameText,
		TextStyle: fyne.TextStyle{Bold: s.bold, Italic: s.italic, Monospace: s.mono},
	}
}

var minorHeading = widget.RichTextStyle{
	ColorName: theme.ColorNameForeground,
	SizeName:  theme.SizeNameText,
	TextStyle: fyne.TextStyle{Bold: true},
}

type converter struct {
	segments []widget.RichTextSegment
	pending  []widget.RichTextSegment // inline segments of the current paragraph
}

// block converts the children of a block container
func (c *converter) block(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			c.text(child.Data, inlineStyle{})
		case html.ElementNode:
			if isBlock(child.Data) {
				c.flush()
				c.element(child)
			} else {
				c.inline(child, inlineStyle{})
			}
		}
	}
}

// element converts a single block-level element
func (c *converter) element(n *html.Node) {
	switch n.Data {
	case "head", "script", "style", "title":
	case "h1":
		c.add(&widget.TextSegment{Style: widget.RichTextStyleHeading, Text: textContent(n)})
	case "h2":
		c.add(&widget.TextSegment{Style: widget.RichTextStyleSubHeading, Text: textContent(n)})
	case "h3", "h4", "h5", "h6", "dt", "caption":
		c.add(&widget.TextSegment{Style: minorHeading, Text: textContent(n)})
	case "p":
		c.inlineChildren(n, inlineStyle{})
		c.flush()
	case "pre":
		c.add(&widget.TextSegment{Style: widget.RichTextStyleCodeBlock, Text: strings.TrimRight(rawText(n), "\n")})
	case "blockquote":
		c.add(&widget.TextSegment{Style: widget.RichTextStyleBlockquote, Text: textContent(n)})
	case "hr":
		c.add(&widget.SeparatorSegment{})
	case "ul", "ol":
		c.add(listSegment(n))
	case "table":
		c.table(n)
	default:
		c.block(n)
		c.flush()
	}
}

// inline converts an inline element and its children
func (c *converter) inline(n *html.Node, style inlineStyle) {
	switch n.Data {
	case "em", "i", "cite":
		style.italic = true
	case "strong", "b":
		style.bold = true
	case "code", "tt", "kbd", "samp":
		style.mono = true
	case "br":
		c.flush()
		return
	case "img":
		alt := attr(n, "alt")
		if alt == "" {
			alt = attr(n, "src")
		}
		c.pending = append(c.pending, &widget.TextSegment{
			Style: inlineStyle{italic: true}.richText(),
			Text:  "[image: " + alt + "]",
		})
		return
	case "a":
		if u, err := url.Parse(attr(n, "href")); err == nil && u.IsAbs() {
			c.pending = append(c.pending, &widget.HyperlinkSegment{Text: textContent(n), URL: u})
			return
		}
	case "span":
		if hasClass(n, "pre") || hasClass(n, "literal") {
			style.mono = true
		}
	}
	c.inlineChildren(n, style)
}

func (c *converter) inlineChildren(n *html.Node, style inlineStyle) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			c.text(child.Data, style)
		case html.ElementNode:
			c.inline(child, style)
		}
	}
}

func (c *converter) text(data string, style inlineStyle) {
	text := collapseSpace(data)
	if len(c.pending) == 0 {
		text = strings.TrimLeftFunc(text, unicode.IsSpace)
	}
	if text == "" {
		return
	}
	c.pending = append(c.pending, &widget.TextSegment{Style: style.richText(), Text: text})
}

// table renders one paragraph per row with cells separated by bars
func (c *converter) table(n *html.Node) {
	for _, row := range findAll(n, "tr") {
		var cells []string
		for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
				cells = append(cells, textContent(cell))
			}
		}
		if len(cells) > 0 {
			c.add(&widget.TextSegment{Style: widget.RichTextStyleParagraph, Text: strings.Join(cells, " | ")})
		}
	}
}

// flush ends the pending paragraph
func (c *converter) flush() {
	if len(c.pending) == 0 {
		return
	}

	if last, ok := c.pending[len(c.pending)-1].(*widget.TextSegment); ok {
		last.Text = strings.TrimRightFunc(last.Text, unicode.IsSpace)
		last.Style.Inline = false
		c.segments = append(c.segments, c.pending...)
	} else {
		c.segments = append(c.segments, c.pending...)
		c.segments = append(c.segments, &widget.TextSegment{Style: widget.RichTextStyleParagraph})
	}
	c.pending = nil
}

func (c *converter) add(seg widget.RichTextSegment) {
	c.flush()
	c.segments = append(c.segments, seg)
}

// listSegment converts ul/ol into a list, nesting sub-lists as items
func listSegment(n *html.Node) *widget.ListSegment {
	list := &widget.ListSegment{Ordered: n.Data == "ol"}

	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}

		item := &converter{}
		var nested []widget.RichTextSegment
		for child := li.FirstChild; child != nil; child = child.NextSibling {
			switch {
			case child.Type == html.TextNode:
				item.text(child.Data, inlineStyle{})
			case child.Type == html.ElementNode && (child.Data == "ul" || child.Data == "ol"):
				nested = append(nested, listSegment(child))
			case child.Type == html.ElementNode && child.Data == "p":
				item.inlineChildren(child, inlineStyle{})
			case child.Type == html.ElementNode:
				item.inline(child, inlineStyle{})
			}
		}

		if len(item.pending) > 0 {
			if last, ok := item.pending[len(item.pending)-1].(*widget.TextSegment); ok {
				last.Text = strings.TrimRightFunc(last.Text, unicode.IsSpace)
			}
			list.Items = append(list.Items, &widget.ParagraphSegment{Texts: item.pending})
		}
		list.Items = append(list.Items, nested...)
	}
	return list
}

// looksLikeHTML reports whether src starts like a complete HTML page
func looksLikeHTML(src string) bool {
	head := strings.ToLower(strings.TrimSpace(src))
	for _, prefix := range []string{"<!doctype", "<html", "<?xml"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

func isBlock(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "body", "caption", "dd", "div",
		"dl", "dt", "fieldset", "figure", "footer", "form", "h1", "h2", "h3", "h4",
		"h5", "h6", "head", "header", "hr", "html", "li", "main", "nav", "ol", "p",
		"pre", "script", "section", "style", "table", "title", "ul":
		return true
	}
	return false
}

// collapseSpace folds runs of whitespace into single spaces
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}

	out := strings.Join(fields, " ")
	first := []rune(s)[0]
	last := []rune(s)[len([]rune(s))-1]
	if unicode.IsSpace(first) {
		out = " " + out
	}
	if unicode.IsSpace(last) {
		out += " "
	}
	return out
}

// textContent returns the collapsed, trimmed text below n
func textContent(n *html.Node) string {
	return strings.TrimSpace(collapseSpace(rawText(n)))
}

// rawText returns the text below n as-is
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
