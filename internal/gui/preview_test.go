package gui

import (
	"testing"

	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docutilsSample is trimmed rst2html output
const docutilsSample = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Title</title>
<style type="text/css">body { margin: 0 }</style>
</head>
<body>
<main id="title">
<h1 class="title">Title</h1>
<p>Hello <em>world</em>, this is
<strong>strong</strong> and <span class="docutils literal">code</span>.</p>
<ul class="simple">
<li><p>first</p></li>
<li><p>second</p>
<ul>
<li><p>nested</p></li>
</ul>
</li>
</ul>
<pre class="literal-block">
def f():
    return 1
</pre>
<hr class="docutils">
<p>See <a class="reference external" href="https://docutils.sourceforge.io/">docutils</a>.</p>
<table>
<tr><th>Name</th><th>Value</th></tr>
<tr><td>a</td><td>1</td></tr>
</table>
</main>
</body>
</html>
`

func textOf(seg widget.RichTextSegment) string {
	switch s := seg.(type) {
	case *widget.TextSegment:
		return s.Text
	case *widget.HyperlinkSegment:
		return s.Text
	}
	return ""
}

func TestHTMLSegmentsDocutils(t *testing.T) {
	segs := HTMLSegments(docutilsSample)
	require.NotEmpty(t, segs)

	// heading
	heading, ok := segs[0].(*widget.TextSegment)
	require.True(t, ok)
	assert.Equal(t, "Title", heading.Text)
	assert.Equal(t, widget.RichTextStyleHeading, heading.Style)

	// paragraph with inline styles
	var texts []string
	i := 1
	for ; i < len(segs); i++ {
		texts = append(texts, textOf(segs[i]))
		if !segs[i].Inline() {
			break
		}
	}
	assert.Equal(t, []string{"Hello ", "world", ", this is ", "strong", " and ", "code", "."}, texts)

	em := segs[2].(*widget.TextSegment)
	assert.True(t, em.Style.TextStyle.Italic)
	strong := segs[4].(*widget.TextSegment)
	assert.True(t, strong.Style.TextStyle.Bold)
	code := segs[6].(*widget.TextSegment)
	assert.True(t, code.Style.TextStyle.Monospace)

	// list with a nested list
	list, ok := segs[i+1].(*widget.ListSegment)
	require.True(t, ok)
	assert.False(t, list.Ordered)
	require.Len(t, list.Items, 3)
	first := list.Items[0].(*widget.ParagraphSegment)
	assert.Equal(t, "first", textOf(first.Texts[0]))
	nested, ok := list.Items[2].(*widget.ListSegment)
	require.True(t, ok)
	require.Len(t, nested.Items, 1)

	// literal block keeps its indentation
	pre, ok := segs[i+2].(*widget.TextSegment)
	require.True(t, ok)
	assert.Equal(t, widget.RichTextStyleCodeBlock, pre.Style)
	assert.Equal(t, "def f():\n    return 1", pre.Text)

	_, ok = segs[i+3].(*widget.SeparatorSegment)
	assert.True(t, ok)

	// external link
	var link *widget.HyperlinkSegment
	for _, seg := range segs {
		if l, ok := seg.(*widget.HyperlinkSegment); ok {
			link = l
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "docutils", link.Text)
	assert.Equal(t, "docutils.sourceforge.io", link.URL.Host)

	// table rows
	last := segs[len(segs)-1].(*widget.TextSegment)
	assert.Equal(t, "a | 1", last.Text)
	header := segs[len(segs)-2].(*widget.TextSegment)
	assert.Equal(t, "Name | Value", header.Text)
}

func TestHTMLSegmentsPlainDiagnostic(t *testing.T) {
	msg := "<string>:4: (SEVERE/4) Unexpected section title."
	segs := HTMLSegments(msg)

	require.Len(t, segs, 1)
	seg := segs[0].(*widget.TextSegment)
	assert.False(t, seg.Inline())
	assert.Equal(t, msg, seg.Text)
}

func TestHTMLSegmentsEmpty(t *testing.T) {
	segs := HTMLSegments("")
	require.Len(t, segs, 1)
	assert.Equal(t, "", textOf(segs[0]))
}

func TestHTMLSegmentsOrderedList(t *testing.T) {
	segs := HTMLSegments("<html><body><ol><li>one</li><li>two <code>x</code></li></ol></body></html>")
	require.Len(t, segs, 1)

	list := segs[0].(*widget.ListSegment)
	assert.True(t, list.Ordered)
	require.Len(t, list.Items, 2)

	second := list.Items[1].(*widget.ParagraphSegment)
	require.Len(t, second.Texts, 2)
	assert.Equal(t, "two ", textOf(second.Texts[0]))
	assert.Equal(t, "x", textOf(second.Texts[1]))
}

func TestSourceSegments(t *testing.T) {
	segs := SourceSegments("<p>x</p>")
	require.Len(t, segs, 1)

	seg := segs[0].(*widget.TextSegment)
	assert.Equal(t, "<p>x</p>", seg.Text)
	assert.Equal(t, widget.RichTextStyleCodeBlock, seg.Style)
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, looksLikeHTML("<!DOCTYPE html><html></html>"))
	assert.True(t, looksLikeHTML("  <?xml version=\"1.0\" encoding=\"utf-8\" ?>\n<html>"))
	assert.True(t, looksLikeHTML("<HTML>"))
	assert.False(t, looksLikeHTML("<string>:1: (SEVERE/4) boom"))
	assert.False(t, looksLikeHTML(""))
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"   ", " "},
		{"a  b", "a b"},
		{" a\n b ", " a b "},
		{"\tword", " word"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, collapseSpace(tt.in), "collapseSpace(%q)", tt.in)
	}
}
