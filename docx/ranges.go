package docx

import (
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// openRange collects the visible text between a bookmark or comment range
// start and its end.
type openRange struct {
	bookmark *Bookmark
	comment  string
	text     strings.Builder
}

// rangeMarker handles bookmark and comment range boundaries. b is nil for
// markers between block elements.
func (c *converter) rangeMarker(b *paraBuilder, n *ooxml.Node) {
	id := n.Attr("id")
	switch {
	case n.Is("w:bookmarkStart"):
		name := n.Attr("name")
		if name == "" || name == "_GoBack" {
			return
		}
		bm := &Bookmark{ID: id, Name: name, ParagraphIndex: c.paraIndex}
		c.out.Bookmarks = append(c.out.Bookmarks, bm)
		c.openRanges["b"+id] = &openRange{bookmark: bm}
		if b != nil {
			b.para.BookmarkNames = append(b.para.BookmarkNames, name)
		}
	case n.Is("w:bookmarkEnd"):
		if r, ok := c.openRanges["b"+id]; ok {
			r.bookmark.Text = rangeString(r)
			delete(c.openRanges, "b"+id)
		}
	case n.Is("w:commentRangeStart"):
		c.openRanges["c"+id] = &openRange{comment: id}
	case n.Is("w:commentRangeEnd"):
		if r, ok := c.openRanges["c"+id]; ok {
			c.rangeText[id] = rangeString(r)
			delete(c.openRanges, "c"+id)
		}
	}
}

func rangeString(r *openRange) string {
	return strings.TrimRight(r.text.String(), "\n")
}

func (c *converter) appendRangeText(text string) {
	for _, r := range c.openRanges {
		r.text.WriteString(text)
	}
}

// paragraphEnded separates the text of ranges spanning paragraphs.
func (c *converter) paragraphEnded() {
	for _, r := range c.openRanges {
		if r.text.Len() > 0 {
			r.text.WriteByte('\n')
		}
	}
}

// closeOpenRanges ends ranges whose end marker never appeared.
func (c *converter) closeOpenRanges() {
	for key, r := range c.openRanges {
		if r.bookmark != nil {
			r.bookmark.Text = rangeString(r)
		} else {
			c.rangeText[r.comment] = rangeString(r)
		}
		delete(c.openRanges, key)
	}
}
