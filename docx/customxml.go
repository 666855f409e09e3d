package docx

import (
	"path"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// loadCustomXML records every customXml item and reads the bibliography
// from the one whose root is b:Sources.
func (c *converter) loadCustomXML() {
	for _, name := range c.pkg.Files("customXml/") {
		base := path.Base(name)
		if strings.Contains(name, "/_rels/") || !strings.HasPrefix(base, "item") ||
			strings.HasPrefix(base, "itemProps") || !strings.HasSuffix(base, ".xml") {
			continue
		}
		root, err := c.pkg.XML(name)
		if err != nil {
			c.warn(name, "customXml", err)
			continue
		}
		part := CustomXMLPart{
			Path:        name,
			RootElement: root.Name(),
			Namespace:   root.Element().NamespaceURI(),
			Content:     root.String(),
			ItemID:      c.customXMLItemID(name),
		}
		c.out.CustomXML = append(c.out.CustomXML, part)

		if root.Is("Sources") {
			c.out.Bibliography = append(c.out.Bibliography, parseSources(root)...)
		}
	}
}

// customXMLItemID reads ds:itemID from the item's properties part.
func (c *converter) customXMLItemID(item string) string {
	for _, rel := range c.pkg.Relationships(item).ByType(ooxml.RelCustomXMLProps) {
		props := c.optionalXML(rel.TargetPath())
		if id := props.Attr("itemID"); id != "" {
			return id
		}
	}
	return ""
}

// parseSources converts a b:Sources bibliography.
func parseSources(root *ooxml.Node) []Source {
	var out []Source
	for _, s := range root.Children("Source") {
		src := Source{
			Tag:       s.InnerText("Tag"),
			Type:      s.InnerText("SourceType"),
			Title:     s.InnerText("Title"),
			Year:      s.InnerText("Year"),
			Publisher: s.InnerText("Publisher"),
			City:      s.InnerText("City"),
			URL:       s.InnerText("URL"),
		}
		src.Authors = sourceAuthors(s)
		out = append(out, src)
	}
	return out
}

// sourceAuthors lists the b:Author names as "Last, First", or the corporate
// author when there is no person.
func sourceAuthors(s *ooxml.Node) []string {
	var out []string
	author := s.Child("Author").Child("Author")
	for _, p := range author.Child("NameList").Children("Person") {
		last, first := p.InnerText("Last"), p.InnerText("First")
		switch {
		case last != "" && first != "":
			out = append(out, last+", "+first)
		case last != "":
			out = append(out, last)
		case first != "":
			out = append(out, first)
		}
	}
	if len(out) == 0 {
		if corp := strings.TrimSpace(author.InnerText("Corporate")); corp != "" {
			out = append(out, corp)
		}
	}
	return out
}
