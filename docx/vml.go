package docx

import (
	"strconv"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// vmlKinds maps VML element names to shape kinds.
var vmlKinds = map[string]string{
	"shape":     "rect",
	"rect":      "rect",
	"roundrect": "roundRect",
	"oval":      "ellipse",
	"line":      "line",
	"polyline":  "polyline",
	"arc":       "arc",
	"image":     "picture",
	"group":     "group",
}

// parseVMLStyle splits a CSS-like VML style attribute into lower-case
// properties.
func parseVMLStyle(style string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}

func vmlPosition(style map[string]string, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := style[k]; ok {
			return units.ParseVMLLength(v)
		}
	}
	return 0
}

// vmlPicture converts the shapes of a w:pict.
func (c *converter) vmlPicture(b *paraBuilder, pict *ooxml.Node) error {
	for _, n := range pict.Elements() {
		if _, ok := vmlKinds[n.Name()]; !ok || n.Prefix() == "w" {
			continue
		}
		s := c.vmlShape(b.pc, n)
		if s == nil {
			continue
		}
		if s.Image != nil && s.Kind == "picture" && len(s.Paragraphs) == 0 && len(s.Children) == 0 {
			img := s.Image
			img.Position = PositionInline
			img.Wrap = "inline"
			if s.XMM != 0 || s.YMM != 0 || s.BehindText {
				img.Position = PositionAnchor
				img.Wrap = "square"
				img.XMM, img.YMM = s.XMM, s.YMM
			}
			img.BehindText = s.BehindText
			if s.WidthMM > 0 {
				img.WidthMM, img.HeightMM = s.WidthMM, s.HeightMM
			}
			c.placeImage(b, img, s.ID)
			continue
		}
		c.placeShape(b, s)
	}
	return nil
}

// vmlShape converts one VML element. Shapetype definitions return nil.
func (c *converter) vmlShape(pc *partContext, n *ooxml.Node) *Shape {
	if n.Is("shapetype") {
		return nil
	}
	style := parseVMLStyle(n.Attr("style"))
	s := &Shape{
		ID:       n.Attr("id"),
		Name:     n.Attr("alt"),
		Kind:     vmlKinds[n.Name()],
		Source:   SourceVML,
		XMM:      vmlPosition(style, "margin-left", "left"),
		YMM:      vmlPosition(style, "margin-top", "top"),
		WidthMM:  vmlPosition(style, "width"),
		HeightMM: vmlPosition(style, "height"),
	}
	if s.Name == "" {
		s.Name = n.Attr("o:spid")
	}
	if rot, ok := style["rotation"]; ok {
		s.Rotation = units.ParseFloat(strings.TrimSuffix(rot, "fd"))
		if strings.HasSuffix(rot, "fd") {
			s.Rotation /= 65536
		}
	}
	if z, err := strconv.Atoi(style["z-index"]); err == nil && z < 0 {
		s.BehindText = true
	}
	if n.Is("line") {
		from := strings.Split(n.Attr("from"), ",")
		to := strings.Split(n.Attr("to"), ",")
		if len(from) == 2 && len(to) == 2 {
			x1, y1 := units.ParseVMLLength(from[0]), units.ParseVMLLength(from[1])
			x2, y2 := units.ParseVMLLength(to[0]), units.ParseVMLLength(to[1])
			s.XMM, s.YMM = x1, y1
			s.WidthMM, s.HeightMM = x2-x1, y2-y1
		}
	}

	if n.Attr("filled") != "f" && n.Attr("filled") != "false" {
		s.FillColor = units.NormalizeColor(n.Attr("fillcolor"))
	}
	if fill := n.Child("fill"); fill != nil {
		if op, ok := units.ParseFraction(fill.Attr("opacity")); ok {
			s.Opacity = op
		}
		if s.FillColor == "" {
			s.FillColor = units.NormalizeColor(fill.Attr("color"))
		}
	}
	if n.Attr("stroked") != "f" && n.Attr("stroked") != "false" {
		s.StrokeColor = units.NormalizeColor(n.Attr("strokecolor"))
		if w := n.Attr("strokeweight"); w != "" {
			s.StrokeWidthPt = units.MMToPoints(units.ParseVMLLength(w))
		}
	}

	switch typ := n.Attr("type"); {
	case strings.HasSuffix(typ, "t202"):
		s.Kind = "textbox"
	case strings.HasSuffix(typ, "t75"):
		s.Kind = "picture"
	case strings.HasSuffix(typ, "t136"):
		s.Kind = "wordart"
	}

	if tp := n.Child("textpath"); tp != nil {
		s.Kind = "wordart"
		s.WatermarkText = tp.Attr("string")
	}
	if content := n.Child("textbox").Child("txbxContent"); content != nil {
		s.Kind = "textbox"
		s.Paragraphs = c.textboxParagraphs(pc, content)
	}
	if data := n.Child("imagedata"); data != nil {
		if id := firstAttr(data, "r:id", "r:pict"); id != "" {
			img, err := c.loadImage(pc, id)
			if err != nil {
				c.warn(pc.name, "imagedata", err)
			} else {
				img.AltText = data.Attr("o:title")
				s.Image = img
				if s.Kind == "rect" {
					s.Kind = "picture"
				}
			}
		}
	}
	if n.Is("group") {
		for _, child := range n.Elements() {
			if _, ok := vmlKinds[child.Name()]; ok {
				if cs := c.vmlShape(pc, child); cs != nil {
					s.Children = append(s.Children, cs)
				}
			}
		}
	}
	return s
}
