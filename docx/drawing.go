package docx

import (
	"fmt"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// wrapPrecedence is the order in which anchor wrap elements are checked.
var wrapPrecedence = []string{"wrapNone", "wrapSquare", "wrapTight", "wrapThrough", "wrapTopAndBottom"}

// watermarkMinWidth is the share of the page width a behind-text header
// object must cover to count as a watermark.
const watermarkMinWidth = 0.4

// drawingGeometry is the placement shared by every wp:inline/wp:anchor.
type drawingGeometry struct {
	position string
	widthMM  float64
	heightMM float64
	xMM      float64
	yMM      float64
	relH     string
	relV     string
	alignH   string
	alignV   string
	wrap     string
	behind   bool
	id       string
	name     string
	descr    string
	title    string
}

func parseDrawingGeometry(container *ooxml.Node) drawingGeometry {
	g := drawingGeometry{position: PositionInline, wrap: "inline"}
	if ext := container.Child("extent"); ext != nil {
		g.widthMM = units.ParseEMU(ext.Attr("cx"))
		g.heightMM = units.ParseEMU(ext.Attr("cy"))
	}
	if docPr := container.Child("docPr"); docPr != nil {
		g.id = docPr.Attr("id")
		g.name = docPr.Attr("name")
		g.descr = docPr.Attr("descr")
		g.title = docPr.Attr("title")
	}
	if !container.Is("anchor") {
		return g
	}

	g.position = PositionAnchor
	g.behind = onOffAttr(container, "behindDoc")
	g.wrap = "square"
	for _, name := range wrapPrecedence {
		if container.Child(name) != nil {
			g.wrap = units.WrapStyle(name)
			break
		}
	}
	if ph := container.Child("positionH"); ph != nil {
		g.relH = ph.Attr("relativeFrom")
		g.xMM = units.ParseEMU(ph.Child("posOffset").Text())
		g.alignH = strings.TrimSpace(ph.Child("align").Text())
	}
	if pv := container.Child("positionV"); pv != nil {
		g.relV = pv.Attr("relativeFrom")
		g.yMM = units.ParseEMU(pv.Child("posOffset").Text())
		g.alignV = strings.TrimSpace(pv.Child("align").Text())
	}
	return g
}

func (g drawingGeometry) applyTo(img *Image) {
	img.Position = g.position
	img.Wrap = g.wrap
	img.XMM, img.YMM = g.xMM, g.yMM
	img.RelativeFromH, img.RelativeFromV = g.relH, g.relV
	img.AlignH, img.AlignV = g.alignH, g.alignV
	img.BehindText = g.behind
	img.AltText = g.descr
	img.Title = g.title
	if g.widthMM > 0 {
		img.WidthMM, img.HeightMM = g.widthMM, g.heightMM
	}
}

// drawing converts a w:drawing into an image, shape, chart or diagram
// element queued behind the current paragraph segment.
func (c *converter) drawing(b *paraBuilder, d *ooxml.Node) error {
	container := firstChild(d, "wp:inline", "wp:anchor")
	if container == nil {
		return nil
	}
	g := parseDrawingGeometry(container)
	data := container.Child("graphic").Child("graphicData")

	switch {
	case data.Child("pic") != nil:
		img, err := c.pictureImage(b.pc, data.Child("pic"), g)
		if err != nil {
			return err
		}
		c.placeImage(b, img, g.name)
	case data.Child("chart") != nil:
		chart, err := c.chart(b.pc, data.Child("chart").Attr("r:id"), g)
		if err != nil {
			return err
		}
		b.addElement(Element{Type: ElementChart, Chart: chart})
	case data.Child("relIds") != nil:
		sa, err := c.smartArt(b.pc, data.Child("relIds"), g)
		if err != nil {
			return err
		}
		b.addElement(Element{Type: ElementSmartArt, SmartArt: sa})
	case data.Child("wsp") != nil:
		shape := c.wordprocessingShape(b.pc, data.Child("wsp"), g)
		c.placeShape(b, shape)
	case data.Child("wgp") != nil, data.Child("wpc") != nil:
		group := firstChild(data, "wgp", "wpc")
		shape := &Shape{Kind: "group", Source: SourceDrawingML}
		applyGeometry(shape, g)
		shape.Children = c.groupChildren(b.pc, group)
		c.placeShape(b, shape)
	default:
		return fmt.Errorf("unsupported graphic data %q", data.Attr("uri"))
	}
	return nil
}

func applyGeometry(s *Shape, g drawingGeometry) {
	s.ID = g.id
	s.Name = g.name
	s.XMM, s.YMM = g.xMM, g.yMM
	s.WidthMM, s.HeightMM = g.widthMM, g.heightMM
	s.BehindText = g.behind
}

// pictureImage resolves a pic:pic blip into an Image.
func (c *converter) pictureImage(pc *partContext, pic *ooxml.Node, g drawingGeometry) (*Image, error) {
	blip := pic.Child("blipFill").Child("blip")
	if blip == nil {
		return nil, fmt.Errorf("picture without blip")
	}
	if id := blip.Attr("r:embed"); id != "" {
		img, err := c.loadImage(pc, id)
		if err != nil {
			return nil, err
		}
		g.applyTo(img)
		if img.AltText == "" {
			img.AltText = pic.Child("nvPicPr").Child("cNvPr").Attr("descr")
		}
		return img, nil
	}
	if id := blip.Attr("r:link"); id != "" {
		target := pc.rels.Target(id)
		return nil, fmt.Errorf("linked image %s skipped", target)
	}
	return nil, fmt.Errorf("picture blip has no relationship")
}

// placeImage records img and queues it, unless it is a header watermark.
func (c *converter) placeImage(b *paraBuilder, img *Image, name string) {
	root := b.pc.root()
	c.out.Images = append(c.out.Images, img)
	root.images = append(root.images, img)

	if b.pc.inHeaderFooter() && c.isWatermarkImage(img, name) {
		wm := &Shape{
			Kind:        "picture",
			Source:      SourceDrawingML,
			Name:        name,
			XMM:         img.XMM,
			YMM:         img.YMM,
			WidthMM:     img.WidthMM,
			HeightMM:    img.HeightMM,
			BehindText:  true,
			IsWatermark: true,
			Image:       img,
		}
		c.recordWatermark(b.pc, wm)
		return
	}
	b.addElement(Element{Type: ElementImage, Image: img})
}

// placeShape records a shape and queues it, unless it is a header
// watermark.
func (c *converter) placeShape(b *paraBuilder, s *Shape) {
	root := b.pc.root()
	c.out.Shapes = append(c.out.Shapes, s)
	root.shapes = append(root.shapes, s)
	if b.pc.inHeaderFooter() && c.isWatermarkShape(s) {
		s.IsWatermark = true
		if s.WatermarkText == "" {
			s.WatermarkText = strings.TrimSpace(s.Text())
		}
		c.recordWatermark(b.pc, s)
		return
	}
	b.addElement(Element{Type: ElementShape, Shape: s})
}

func (c *converter) recordWatermark(pc *partContext, s *Shape) {
	if root := pc.root(); root.watermark == nil {
		root.watermark = s
	}
}

func isWatermarkName(name string) bool {
	return strings.Contains(name, "PowerPlusWaterMarkObject") || strings.Contains(name, "WordPictureWatermark")
}

// coversPage reports whether an object is wide enough to be a watermark.
func (c *converter) coversPage(widthMM float64) bool {
	page := c.pageWidthMM
	if page <= 0 {
		page = defaultPageWidthMM
	}
	return widthMM >= page*watermarkMinWidth
}

func (c *converter) isWatermarkImage(img *Image, name string) bool {
	if isWatermarkName(name) {
		return true
	}
	return img.Position == PositionAnchor && img.BehindText && c.coversPage(img.WidthMM)
}

func (c *converter) isWatermarkShape(s *Shape) bool {
	if s.WatermarkText != "" || isWatermarkName(s.ID) || isWatermarkName(s.Name) {
		return true
	}
	return s.BehindText && c.coversPage(s.WidthMM)
}

// wordprocessingShape converts a wps:wsp.
func (c *converter) wordprocessingShape(pc *partContext, wsp *ooxml.Node, g drawingGeometry) *Shape {
	s := &Shape{Source: SourceDrawingML, Kind: "rect"}
	applyGeometry(s, g)
	spPr := wsp.Child("spPr")
	if geom := spPr.Child("prstGeom"); geom != nil {
		s.Kind = geom.Attr("prst")
	}
	c.applyShapeProperties(s, spPr)
	if cNvPr := wsp.Child("cNvPr"); cNvPr != nil && s.Name == "" {
		s.Name = cNvPr.Attr("name")
	}

	if content := wsp.Child("txbx").Child("txbxContent"); content != nil {
		s.Kind = "textbox"
		s.Paragraphs = c.textboxParagraphs(pc, content)
	}
	return s
}

// applyShapeProperties reads fill, outline and rotation from a DrawingML
// spPr.
func (c *converter) applyShapeProperties(s *Shape, spPr *ooxml.Node) {
	if spPr == nil {
		return
	}
	if xfrm := spPr.Child("xfrm"); xfrm != nil {
		s.Rotation = units.ParseFloat(xfrm.Attr("rot")) / 60000
		if s.WidthMM == 0 {
			if ext := xfrm.Child("ext"); ext != nil {
				s.WidthMM = units.ParseEMU(ext.Attr("cx"))
				s.HeightMM = units.ParseEMU(ext.Attr("cy"))
			}
		}
	}
	if fill := spPr.Child("solidFill"); fill != nil {
		s.FillColor = drawingColor(fill, c.theme)
		if alpha := fill.FirstDescendant("alpha"); alpha != nil {
			s.Opacity = units.ParseFloat(alpha.Attr("val")) / 100000
		}
	}
	if ln := spPr.Child("ln"); ln != nil && ln.Child("noFill") == nil {
		if w := ln.Attr("w"); w != "" {
			s.StrokeWidthPt = units.EMUToPoints(units.ParseFloat(w))
		}
		if fill := ln.Child("solidFill"); fill != nil {
			s.StrokeColor = drawingColor(fill, c.theme)
		}
	}
}

// groupChildren converts the members of a wpg:wgp or wpc:wpc.
func (c *converter) groupChildren(pc *partContext, group *ooxml.Node) []*Shape {
	var out []*Shape
	for _, n := range group.Elements() {
		switch {
		case n.Is("wsp"):
			out = append(out, c.wordprocessingShape(pc, n, groupMemberGeometry(n.Child("spPr"))))
		case n.Is("grpSp"), n.Is("wgp"):
			s := &Shape{Kind: "group", Source: SourceDrawingML}
			geom := groupMemberGeometry(n.Child("grpSpPr"))
			applyGeometry(s, geom)
			s.Children = c.groupChildren(pc, n)
			out = append(out, s)
		case n.Is("pic"):
			g := groupMemberGeometry(n.Child("spPr"))
			img, err := c.pictureImage(pc, n, g)
			if err != nil {
				c.warn(pc.name, "pic", err)
				continue
			}
			c.out.Images = append(c.out.Images, img)
			s := &Shape{Kind: "picture", Source: SourceDrawingML, Image: img}
			applyGeometry(s, g)
			out = append(out, s)
		}
	}
	return out
}

// groupMemberGeometry reads the a:xfrm of a group member. Offsets are in
// the group's child coordinate space, which Word keeps 1:1 with EMUs.
func groupMemberGeometry(spPr *ooxml.Node) drawingGeometry {
	g := drawingGeometry{position: PositionAnchor, wrap: "square"}
	xfrm := spPr.Child("xfrm")
	if off := xfrm.Child("off"); off != nil {
		g.xMM = units.ParseEMU(off.Attr("x"))
		g.yMM = units.ParseEMU(off.Attr("y"))
	}
	if ext := xfrm.Child("ext"); ext != nil {
		g.widthMM = units.ParseEMU(ext.Attr("cx"))
		g.heightMM = units.ParseEMU(ext.Attr("cy"))
	}
	return g
}

// textboxParagraphs walks text box content. Paragraphs of nested tables
// are flattened in reading order.
func (c *converter) textboxParagraphs(pc *partContext, content *ooxml.Node) []*Paragraph {
	sub := pc.child(partTextbox)
	var out []*Paragraph
	var collect func(els []Element)
	collect = func(els []Element) {
		for _, el := range els {
			switch el.Type {
			case ElementParagraph:
				out = append(out, el.Paragraph)
			case ElementTable:
				for _, row := range el.Table.Rows {
					for _, cell := range row.Cells {
						out = append(out, cell.Paragraphs...)
					}
				}
			}
		}
	}
	collect(c.walkBlocks(sub, content))
	return out
}
