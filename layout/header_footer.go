package layout

import (
	"math"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
)

const watermarkFontSizePt = 72.0

// templateTypes maps header reference types to editor template names.
var templateTypes = map[string]string{
	"default": model.TemplateDefault,
	"first":   model.TemplateFirstPage,
	"even":    model.TemplateCompact,
}

// projectHeadersFooters lays out every header and footer in band mode and
// stores them on doc. Component positions are relative to the band top.
func (p *Projector) projectHeadersFooters(pc *docx.ParsedContent, doc *model.Document, settings docx.PageSettings) {
	for typ, hf := range pc.Headers {
		if name, ok := templateTypes[typ]; ok && hf != nil {
			doc.Headers[name] = p.band(hf, name, settings)
		}
	}
	for typ, hf := range pc.Footers {
		if name, ok := templateTypes[typ]; ok && hf != nil {
			doc.Footers[name] = p.band(hf, name, settings)
		}
	}

	if len(pc.Sections) == 0 || !pc.Sections[0].TitlePage || len(doc.Pages) == 0 {
		return
	}
	first := doc.Pages[0]
	first.HeaderOverride = doc.Headers[model.TemplateFirstPage]
	first.FooterOverride = doc.Footers[model.TemplateFirstPage]
}

func (p *Projector) band(hf *docx.HeaderFooter, name string, settings docx.PageSettings) *model.HeaderFooterContent {
	pr := &projection{
		opts:     p.opts,
		settings: settings,
		band:     true,
		fields:   map[int][]*docx.FormField{},
	}
	pr.startPage()
	for _, el := range hf.Elements {
		pr.element(el)
	}

	out := &model.HeaderFooterContent{
		TemplateType: name,
		Components:   pr.page.Components,
	}
	sortByY(out.Components)
	out.HeightMM = pr.page.ContentBottom()
	return out
}

// watermark builds a component centred on page. It sits below all other
// content.
func (p *Projector) watermark(wm *docx.Shape, page *model.Page) *model.Component {
	var c *model.Component
	if wm.Image != nil && wm.WatermarkText == "" {
		c = model.NewComponent(p.opts.IDFunc(), model.ComponentImage)
		pr := &projection{opts: p.opts}
		pr.imageProps(c, wm.Image)
	} else {
		c = model.NewComponent(p.opts.IDFunc(), model.ComponentText)
		c.Set(model.PropContent, wm.WatermarkText).
			Set(model.PropFontSize, watermarkFontSizePt).
			Set(model.PropColor, colorOr(wm.FillColor, "#C0C0C0")).
			Set(model.PropAlignment, "center")
	}
	c.Set(model.PropWatermark, true)
	if wm.Rotation != 0 {
		c.Set(model.PropRotation, wm.Rotation)
	}
	opacity := wm.Opacity
	if opacity <= 0 {
		opacity = 0.5
	}
	c.Set(model.PropOpacity, opacity)

	w, h := wm.WidthMM, wm.HeightMM
	if w <= 0 || h <= 0 {
		w, h = page.WidthMM*0.8, page.HeightMM*0.2
	}
	w, h = math.Min(w, page.WidthMM), math.Min(h, page.HeightMM)
	c.WidthMM, c.HeightMM = w, h
	c.XMM = (page.WidthMM - w) / 2
	c.YMM = (page.HeightMM - h) / 2
	c.ZIndex = -1
	return c
}
