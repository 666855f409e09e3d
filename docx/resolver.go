package docx

import (
	"strconv"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// Word defaults applied when styles.xml is absent or silent.
const (
	defaultFontFamily = "Calibri"
	defaultFontSizePt = 11
)

type styleDef struct {
	id        string
	name      string
	typ       string
	basedOn   string
	next      string
	link      string
	isDefault bool
	custom    bool
	node      *ooxml.Node
	pPr       *ooxml.Node
	rPr       *ooxml.Node
}

// ResolvedStyle is a paragraph style with its basedOn chain applied over
// the document defaults.
type ResolvedStyle struct {
	ID           string
	Name         string
	Paragraph    ParagraphStyle
	Run          TextStyle
	NumID        string
	NumLevel     int
	IsHeading    bool
	HeadingLevel int
}

// StyleResolver resolves styles with inheritance support.
type StyleResolver struct {
	styles           map[string]*styleDef
	order            []string
	theme            *Theme
	docRun           TextStyle
	docPara          ParagraphStyle
	defaultParagraph string
	resolved         map[string]*ResolvedStyle
	charCache        map[string][]*styleDef
}

// NewStyleResolver creates a resolver from the styles.xml root. A nil root
// yields Word's built-in defaults.
func NewStyleResolver(root *ooxml.Node, theme *Theme) *StyleResolver {
	sr := &StyleResolver{
		styles:    make(map[string]*styleDef),
		theme:     theme,
		resolved:  make(map[string]*ResolvedStyle),
		charCache: make(map[string][]*styleDef),
		docRun: TextStyle{
			FontFamily:    defaultFontFamily,
			FontSizePt:    defaultFontSizePt,
			Color:         units.DefaultColor,
			VerticalAlign: "baseline",
		},
		docPara: ParagraphStyle{
			Alignment:    "left",
			LineSpacing:  1,
			LineRule:     "auto",
			Direction:    "ltr",
			WidowControl: true,
		},
	}
	if theme != nil && theme.MinorFont != "" {
		sr.docRun.FontFamily = theme.MinorFont
	}
	if root == nil {
		return sr
	}

	if dd := root.Child("docDefaults"); dd != nil {
		sr.docRun = applyRunProperties(sr.docRun, dd.Child("rPrDefault").Child("rPr"), theme)
		sr.docPara = applyParagraphProperties(sr.docPara, dd.Child("pPrDefault").Child("pPr"), theme)
	}

	for _, s := range root.Children("style") {
		def := &styleDef{
			id:        s.Attr("styleId"),
			name:      s.Val("name"),
			typ:       s.Attr("type"),
			basedOn:   s.Val("basedOn"),
			next:      s.Val("next"),
			link:      s.Val("link"),
			isDefault: units.ParseOnOff(s.Attr("default")) && s.HasAttr("default"),
			custom:    s.HasAttr("customStyle") && units.ParseOnOff(s.Attr("customStyle")),
			node:      s,
			pPr:       s.Child("pPr"),
			rPr:       s.Child("rPr"),
		}
		if def.id == "" {
			continue
		}
		if def.typ == "" {
			def.typ = "paragraph"
		}
		sr.styles[def.id] = def
		sr.order = append(sr.order, def.id)
		if def.isDefault && def.typ == "paragraph" {
			sr.defaultParagraph = def.id
		}
	}
	return sr
}

// DocumentDefaults returns the run and paragraph defaults.
func (sr *StyleResolver) DocumentDefaults() (TextStyle, ParagraphStyle) {
	return sr.docRun, sr.docPara
}

// Resolve returns the fully resolved paragraph style for styleID. An empty
// or unknown id resolves to the default paragraph style.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	if styleID == "" {
		styleID = sr.defaultParagraph
	}
	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := &ResolvedStyle{
		ID:        styleID,
		Paragraph: sr.docPara,
		Run:       sr.docRun,
	}

	def, ok := sr.styles[styleID]
	if !ok {
		resolved.IsHeading, resolved.HeadingLevel = detectBuiltInHeading(styleID)
		if styleID != sr.defaultParagraph && sr.defaultParagraph != "" {
			base := sr.Resolve(sr.defaultParagraph)
			resolved.Paragraph, resolved.Run = base.Paragraph, base.Run
		}
		resolved.Paragraph.StyleID = styleID
		resolved.Paragraph.HeadingLevel = resolved.HeadingLevel
		sr.resolved[styleID] = resolved
		return resolved
	}
	resolved.Name = def.name

	for _, d := range sr.buildInheritanceChain(styleID) {
		resolved.Paragraph = applyParagraphProperties(resolved.Paragraph, d.pPr, sr.theme)
		resolved.Run = applyRunProperties(resolved.Run, d.rPr, sr.theme)
		if numPr := d.pPr.Child("numPr"); numPr != nil {
			if id := numPr.Val("numId"); id != "" {
				resolved.NumID = id
			}
			if lvl := numPr.Val("ilvl"); lvl != "" {
				resolved.NumLevel = units.ParseInt(lvl, 0)
			}
		}
	}

	resolved.IsHeading, resolved.HeadingLevel = sr.detectHeading(def, resolved)
	resolved.Paragraph.StyleID = styleID
	resolved.Paragraph.StyleName = def.name
	resolved.Paragraph.HeadingLevel = resolved.HeadingLevel

	sr.resolved[styleID] = resolved
	return resolved
}

// ApplyCharacterStyle applies the rPr chain of a character style to base.
func (sr *StyleResolver) ApplyCharacterStyle(base TextStyle, styleID string) TextStyle {
	if styleID == "" {
		return base
	}
	chain, ok := sr.charCache[styleID]
	if !ok {
		chain = sr.buildInheritanceChain(styleID)
		sr.charCache[styleID] = chain
	}
	s := base
	for _, d := range chain {
		s = applyRunProperties(s, d.rPr, sr.theme)
	}
	return s
}

// TableStyle returns the paragraph and run defaults a table style imposes on
// its cell content, plus its borders.
func (sr *StyleResolver) TableStyle(styleID string) (*ResolvedStyle, Borders) {
	var borders Borders
	resolved := sr.Resolve("")
	if styleID == "" {
		return resolved, borders
	}
	chain := sr.buildInheritanceChain(styleID)
	if len(chain) == 0 {
		return resolved, borders
	}
	out := *resolved
	for _, d := range chain {
		out.Paragraph = applyParagraphProperties(out.Paragraph, d.pPr, sr.theme)
		out.Run = applyRunProperties(out.Run, d.rPr, sr.theme)
	}
	for _, d := range chain {
		if b := d.node.Child("tblPr").Child("tblBorders"); b != nil {
			borders = mergeBorders(borders, parseBorders(b, sr.theme))
		}
	}
	return &out, borders
}

// buildInheritanceChain returns the style definitions from base to derived.
// Cycles terminate at the first repeated id.
func (sr *StyleResolver) buildInheritanceChain(styleID string) []*styleDef {
	var chain []*styleDef
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		def, ok := sr.styles[current]
		if !ok {
			break
		}
		chain = append([]*styleDef{def}, chain...)
		current = def.basedOn
	}
	return chain
}

// Definitions returns every style of styles.xml resolved through its chain.
func (sr *StyleResolver) Definitions() []StyleDefinition {
	out := make([]StyleDefinition, 0, len(sr.order))
	for _, id := range sr.order {
		def := sr.styles[id]
		sd := StyleDefinition{
			ID:        def.id,
			Name:      def.name,
			Type:      def.typ,
			BasedOn:   def.basedOn,
			Next:      def.next,
			Link:      def.link,
			IsDefault: def.isDefault,
			IsCustom:  def.custom,
		}
		switch def.typ {
		case "paragraph":
			r := sr.Resolve(id)
			sd.Paragraph, sd.Run = r.Paragraph, r.Run
		default:
			sd.Run = sr.ApplyCharacterStyle(sr.docRun, id)
		}
		out = append(out, sd)
	}
	return out
}

// StyleName returns the display name of styleID, or "".
func (sr *StyleResolver) StyleName(styleID string) string {
	if def, ok := sr.styles[styleID]; ok {
		return def.name
	}
	return ""
}

// detectHeading determines if a style represents a heading.
func (sr *StyleResolver) detectHeading(def *styleDef, resolved *ResolvedStyle) (bool, int) {
	if isHeading, level := detectBuiltInHeading(def.id); isHeading {
		return true, level
	}

	name := strings.ToLower(def.name)
	if strings.HasPrefix(name, "heading") {
		for i := 1; i <= 9; i++ {
			if strings.Contains(name, strconv.Itoa(i)) {
				return true, i
			}
		}
		return true, 1
	}
	if name == "title" {
		return true, 1
	}

	if resolved.Paragraph.OutlineLevel > 0 {
		return true, resolved.Paragraph.OutlineLevel
	}

	// Large bold paragraph styles behave as headings in documents that
	// never use the built-in ones.
	if def.typ == "paragraph" && resolved.Run.Bold && resolved.Run.FontSizePt >= 14 {
		return true, estimateHeadingLevel(resolved.Run.FontSizePt)
	}
	return false, 0
}

// detectBuiltInHeading checks for Word's built-in heading style IDs.
func detectBuiltInHeading(styleID string) (bool, int) {
	id := strings.ToLower(strings.ReplaceAll(styleID, " ", ""))

	headingMap := map[string]int{
		"heading1": 1, "heading2": 2, "heading3": 3,
		"heading4": 4, "heading5": 5, "heading6": 6,
		"heading7": 7, "heading8": 8, "heading9": 9,
		"title": 1, "subtitle": 2,
	}
	if level, ok := headingMap[id]; ok {
		return true, level
	}
	return false, 0
}

// estimateHeadingLevel estimates heading level from font size.
func estimateHeadingLevel(fontSize float64) int {
	switch {
	case fontSize >= 24:
		return 1
	case fontSize >= 18:
		return 2
	case fontSize >= 14:
		return 3
	case fontSize >= 12:
		return 4
	default:
		return 5
	}
}
