package docx

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// applyRunProperties returns base overridden by the properties present on
// rPr. Absent elements inherit; a toggle element without w:val switches the
// property on.
func applyRunProperties(base TextStyle, rPr *ooxml.Node, theme *Theme) TextStyle {
	s := base.Clone()
	if rPr == nil {
		return s
	}

	if f := rPr.Child("rFonts"); f != nil {
		if name := fontFromRFonts(f, theme); name != "" {
			s.FontFamily = name
		}
	}
	if sz := rPr.Child("sz"); sz != nil {
		if pt := units.ParseHalfPoints(sz.Attr("val")); pt > 0 {
			s.FontSizePt = pt
		}
	}

	toggle := func(name string, dst *bool) {
		if el := rPr.Child(name); el != nil {
			*dst = units.ParseOnOff(el.Attr("val"))
		}
	}
	toggle("b", &s.Bold)
	toggle("i", &s.Italic)
	toggle("strike", &s.Strike)
	toggle("dstrike", &s.DoubleStrike)
	toggle("smallCaps", &s.SmallCaps)
	toggle("caps", &s.AllCaps)
	toggle("vanish", &s.Hidden)
	toggle("emboss", &s.Emboss)
	toggle("imprint", &s.Imprint)
	toggle("outline", &s.Outline)
	toggle("shadow", &s.Shadow)
	toggle("rtl", &s.RTL)

	if u := rPr.Child("u"); u != nil {
		s.UnderlineStyle = units.UnderlineStyle(u.Attr("val"))
		s.Underline = s.UnderlineStyle != ""
	}
	if c := rPr.Child("color"); c != nil {
		s.Color = resolveNodeColor(c, theme)
	}
	if h := rPr.Child("highlight"); h != nil {
		s.Highlight = units.HighlightColor(h.Attr("val"))
	}
	if shd := rPr.Child("shd"); shd != nil {
		s.Background = shadingFill(shd, theme)
	}
	if va := rPr.Child("vertAlign"); va != nil {
		s.VerticalAlign = units.VertAlign(va.Attr("val"))
	}
	if sp := rPr.Child("spacing"); sp != nil {
		s.CharacterSpacingPt = units.ParseTwipsPoints(sp.Attr("val"))
	}
	if k := rPr.Child("kern"); k != nil {
		s.KerningPt = units.ParseHalfPoints(k.Attr("val"))
	}
	if l := rPr.Child("lang"); l != nil {
		if tag := canonicalLanguage(l.Attr("val")); tag != "" {
			s.Language = tag
		}
	}
	return s
}

// fontFromRFonts picks the font for Latin text, resolving theme font
// references against the document theme.
func fontFromRFonts(f *ooxml.Node, theme *Theme) string {
	for _, key := range []string{"ascii", "hAnsi", "eastAsia", "cs"} {
		if v := f.Attr(key); v != "" {
			return v
		}
	}
	for _, key := range []string{"asciiTheme", "hAnsiTheme"} {
		v := f.Attr(key)
		if v == "" || theme == nil {
			continue
		}
		if strings.HasPrefix(v, "major") && theme.MajorFont != "" {
			return theme.MajorFont
		}
		if strings.HasPrefix(v, "minor") && theme.MinorFont != "" {
			return theme.MinorFont
		}
	}
	return ""
}

// resolveNodeColor resolves a w:color element.
func resolveNodeColor(c *ooxml.Node, theme *Theme) string {
	spec := units.ColorSpec{
		RGB:        c.Attr("val"),
		ThemeColor: c.Attr("themeColor"),
		ThemeTint:  c.Attr("themeTint"),
		ThemeShade: c.Attr("themeShade"),
	}
	return units.ResolveColor(spec, theme.palette())
}

// shadingFill resolves the fill of a w:shd element, or "" for none/auto.
func shadingFill(shd *ooxml.Node, theme *Theme) string {
	fill := shd.Attr("fill")
	if fill == "" || strings.EqualFold(fill, "auto") {
		if tc := shd.Attr("themeFill"); tc != "" {
			hex, _ := units.ThemeColorHex(theme.palette(), tc)
			return hex
		}
		return ""
	}
	return units.NormalizeColor(fill)
}

// canonicalLanguage returns the BCP 47 form of a w:lang value, or the raw
// value when it does not parse.
func canonicalLanguage(val string) string {
	if val == "" {
		return ""
	}
	tag, err := language.Parse(val)
	if err != nil {
		return val
	}
	return tag.String()
}

// applyParagraphProperties returns base overridden by pPr.
func applyParagraphProperties(base ParagraphStyle, pPr *ooxml.Node, theme *Theme) ParagraphStyle {
	s := base
	if pPr == nil {
		return s
	}
	if len(base.TabStops) > 0 {
		s.TabStops = append([]TabStop(nil), base.TabStops...)
	}

	if jc := pPr.Child("jc"); jc != nil {
		s.Alignment = units.Justification(jc.Attr("val"))
	}
	if sp := pPr.Child("spacing"); sp != nil {
		if v := sp.Attr("before"); v != "" {
			s.SpacingBeforeMM = units.ParseTwips(v)
		}
		if v := sp.Attr("after"); v != "" {
			s.SpacingAfterMM = units.ParseTwips(v)
		}
		if v := sp.Attr("line"); v != "" {
			rule := sp.Attr("lineRule")
			if rule == "" {
				rule = "auto"
			}
			s.LineRule = rule
			if rule == "auto" {
				s.LineSpacing = units.ParseFloat(v) / 240
			} else {
				s.LineSpacing = units.ParseTwipsPoints(v)
			}
		}
	}
	if ind := pPr.Child("ind"); ind != nil {
		if v := firstAttr(ind, "left", "start"); v != "" {
			s.IndentLeftMM = units.ParseTwips(v)
		}
		if v := firstAttr(ind, "right", "end"); v != "" {
			s.IndentRightMM = units.ParseTwips(v)
		}
		if v := ind.Attr("firstLine"); v != "" {
			s.FirstLineMM = units.ParseTwips(v)
			s.HangingMM = 0
		}
		if v := ind.Attr("hanging"); v != "" {
			s.HangingMM = units.ParseTwips(v)
			s.FirstLineMM = 0
		}
	}
	if b := pPr.Child("pBdr"); b != nil {
		s.Borders = mergeBorders(s.Borders, parseBorders(b, theme))
	}
	if shd := pPr.Child("shd"); shd != nil {
		s.ShadingColor = shadingFill(shd, theme)
	}

	toggle := func(name string, dst *bool) {
		if el := pPr.Child(name); el != nil {
			*dst = units.ParseOnOff(el.Attr("val"))
		}
	}
	toggle("keepNext", &s.KeepNext)
	toggle("keepLines", &s.KeepLines)
	toggle("pageBreakBefore", &s.PageBreakBefore)
	toggle("widowControl", &s.WidowControl)

	if bidi := pPr.Child("bidi"); bidi != nil {
		s.Direction = "ltr"
		if units.ParseOnOff(bidi.Attr("val")) {
			s.Direction = "rtl"
		}
	}
	if ol := pPr.Child("outlineLvl"); ol != nil {
		if lvl := units.ParseInt(ol.Attr("val"), 9); lvl >= 0 && lvl <= 8 {
			s.OutlineLevel = lvl + 1
		} else {
			s.OutlineLevel = 0
		}
	}
	if tabs := pPr.Child("tabs"); tabs != nil {
		for _, tab := range tabs.Children("tab") {
			val := tab.Attr("val")
			pos := units.ParseTwips(firstAttr(tab, "pos"))
			if val == "clear" {
				s.TabStops = removeTab(s.TabStops, pos)
				continue
			}
			s.TabStops = append(s.TabStops, TabStop{PositionMM: pos, Alignment: val, Leader: tab.Attr("leader")})
		}
	}
	if fp := pPr.Child("framePr"); fp != nil {
		if dc := fp.Attr("dropCap"); dc != "" && dc != "none" {
			s.DropCap = &DropCap{Type: dc, Lines: units.ParseInt(fp.Attr("lines"), 1)}
		}
	}
	return s
}

func removeTab(tabs []TabStop, pos float64) []TabStop {
	out := tabs[:0]
	for _, t := range tabs {
		if units.Round(t.PositionMM, 2) != units.Round(pos, 2) {
			out = append(out, t)
		}
	}
	return out
}

func firstAttr(n *ooxml.Node, keys ...string) string {
	for _, k := range keys {
		if v := n.Attr(k); v != "" {
			return v
		}
	}
	return ""
}

// parseBorder parses one border edge. Nil/none edges return nil.
func parseBorder(n *ooxml.Node, theme *Theme) *Border {
	if n == nil {
		return nil
	}
	style := units.BorderStyle(n.Attr("val"))
	if style == "none" {
		return nil
	}
	color := units.ResolveColor(units.ColorSpec{
		RGB:        n.Attr("color"),
		ThemeColor: n.Attr("themeColor"),
		ThemeTint:  n.Attr("themeTint"),
		ThemeShade: n.Attr("themeShade"),
	}, theme.palette())
	return &Border{
		Style:   style,
		WidthPt: units.EighthPointsToPoints(units.ParseFloat(n.Attr("sz"))),
		Color:   color,
		SpacePt: units.ParseFloat(n.Attr("space")),
	}
}

// parseBorders parses a pBdr, tblBorders or tcBorders element.
func parseBorders(n *ooxml.Node, theme *Theme) Borders {
	return Borders{
		Top:     parseBorder(n.Child("top"), theme),
		Bottom:  parseBorder(n.Child("bottom"), theme),
		Left:    parseBorder(firstChild(n, "left", "start"), theme),
		Right:   parseBorder(firstChild(n, "right", "end"), theme),
		Between: parseBorder(n.Child("between"), theme),
		InsideH: parseBorder(n.Child("insideH"), theme),
		InsideV: parseBorder(n.Child("insideV"), theme),
	}
}

func mergeBorders(base, over Borders) Borders {
	pick := func(a, b *Border) *Border {
		if b != nil {
			return b
		}
		return a
	}
	return Borders{
		Top:     pick(base.Top, over.Top),
		Bottom:  pick(base.Bottom, over.Bottom),
		Left:    pick(base.Left, over.Left),
		Right:   pick(base.Right, over.Right),
		Between: pick(base.Between, over.Between),
		InsideH: pick(base.InsideH, over.InsideH),
		InsideV: pick(base.InsideV, over.InsideV),
	}
}

func firstChild(n *ooxml.Node, names ...string) *ooxml.Node {
	for _, name := range names {
		if c := n.Child(name); c != nil {
			return c
		}
	}
	return nil
}
