package docx

import (
	"math"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// Page defaults used when a section omits pgSz or pgMar.
const (
	defaultPageWidthMM  = 210.0
	defaultPageHeightMM = 297.0
	defaultMarginMM     = 25.4
	defaultHeaderMM     = 12.7
)

var paperSizes = []struct {
	name          string
	width, height float64
}{
	{"A4", 210, 297},
	{"Letter", 215.9, 279.4},
	{"Legal", 215.9, 355.6},
	{"A3", 297, 420},
	{"A5", 148, 210},
	{"Executive", 184.15, 266.7},
}

// DefaultPageSettings returns A4 portrait with one-inch margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{
		WidthMM:     defaultPageWidthMM,
		HeightMM:    defaultPageHeightMM,
		Orientation: "portrait",
		Margins: Margins{
			TopMM:    defaultMarginMM,
			BottomMM: defaultMarginMM,
			LeftMM:   defaultMarginMM,
			RightMM:  defaultMarginMM,
			HeaderMM: defaultHeaderMM,
			FooterMM: defaultHeaderMM,
		},
		Columns:   1,
		PaperName: "A4",
	}
}

// PaperName matches a page size against the common paper formats in either
// orientation, within one millimeter. It returns "" for custom sizes.
func PaperName(widthMM, heightMM float64) string {
	for _, p := range paperSizes {
		if near(widthMM, p.width) && near(heightMM, p.height) ||
			near(widthMM, p.height) && near(heightMM, p.width) {
			return p.name
		}
	}
	return ""
}

func near(a, b float64) bool { return math.Abs(a-b) <= 1 }

// parseSection reads a w:sectPr. Header and footer references are resolved
// against rels into part names.
func parseSection(sectPr *ooxml.Node, index int, rels *ooxml.Rels) *Section {
	ps := DefaultPageSettings()
	sec := &Section{
		Index:      index,
		HeaderRefs: make(map[string]string),
		FooterRefs: make(map[string]string),
		Columns:    1,
		BreakType:  "nextPage",
	}

	if pgSz := sectPr.Child("pgSz"); pgSz != nil {
		if w := units.ParseTwips(pgSz.Attr("w")); w > 0 {
			ps.WidthMM = w
		}
		if h := units.ParseTwips(pgSz.Attr("h")); h > 0 {
			ps.HeightMM = h
		}
		if pgSz.Attr("orient") == "landscape" || ps.WidthMM > ps.HeightMM {
			ps.Orientation = "landscape"
		}
	}
	ps.PaperName = PaperName(ps.WidthMM, ps.HeightMM)

	if pgMar := sectPr.Child("pgMar"); pgMar != nil {
		m := &ps.Margins
		setTwips(&m.TopMM, pgMar.Attr("top"), true)
		setTwips(&m.BottomMM, pgMar.Attr("bottom"), true)
		setTwips(&m.LeftMM, firstAttr(pgMar, "left", "start"), false)
		setTwips(&m.RightMM, firstAttr(pgMar, "right", "end"), false)
		setTwips(&m.HeaderMM, pgMar.Attr("header"), false)
		setTwips(&m.FooterMM, pgMar.Attr("footer"), false)
		setTwips(&m.GutterMM, pgMar.Attr("gutter"), false)
	}

	if cols := sectPr.Child("cols"); cols != nil {
		if n := units.ParseInt(cols.Attr("num"), 1); n > 1 {
			ps.Columns = n
		}
		if cols.HasAttr("space") {
			ps.ColumnSpacingMM = units.ParseTwips(cols.Attr("space"))
		} else if ps.Columns > 1 {
			ps.ColumnSpacingMM = 12.7
		}
	}
	sec.Columns = ps.Columns

	if t := sectPr.Val("type"); t != "" {
		sec.BreakType = t
	}
	sec.TitlePage = onOff(sectPr.Child("titlePg"))

	for _, ref := range sectPr.Children("headerReference", "footerReference") {
		typ := ref.Attr("type")
		if typ == "" {
			typ = "default"
		}
		target := rels.Target(ref.Attr("r:id"))
		if target == "" {
			continue
		}
		if ref.Is("headerReference") {
			sec.HeaderRefs[typ] = target
		} else {
			sec.FooterRefs[typ] = target
		}
	}

	sec.PageSettings = ps
	return sec
}

// setTwips overwrites *dst with a parsed twips value. Negative top and
// bottom margins let text overlap the header; abs keeps their magnitude.
func setTwips(dst *float64, val string, abs bool) {
	if val == "" {
		return
	}
	mm := units.ParseTwips(val)
	if abs {
		mm = math.Abs(mm)
	}
	if mm >= 0 {
		*dst = mm
	}
}

// addSection registers a section in document order and keeps
// ParsedContent.PageSettings on the first one.
func (c *converter) addSection(sectPr *ooxml.Node) *Section {
	sec := parseSection(sectPr, len(c.out.Sections), c.docRels)
	c.out.Sections = append(c.out.Sections, sec)
	if sec.Index == 0 {
		c.out.PageSettings = sec.PageSettings
	}
	c.pageWidthMM = sec.PageSettings.WidthMM
	return sec
}
