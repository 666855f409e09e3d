package docx

import (
	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// themeSlots are the a:clrScheme children in schema order.
var themeSlots = []string{"dk1", "lt1", "dk2", "lt2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6", "hlink", "folHlink"}

// parseTheme reads a:theme. Slots without a usable color are left out so the
// default palette fills them.
func parseTheme(root *ooxml.Node) *Theme {
	t := &Theme{
		Name:   root.Attr("name"),
		Colors: make(map[string]string),
	}
	elements := root.Child("themeElements")
	if scheme := elements.Child("clrScheme"); scheme != nil {
		for _, slot := range themeSlots {
			c := scheme.Child(slot)
			if c == nil {
				continue
			}
			if hex := units.NormalizeColor(c.Child("srgbClr").Attr("val")); hex != "" {
				t.Colors[slot] = hex
				continue
			}
			if sys := c.Child("sysClr"); sys != nil {
				if hex := units.NormalizeColor(sys.Attr("lastClr")); hex != "" {
					t.Colors[slot] = hex
				} else if hex, ok := units.SystemColorHex(sys.Attr("val")); ok {
					t.Colors[slot] = hex
				}
			}
		}
	}
	if fonts := elements.Child("fontScheme"); fonts != nil {
		t.MajorFont = fonts.Child("majorFont").Child("latin").Attr("typeface")
		t.MinorFont = fonts.Child("minorFont").Child("latin").Attr("typeface")
	}
	return t
}

// palette returns the theme's colors for units.ResolveColor. A nil theme
// yields nil, which selects the default Office palette.
func (t *Theme) palette() units.Theme {
	if t == nil || len(t.Colors) == 0 {
		return nil
	}
	return units.Theme(t.Colors)
}

// drawingColor resolves a DrawingML color choice (a:srgbClr, a:schemeClr,
// a:sysClr, a:prstClr) found under parent, applying lumMod/lumOff, tint and
// shade modifiers approximately.
func drawingColor(parent *ooxml.Node, theme *Theme) string {
	if parent == nil {
		return ""
	}
	var cs units.ColorSpec
	var mod *ooxml.Node
	switch {
	case parent.Child("srgbClr") != nil:
		mod = parent.Child("srgbClr")
		cs.RGB = mod.Attr("val")
	case parent.Child("schemeClr") != nil:
		mod = parent.Child("schemeClr")
		cs.ThemeColor = mod.Attr("val")
	case parent.Child("sysClr") != nil:
		mod = parent.Child("sysClr")
		cs.RGB = mod.Attr("lastClr")
		cs.System = mod.Attr("val")
	case parent.Child("prstClr") != nil:
		mod = parent.Child("prstClr")
		cs.Named = mod.Attr("val")
	default:
		return ""
	}
	hex := units.ResolveColor(cs, theme.palette())
	if v := mod.Val("tint"); v != "" {
		hex = units.ApplyTint(hex, units.ParseFloat(v)/100000)
	}
	if v := mod.Val("shade"); v != "" {
		hex = units.ApplyShade(hex, units.ParseFloat(v)/100000)
	}
	if v := mod.Val("lumMod"); v != "" {
		f := units.ParseFloat(v) / 100000
		if off := units.ParseFloat(mod.Val("lumOff")) / 100000; off > 0 {
			hex = units.ApplyTint(hex, f)
		} else {
			hex = units.ApplyShade(hex, f)
		}
	}
	return hex
}
