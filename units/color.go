package units

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultColor is the fallback for any color that cannot be resolved.
const DefaultColor = "#000000"

// namedColors maps the OOXML/VML named colors to hex.
var namedColors = map[string]string{
	"black":       "#000000",
	"white":       "#FFFFFF",
	"red":         "#FF0000",
	"green":       "#00FF00",
	"lime":        "#00FF00",
	"blue":        "#0000FF",
	"yellow":      "#FFFF00",
	"cyan":        "#00FFFF",
	"aqua":        "#00FFFF",
	"magenta":     "#FF00FF",
	"fuchsia":     "#FF00FF",
	"darkblue":    "#000080",
	"navy":        "#000080",
	"darkred":     "#800000",
	"maroon":      "#800000",
	"darkgreen":   "#008000",
	"darkcyan":    "#008080",
	"teal":        "#008080",
	"darkmagenta": "#800080",
	"purple":      "#800080",
	"darkyellow":  "#808000",
	"olive":       "#808000",
	"darkgray":    "#808080",
	"gray":        "#808080",
	"grey":        "#808080",
	"lightgray":   "#C0C0C0",
	"silver":      "#C0C0C0",
	"orange":      "#FFA500",
}

// defaultTheme is the Office 2013+ default theme palette, keyed by scheme slot.
var defaultTheme = map[string]string{
	"dk1":      "#000000",
	"lt1":      "#FFFFFF",
	"dk2":      "#44546A",
	"lt2":      "#E7E6E6",
	"accent1":  "#4472C4",
	"accent2":  "#ED7D31",
	"accent3":  "#A5A5A5",
	"accent4":  "#FFC000",
	"accent5":  "#5B9BD5",
	"accent6":  "#70AD47",
	"hlink":    "#0563C1",
	"folHlink": "#954F72",
}

// themeAliases maps w:themeColor values to scheme slots.
var themeAliases = map[string]string{
	"text1":             "dk1",
	"dark1":             "dk1",
	"background1":       "lt1",
	"light1":            "lt1",
	"text2":             "dk2",
	"dark2":             "dk2",
	"background2":       "lt2",
	"light2":            "lt2",
	"hyperlink":         "hlink",
	"followedhyperlink": "folHlink",
	"tx1":               "dk1",
	"bg1":               "lt1",
	"tx2":               "dk2",
	"bg2":               "lt2",
}

// systemColors maps a:sysClr values to their usual Windows defaults.
var systemColors = map[string]string{
	"windowText":    "#000000",
	"window":        "#FFFFFF",
	"btnFace":       "#F0F0F0",
	"btnText":       "#000000",
	"highlight":     "#0078D7",
	"highlightText": "#FFFFFF",
	"grayText":      "#6D6D6D",
	"menu":          "#F0F0F0",
	"menuText":      "#000000",
	"infoBk":        "#FFFFE1",
	"infoText":      "#000000",
	"3dDkShadow":    "#696969",
	"3dLight":       "#E3E3E3",
}

// highlightColors maps w:highlight values to hex.
var highlightColors = map[string]string{
	"yellow":      "#FFFF00",
	"green":       "#00FF00",
	"cyan":        "#00FFFF",
	"magenta":     "#FF00FF",
	"blue":        "#0000FF",
	"red":         "#FF0000",
	"darkBlue":    "#000080",
	"darkCyan":    "#008080",
	"darkGreen":   "#008000",
	"darkMagenta": "#800080",
	"darkRed":     "#800000",
	"darkYellow":  "#808000",
	"darkGray":    "#808080",
	"lightGray":   "#C0C0C0",
	"black":       "#000000",
	"white":       "#FFFFFF",
}

// ColorSpec collects every color source an OOXML element may carry.
type ColorSpec struct {
	RGB        string // w:color/@w:val, a:srgbClr/@val, #hex
	ThemeColor string // w:color/@w:themeColor, a:schemeClr/@val
	ThemeTint  string // hex byte, e.g. "99"
	ThemeShade string // hex byte, e.g. "BF"
	System     string // a:sysClr/@val
	Named      string // VML or highlight name
}

// Theme is a scheme-slot → hex table used in place of the default palette.
type Theme map[string]string

// NormalizeColor converts a hex ("FF0000", "#f00") or named color into
// "#RRGGBB". It returns "" for "auto", empty, or unrecognised input.
func NormalizeColor(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") || strings.EqualFold(s, "none") {
		return ""
	}
	// VML appends extra info after a space: "#FF0000 [3204]".
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	if hex, ok := parseHex(strings.TrimPrefix(s, "#")); ok {
		return hex
	}
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		return hex
	}
	return ""
}

func parseHex(s string) (string, bool) {
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	case 8:
		// ARGB as written by some producers; drop alpha.
		s = s[2:]
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return "", false
	}
	return "#" + strings.ToUpper(s), true
}

// ThemeColorHex returns the hex value for a theme slot or w:themeColor alias.
// A nil theme falls back to the default Office palette.
func ThemeColorHex(theme Theme, slot string) (string, bool) {
	if slot == "" {
		return "", false
	}
	key := slot
	if alias, ok := themeAliases[strings.ToLower(slot)]; ok {
		key = alias
	}
	if theme != nil {
		if hex, ok := theme[key]; ok && hex != "" {
			return hex, true
		}
	}
	hex, ok := defaultTheme[key]
	return hex, ok
}

// SystemColorHex returns the hex value for a DrawingML system color.
func SystemColorHex(name string) (string, bool) {
	hex, ok := systemColors[name]
	return hex, ok
}

// NamedColorHex returns the hex value for a named color.
func NamedColorHex(name string) (string, bool) {
	hex, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return hex, ok
}

// HighlightColor returns the hex value of a w:highlight name, or "".
func HighlightColor(name string) string {
	if name == "" || name == "none" {
		return ""
	}
	if hex, ok := highlightColors[name]; ok {
		return hex
	}
	return NormalizeColor(name)
}

// ResolveColor applies the color precedence: explicit RGB, theme slot (with
// tint/shade), system color, named color, then black.
func ResolveColor(cs ColorSpec, theme Theme) string {
	if _, named := namedColors[strings.ToLower(cs.RGB)]; !named {
		if hex := NormalizeColor(cs.RGB); hex != "" {
			return hex
		}
	}
	if hex, ok := ThemeColorHex(theme, cs.ThemeColor); ok {
		if cs.ThemeTint != "" {
			hex = ApplyTint(hex, hexByteFraction(cs.ThemeTint))
		}
		if cs.ThemeShade != "" {
			hex = ApplyShade(hex, hexByteFraction(cs.ThemeShade))
		}
		return hex
	}
	if hex, ok := SystemColorHex(cs.System); ok {
		return hex
	}
	if hex, ok := NamedColorHex(cs.Named); ok {
		return hex
	}
	if hex, ok := NamedColorHex(cs.RGB); ok {
		return hex
	}
	return DefaultColor
}

// hexByteFraction converts a two-digit hex byte ("80") to a fraction of 255.
func hexByteFraction(s string) float64 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 1
	}
	return float64(v) / 255
}

// ApplyTint lightens hex toward white. A tint of 1 leaves the color unchanged.
func ApplyTint(hex string, tint float64) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}
	f := func(c uint8) uint8 { return uint8(float64(c)*tint + 255*(1-tint) + 0.5) }
	return fmt.Sprintf("#%02X%02X%02X", f(r), f(g), f(b))
}

// ApplyShade darkens hex toward black. A shade of 1 leaves the color unchanged.
func ApplyShade(hex string, shade float64) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}
	f := func(c uint8) uint8 { return uint8(float64(c)*shade + 0.5) }
	return fmt.Sprintf("#%02X%02X%02X", f(r), f(g), f(b))
}

// RGB splits a normalised "#RRGGBB" color into components.
func RGB(hex string) (r, g, b uint8, ok bool) { return rgb(hex) }

func rgb(hex string) (r, g, b uint8, ok bool) {
	n := NormalizeColor(hex)
	if n == "" {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(n[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
