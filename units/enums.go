package units

import "strings"

// Justification maps w:jc values onto the editor's alignment vocabulary.
func Justification(val string) string {
	switch val {
	case "center":
		return "center"
	case "right", "end":
		return "right"
	case "both", "distribute", "lowKashida", "mediumKashida", "highKashida", "thaiDistribute":
		return "justify"
	case "left", "start", "":
		return "left"
	default:
		return "left"
	}
}

// VerticalAlign maps w:vAlign values onto top/middle/bottom.
func VerticalAlign(val string) string {
	switch val {
	case "center":
		return "middle"
	case "bottom":
		return "bottom"
	default:
		return "top"
	}
}

// BorderStyle maps a w:val border style onto CSS-like style names. It returns
// "none" for nil/none borders.
func BorderStyle(val string) string {
	switch val {
	case "", "nil", "none":
		return "none"
	case "single", "thick":
		return "solid"
	case "double", "triple", "thinThickSmallGap", "thickThinSmallGap", "thinThickMediumGap",
		"thickThinMediumGap", "thinThickLargeGap", "thickThinLargeGap":
		return "double"
	case "dotted":
		return "dotted"
	case "dashed", "dashSmallGap", "dotDash", "dotDotDash", "dashDotStroked":
		return "dashed"
	case "threeDEmboss", "outset":
		return "outset"
	case "threeDEngrave", "inset":
		return "inset"
	case "wave", "doubleWave":
		return "wavy"
	default:
		return "solid"
	}
}

// UnderlineStyle maps w:u values. It returns "" when the run is not
// underlined.
func UnderlineStyle(val string) string {
	switch val {
	case "none", "0", "false":
		return ""
	case "", "single", "words":
		return "single"
	case "double":
		return "double"
	case "thick":
		return "thick"
	case "dotted", "dottedHeavy":
		return "dotted"
	case "dash", "dashedHeavy", "dashLong", "dashLongHeavy", "dotDash", "dashDotHeavy", "dotDotDash", "dashDotDotHeavy":
		return "dashed"
	case "wave", "wavyHeavy", "wavyDouble":
		return "wavy"
	default:
		return "single"
	}
}

// VertAlign maps w:vertAlign values.
func VertAlign(val string) string {
	switch val {
	case "superscript", "subscript":
		return val
	default:
		return "baseline"
	}
}

// WrapStyle normalises a wrap element's local name.
func WrapStyle(local string) string {
	local = strings.TrimPrefix(local, "wrap")
	if local == "" {
		return "square"
	}
	return strings.ToLower(local[:1]) + local[1:]
}
