package units

import (
	"math"
	"strconv"
	"strings"
)

// Conversion constants.
const (
	TwipsPerPoint = 20.0
	PointsPerInch = 72.0
	MMPerInch     = 25.4
	EMUPerInch    = 914400.0
	EMUPerMM      = 36000.0
	EMUPerPoint   = 12700.0
	PixelsPerInch = 96.0

	PtToMM = MMPerInch / PointsPerInch
	MMToPt = PointsPerInch / MMPerInch
)

// TwipsToPoints converts twips to points.
func TwipsToPoints(twips float64) float64 { return twips / TwipsPerPoint }

// TwipsToMM converts twips to millimeters.
func TwipsToMM(twips float64) float64 { return twips / TwipsPerPoint * PtToMM }

// MMToTwips converts millimeters to twips.
func MMToTwips(mm float64) float64 { return mm * MMToPt * TwipsPerPoint }

// EMUToMM converts English Metric Units to millimeters.
func EMUToMM(emu float64) float64 { return emu / EMUPerMM }

// EMUToPoints converts English Metric Units to points.
func EMUToPoints(emu float64) float64 { return emu / EMUPerPoint }

// HalfPointsToPoints converts a w:sz style half-point value to points.
func HalfPointsToPoints(hp float64) float64 { return hp / 2 }

// EighthPointsToPoints converts a border w:sz value to points.
func EighthPointsToPoints(ep float64) float64 { return ep / 8 }

// PointsToMM converts points to millimeters.
func PointsToMM(pt float64) float64 { return pt * PtToMM }

// MMToPoints converts millimeters to points.
func MMToPoints(mm float64) float64 { return mm * MMToPt }

// PixelsToMM converts CSS pixels (96 per inch) to millimeters.
func PixelsToMM(px float64) float64 { return px / PixelsPerInch * MMPerInch }

// ParseFloat parses s, returning 0 when s is empty or malformed.
func ParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseInt parses s as an integer, returning def when s is empty or malformed.
// Values written as floats ("12.0") are truncated.
func ParseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return def
}

// ParseTwips parses a twips string and returns millimeters (0 on error).
func ParseTwips(s string) float64 { return TwipsToMM(ParseFloat(s)) }

// ParseTwipsPoints parses a twips string and returns points (0 on error).
func ParseTwipsPoints(s string) float64 { return TwipsToPoints(ParseFloat(s)) }

// ParseEMU parses an EMU string and returns millimeters (0 on error).
func ParseEMU(s string) float64 { return EMUToMM(ParseFloat(s)) }

// ParseHalfPoints parses a half-point string and returns points (0 on error).
func ParseHalfPoints(s string) float64 { return HalfPointsToPoints(ParseFloat(s)) }

// ParsePercent parses an OOXML percentage. A trailing "%" marks a literal
// percentage ("50%" → 50); a bare number is in fiftieths of a percent
// ("2500" → 50). ok is false when s is empty or malformed.
func ParsePercent(s string) (pct float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v / 50, true
}

// ParseFraction parses an opacity-style value into the range [0,1]. A trailing
// "%" marks a percentage ("50%" → 0.5); a bare number is taken as a fraction
// ("0.5" → 0.5). DrawingML thousandths ("50000") are recognised by the "f"
// suffix VML uses ("32768f" → 0.5).
func ParseFraction(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var v float64
	var err error
	switch {
	case strings.HasSuffix(s, "%"):
		v, err = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		v /= 100
	case strings.HasSuffix(s, "f"):
		v, err = strconv.ParseFloat(strings.TrimSuffix(s, "f"), 64)
		v /= 65536
	default:
		v, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return 0, false
	}
	return math.Max(0, math.Min(1, v)), true
}

// ParseVMLLength parses a CSS-like VML length ("12pt", "1in", "2.5cm",
// "10mm", "96px") and returns millimeters. Bare numbers are pixels.
func ParseVMLLength(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0
	}
	for _, suf := range []struct {
		s  string
		mm float64
	}{
		{"pt", PtToMM},
		{"in", MMPerInch},
		{"cm", 10},
		{"mm", 1},
		{"px", MMPerInch / PixelsPerInch},
		{"pc", 12 * PtToMM},
		{"emu", 1 / EMUPerMM},
	} {
		if strings.HasSuffix(s, suf.s) {
			return ParseFloat(strings.TrimSuffix(s, suf.s)) * suf.mm
		}
	}
	return PixelsToMM(ParseFloat(s))
}

// ParseOnOff interprets an OOXML on/off attribute value. An empty value means
// "on" because the element's presence alone switches the property on.
func ParseOnOff(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
