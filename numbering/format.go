package numbering

import (
	"strconv"
	"strings"
)

// bulletRemap maps private-use Symbol/Wingdings bullets Word writes into
// lvlText onto renderable Unicode glyphs.
var bulletRemap = map[string]string{
	"\uf0b7": "•",
	"\uf0a7": "▪",
	"\uf0d8": "➢",
	"\uf0fc": "✓",
	"o":      "◦",
	"\uf06f": "◦",
	"\uf076": "❖",
	"\uf071": "□",
	"\uf0a1": "○",
	"\uf06e": "■",
	"\u00b7": "•",
}

// levelBullets are used when lvlText is empty or not renderable.
var levelBullets = []string{"•", "◦", "▪", "•", "◦", "▪", "•", "◦", "▪"}

// FormatMarker renders the marker text for level of def using the counters
// in state. Bullet levels return a glyph; numbered levels substitute every
// %N in the level text with the counter of level N-1.
func FormatMarker(def *Definition, level int, state *State) string {
	level = clampLevel(level)
	li := EffectiveLevel(def, level)
	if li.IsBullet() {
		return BulletGlyph(li.LevelText, level)
	}

	pattern := li.LevelText
	if pattern == "" && li.Format != "none" {
		pattern = "%" + strconv.Itoa(level+1) + "."
	}

	numID := ""
	if def != nil {
		numID = def.NumID
	}

	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 >= len(pattern) || pattern[i+1] < '1' || pattern[i+1] > '9' {
			sb.WriteByte(c)
			continue
		}
		ref := int(pattern[i+1] - '1')
		i++

		value, ok := 0, false
		if state != nil {
			value, ok = state.Counter(numID, ref)
		}
		if !ok {
			value = StartValue(def, ref)
		}

		format := EffectiveLevel(def, ref).Format
		if ref == level {
			format = li.Format
		}
		if li.IsLegal || format == "bullet" {
			format = "decimal"
		}
		sb.WriteString(FormatNumber(value, format))
	}
	return sb.String()
}

// BulletGlyph returns a renderable glyph for a bullet level's text.
func BulletGlyph(text string, level int) string {
	if g, ok := bulletRemap[text]; ok {
		return g
	}
	if text != "" && !strings.Contains(text, "%") && isRenderableBullet(text) {
		return text
	}
	return levelBullets[clampLevel(level)]
}

// isRenderableBullet rejects private-use and control characters, which
// need a Symbol or Wingdings font to display.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}

// FormatNumber renders n in the given numFmt. Unknown formats render as
// decimal.
func FormatNumber(n int, format string) string {
	switch format {
	case "decimal", "":
		return strconv.Itoa(n)
	case "decimalZero":
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	case "upperRoman":
		return ToRoman(n, true)
	case "lowerRoman":
		return ToRoman(n, false)
	case "upperLetter":
		return ToLetters(n, true)
	case "lowerLetter":
		return ToLetters(n, false)
	case "ordinal":
		return strconv.Itoa(n) + ordinalSuffix(n)
	case "cardinalText":
		return cardinalText(n)
	case "none":
		return ""
	case "bullet":
		return "•"
	default:
		return strconv.Itoa(n)
	}
}

// ToLetters converts n to a bijective base-26 letter sequence: 1→a, 26→z,
// 27→aa, 52→az, 53→ba. Values below 1 fall back to decimal.
func ToLetters(n int, upper bool) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	base := byte('a')
	if upper {
		base = 'A'
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, base+byte(n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman converts n to a Roman numeral. Values outside 1..3999 fall back to
// decimal.
func ToRoman(n int, upper bool) string {
	if n <= 0 || n > 3999 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	if upper {
		return sb.String()
	}
	return strings.ToLower(sb.String())
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

var (
	ones = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// cardinalText spells out 0..99 in English; larger values stay decimal.
func cardinalText(n int) string {
	if n < 0 || n > 99 {
		return strconv.Itoa(n)
	}
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + "-" + ones[n%10]
}
