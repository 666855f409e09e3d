package layout

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// defaultCharWidth is the average glyph advance in ems used by the package
// level estimates.
const defaultCharWidth = 0.5

// CharsPerLine estimates how many average-width characters of fontSizePt
// fit in widthMM. It is never less than 1.
func CharsPerLine(widthMM, fontSizePt float64) int {
	return charsPerLine(widthMM, fontSizePt, defaultCharWidth)
}

func charsPerLine(widthMM, fontSizePt, charWidth float64) int {
	if widthMM <= 0 || fontSizePt <= 0 {
		return 1
	}
	advance := units.PointsToMM(fontSizePt) * charWidth
	return max(int(widthMM/advance), 1)
}

// EstimateLines estimates the number of lines text occupies at perLine
// display cells per line. Explicit line breaks start new lines; empty text
// is one line.
func EstimateLines(text string, perLine int) int {
	if perLine < 1 {
		perLine = 1
	}
	lines := 0
	for _, seg := range strings.Split(text, "\n") {
		w := runewidth.StringWidth(seg)
		lines += max(int(math.Ceil(float64(w)/float64(perLine))), 1)
	}
	return lines
}

// EstimateParagraphHeightMM estimates the height of text set at fontSizePt
// in a column widthMM wide:
//
//	ceil(displayWidth / charsPerLine) * lineHeightFactor * fontSize
//
// This is an estimate from character counts, not from glyph metrics.
func EstimateParagraphHeightMM(text string, fontSizePt, widthMM, lineHeightFactor float64) float64 {
	lines := EstimateLines(text, CharsPerLine(widthMM, fontSizePt))
	return float64(lines) * lineHeightFactor * units.PointsToMM(fontSizePt)
}

// EstimateTableHeightMM estimates a table's height. Each row is the larger
// of its declared height and rowHeightMM times the most paragraphs in any of
// its cells. It returns the per-row heights and their sum.
func EstimateTableHeightMM(t *docx.Table, rowHeightMM float64) ([]float64, float64) {
	if t == nil {
		return nil, 0
	}
	heights := make([]float64, len(t.Rows))
	var total float64
	for i, row := range t.Rows {
		lines := 1
		for _, cell := range row.Cells {
			lines = max(lines, len(cell.Paragraphs)+len(cell.Tables))
		}
		h := rowHeightMM * float64(lines)
		if row.HeightRule == "exact" && row.HeightMM > 0 {
			h = row.HeightMM
		} else {
			h = math.Max(h, row.HeightMM)
		}
		heights[i] = h
		total += h
	}
	return heights, total
}

// lineHeightMM returns the height of one line of a paragraph set at
// fontSizePt, honouring the paragraph's line spacing rule.
func lineHeightMM(style docx.ParagraphStyle, fontSizePt, factor float64) float64 {
	single := units.PointsToMM(fontSizePt) * factor
	switch style.LineRule {
	case "exact":
		if style.LineSpacing > 0 {
			return units.PointsToMM(style.LineSpacing)
		}
	case "atLeast":
		return math.Max(single, units.PointsToMM(style.LineSpacing))
	default:
		if style.LineSpacing > 0 {
			return single * style.LineSpacing
		}
	}
	return single
}
