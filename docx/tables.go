package docx

import (
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// ToText returns a plain text representation of the table.
func (t *Table) ToText() string {
	var sb strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strings.ReplaceAll(row.Cells[j].Text(), "\n", " "))
		}
	}
	return sb.String()
}

// ToMarkdown returns a markdown table representation. The first row is
// treated as the header.
func (t *Table) ToMarkdown() string {
	colCount := t.ColCount()
	if colCount == 0 {
		return ""
	}

	var sb strings.Builder
	for rowIdx, row := range t.Rows {
		sb.WriteString("|")
		colIdx := row.gridBefore
		for i := 0; i < row.gridBefore; i++ {
			sb.WriteString(" |")
		}
		for i := range row.Cells {
			cell := &row.Cells[i]
			text := ""
			if !cell.IsMergedContinuation {
				text = strings.ReplaceAll(cell.Text(), "\n", " ")
				text = strings.TrimSpace(strings.ReplaceAll(text, "|", "\\|"))
			}
			sb.WriteString(" " + text + " |")
			colIdx += span(cell.ColSpan)
		}
		for ; colIdx < colCount; colIdx++ {
			sb.WriteString(" |")
		}
		sb.WriteString("\n")

		if rowIdx == 0 {
			sb.WriteString("|")
			for i := 0; i < colCount; i++ {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ColCount returns the number of grid columns the table uses.
func (t *Table) ColCount() int {
	count := len(t.ColumnWidthsMM)
	for _, row := range t.Rows {
		n := row.gridBefore
		for _, cell := range row.Cells {
			n += span(cell.ColSpan)
		}
		if n > count {
			count = n
		}
	}
	return count
}

func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// parseTable converts a w:tbl, including nested tables in its cells.
func (c *converter) parseTable(pc *partContext, tbl *ooxml.Node) *Table {
	tblPr := tbl.Child("tblPr")
	t := &Table{StyleID: tblPr.Val("tblStyle")}

	_, styleBorders := c.styles.TableStyle(t.StyleID)
	t.Borders = styleBorders
	if b := tblPr.Child("tblBorders"); b != nil {
		t.Borders = mergeBorders(t.Borders, parseBorders(b, c.theme))
	}

	if w := tblPr.Child("tblW"); w != nil {
		t.WidthMM, t.WidthPercent = parseWidth(w)
	}
	if jc := tblPr.Val("jc"); jc != "" {
		t.Alignment = units.Justification(jc)
	}
	if ind := tblPr.Child("tblInd"); ind != nil && ind.Attr("type") != "pct" {
		t.IndentMM = units.ParseTwips(ind.Attr("w"))
	}
	t.CellMarginsMM = [4]float64{0, units.TwipsToMM(108), 0, units.TwipsToMM(108)}
	if mar := tblPr.Child("tblCellMar"); mar != nil {
		for i, names := range [][]string{{"top"}, {"right", "end"}, {"bottom"}, {"left", "start"}} {
			if m := firstChild(mar, names...); m != nil && m.Attr("type") != "pct" {
				t.CellMarginsMM[i] = units.ParseTwips(m.Attr("w"))
			}
		}
	}

	t.ColumnWidthsMM = parseTableGrid(tbl.Child("tblGrid"))

	for _, tr := range tableRows(tbl) {
		t.Rows = append(t.Rows, c.parseRow(pc, tr))
	}
	processVerticalMerges(t)

	if t.WidthMM == 0 {
		for _, w := range t.ColumnWidthsMM {
			t.WidthMM += w
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i].Cells {
			cell := &t.Rows[i].Cells[j]
			if cell.WidthMM == 0 && cell.widthPct > 0 {
				cell.WidthMM = t.WidthMM * cell.widthPct / 100
			}
		}
	}
	return t
}

// parseTableGrid extracts column widths from the table grid.
func parseTableGrid(grid *ooxml.Node) []float64 {
	cols := grid.Children("gridCol")
	widths := make([]float64, len(cols))
	for i, col := range cols {
		widths[i] = units.ParseTwips(col.Attr("w"))
	}
	return widths
}

// tableRows returns the w:tr elements of tbl, looking through row-level
// content controls and custom XML wrappers.
func tableRows(tbl *ooxml.Node) []*ooxml.Node {
	return unwrap(tbl, "w:tr")
}

// unwrap returns the children of parent named name, descending into w:sdt
// content and w:customXml wrappers.
func unwrap(parent *ooxml.Node, name string) []*ooxml.Node {
	var out []*ooxml.Node
	for _, n := range parent.Elements() {
		switch {
		case n.Is(name):
			out = append(out, n)
		case n.Is("w:sdt"):
			out = append(out, unwrap(n.Child("sdtContent"), name)...)
		case n.Is("w:customXml"), n.Is("w:ins"), n.Is("w:moveTo"):
			out = append(out, unwrap(n, name)...)
		}
	}
	return out
}

// parseRow parses a table row.
func (c *converter) parseRow(pc *partContext, tr *ooxml.Node) TableRow {
	trPr := tr.Child("trPr")
	row := TableRow{
		IsHeader:   onOff(trPr.Child("tblHeader")),
		gridBefore: units.ParseInt(trPr.Val("gridBefore"), 0),
	}
	if h := trPr.Child("trHeight"); h != nil {
		row.HeightMM = units.ParseTwips(h.Attr("val"))
		row.HeightRule = h.Attr("hRule")
		if row.HeightRule == "" {
			row.HeightRule = "atLeast"
		}
	}

	for _, tc := range unwrap(tr, "w:tc") {
		row.Cells = append(row.Cells, c.parseCell(pc, tc))
	}
	return row
}

// parseCell parses a table cell.
func (c *converter) parseCell(pc *partContext, tc *ooxml.Node) TableCell {
	tcPr := tc.Child("tcPr")
	cell := TableCell{
		ColSpan:       1,
		RowSpan:       1,
		VerticalAlign: "top",
	}

	if s := units.ParseInt(tcPr.Val("gridSpan"), 1); s > 1 {
		cell.ColSpan = s
	}
	if vm := tcPr.Child("vMerge"); vm != nil {
		// An empty val continues the merge above.
		cell.vMerge = vm.Attr("val")
		if cell.vMerge == "" {
			cell.vMerge = "continue"
		}
		cell.IsMergedContinuation = cell.vMerge == "continue"
	}
	if w := tcPr.Child("tcW"); w != nil {
		cell.WidthMM, cell.widthPct = parseWidth(w)
	}
	if va := tcPr.Val("vAlign"); va != "" {
		cell.VerticalAlign = units.VerticalAlign(va)
	}
	if shd := tcPr.Child("shd"); shd != nil {
		cell.Background = shadingFill(shd, c.theme)
	}
	if b := tcPr.Child("tcBorders"); b != nil {
		cell.Borders = parseBorders(b, c.theme)
	}

	for _, el := range c.walkBlocks(pc, tc) {
		switch el.Type {
		case ElementParagraph:
			cell.Paragraphs = append(cell.Paragraphs, el.Paragraph)
		case ElementTable:
			cell.Tables = append(cell.Tables, el.Table)
		}
	}
	return cell
}

// processVerticalMerges computes row spans: each "restart" cell spans the
// continuation cells below it in the same grid column.
func processVerticalMerges(t *Table) {
	for rowIdx := range t.Rows {
		colIdx := t.Rows[rowIdx].gridBefore
		for cellIdx := range t.Rows[rowIdx].Cells {
			cell := &t.Rows[rowIdx].Cells[cellIdx]
			if cell.vMerge == "restart" {
				for below := rowIdx + 1; below < len(t.Rows); below++ {
					i := findCellAtColumn(t.Rows[below], colIdx)
					if i < 0 || t.Rows[below].Cells[i].vMerge != "continue" {
						break
					}
					cell.RowSpan++
				}
			}
			colIdx += span(cell.ColSpan)
		}
	}
}

// findCellAtColumn finds the index of the cell starting at grid column
// targetCol, or -1.
func findCellAtColumn(row TableRow, targetCol int) int {
	col := row.gridBefore
	for i, cell := range row.Cells {
		if col == targetCol {
			return i
		}
		col += span(cell.ColSpan)
		if col > targetCol {
			return -1
		}
	}
	return -1
}

// parseWidth reads a tblW/tcW style width. Twips widths return
// millimeters; pct widths return a percentage; auto widths return zeros.
func parseWidth(w *ooxml.Node) (mm, pct float64) {
	value := w.Attr("w")
	switch w.Attr("type") {
	case "pct":
		pct, _ = units.ParsePercent(value)
		return 0, pct
	case "auto", "nil":
		return 0, 0
	default:
		if strings.HasSuffix(value, "%") {
			pct, _ = units.ParsePercent(value)
			return 0, pct
		}
		return units.ParseTwips(value), 0
	}
}
