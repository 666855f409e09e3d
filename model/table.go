package model

import (
	"fmt"
	"strings"
)

// TableData is the payload of a table component.
type TableData struct {
	Rows           []TableRow `json:"rows"`
	ColumnWidthsMM []float64  `json:"columnWidths"`
	BorderColor    string     `json:"borderColor,omitempty"`
	BorderWidthPt  float64    `json:"borderWidth,omitempty"`
}

// TableRow is a table row.
type TableRow struct {
	Cells    []TableCell `json:"cells"`
	HeightMM float64     `json:"height"`
	IsHeader bool        `json:"isHeader,omitempty"`
}

// TableCell is a table cell. Cells covered by a vertical merge are kept
// with Merged set so that column positions stay aligned.
type TableCell struct {
	Text          string     `json:"text"`
	Runs          []TextSpan `json:"runs,omitempty"`
	ColSpan       int        `json:"colSpan"`
	RowSpan       int        `json:"rowSpan"`
	Merged        bool       `json:"merged,omitempty"`
	WidthMM       float64    `json:"width,omitempty"`
	Background    string     `json:"background,omitempty"`
	VerticalAlign string     `json:"verticalAlign,omitempty"`
	Alignment     string     `json:"alignment,omitempty"`
}

// NewTable creates a table with rows×cols empty cells.
func NewTable(rows, cols int) *TableData {
	t := &TableData{Rows: make([]TableRow, rows)}
	for i := range t.Rows {
		t.Rows[i].Cells = make([]TableCell, cols)
		for j := range t.Rows[i].Cells {
			t.Rows[i].Cells[j] = TableCell{RowSpan: 1, ColSpan: 1}
		}
	}
	return t
}

// RowCount returns the number of rows
func (t *TableData) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of grid columns: the declared column widths,
// or the widest row counting spans.
func (t *TableData) ColCount() int {
	n := len(t.ColumnWidthsMM)
	for _, row := range t.Rows {
		cols := 0
		for _, c := range row.Cells {
			cols += max(c.ColSpan, 1)
		}
		n = max(n, cols)
	}
	return n
}

// Cell returns the cell at row and cell index (0-indexed), or nil.
func (t *TableData) Cell(row, col int) *TableCell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	return &t.Rows[row].Cells[col]
}

// SetCell sets the cell at the given position
func (t *TableData) SetCell(row, col int, cell TableCell) error {
	if t.Cell(row, col) == nil {
		return fmt.Errorf("cell %d,%d out of bounds", row, col)
	}
	t.Rows[row].Cells[col] = cell
	return nil
}

// HeightMM returns the sum of the row heights.
func (t *TableData) HeightMM() float64 {
	var h float64
	for _, r := range t.Rows {
		h += r.HeightMM
	}
	return h
}

// Text returns the cell text, tab-separated per row.
func (t *TableData) Text() string {
	var sb strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			if !cell.Merged {
				sb.WriteString(cell.Text)
			}
		}
	}
	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *TableData) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			text := cell.Text
			if cell.Merged {
				text = ""
			}
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row.Cells)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
