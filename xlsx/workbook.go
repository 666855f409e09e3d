// Package xlsx reads the cell values of spreadsheet packages. Word embeds
// workbooks for OLE objects and as the data source of charts; this package
// reads them well enough to preview their contents and resolve chart series
// references. Number formats, styles and formulas are not evaluated: cells
// carry the value Excel last cached.
package xlsx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// ErrNotWorkbook is returned for packages without a workbook part.
var ErrNotWorkbook = errors.New("xlsx: package has no workbook")

// CellType is the kind of value a cell holds.
type CellType int

const (
	CellEmpty CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellError
)

func (t CellType) String() string {
	switch t {
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellBoolean:
		return "boolean"
	case CellError:
		return "error"
	}
	return "empty"
}

// Cell is one non-empty worksheet cell.
type Cell struct {
	Col, Row int
	Type     CellType
	Value    string
	Formula  string
}

// Sheet is one worksheet. Cells are sparse.
type Sheet struct {
	Name   string
	Cells  map[[2]int]*Cell
	Merged []Range
	MaxCol int
	MaxRow int
}

// Cell returns the cell at the 0-indexed coordinates, or nil.
func (s *Sheet) Cell(col, row int) *Cell {
	return s.Cells[[2]int{col, row}]
}

// Value returns the text at the coordinates, "" for empty cells.
func (s *Sheet) Value(col, row int) string {
	if c := s.Cell(col, row); c != nil {
		return c.Value
	}
	return ""
}

// Values returns the cell texts of r in row-major order.
func (s *Sheet) Values(r Range) []string {
	out := make([]string, 0, r.Cells())
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			out = append(out, s.Value(col, row))
		}
	}
	return out
}

// Bounds returns the smallest range holding every non-empty cell, and false
// for an empty sheet.
func (s *Sheet) Bounds() (Range, bool) {
	first := true
	var b Range
	for k, c := range s.Cells {
		if c.Value == "" {
			continue
		}
		col, row := k[0], k[1]
		if first {
			b = Range{col, row, col, row}
			first = false
			continue
		}
		b.StartCol, b.EndCol = min(b.StartCol, col), max(b.EndCol, col)
		b.StartRow, b.EndRow = min(b.StartRow, row), max(b.EndRow, row)
	}
	return b, !first
}

// Rows returns the content of the sheet trimmed to Bounds, at most maxRows
// rows (no limit when maxRows <= 0).
func (s *Sheet) Rows(maxRows int) [][]string {
	b, ok := s.Bounds()
	if !ok {
		return nil
	}
	var out [][]string
	for row := b.StartRow; row <= b.EndRow; row++ {
		if maxRows > 0 && len(out) == maxRows {
			break
		}
		out = append(out, s.Values(Range{b.StartCol, row, b.EndCol, row}))
	}
	return out
}

// Workbook is a parsed spreadsheet package.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet called name, matched case-insensitively as Excel
// does, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// Lookup resolves a formula reference such as Sheet1!$B$2:$B$5. A
// reference without a sheet name reads the first sheet.
func (w *Workbook) Lookup(ref string) ([]string, error) {
	name, rng, err := SplitReference(ref)
	if err != nil {
		return nil, err
	}
	var s *Sheet
	switch {
	case name != "":
		s = w.Sheet(name)
	case len(w.Sheets) > 0:
		s = w.Sheets[0]
	}
	if s == nil {
		return nil, fmt.Errorf("xlsx: no sheet %q", name)
	}
	return s.Values(rng), nil
}

// FromBytes parses a workbook held in memory.
func FromBytes(data []byte) (*Workbook, error) {
	pkg, err := ooxml.FromBytes(data)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()
	return Read(pkg)
}

// Read parses the workbook of pkg. Sheets that cannot be read are left out;
// a workbook with no readable sheet is an error.
func Read(pkg *ooxml.Package) (*Workbook, error) {
	part := "xl/workbook.xml"
	for _, rel := range pkg.Relationships("").ByType(ooxml.RelOfficeDocument) {
		part = rel.TargetPath()
	}
	root, err := pkg.XML(part)
	if err != nil {
		if errors.Is(err, ooxml.ErrPartNotFound) {
			return nil, ErrNotWorkbook
		}
		return nil, fmt.Errorf("xlsx: workbook: %w", err)
	}
	if !root.Is("workbook") {
		return nil, ErrNotWorkbook
	}

	rels := pkg.Relationships(part)
	strs := sharedStrings(pkg, rels)

	wb := &Workbook{}
	for i, ref := range root.Child("sheets").Children("sheet") {
		target := rels.Target(ref.Attr("r:id"))
		if target == "" {
			target = "xl/worksheets/sheet" + strconv.Itoa(i+1) + ".xml"
		}
		ws, err := pkg.XML(target)
		if err != nil {
			continue
		}
		wb.Sheets = append(wb.Sheets, parseSheet(ref.Attr("name"), ws, strs))
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: no readable worksheets")
	}
	return wb, nil
}

// sharedStrings reads the shared string table. Rich text entries are the
// concatenation of their runs.
func sharedStrings(pkg *ooxml.Package, rels *ooxml.Rels) []string {
	part := "xl/sharedStrings.xml"
	for _, rel := range rels.ByType(ooxml.RelSharedStrings) {
		part = rel.TargetPath()
	}
	if !pkg.Has(part) {
		return nil
	}
	root, err := pkg.XML(part)
	if err != nil {
		return nil
	}
	items := root.Children("si")
	out := make([]string, len(items))
	for i, si := range items {
		if t := si.Child("t"); t != nil {
			out[i] = t.Text()
			continue
		}
		out[i] = si.InnerText("t")
	}
	return out
}

func parseSheet(name string, ws *ooxml.Node, strs []string) *Sheet {
	s := &Sheet{Name: name, Cells: make(map[[2]int]*Cell)}

	for _, mc := range ws.Child("mergeCells").Children("mergeCell") {
		if r, err := ParseRange(mc.Attr("ref")); err == nil {
			s.Merged = append(s.Merged, r)
		}
	}

	for ri, row := range ws.Child("sheetData").Children("row") {
		rowIdx := ri
		if n, err := strconv.Atoi(row.Attr("r")); err == nil && n > 0 {
			rowIdx = n - 1
		}
		nextCol := 0
		for _, c := range row.Children("c") {
			col, r := nextCol, rowIdx
			if ref := c.Attr("r"); ref != "" {
				if pc, pr, err := ParseCellRef(ref); err == nil {
					col, r = pc, pr
				}
			}
			nextCol = col + 1

			cell := parseCell(c, strs)
			if cell.Type == CellEmpty && cell.Formula == "" {
				continue
			}
			cell.Col, cell.Row = col, r
			s.Cells[[2]int{col, r}] = cell
			s.MaxCol = max(s.MaxCol, col)
			s.MaxRow = max(s.MaxRow, r)
		}
	}
	return s
}

func parseCell(c *ooxml.Node, strs []string) *Cell {
	v := c.Child("v").Text()
	cell := &Cell{Formula: c.Child("f").Text()}

	switch c.Attr("t") {
	case "s":
		cell.Type = CellString
		if idx, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && idx >= 0 && idx < len(strs) {
			cell.Value = strs[idx]
		}
	case "inlineStr":
		cell.Type = CellString
		cell.Value = c.Child("is").InnerText("t")
	case "str":
		cell.Type = CellString
		cell.Value = v
	case "b":
		cell.Type = CellBoolean
		cell.Value = "FALSE"
		if strings.TrimSpace(v) == "1" {
			cell.Value = "TRUE"
		}
	case "e":
		cell.Type = CellError
		cell.Value = v
	default:
		if v != "" {
			cell.Type = CellNumber
			cell.Value = v
		}
	}
	return cell
}
