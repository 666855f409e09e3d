package xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// maxColumns is the widest sheet Excel allows (XFD).
const maxColumns = 16384

// ParseCellRef parses "B3" or "$B$3" into 0-indexed column and row.
func ParseCellRef(ref string) (col, row int, err error) {
	s := strings.ReplaceAll(ref, "$", "")
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	switch {
	case s == "":
		return 0, 0, fmt.Errorf("empty cell reference")
	case i == 0:
		return 0, 0, fmt.Errorf("cell reference %q: no column letters", ref)
	case i == len(s):
		return 0, 0, fmt.Errorf("cell reference %q: no row number", ref)
	}

	col = ColumnToIndex(s[:i])
	if col < 0 || col >= maxColumns {
		return 0, 0, fmt.Errorf("cell reference %q: bad column", ref)
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("cell reference %q: bad row", ref)
	}
	return col, n - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column: A is 0,
// Z is 25, AA is 26. It returns -1 for anything but letters.
func ColumnToIndex(letters string) int {
	if letters == "" {
		return -1
	}
	n := 0
	for _, c := range strings.ToUpper(letters) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1
}

// IndexToColumn is the inverse of ColumnToIndex.
func IndexToColumn(index int) string {
	if index < 0 {
		return ""
	}
	var buf []byte
	for index++; index > 0; index /= 26 {
		index--
		buf = append([]byte{byte('A' + index%26)}, buf...)
	}
	return string(buf)
}

// CellRef formats 0-indexed coordinates as "B3".
func CellRef(col, row int) string {
	return IndexToColumn(col) + strconv.Itoa(row+1)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Range is an inclusive rectangle of cells, 0-indexed.
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// Cells returns the number of cells in the range.
func (r Range) Cells() int {
	return (r.EndCol - r.StartCol + 1) * (r.EndRow - r.StartRow + 1)
}

// ParseRange parses "A1:D10" or a single cell "B2". The corners may be
// given in any order.
func ParseRange(ref string) (Range, error) {
	first, last, ok := strings.Cut(ref, ":")
	if !ok {
		last = first
	}
	c1, r1, err := ParseCellRef(first)
	if err != nil {
		return Range{}, err
	}
	c2, r2, err := ParseCellRef(last)
	if err != nil {
		return Range{}, err
	}
	return Range{
		StartCol: min(c1, c2), StartRow: min(r1, r2),
		EndCol: max(c1, c2), EndRow: max(r1, r2),
	}, nil
}

// SplitReference splits a formula reference such as Sheet1!$B$2:$B$5 or
// 'Q1 Sales'!A1:A4 into its sheet name and range. A reference without a
// sheet returns an empty name.
func SplitReference(ref string) (sheet string, rng Range, err error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "=")
	if i := strings.LastIndexByte(ref, '!'); i >= 0 {
		sheet = ref[:i]
		ref = ref[i+1:]
		if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
			sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
		}
	}
	rng, err = ParseRange(ref)
	return sheet, rng, err
}
