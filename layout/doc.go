// Package layout projects parsed Word content onto the fixed-position
// editor model.
//
// Word text reflows; the editor places every component at an absolute
// position. The [Projector] bridges the two by simulating vertical flow: a
// cursor walks the element stream, each element advances it by an estimated
// height, and an explicit page break or an overflow of the usable page
// height seals the current page and starts the next one.
//
//	p := layout.NewProjector()
//	doc := p.Project(parsed)
//
// # Estimates
//
// Paragraph heights come from [EstimateParagraphHeightMM], which counts
// display cells (CJK runes count two) against a characters-per-line figure
// derived from the available width and font size. It is an approximation,
// not glyph metrics: the projected Y positions are a starting point for the
// editor and are not reproduced when the text later reflows. Table heights
// use a fixed per-row estimate ([EstimateTableHeightMM]); images, shapes and
// charts use their declared size.
//
// # Headers and footers
//
// Word header types map to editor template types: "default" to "default",
// "first" to "firstPage" and "even" to "compact". Header and footer
// components are positioned relative to the top of their band. A detected
// watermark becomes a low z-index component on every page.
package layout
