// Package units provides the measurement and style primitives shared by the
// DOCX importer and the editor projector.
//
// OOXML mixes several linear units: twips (1/20 pt) for page and paragraph
// geometry, EMUs (914400 per inch) for drawings, half-points for font sizes and
// eighth-points for border widths. Everything the importer emits is expressed in
// millimeters (geometry) or points (font sizes), so every conversion goes
// through the helpers in this package.
//
// # Colors
//
// [ResolveColor] applies the fixed precedence used for every color-bearing
// property:
//
//	explicit RGB hex → theme slot → system color → named color → black
//
// [NormalizeColor] turns any single color token into the canonical "#RRGGBB"
// form, or "" when the token means "automatic".
package units
