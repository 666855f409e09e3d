// Package model is the fixed-position editor representation of an imported
// document.
//
// A [Document] holds pages of absolutely positioned [Component] values. All
// coordinates are millimeters measured from the top-left corner of the page.
// Components carry a typed property bag whose keys are the Prop* constants;
// structured values use the types of this package ([TextSpan], [TableData],
// [ChartData], ...) so that the document marshals to JSON directly.
//
//	doc := model.NewDocument(model.A4())
//	page := model.NewPage(210, 297)
//	page.AddComponent(model.NewComponent(id, model.ComponentText))
//	doc.AddPage(page)
//
// Headers and footers are stored per template type ("default", "firstPage",
// "compact"); a page may override them for itself.
package model
